package memcatalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

func TestLookupRelationReturnsSchemaAndHandle(t *testing.T) {
	table := NewTable("t", sql.Schema{{Name: "id", Type: types.Integer, Nullable: false}}, sql.NewRow(int64(1)))
	cat := NewCatalog(table)

	info, err := cat.LookupRelation(sql.NewEmptyContext(), "t")
	require.NoError(t, err)
	require.Equal(t, "t", info.Name)
	require.Same(t, table, info.Handle.(*Table))
}

func TestLookupRelationMissingFails(t *testing.T) {
	cat := NewCatalog()
	_, err := cat.LookupRelation(sql.NewEmptyContext(), "missing")
	require.Error(t, err)
	require.True(t, sql.ErrRelationNotFound.Is(err))
}

func TestResolveFunctionUpperWithoutArgsFails(t *testing.T) {
	reg := NewRegistry()
	f, err := reg.ResolveFunction(sql.NewEmptyContext(), "upper", nil)
	require.Error(t, err)
	require.Nil(t, f)
}

func TestResolveFunctionUnknownFails(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.ResolveFunction(sql.NewEmptyContext(), "nope", nil)
	require.Error(t, err)
	require.True(t, sql.ErrFunctionNotFound.Is(err))
}
