package analyzer

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/rule"
	"github.com/relcore/queryengine/sql/transform"
)

// relationCache memoizes sql.Catalog.LookupRelation by name, the way the
// teacher's catalog layer leans on golang-lru to avoid re-resolving the
// same table on every reference within a query (§4.5 step 2).
type relationCache struct {
	cache *lru.Cache
	cat   sql.Catalog
}

func newRelationCache(cat sql.Catalog, size int) *relationCache {
	c, _ := lru.New(size)
	return &relationCache{cache: c, cat: cat}
}

func (r *relationCache) lookup(ctx *sql.Context, name string) (*sql.RelationInfo, error) {
	if v, ok := r.cache.Get(name); ok {
		return v.(*sql.RelationInfo), nil
	}
	info, err := r.cat.LookupRelation(ctx, name)
	if err != nil {
		return nil, err
	}
	r.cache.Add(name, info)
	return info, nil
}

// resolveRelationsRule replaces every UnresolvedRelation leaf with a
// resolved Relation carrying freshly minted AttributeReferences, looked
// up (and memoized) from the catalog.
func resolveRelationsRule(cache *relationCache) rule.Func {
	return func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
		result, _, err := transform.NodeDown(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
			ur, ok := node.(*plan.UnresolvedRelation)
			if !ok {
				return node, transform.SameTree, nil
			}
			info, err := cache.lookup(ctx, ur.Name())
			if err != nil {
				return nil, transform.SameTree, err
			}
			rel := plan.NewRelation(info.Name, info.Schema, info.Handle).WithPartitionKeys(info.PartitionKeys)
			return rel, transform.NewTree, nil
		})
		return result, err
	}
}
