package types

import (
	"github.com/shopspring/decimal"
)

// decimalType is the top of the numeric promotion lattice. Grounded on the
// teacher's sql/types/decimal.go, which backs its DecimalType the same
// way with github.com/shopspring/decimal.
type decimalType struct{}

// Decimal is the sole instance of the Decimal type.
var Decimal Type = decimalType{}

func (decimalType) Name() string   { return decimalTypeName }
func (decimalType) String() string { return decimalTypeName }
func (decimalType) Equals(o Type) bool {
	_, ok := o.(decimalType)
	return ok
}
func (decimalType) Zero() interface{} { return decimal.Zero }

func (decimalType) Convert(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, ErrCastFailed.New(v, v, decimalTypeName)
		}
		return d, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return nil, ErrCastFailed.New(v, v, decimalTypeName)
	}
}

func (decimalType) Compare(a, b interface{}) (int, error) {
	ad, ok := a.(decimal.Decimal)
	if !ok {
		return 0, ErrCastFailed.New(a, a, decimalTypeName)
	}
	bd, ok := b.(decimal.Decimal)
	if !ok {
		return 0, ErrCastFailed.New(b, b, decimalTypeName)
	}
	return ad.Cmp(bd), nil
}
