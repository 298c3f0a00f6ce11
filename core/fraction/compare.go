package fraction

import "github.com/shopspring/decimal"

// epsilon - допуск для Equal
var epsilon = decimal.New(1, -4)

// Equal reports whether f and g differ by less than 0.0001.
// Unlike the ordering methods it is tolerance based.
func (f Fraction) Equal(g Fraction) bool {
	return f.Decimal().Sub(g.Decimal()).Abs().LessThan(epsilon)
}

func (f Fraction) NotEqual(g Fraction) bool {
	return !f.Equal(g)
}

func (f Fraction) Less(g Fraction) bool {
	return f.Decimal().LessThan(g.Decimal())
}

func (f Fraction) Greater(g Fraction) bool {
	return f.Decimal().GreaterThan(g.Decimal())
}

func (f Fraction) LessOrEqual(g Fraction) bool {
	return f.Decimal().LessThanOrEqual(g.Decimal())
}

func (f Fraction) GreaterOrEqual(g Fraction) bool {
	return f.Decimal().GreaterThanOrEqual(g.Decimal())
}

// Compare returns -1, 0 or +1 comparing the exact decimal values.
func (f Fraction) Compare(g Fraction) int {
	return f.Decimal().Cmp(g.Decimal())
}
