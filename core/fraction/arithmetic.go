package fraction

import (
	"math"

	"github.com/shopspring/decimal"
)

// Op - арифметическая операция над дробями
type Op string

const (
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpMultiply Op = "multiply"
)

// Symbol - знак операции для вывода ("+", "-", "*")
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	}
	return string(op)
}

func (op Op) genitive() string {
	switch op {
	case OpAdd:
		return "сложения"
	case OpSubtract:
		return "вычитания"
	case OpMultiply:
		return "умножения"
	}
	return "операции"
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Add - сумма двух дробей
func (f Fraction) Add(g Fraction) (Fraction, error) {
	return fromDecimal(OpAdd, f.Decimal().Add(g.Decimal()))
}

// Sub - разность двух дробей
func (f Fraction) Sub(g Fraction) (Fraction, error) {
	return fromDecimal(OpSubtract, f.Decimal().Sub(g.Decimal()))
}

// Mul - произведение двух дробей
func (f Fraction) Mul(g Fraction) (Fraction, error) {
	return fromDecimal(OpMultiply, f.Decimal().Mul(g.Decimal()))
}

// Apply - выполнение операции по её имени
func Apply(op Op, a, b Fraction) (Fraction, error) {
	switch op {
	case OpAdd:
		return a.Add(b)
	case OpSubtract:
		return a.Sub(b)
	case OpMultiply:
		return a.Mul(b)
	}
	return Fraction{}, &ValidationError{Field: "op", Value: string(op), Msg: "неизвестная операция"}
}

// fromDecimal - обратное преобразование результата в дробь.
// Целая часть отбрасывает дробную к нулю, дробная часть - модуль остатка,
// округлённый до тысячных (банковское округление) и ограниченный 999.
// Знак результата из интервала (-1, 0) при этом теряется.
func fromDecimal(op Op, d decimal.Decimal) (Fraction, error) {
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return Fraction{}, &OverflowError{Op: op}
	}

	whole := d.Truncate(0)
	fractional := d.Sub(whole).Abs().Shift(scale).RoundBank(0).IntPart()
	if fractional > MaxFractional {
		fractional = MaxFractional
	}

	return New(whole.IntPart(), uint16(fractional))
}
