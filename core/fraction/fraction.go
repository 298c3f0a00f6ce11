// Package fraction implements a fixed-point number with a signed 64-bit integer
// part and a fractional part counted in thousandths.
//
// The numeric value of a Fraction is always IntegerPart + FractionalPart/1000,
// so Fraction(-2, 500) is -1.5 while it prints as "-2.500". Arithmetic is done
// on exact decimals and converted back by truncating the integer part toward
// zero and rounding the absolute remainder half-to-even to thousandths.
package fraction

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxFractional - максимальное значение дробной части (тысячные)
	MaxFractional = 999

	scale = 3
)

// Fraction - число с целой частью и дробной частью в тысячных.
// Нулевое значение равно 0.000 и готово к использованию.
type Fraction struct {
	integerPart    int64
	fractionalPart uint16
}

// New - создание дроби с проверкой дробной части
func New(integer int64, fractional uint16) (Fraction, error) {
	if fractional > MaxFractional {
		return Fraction{}, &ValidationError{
			Field: "fractional",
			Value: fmt.Sprint(fractional),
			Msg:   msgFractionalRange,
		}
	}
	return Fraction{integerPart: integer, fractionalPart: fractional}, nil
}

// MustNew is like New but panics on an out-of-range fractional part.
func MustNew(integer int64, fractional uint16) Fraction {
	f, err := New(integer, fractional)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Fraction) IntegerPart() int64 {
	return f.integerPart
}

func (f Fraction) FractionalPart() uint16 {
	return f.fractionalPart
}

// SetIntegerPart - изменение целой части
func (f *Fraction) SetIntegerPart(v int64) {
	f.integerPart = v
}

// SetFractionalPart - изменение дробной части; значение вне [0, 999] отклоняется,
// дробь при этом не меняется
func (f *Fraction) SetFractionalPart(v uint16) error {
	if v > MaxFractional {
		return &ValidationError{Field: "fractional", Value: fmt.Sprint(v), Msg: msgFractionalRange}
	}
	f.fractionalPart = v
	return nil
}

// Decimal - точное десятичное значение integer + fractional/1000
func (f Fraction) Decimal() decimal.Decimal {
	return decimal.NewFromInt(f.integerPart).Add(decimal.New(int64(f.fractionalPart), -scale))
}

// String форматирует дробь как "целая.ддд"
func (f Fraction) String() string {
	return fmt.Sprintf("%d.%03d", f.integerPart, f.fractionalPart)
}
