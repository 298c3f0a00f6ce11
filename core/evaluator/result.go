package evaluator

import (
	"fmt"
	"strings"

	"fraccalc/core/fraction"
)

// Kind - вид результата вычисления
type Kind int

const (
	KindValue      Kind = iota // одиночный операнд
	KindArithmetic             // a + b, a - b, a * b
	KindPredicate              // a < b и т.п.
	KindComparison             // compare a b
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindArithmetic:
		return "arithmetic"
	case KindPredicate:
		return "predicate"
	case KindComparison:
		return "comparison"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Result struct {
	Kind       Kind
	Operator   string
	Left       fraction.Fraction
	Right      fraction.Fraction
	Value      fraction.Fraction
	Truth      bool
	Comparison *Comparison
}

// Expression - нормализованная запись вычисленного выражения
func (r Result) Expression() string {
	switch r.Kind {
	case KindArithmetic, KindPredicate:
		return fmt.Sprintf("%s %s %s", r.Left, r.Operator, r.Right)
	case KindComparison:
		return fmt.Sprintf("%s %s %s", CompareKeyword, r.Left, r.Right)
	}
	return r.Value.String()
}

// String - текст результата: "2.500 + 1.750 = 4.250", "1.000 < 2.000: Истина"
func (r Result) String() string {
	switch r.Kind {
	case KindArithmetic:
		return fmt.Sprintf("%s = %s", r.Expression(), r.Value)
	case KindPredicate:
		return fmt.Sprintf("%s: %s", r.Expression(), truthWord(r.Truth))
	case KindComparison:
		return r.Comparison.String()
	}
	return r.Value.String()
}

// Label - текст для панели результата
func (r Result) Label() string {
	if r.Kind == KindComparison {
		return r.String()
	}
	return "Результат: " + r.String()
}

// Comparison - результаты всех шести сравнений двух дробей
type Comparison struct {
	Left           fraction.Fraction `json:"left"`
	Right          fraction.Fraction `json:"right"`
	Equal          bool              `json:"equal"`
	NotEqual       bool              `json:"not_equal"`
	Less           bool              `json:"less"`
	Greater        bool              `json:"greater"`
	LessOrEqual    bool              `json:"less_or_equal"`
	GreaterOrEqual bool              `json:"greater_or_equal"`
}

func (c Comparison) String() string {
	var b strings.Builder
	b.WriteString("Сравнение:")
	rows := []struct {
		op    string
		truth bool
	}{
		{"==", c.Equal},
		{"!=", c.NotEqual},
		{"<", c.Less},
		{">", c.Greater},
		{"<=", c.LessOrEqual},
		{">=", c.GreaterOrEqual},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "\nf1 %s f2: %s", row.op, truthWord(row.truth))
	}
	return b.String()
}

func truthWord(v bool) string {
	if v {
		return "Истина"
	}
	return "Ложь"
}
