package fraction

import (
	"sort"
	"testing"
)

func TestEqualIsTolerant(t *testing.T) {
	if !MustNew(1, 0).Equal(MustNew(1, 0)) {
		t.Error("Expected 1.000 == 1.000")
	}
	if MustNew(1, 0).NotEqual(MustNew(1, 0)) {
		t.Error("Expected !(1.000 != 1.000)")
	}
	if MustNew(1, 0).Equal(MustNew(1, 1)) {
		t.Error("Expected 1.000 != 1.001, thousandths are above the tolerance")
	}
	a := MustNew(-1, 500)
	b := MustNew(7, 0)
	b.SetIntegerPart(-1)
	if err := b.SetFractionalPart(500); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("Expected %s == %s", a, b)
	}
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		a, b                  Fraction
		less, greater, le, ge bool
	}{
		{MustNew(1, 0), MustNew(1, 0), false, false, true, true},
		{MustNew(1, 0), MustNew(1, 1), true, false, true, false},
		{MustNew(2, 500), MustNew(1, 750), false, true, false, true},
		{MustNew(-1, 0), MustNew(0, 0), true, false, true, false},
		// -1.500 это -0.5, что больше -1.000
		{MustNew(-1, 500), MustNew(-1, 0), false, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+" vs "+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.less {
				t.Errorf("Less: expected %v, got %v", tt.less, got)
			}
			if got := tt.a.Greater(tt.b); got != tt.greater {
				t.Errorf("Greater: expected %v, got %v", tt.greater, got)
			}
			if got := tt.a.LessOrEqual(tt.b); got != tt.le {
				t.Errorf("LessOrEqual: expected %v, got %v", tt.le, got)
			}
			if got := tt.a.GreaterOrEqual(tt.b); got != tt.ge {
				t.Errorf("GreaterOrEqual: expected %v, got %v", tt.ge, got)
			}
		})
	}
}

func TestCompareSortsNumerically(t *testing.T) {
	values := []Fraction{MustNew(3, 0), MustNew(-5, 0), MustNew(0, 1), MustNew(0, 0), MustNew(2, 999)}
	sort.Slice(values, func(i, j int) bool { return values[i].Compare(values[j]) < 0 })

	expected := []string{"-5.000", "0.000", "0.001", "2.999", "3.000"}
	for i, v := range values {
		if v.String() != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], v)
		}
	}
}
