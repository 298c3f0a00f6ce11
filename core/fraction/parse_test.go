package fraction

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		integer    string
		fractional string
		expected   Fraction
		field      string
	}{
		{"Plain", "2", "500", MustNew(2, 500), ""},
		{"Whitespace", " -3 ", " 7 ", MustNew(-3, 7), ""},
		{"Leading zeros", "007", "050", MustNew(7, 50), ""},
		{"Signed fractional", "1", "+5", MustNew(1, 5), ""},
		{"Negative zero fractional", "1", "-0", MustNew(1, 0), ""},
		{"Signed integer", "+4", "0", MustNew(4, 0), ""},
		{"Non-numeric integer", "abc", "500", Fraction{}, "integer"},
		{"Empty integer", "", "0", Fraction{}, "integer"},
		{"Float integer", "2.5", "0", Fraction{}, "integer"},
		{"Integer overflow", "9223372036854775808", "0", Fraction{}, "integer"},
		{"Fractional too large", "1", "1000", Fraction{}, "fractional"},
		{"Negative fractional", "1", "-1", Fraction{}, "fractional"},
		{"Non-numeric fractional", "1", "x", Fraction{}, "fractional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.integer, tt.fractional)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if f != tt.expected {
					t.Errorf("Expected %s, got %s", tt.expected, f)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected Fraction
		wantErr  bool
	}{
		{"2.500", MustNew(2, 500), false},
		{"2.5", MustNew(2, 500), false},
		{"2.05", MustNew(2, 50), false},
		{"42", MustNew(42, 0), false},
		{"-1.250", MustNew(-1, 250), false},
		{"+3.001", MustNew(3, 1), false},
		{"  0.999 ", MustNew(0, 999), false},
		{"1.0001", Fraction{}, true},
		{"1.", Fraction{}, true},
		{".5", Fraction{}, true},
		{"1,5", Fraction{}, true},
		{"abc", Fraction{}, true},
		{"", Fraction{}, true},
		{"99999999999999999999.000", Fraction{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if f != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, f)
			}
		})
	}
}

func TestParseStringInvertsString(t *testing.T) {
	for _, f := range []Fraction{MustNew(0, 0), MustNew(-2, 5), MustNew(123456, 789), MustNew(-1, 500)} {
		parsed, err := ParseString(f.String())
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", f, err)
		}
		if parsed != f {
			t.Errorf("Expected %s, got %s", f, parsed)
		}
	}
}

func TestIsLiteral(t *testing.T) {
	if !IsLiteral("2.500") || !IsLiteral("-7") {
		t.Error("Expected literals to be recognised")
	}
	if IsLiteral("x") || IsLiteral("2.5.0") {
		t.Error("Expected non-literals to be rejected")
	}
}

func TestJSONText(t *testing.T) {
	type payload struct {
		Value Fraction `json:"value"`
	}

	data, err := json.Marshal(payload{Value: MustNew(-4, 25)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `{"value":"-4.025"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"value":"8.5"}`), &p); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Value != MustNew(8, 500) {
		t.Errorf("Expected 8.500, got %s", p.Value)
	}

	if err := json.Unmarshal([]byte(`{"value":"8.5000"}`), &p); err == nil {
		t.Error("Expected error for four fractional digits")
	}
}
