package fraction

import (
	"regexp"
	"strconv"
	"strings"
)

var literalPattern = regexp.MustCompile(`^([+-]?\d+)(?:\.(\d{1,3}))?$`)

// Parse - разбор дроби из двух полей ввода: целой и дробной части
func Parse(integerText, fractionalText string) (Fraction, error) {
	integer, err := strconv.ParseInt(strings.TrimSpace(integerText), 10, 64)
	if err != nil {
		return Fraction{}, &ValidationError{Field: "integer", Value: integerText, Msg: msgBadInteger}
	}

	// знак допускается: "+5" и "-0" корректны
	fractional, err := strconv.ParseInt(strings.TrimSpace(fractionalText), 10, 64)
	if err != nil || fractional < 0 || fractional > MaxFractional {
		return Fraction{}, &ValidationError{Field: "fractional", Value: fractionalText, Msg: msgFractionalRange}
	}

	return New(integer, uint16(fractional))
}

// ParseString - разбор текстовой записи "целая[.ддд]".
// Цифры после точки дополняются нулями справа: "2.5" это 2.500.
// ParseString(f.String()) возвращает ту же дробь.
func ParseString(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	m := literalPattern.FindStringSubmatch(s)
	if m == nil {
		return Fraction{}, &ValidationError{Field: "fraction", Value: s, Msg: msgBadFraction}
	}

	integer, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Fraction{}, &ValidationError{Field: "integer", Value: m[1], Msg: msgBadInteger}
	}

	var fractional uint64
	if m[2] != "" {
		digits := m[2] + strings.Repeat("0", scale-len(m[2]))
		fractional, _ = strconv.ParseUint(digits, 10, 16)
	}

	return New(integer, uint16(fractional))
}

// IsLiteral - похожа ли строка на запись дроби
func IsLiteral(s string) bool {
	return literalPattern.MatchString(strings.TrimSpace(s))
}

func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fraction) UnmarshalText(text []byte) error {
	parsed, err := ParseString(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
