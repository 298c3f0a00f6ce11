package fraction

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - некорректный ввод или нарушение диапазона дробной части
	ErrValidation = errors.New("ошибка валидации")
	// ErrOverflow - результат операции не помещается в int64
	ErrOverflow = errors.New("переполнение")
)

const (
	msgFractionalRange = "дробная часть должна быть от 0 до 999"
	msgBadInteger      = "некорректная целая часть"
	msgBadFraction     = "некорректная запись дроби"
)

// ValidationError - ошибка проверки входных данных
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError - ошибка валидации для внешних пакетов (парсер выражений, интерпретатор)
func NewValidationError(field, value, msg string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Msg: msg}
}

// OverflowError - выход результата за пределы int64
type OverflowError struct {
	Op Op
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("результат %s превышает допустимый диапазон", e.Op.genitive())
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// Kind - тип ошибки для ответа клиенту: "validation", "overflow" или "internal"
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
