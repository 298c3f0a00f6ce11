package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"fraccalc/core/evaluator"
	"fraccalc/core/fraction"
	"fraccalc/core/interpreter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionInputParse(t *testing.T) {
	f, err := FractionInput{Integer: " -2 ", Fractional: "5"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, fraction.MustNew(-2, 5), f)

	_, err = FractionInput{Integer: "1", Fractional: "1000"}.Parse()
	assert.ErrorIs(t, err, fraction.ErrValidation)
}

func TestNewCalculateResponse(t *testing.T) {
	a, b := fraction.MustNew(2, 500), fraction.MustNew(1, 750)

	arith := interpreter.Outcome{
		ID:      "id-1",
		Command: "2.5 + 1.75",
		Label:   "Результат: 2.500 + 1.750 = 4.250",
		Result:  evaluator.Result{Kind: evaluator.KindArithmetic, Operator: "+", Left: a, Right: b, Value: fraction.MustNew(4, 250)},
	}
	resp := NewCalculateResponse(arith)
	assert.Equal(t, "4.250", resp.Result)
	assert.Nil(t, resp.Truth)
	assert.Nil(t, resp.Comparison)

	pred := interpreter.Outcome{Result: evaluator.Result{Kind: evaluator.KindPredicate, Operator: ">", Left: a, Right: b, Truth: true}}
	resp = NewCalculateResponse(pred)
	require.NotNil(t, resp.Truth)
	assert.True(t, *resp.Truth)
	assert.Empty(t, resp.Result)

	body, err := json.Marshal(NewCalculateResponse(arith))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"id-1","command":"2.5 + 1.75","result":"4.250","text":"Результат: 2.500 + 1.750 = 4.250"}`, string(body))
}

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{fraction.NewValidationError("fractional", "1000", "дробная часть должна быть от 0 до 999"), "validation"},
		{fmt.Errorf("wrapped: %w", &fraction.OverflowError{Op: fraction.OpAdd}), "overflow"},
		{errors.New("disk full"), "internal"},
	}

	for _, tt := range tests {
		resp := NewErrorResponse(tt.err)
		assert.Equal(t, tt.kind, resp.Kind)
		assert.Equal(t, tt.err.Error(), resp.Error)
	}
}
