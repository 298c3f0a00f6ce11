package models

import (
	"encoding/json"

	"fraccalc/core/evaluator"
	"fraccalc/core/fraction"
	"fraccalc/core/interpreter"
)

// FractionInput - дробь из двух полей ввода
type FractionInput struct {
	Integer    string `json:"integer"`
	Fractional string `json:"fractional"`
}

// Parse - проверка и разбор полей ввода
func (in FractionInput) Parse() (fraction.Fraction, error) {
	return fraction.Parse(in.Integer, in.Fractional)
}

// CalculateRequest - операция над двумя дробями
type CalculateRequest struct {
	Op     string        `json:"op"`
	First  FractionInput `json:"first"`
	Second FractionInput `json:"second"`
}

// CalculateResponse - результат операции
type CalculateResponse struct {
	ID         string                `json:"id,omitempty"`
	Command    string                `json:"command"`
	Result     string                `json:"result,omitempty"`
	Truth      *bool                 `json:"truth,omitempty"`
	Comparison *evaluator.Comparison `json:"comparison,omitempty"`
	Text       string                `json:"text"`
}

// ExecuteRequest - текстовая команда
type ExecuteRequest struct {
	Input string `json:"input"`
}

// ErrorResponse - ошибка с типом: validation, overflow или internal
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Event - сообщение WebSocket
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// WSMessage - входящее сообщение WebSocket; data разбирается по event
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// LoginRequest - учётные данные для получения токена
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCalculateResponse - ответ API по результату интерпретатора
func NewCalculateResponse(o interpreter.Outcome) CalculateResponse {
	resp := CalculateResponse{
		ID:      o.ID,
		Command: o.Command,
		Text:    o.Label,
	}
	switch o.Result.Kind {
	case evaluator.KindValue, evaluator.KindArithmetic:
		resp.Result = o.Result.Value.String()
	case evaluator.KindPredicate:
		truth := o.Result.Truth
		resp.Truth = &truth
	case evaluator.KindComparison:
		resp.Comparison = o.Result.Comparison
	}
	return resp
}

// NewErrorResponse - ответ API по ошибке
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Kind: fraction.Kind(err)}
}
