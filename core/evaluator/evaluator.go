package evaluator

import (
	"regexp"
	"strings"

	"fraccalc/core/fraction"
	"fraccalc/core/variables"
)

// CompareKeyword - команда сравнения двух дробей по всем операторам
const CompareKeyword = "compare"

// Resolver - поиск значения переменной по имени
type Resolver func(name string) (fraction.Fraction, bool)

type Evaluator struct {
	operators  map[string]func(a, b fraction.Fraction) (fraction.Fraction, error)
	predicates map[string]func(a, b fraction.Fraction) bool
}

func NewEvaluator() *Evaluator {
	e := &Evaluator{
		operators:  make(map[string]func(a, b fraction.Fraction) (fraction.Fraction, error)),
		predicates: make(map[string]func(a, b fraction.Fraction) bool),
	}

	// Арифметика
	e.operators["+"] = fraction.Fraction.Add
	e.operators["-"] = fraction.Fraction.Sub
	e.operators["*"] = fraction.Fraction.Mul

	// Сравнения: == с допуском, остальные точные
	e.predicates["=="] = fraction.Fraction.Equal
	e.predicates["!="] = fraction.Fraction.NotEqual
	e.predicates["<"] = fraction.Fraction.Less
	e.predicates[">"] = fraction.Fraction.Greater
	e.predicates["<="] = fraction.Fraction.LessOrEqual
	e.predicates[">="] = fraction.Fraction.GreaterOrEqual

	return e
}

// Evaluate - вычисление выражения вида "a", "a op b" или "compare a b".
// Операнды - записи дробей ("2.500") или имена переменных.
func (e *Evaluator) Evaluate(expression string, resolve Resolver) (Result, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return Result{}, err
	}

	switch {
	case len(tokens) == 1:
		v, err := e.operand(tokens[0], resolve)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindValue, Value: v}, nil

	case len(tokens) == 3 && tokens[0] == CompareKeyword:
		a, b, err := e.operands(tokens[1], tokens[2], resolve)
		if err != nil {
			return Result{}, err
		}
		cmp := e.Compare(a, b)
		return Result{Kind: KindComparison, Left: a, Right: b, Comparison: &cmp}, nil

	case len(tokens) == 3:
		a, b, err := e.operands(tokens[0], tokens[2], resolve)
		if err != nil {
			return Result{}, err
		}
		return e.Apply(tokens[1], a, b)
	}

	return Result{}, fraction.NewValidationError("expression", expression, "некорректное выражение")
}

// Apply - применение оператора к двум дробям
func (e *Evaluator) Apply(operator string, a, b fraction.Fraction) (Result, error) {
	if op, ok := e.operators[operator]; ok {
		v, err := op(a, b)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindArithmetic, Operator: operator, Left: a, Right: b, Value: v}, nil
	}

	if pred, ok := e.predicates[operator]; ok {
		return Result{Kind: KindPredicate, Operator: operator, Left: a, Right: b, Truth: pred(a, b)}, nil
	}

	return Result{}, fraction.NewValidationError("operator", operator, "неизвестный оператор")
}

// Compare - таблица всех шести сравнений
func (e *Evaluator) Compare(a, b fraction.Fraction) Comparison {
	return Comparison{
		Left:           a,
		Right:          b,
		Equal:          e.predicates["=="](a, b),
		NotEqual:       e.predicates["!="](a, b),
		Less:           e.predicates["<"](a, b),
		Greater:        e.predicates[">"](a, b),
		LessOrEqual:    e.predicates["<="](a, b),
		GreaterOrEqual: e.predicates[">="](a, b),
	}
}

func (e *Evaluator) operands(left, right string, resolve Resolver) (fraction.Fraction, fraction.Fraction, error) {
	a, err := e.operand(left, resolve)
	if err != nil {
		return fraction.Fraction{}, fraction.Fraction{}, err
	}
	b, err := e.operand(right, resolve)
	if err != nil {
		return fraction.Fraction{}, fraction.Fraction{}, err
	}
	return a, b, nil
}

// operand - литерал дроби или переменная
func (e *Evaluator) operand(token string, resolve Resolver) (fraction.Fraction, error) {
	if isNumber(token) {
		return fraction.ParseString(token)
	}

	if !variables.IsValidName(token) || token == CompareKeyword {
		return fraction.Fraction{}, fraction.NewValidationError("operand", token, "некорректный операнд")
	}
	if resolve != nil {
		if v, ok := resolve(token); ok {
			return v, nil
		}
	}
	return fraction.Fraction{}, fraction.NewValidationError("variable", token, "неизвестная переменная")
}

var tokenPattern = regexp.MustCompile(`\d+(?:\.\d*)?|\.\d+|[a-zA-Z_][a-zA-Z0-9_]*|==|!=|<=|>=|[-+*<>]|\S`)

// tokenize - разбиение выражения на токены; унарный знак присоединяется к числу
func tokenize(expression string) ([]string, error) {
	raw := tokenPattern.FindAllString(expression, -1)
	if len(raw) == 0 {
		return nil, fraction.NewValidationError("expression", expression, "пустое выражение")
	}

	tokens := make([]string, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if (tok == "-" || tok == "+") && i+1 < len(raw) && isNumber(raw[i+1]) && expectsOperand(tokens) {
			tokens = append(tokens, tok+raw[i+1])
			i++
			continue
		}
		if !isNumber(tok) && !variables.IsValidName(tok) && !isOperator(tok) {
			return nil, fraction.NewValidationError("expression", tok, "недопустимый символ")
		}
		tokens = append(tokens, tok)
	}

	return tokens, nil
}

// expectsOperand - следующий токен должен быть операндом: начало выражения,
// после оператора или внутри compare
func expectsOperand(tokens []string) bool {
	if len(tokens) == 0 || tokens[0] == CompareKeyword {
		return true
	}
	return isOperator(tokens[len(tokens)-1])
}

func isNumber(tok string) bool {
	tok = strings.TrimLeft(tok, "+-")
	return tok != "" && (tok[0] >= '0' && tok[0] <= '9' || tok[0] == '.')
}

func isOperator(tok string) bool {
	switch tok {
	case "+", "-", "*", "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}
