package interpreter

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"fraccalc/core/evaluator"
	"fraccalc/core/fraction"
	"fraccalc/core/history"
	"fraccalc/core/persistence"
	"fraccalc/core/variables"
	"fraccalc/logger"
	"fraccalc/metrics"

	"github.com/rs/zerolog"
)

// Options - параметры интерпретатора
type Options struct {
	DataFile     string
	HistoryLimit int
}

// Outcome - результат выполненной команды
type Outcome struct {
	ID        string
	Command   string
	Text      string
	Label     string
	Variable  string
	Result    evaluator.Result
	Timestamp time.Time
}

type Interpreter struct {
	mu          sync.Mutex
	evaluator   *evaluator.Evaluator
	variables   *variables.VariableStore
	persistence *persistence.PersistenceManager
	history     *history.HistoryManager
	log         zerolog.Logger

	listenersMu sync.RWMutex
	listeners   map[int]func(Outcome)
	nextID      int
}

func NewInterpreter(opts Options) (*Interpreter, error) {
	pm := persistence.NewPersistenceManager()
	if opts.DataFile != "" {
		pm = persistence.NewPersistenceManagerWithFile(opts.DataFile)
	}

	i := &Interpreter{
		evaluator:   evaluator.NewEvaluator(),
		variables:   variables.NewVariableStore(),
		persistence: pm,
		history:     history.NewHistoryManagerWithLimit(pm, opts.HistoryLimit),
		log:         logger.Component("interpreter"),
		listeners:   make(map[int]func(Outcome)),
	}

	if err := i.loadState(); err != nil {
		return nil, err
	}
	return i, nil
}

// loadState - загрузка переменных из JSON
func (i *Interpreter) loadState() error {
	saved, err := i.persistence.LoadVariables()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	historySize, err := i.history.GetHistoryCount()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if skipped := i.variables.Import(saved); len(skipped) > 0 {
		i.log.Warn().Strs("variables", skipped).Msg("skipped invalid saved variables")
	}
	i.log.Debug().
		Int("variables", i.variables.Len()).
		Int("history", historySize).
		Str("file", i.persistence.DataFile()).
		Msg("state loaded")

	i.updateMetrics(historySize)
	return nil
}

// saveState - сохранение переменных в JSON
func (i *Interpreter) saveState() error {
	return i.persistence.SaveVariables(i.variables.Export())
}

var assignmentPattern = regexp.MustCompile(`^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*([^=].*)$`)

// Execute - выполнение введённой команды: присваивание, выражение или compare
func (i *Interpreter) Execute(input string) (Outcome, error) {
	command := strings.TrimSpace(input)
	if command == "" {
		return Outcome{}, fraction.NewValidationError("command", "", "пустая команда")
	}

	i.mu.Lock()
	outcome, op, err := i.execute(command)
	i.mu.Unlock()

	return i.finish(op, outcome, err)
}

func (i *Interpreter) execute(command string) (Outcome, string, error) {
	outcome := Outcome{Command: command}

	// Обработка присваивания переменных
	if m := assignmentPattern.FindStringSubmatch(command); m != nil {
		name, expression := m[1], strings.TrimSpace(m[2])
		if name == evaluator.CompareKeyword {
			return outcome, "assign", fraction.NewValidationError("variable", name, "зарезервированное имя")
		}

		result, err := i.evaluator.Evaluate(expression, i.variables.GetVariable)
		if err != nil {
			return outcome, "assign", err
		}
		if result.Kind != evaluator.KindValue && result.Kind != evaluator.KindArithmetic {
			return outcome, "assign", fraction.NewValidationError("expression", expression, "присвоить можно только дробь")
		}

		i.variables.SetVariable(name, result.Value)
		if err := i.saveState(); err != nil {
			return outcome, "assign", err
		}

		outcome.Variable = name
		outcome.Result = result
		outcome.Text = fmt.Sprintf("%s = %s", name, result.Value)
		outcome.Label = outcome.Text
		return outcome, "assign", nil
	}

	// Обработка выражений
	result, err := i.evaluator.Evaluate(command, i.variables.GetVariable)
	if err != nil {
		return outcome, "execute", err
	}
	outcome.Result = result
	outcome.Text = result.String()
	outcome.Label = result.Label()
	return outcome, opName(result), nil
}

// Calculate - операция над двумя дробями: add, subtract, multiply или compare.
// Также принимаются знаки операторов ("+", "<=" ...).
func (i *Interpreter) Calculate(op string, a, b fraction.Fraction) (Outcome, error) {
	operator, ok := operatorFor(op)

	var (
		result evaluator.Result
		err    error
	)
	switch {
	case !ok:
		err = fraction.NewValidationError("op", op, "неизвестная операция")
		operator = op
	case operator == evaluator.CompareKeyword:
		cmp := i.evaluator.Compare(a, b)
		result = evaluator.Result{Kind: evaluator.KindComparison, Left: a, Right: b, Comparison: &cmp}
	default:
		result, err = i.evaluator.Apply(operator, a, b)
	}

	outcome := Outcome{Command: fmt.Sprintf("%s %s %s", a, operator, b)}
	op = "unknown"
	if err == nil {
		outcome.Command = result.Expression()
		outcome.Result = result
		outcome.Text = result.String()
		outcome.Label = result.Label()
		op = opName(result)
	}

	return i.finish(op, outcome, err)
}

// finish - запись в историю, метрики и уведомление подписчиков
func (i *Interpreter) finish(op string, outcome Outcome, err error) (Outcome, error) {
	historyText := outcome.Text
	if err != nil {
		historyText = "Ошибка: " + err.Error()
	}

	entry, herr := i.history.AddEntry(outcome.Command, historyText)
	if herr != nil {
		i.log.Error().Err(herr).Msg("history write failed")
	}
	outcome.ID = entry.ID
	outcome.Timestamp = time.Now()

	metrics.ObserveOperation(op, fraction.Kind(err))
	i.updateMetrics(-1)

	if err != nil {
		i.log.Debug().Err(err).Str("command", outcome.Command).Str("kind", fraction.Kind(err)).Msg("command failed")
		return outcome, err
	}

	i.log.Debug().Str("command", outcome.Command).Str("result", outcome.Text).Msg("command executed")
	i.notify(outcome)
	return outcome, nil
}

// Subscribe - подписка на успешные вычисления; возвращает функцию отписки
func (i *Interpreter) Subscribe(fn func(Outcome)) func() {
	i.listenersMu.Lock()
	id := i.nextID
	i.nextID++
	i.listeners[id] = fn
	i.listenersMu.Unlock()

	return func() {
		i.listenersMu.Lock()
		delete(i.listeners, id)
		i.listenersMu.Unlock()
	}
}

func (i *Interpreter) notify(outcome Outcome) {
	i.listenersMu.RLock()
	defer i.listenersMu.RUnlock()
	for _, fn := range i.listeners {
		fn(outcome)
	}
}

// GetVariables - переменные в текстовом виде
func (i *Interpreter) GetVariables() map[string]string {
	return i.variables.Export()
}

// GetVariable - значение переменной
func (i *Interpreter) GetVariable(name string) (fraction.Fraction, bool) {
	return i.variables.GetVariable(name)
}

// DeleteVariable - удаление переменной
func (i *Interpreter) DeleteVariable(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.variables.DeleteVariable(name) {
		return fraction.NewValidationError("variable", name, "неизвестная переменная")
	}
	i.updateMetrics(-1)
	return i.saveState()
}

// ClearVariables - удаление всех переменных, возвращает их количество
func (i *Interpreter) ClearVariables() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	count := i.variables.Len()
	i.variables.Import(nil)
	i.updateMetrics(-1)
	return count, i.saveState()
}

// ClearHistory - очистка истории, возвращает количество удалённых записей
func (i *Interpreter) ClearHistory() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	count, err := i.history.ClearHistory()
	if err != nil {
		return 0, err
	}
	i.updateMetrics(0)
	return count, nil
}

// GetHistoryCommands - получить только команды в виде массива строк
func (i *Interpreter) GetHistoryCommands(limit int) ([]string, error) {
	entries, err := i.history.GetHistory(limit)
	if err != nil {
		return nil, err
	}
	commands := make([]string, len(entries))
	for idx, entry := range entries {
		commands[idx] = entry.Command
	}
	return commands, nil
}

// GetLastCommand - последняя команда из истории, "" если история пуста
func (i *Interpreter) GetLastCommand() (string, error) {
	return i.history.GetLastCommand()
}

// GetDetailedHistory - история с результатами и временем
func (i *Interpreter) GetDetailedHistory(limit int) ([]history.DetailedHistoryEntry, error) {
	return i.history.GetDetailedHistory(limit)
}

// SearchHistory - поиск по истории
func (i *Interpreter) SearchHistory(keyword string) ([]persistence.HistoryEntry, error) {
	return i.history.SearchHistory(keyword)
}

// updateMetrics - historySize < 0 означает перечитать размер истории из файла
func (i *Interpreter) updateMetrics(historySize int) {
	if historySize < 0 {
		count, err := i.history.GetHistoryCount()
		if err != nil {
			i.log.Warn().Err(err).Msg("history size unavailable")
			metrics.CalculatorVariablesCount.Set(float64(i.variables.Len()))
			return
		}
		historySize = count
	}
	metrics.UpdateCalculatorMetrics(i.variables.Len(), historySize)
}

// operatorFor - оператор вычислителя по имени операции
func operatorFor(op string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "add", "+":
		return "+", true
	case "subtract", "-":
		return "-", true
	case "multiply", "*":
		return "*", true
	case evaluator.CompareKeyword:
		return evaluator.CompareKeyword, true
	case "==", "!=", "<", ">", "<=", ">=":
		return strings.TrimSpace(op), true
	}
	return "", false
}

// opName - метка операции для метрик
func opName(r evaluator.Result) string {
	switch r.Kind {
	case evaluator.KindArithmetic:
		switch r.Operator {
		case "+":
			return string(fraction.OpAdd)
		case "-":
			return string(fraction.OpSubtract)
		case "*":
			return string(fraction.OpMultiply)
		}
	case evaluator.KindPredicate:
		return "predicate"
	case evaluator.KindComparison:
		return evaluator.CompareKeyword
	}
	return "value"
}
