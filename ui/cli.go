package ui

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"fraccalc/core/evaluator"
	"fraccalc/core/interpreter"
)

// ConsoleInterface представляет консольный интерфейс
type ConsoleInterface struct {
	interpreter *interpreter.Interpreter
	scanner     *bufio.Scanner
	out         io.Writer
}

// NewConsoleInterface создает новый консольный интерфейс
func NewConsoleInterface(i *interpreter.Interpreter, in io.Reader, out io.Writer) *ConsoleInterface {
	return &ConsoleInterface{
		interpreter: i,
		scanner:     bufio.NewScanner(in),
		out:         out,
	}
}

func (c *ConsoleInterface) println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *ConsoleInterface) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Run запускает главный цикл интерфейса
func (c *ConsoleInterface) Run() error {
	c.showWelcome()
	c.showRecent()

	// Основной цикл
	for {
		c.printf("calc> ")

		if !c.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(c.scanner.Text())
		if input == "" {
			continue
		}

		// Проверяем команды выхода
		if input == "/quit" || input == "/exit" {
			break
		}

		c.processCommand(input)
	}

	c.println("До свидания!")
	return c.scanner.Err()
}

// showWelcome показывает приветственное сообщение
func (c *ConsoleInterface) showWelcome() {
	c.println("═══════════════════════════════════════════")
	c.println("   Калькулятор дробей с фиксированной точкой")
	c.println("═══════════════════════════════════════════")
	c.println()
	c.println("Команды:")
	c.println("  • Арифметика: 2.500 + 1.750, 5 - 3.5, 2 * 3")
	c.println("  • Сравнение: 1.5 < 2, compare 2.5 1.75")
	c.println("  • Переменные: x = 2.500, y = x * 2")
	c.println("  • Просмотр: /vars, /history, /search <текст>")
	c.println("  • Справка: /help")
	c.println("  • Выход: /quit или Ctrl+C")
	c.println()
}

// showRecent показывает последние команды из сохранённой истории
func (c *ConsoleInterface) showRecent() {
	commands, err := c.interpreter.GetHistoryCommands(5)
	if err != nil || len(commands) == 0 {
		return
	}
	c.println("Последние команды:")
	for i, cmd := range commands {
		c.printf("   %d. %s\n", i+1, cmd)
	}
	c.println()
}

// processCommand обрабатывает введенную команду
func (c *ConsoleInterface) processCommand(input string) {
	// Специальные команды
	switch {
	case input == "/vars":
		c.showVariables()
		return
	case input == "/history":
		c.showHistory()
		return
	case input == "/help":
		c.showHelp()
		return
	case input == "/clear":
		c.clearScreen()
		return
	case input == "/clear-history" || input == "/clearhist":
		count, err := c.interpreter.ClearHistory()
		if err != nil {
			c.printf("Ошибка: %v\n", err)
			return
		}
		c.printf("История команд очищена (%d)\n", count)
		return
	case input == "/clear-vars":
		count, err := c.interpreter.ClearVariables()
		if err != nil {
			c.printf("Ошибка: %v\n", err)
			return
		}
		c.printf("Удалено переменных: %d\n", count)
		return
	case strings.HasPrefix(input, "/search "):
		c.searchHistory(strings.TrimSpace(strings.TrimPrefix(input, "/search ")))
		return
	case input == "!!":
		last, err := c.interpreter.GetLastCommand()
		if err != nil {
			c.printf("Ошибка: %v\n", err)
			return
		}
		if last == "" {
			c.println("История команд пуста")
			return
		}
		c.printf("%s\n", last)
		input = last
	case strings.HasPrefix(input, "/del ") || strings.HasPrefix(input, "/delete "):
		name := strings.TrimSpace(input[strings.Index(input, " "):])
		if err := c.interpreter.DeleteVariable(name); err != nil {
			c.printf("Ошибка: %v\n", err)
			return
		}
		c.printf("Переменная %s удалена\n", name)
		return
	case strings.HasPrefix(input, "/"):
		c.printf("Неизвестная команда: %s (см. /help)\n", input)
		return
	}

	// Обрабатываем обычную команду
	outcome, err := c.interpreter.Execute(input)
	if err != nil {
		c.printf("Ошибка: %v\n", err)
		return
	}

	switch outcome.Result.Kind {
	case evaluator.KindComparison:
		c.println(outcome.Label)
	default:
		c.printf("= %s\n", outcome.Text)
	}
}

// showVariables показывает все переменные
func (c *ConsoleInterface) showVariables() {
	vars := c.interpreter.GetVariables()
	if len(vars) == 0 {
		c.println("Переменные не определены")
		return
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	c.println("Переменные:")
	for _, name := range names {
		c.printf("  %s = %s\n", name, vars[name])
	}
}

// showHistory показывает историю команд
func (c *ConsoleInterface) showHistory() {
	entries, err := c.interpreter.GetDetailedHistory(0)
	if err != nil {
		c.printf("Ошибка: %v\n", err)
		return
	}
	if len(entries) == 0 {
		c.println("История команд пуста")
		return
	}

	c.println("История команд:")
	for _, e := range entries {
		line := e.Result
		if strings.HasPrefix(line, "Ошибка") {
			line = e.Command + " -> " + line
		}
		c.printf("  %d. [%s] %s\n", e.Index, e.Time, line)
	}
	c.println("\nКоманды: /clear-history - очистить историю")
}

// searchHistory показывает записи истории, содержащие текст
func (c *ConsoleInterface) searchHistory(keyword string) {
	found, err := c.interpreter.SearchHistory(keyword)
	if err != nil {
		c.printf("Ошибка: %v\n", err)
		return
	}
	if len(found) == 0 {
		c.printf("Ничего не найдено: %s\n", keyword)
		return
	}
	for i, e := range found {
		c.printf("  %d. %s -> %s\n", i+1, e.Command, e.Result)
	}
}

// clearScreen очищает экран (эмуляция)
func (c *ConsoleInterface) clearScreen() {
	c.printf("%s", strings.Repeat("\n", 50))
	c.println("Экран очищен (переменные и история сохранены)")
}

// showHelp показывает подробную справку
func (c *ConsoleInterface) showHelp() {
	c.println("═══════════════ СПРАВКА ═══════════════")
	c.println()
	c.println("ДРОБИ:")
	c.println("  2.500, 0.25, 7        - целая часть и до трёх цифр дробной")
	c.println("  значение = целая часть + дробная / 1000")
	c.println("  знак относится только к целой части: -3.250 это -3 + 0.250 = -2.750")
	c.println()
	c.println("ОПЕРАЦИИ:")
	c.println("  a + b, a - b, a * b   - сложение, вычитание, умножение")
	c.println("  a == b, a != b        - равенство с точностью 0.0001")
	c.println("  a < b, a > b, a <= b, a >= b")
	c.println("  compare a b           - таблица всех сравнений")
	c.println()
	c.println("ПЕРЕМЕННЫЕ:")
	c.println("  x = 2.500             - создание переменной")
	c.println("  y = x * 2             - использование переменных")
	c.println()
	c.println("КОМАНДЫ:")
	c.println("  /vars                 - показать все переменные")
	c.println("  /history              - показать историю команд")
	c.println("  /search <текст>       - поиск по истории")
	c.println("  !!                    - повторить последнюю команду")
	c.println("  /del <переменная>     - удалить переменную")
	c.println("  /clear-vars           - удалить все переменные")
	c.println("  /clear-history        - очистить историю команд")
	c.println("  /clear                - очистить экран")
	c.println("  /help                 - показать эту справку")
	c.println("  /quit или /exit       - выход из программы")
	c.println()
	c.println("═══════════════════════════════════════════")
}
