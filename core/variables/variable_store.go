package variables

import (
	"regexp"
	"sort"
	"sync"

	"fraccalc/core/fraction"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidName - допустимое имя переменной
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// VariableStore - хранилище именованных дробей
type VariableStore struct {
	mu        sync.RWMutex
	variables map[string]fraction.Fraction
}

func NewVariableStore() *VariableStore {
	return &VariableStore{
		variables: make(map[string]fraction.Fraction),
	}
}

// SetVariable - установка переменной
func (vs *VariableStore) SetVariable(name string, value fraction.Fraction) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.variables[name] = value
}

// GetVariable - получение переменной
func (vs *VariableStore) GetVariable(name string) (fraction.Fraction, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	v, ok := vs.variables[name]
	return v, ok
}

// DeleteVariable - удаление переменной, false если её не было
func (vs *VariableStore) DeleteVariable(name string) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	_, ok := vs.variables[name]
	delete(vs.variables, name)
	return ok
}

// GetVariables - получение копии всех переменных
func (vs *VariableStore) GetVariables() map[string]fraction.Fraction {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	copyMap := make(map[string]fraction.Fraction, len(vs.variables))
	for k, v := range vs.variables {
		copyMap[k] = v
	}
	return copyMap
}

// Names - имена переменных по алфавиту
func (vs *VariableStore) Names() []string {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	names := make([]string, 0, len(vs.variables))
	for k := range vs.variables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Export - переменные в текстовом виде для сохранения
func (vs *VariableStore) Export() map[string]string {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	out := make(map[string]string, len(vs.variables))
	for k, v := range vs.variables {
		out[k] = v.String()
	}
	return out
}

// Import - замена всех переменных сохранёнными значениями.
// Некорректные записи пропускаются и возвращаются в skipped.
func (vs *VariableStore) Import(saved map[string]string) (skipped []string) {
	vars := make(map[string]fraction.Fraction, len(saved))
	for name, text := range saved {
		f, err := fraction.ParseString(text)
		if err != nil || !IsValidName(name) {
			skipped = append(skipped, name)
			continue
		}
		vars[name] = f
	}
	sort.Strings(skipped)

	vs.mu.Lock()
	vs.variables = vars
	vs.mu.Unlock()
	return skipped
}

// Len - количество переменных
func (vs *VariableStore) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.variables)
}
