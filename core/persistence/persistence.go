package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fraccalc/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryEntry - запись истории: команда и её отображаемый результат
type HistoryEntry struct {
	ID        string `json:"id"`
	Command   string `json:"command"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

// CalculatorData - всё состояние калькулятора в файле.
// Переменные хранятся в текстовом виде дроби ("2.500").
type CalculatorData struct {
	Variables map[string]string `json:"variables"`
	History   []HistoryEntry    `json:"history"`
}

func newCalculatorData() *CalculatorData {
	return &CalculatorData{
		Variables: make(map[string]string),
		History:   make([]HistoryEntry, 0),
	}
}

type PersistenceManager struct {
	mu       sync.Mutex
	dataFile string
	log      zerolog.Logger
}

func NewPersistenceManager() *PersistenceManager {
	return NewPersistenceManagerWithFile("calculator_data.json")
}

func NewPersistenceManagerWithFile(dataFile string) *PersistenceManager {
	return &PersistenceManager{
		dataFile: dataFile,
		log:      logger.Component("persistence"),
	}
}

// DataFile - путь к файлу состояния
func (pm *PersistenceManager) DataFile() string {
	return pm.dataFile
}

// LoadData - загрузка данных из JSON файла; отсутствующий файл даёт пустое состояние
func (pm *PersistenceManager) LoadData() (*CalculatorData, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.load()
}

// Update - чтение, изменение и запись состояния под одной блокировкой
func (pm *PersistenceManager) Update(fn func(data *CalculatorData)) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	data, err := pm.load()
	if err != nil {
		return err
	}
	fn(data)
	return pm.save(data)
}

// GetRecentHistory - получение последних N команд из истории; limit <= 0 - вся история
func (pm *PersistenceManager) GetRecentHistory(limit int) ([]HistoryEntry, error) {
	data, err := pm.LoadData()
	if err != nil {
		return nil, err
	}
	if len(data.History) == 0 {
		return []HistoryEntry{}, nil
	}

	start := 0
	if limit > 0 && limit < len(data.History) {
		start = len(data.History) - limit
	}
	historyCopy := make([]HistoryEntry, len(data.History)-start)
	copy(historyCopy, data.History[start:])
	return historyCopy, nil
}

// SaveVariables - сохранение только переменных
func (pm *PersistenceManager) SaveVariables(variables map[string]string) error {
	return pm.Update(func(data *CalculatorData) {
		data.Variables = variables
	})
}

// LoadVariables - загрузка только переменных
func (pm *PersistenceManager) LoadVariables() (map[string]string, error) {
	data, err := pm.LoadData()
	if err != nil {
		return nil, err
	}
	return data.Variables, nil
}

func (pm *PersistenceManager) load() (*CalculatorData, error) {
	raw, err := os.ReadFile(pm.dataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newCalculatorData(), nil
		}
		pm.log.Error().Err(err).Str("file", pm.dataFile).Msg("load failed")
		return nil, fmt.Errorf("read %s: %w", pm.dataFile, err)
	}

	data := newCalculatorData()
	if err := json.Unmarshal(raw, data); err != nil {
		pm.log.Error().Err(err).Str("file", pm.dataFile).Msg("decode failed")
		return nil, fmt.Errorf("decode %s: %w", pm.dataFile, err)
	}
	if data.Variables == nil {
		data.Variables = make(map[string]string)
	}

	migrateHistory(data)
	return data, nil
}

// save - запись через временный файл и rename
func (pm *PersistenceManager) save(data *CalculatorData) error {
	migrateHistory(data)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if dir := filepath.Dir(pm.dataFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := pm.dataFile + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		pm.log.Error().Err(err).Str("file", tmp).Msg("save failed")
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, pm.dataFile); err != nil {
		pm.log.Error().Err(err).Str("file", pm.dataFile).Msg("save failed")
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	pm.log.Debug().Str("file", pm.dataFile).Int("history", len(data.History)).Msg("state saved")
	return nil
}

// migrateHistory - записи без команды отбрасываются, недостающие ID и время заполняются
func migrateHistory(data *CalculatorData) {
	if len(data.History) == 0 {
		return
	}

	newHistory := make([]HistoryEntry, 0, len(data.History))
	for _, entry := range data.History {
		if entry.Command == "" {
			continue
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.Timestamp == "" {
			entry.Timestamp = time.Now().Format(time.RFC3339)
		}
		newHistory = append(newHistory, entry)
	}
	data.History = newHistory
}
