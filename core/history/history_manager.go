package history

import (
	"strings"
	"time"

	"fraccalc/core/persistence"

	"github.com/google/uuid"
)

type HistoryManager struct {
	persistence *persistence.PersistenceManager
	maxHistory  int
}

func NewHistoryManager(pm *persistence.PersistenceManager) *HistoryManager {
	return NewHistoryManagerWithLimit(pm, 100)
}

func NewHistoryManagerWithLimit(pm *persistence.PersistenceManager, maxHistory int) *HistoryManager {
	if maxHistory <= 0 {
		maxHistory = 100
	}
	return &HistoryManager{
		persistence: pm,
		maxHistory:  maxHistory,
	}
}

// AddEntry - добавление команды и её результата в историю с сохранением в JSON
func (hm *HistoryManager) AddEntry(command, result string) (persistence.HistoryEntry, error) {
	entry := persistence.HistoryEntry{
		ID:        uuid.NewString(),
		Command:   command,
		Result:    result,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	err := hm.persistence.Update(func(data *persistence.CalculatorData) {
		data.History = append(data.History, entry)

		// Ограничиваем размер истории
		if len(data.History) > hm.maxHistory {
			data.History = data.History[len(data.History)-hm.maxHistory:]
		}
	})
	return entry, err
}

// GetHistory - получение истории команд
func (hm *HistoryManager) GetHistory(limit int) ([]persistence.HistoryEntry, error) {
	return hm.persistence.GetRecentHistory(limit)
}

// DetailedHistoryEntry - запись истории с порядковым номером и форматированным временем
type DetailedHistoryEntry struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Command   string `json:"command"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
	Time      string `json:"time"`
}

// GetDetailedHistory - получение подробной истории с timestamp
func (hm *HistoryManager) GetDetailedHistory(limit int) ([]DetailedHistoryEntry, error) {
	entries, err := hm.GetHistory(limit)
	if err != nil {
		return nil, err
	}

	detailed := make([]DetailedHistoryEntry, len(entries))
	for i, entry := range entries {
		formattedTime := "unknown"
		if t, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			formattedTime = t.Format("2006-01-02 15:04:05")
		}

		detailed[i] = DetailedHistoryEntry{
			Index:     i + 1,
			ID:        entry.ID,
			Command:   entry.Command,
			Result:    entry.Result,
			Timestamp: entry.Timestamp,
			Time:      formattedTime,
		}
	}

	return detailed, nil
}

// ClearHistory - очистка всей истории, возвращает число удалённых записей
func (hm *HistoryManager) ClearHistory() (int, error) {
	var count int
	err := hm.persistence.Update(func(data *persistence.CalculatorData) {
		count = len(data.History)
		data.History = []persistence.HistoryEntry{}
	})
	return count, err
}

// SearchHistory - поиск по командам и результатам без учёта регистра
func (hm *HistoryManager) SearchHistory(keyword string) ([]persistence.HistoryEntry, error) {
	entries, err := hm.GetHistory(hm.maxHistory)
	if err != nil {
		return nil, err
	}

	keyword = strings.ToLower(keyword)
	results := make([]persistence.HistoryEntry, 0)
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Command), keyword) ||
			strings.Contains(strings.ToLower(entry.Result), keyword) {
			results = append(results, entry)
		}
	}

	return results, nil
}

// GetHistoryCount - получение количества записей в истории
func (hm *HistoryManager) GetHistoryCount() (int, error) {
	entries, err := hm.GetHistory(0)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// GetLastCommand - получение последней команды
func (hm *HistoryManager) GetLastCommand() (string, error) {
	entries, err := hm.GetHistory(1)
	if err != nil || len(entries) == 0 {
		return "", err
	}
	return entries[0].Command, nil
}
