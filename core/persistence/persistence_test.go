package persistence

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *PersistenceManager {
	t.Helper()
	return NewPersistenceManagerWithFile(filepath.Join(t.TempDir(), "state", "calculator_data.json"))
}

// seed - запись готового состояния в файл
func seed(t *testing.T, pm *PersistenceManager, state CalculatorData) {
	t.Helper()
	err := pm.Update(func(data *CalculatorData) { *data = state })
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	pm := newTestManager(t)

	data, err := pm.LoadData()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data.History) != 0 || len(data.Variables) != 0 {
		t.Errorf("Expected empty state, got %+v", data)
	}
}

func TestSaveAndLoad(t *testing.T) {
	pm := newTestManager(t)

	seed(t, pm, CalculatorData{
		Variables: map[string]string{"x": "2.500"},
		History: []HistoryEntry{
			{Command: "2.500 + 1.750", Result: "4.250"},
			{Command: ""},
		},
	})

	data, err := pm.LoadData()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if data.Variables["x"] != "2.500" {
		t.Errorf("Expected x = 2.500, got %q", data.Variables["x"])
	}
	if len(data.History) != 1 {
		t.Fatalf("Expected entries without command to be dropped, got %d", len(data.History))
	}
	entry := data.History[0]
	if entry.ID == "" || entry.Timestamp == "" {
		t.Errorf("Expected ID and timestamp to be filled, got %+v", entry)
	}
	if entry.Result != "4.250" {
		t.Errorf("Expected result 4.250, got %q", entry.Result)
	}

	if _, err := os.Stat(pm.DataFile() + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file should be renamed away")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	pm := newTestManager(t)
	if err := os.MkdirAll(filepath.Dir(pm.DataFile()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pm.DataFile(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := pm.LoadData(); err == nil {
		t.Error("Expected decode error")
	}
}

func TestRecentHistory(t *testing.T) {
	pm := newTestManager(t)
	history := []HistoryEntry{{Command: "a"}, {Command: "b"}, {Command: "c"}}
	seed(t, pm, CalculatorData{Variables: map[string]string{"y": "1.000"}, History: history})

	recent, err := pm.GetRecentHistory(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Command != "b" || recent[1].Command != "c" {
		t.Errorf("Expected last two commands, got %+v", recent)
	}

	all, _ := pm.GetRecentHistory(0)
	if len(all) != 3 {
		t.Errorf("Expected full history, got %d", len(all))
	}

	vars, err := pm.LoadVariables()
	if err != nil {
		t.Fatal(err)
	}
	if vars["y"] != "1.000" {
		t.Errorf("Expected y = 1.000, got %v", vars)
	}
}

func TestSaveVariables(t *testing.T) {
	pm := newTestManager(t)

	if err := pm.SaveVariables(map[string]string{"a": "-1.005"}); err != nil {
		t.Fatal(err)
	}
	vars, err := pm.LoadVariables()
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 1 || vars["a"] != "-1.005" {
		t.Errorf("Unexpected variables: %v", vars)
	}
}
