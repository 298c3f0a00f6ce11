package variables

import (
	"reflect"
	"sync"
	"testing"

	"fraccalc/core/fraction"
)

func TestSetGetDelete(t *testing.T) {
	vs := NewVariableStore()
	vs.SetVariable("x", fraction.MustNew(2, 500))

	v, ok := vs.GetVariable("x")
	if !ok || v != fraction.MustNew(2, 500) {
		t.Errorf("Expected x = 2.500, got %s (%v)", v, ok)
	}

	if _, ok := vs.GetVariable("y"); ok {
		t.Error("Expected y to be undefined")
	}

	if !vs.DeleteVariable("x") || vs.DeleteVariable("x") {
		t.Error("Expected delete to report presence once")
	}
	if vs.Len() != 0 {
		t.Errorf("Expected empty store, got %d", vs.Len())
	}
}

func TestGetVariablesReturnsCopy(t *testing.T) {
	vs := NewVariableStore()
	vs.SetVariable("a", fraction.MustNew(1, 0))

	vars := vs.GetVariables()
	vars["b"] = fraction.MustNew(2, 0)

	if vs.Len() != 1 {
		t.Error("Modifying the copy must not change the store")
	}
}

func TestExportImport(t *testing.T) {
	vs := NewVariableStore()
	vs.SetVariable("b", fraction.MustNew(-1, 5))
	vs.SetVariable("a", fraction.MustNew(3, 0))

	exported := vs.Export()
	expected := map[string]string{"a": "3.000", "b": "-1.005"}
	if !reflect.DeepEqual(exported, expected) {
		t.Errorf("Expected %v, got %v", expected, exported)
	}

	restored := NewVariableStore()
	skipped := restored.Import(map[string]string{
		"a":      "3.000",
		"b":      "-1.005",
		"bad":    "1.2345",
		"9lives": "1.000",
	})
	if !reflect.DeepEqual(skipped, []string{"9lives", "bad"}) {
		t.Errorf("Unexpected skipped list: %v", skipped)
	}
	if !reflect.DeepEqual(restored.Names(), []string{"a", "b"}) {
		t.Errorf("Unexpected names: %v", restored.Names())
	}
}

func TestIsValidName(t *testing.T) {
	for _, name := range []string{"x", "_tmp", "rate2"} {
		if !IsValidName(name) {
			t.Errorf("Expected %q to be valid", name)
		}
	}
	for _, name := range []string{"", "2x", "a-b", "compare me"} {
		if IsValidName(name) {
			t.Errorf("Expected %q to be invalid", name)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	vs := NewVariableStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vs.SetVariable("v", fraction.MustNew(int64(i), 0))
			vs.GetVariables()
			vs.Export()
		}(i)
	}
	wg.Wait()

	if vs.Len() != 1 {
		t.Errorf("Expected one variable, got %d", vs.Len())
	}
}
