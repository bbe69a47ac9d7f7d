package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type row struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestReadAll_NonExistentFile(t *testing.T) {
	rows, err := ReadAll[row]("/nonexistent/path/results.jsonl")
	if err != nil {
		t.Fatalf("ReadAll() error = %v (should return nil for nonexistent file)", err)
	}
	if len(rows) != 0 {
		t.Errorf("ReadAll() returned %v, want empty", rows)
	}
}

func TestReadAll_SkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	content := "{\"id\":\"b0\",\"status\":\"resolved\"}\n\n{\"id\":\"b1\",\"status\":\"no_hit\"}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	rows, err := ReadAll[row](path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	want := []row{{"b0", "resolved"}, {"b1", "no_hit"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ReadAll() = %v, want %v", rows, want)
	}
}

func TestReadAll_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	if err := os.WriteFile(path, []byte("{\"id\":\"b0\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll[row](path); err == nil {
		t.Error("ReadAll() should fail on invalid JSON")
	}
}

func TestWriteAllAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")

	if err := WriteAll(path, []row{{"b0", "resolved"}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := Append(path, row{"b1", "rejected"}, row{"b2", "skipped"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rows, err := ReadAll[row](path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 3 || rows[2].ID != "b2" {
		t.Errorf("ReadAll() = %v", rows)
	}

	if err := WriteAll(path, []row{{"x", "error"}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	rows, _ = ReadAll[row](path)
	if len(rows) != 1 {
		t.Errorf("WriteAll() should replace content, got %v", rows)
	}
}
