package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteFile(t *testing.T) {
	m := New()
	m.Document("processed")
	m.Document("processed")
	m.Document("no_zone")
	m.Record("resolved")
	m.Zone(10, 7)
	m.Search("istex", 30*time.Millisecond)

	path := filepath.Join(t.TempDir(), "refzone.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`refzone_documents_total{status="processed"} 2`,
		`refzone_documents_total{status="no_zone"} 1`,
		`refzone_records_total{outcome="resolved"} 1`,
		`refzone_zone_lines_total{linked="true"} 7`,
		`refzone_zone_lines_total{linked="false"} 3`,
		`refzone_search_duration_seconds_count{backend="istex"} 1`,
		`refzone_zone_length_lines_count 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q\n%s", want, out)
		}
	}
}

func TestRegistry_Gather(t *testing.T) {
	m := New()
	m.Record("no_hit")
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "refzone_records_total" {
			found = true
		}
	}
	if !found {
		t.Error("refzone_records_total not gathered")
	}
}
