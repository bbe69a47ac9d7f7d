package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	raw := strings.Join(paperLines, "\n") + "\n"
	docs := []Document{
		{Name: "good", RawPath: writeFile(t, dir, "good.txt", raw), TEIPath: writeFile(t, dir, "good.tei.xml", paperTEI)},
		{Name: "broken", RawPath: writeFile(t, dir, "broken.txt", raw), TEIPath: writeFile(t, dir, "broken.tei.xml", "<TEI><text>")},
		{Name: "again", RawPath: filepath.Join(dir, "good.txt"), TEIPath: filepath.Join(dir, "good.tei.xml")},
	}

	p := newTestProcessor(paperSearcher())
	b, err := p.RunBatch(context.Background(), docs, 2)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if _, err := uuid.Parse(b.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", b.RunID, err)
	}
	if len(b.Documents) != 2 || b.Documents[0].Document != "good" || b.Documents[1].Document != "again" {
		t.Fatalf("Documents = %v, want good and again in order", b.Documents)
	}
	if len(b.Failures) != 1 || b.Failures[0].Document != "broken" {
		t.Errorf("Failures = %v, want broken", b.Failures)
	}
	for _, r := range b.Results() {
		if r.RunID != b.RunID {
			t.Errorf("result %s run id = %q", r.RecordID, r.RunID)
		}
	}

	want := map[Outcome]int{OutcomeResolved: 2, OutcomeRejected: 2, OutcomeSkipped: 2}
	if got := b.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %v, want %v", got, want)
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	dir := t.TempDir()
	docs := []Document{{Name: "a", RawPath: writeFile(t, dir, "a.txt", "x\n"), TEIPath: writeFile(t, dir, "a.tei.xml", paperTEI)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestProcessor(nil).RunBatch(ctx, docs, 1); err == nil {
		t.Error("RunBatch() should fail when the context is canceled")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tei.xml", paperTEI)
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, "b.tei.xml", paperTEI)
	writeFile(t, dir, "c.pdf", "")
	writeFile(t, dir, "notes.md", "")
	if err := os.Mkdir(filepath.Join(dir, "sub.tei.xml"), 0755); err != nil {
		t.Fatal(err)
	}

	docs, orphans, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []Document{{Name: "a", RawPath: filepath.Join(dir, "a.txt"), TEIPath: filepath.Join(dir, "a.tei.xml")}}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("docs = %v, want %v", docs, want)
	}
	if !reflect.DeepEqual(orphans, []string{"b.tei.xml"}) {
		t.Errorf("orphans = %v, want [b.tei.xml]", orphans)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Discover() should fail for a missing directory")
	}
}
