package tei

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
	<text>
		<back>
			<listBibl>
				<biblStruct xml:id="b0">
					<analytic><title level="a">Adaptive learning &amp; <hi>normal</hi> games</title></analytic>
					<monogr><title level="j">Games Econ. Behav.</title></monogr>
				</biblStruct>
				<!-- comment -->
				<biblStruct>
					<monogr><title level="m">Collected papers</title></monogr>
				</biblStruct>
			</listBibl>
		</back>
	</text>
</TEI>`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Root.Name != "TEI" {
		t.Errorf("Root.Name = %q, want TEI", doc.Root.Name)
	}

	recs := doc.Records()
	if len(recs) != 2 {
		t.Fatalf("Records() = %d, want 2", len(recs))
	}
	if id, ok := recs[0].Attr("xml:id"); !ok || id != "b0" {
		t.Errorf("xml:id = %q, %v, want b0", id, ok)
	}
	if _, ok := recs[1].Attr("xml:id"); ok {
		t.Error("second record should have no xml:id")
	}

	title := recs[0].Child("analytic").Child("title")
	if got := title.OwnText(); got != "Adaptive learning & normal games" {
		t.Errorf("OwnText() = %q", got)
	}
	if got := recs[1].InnerText(); got != "Collected papers" {
		t.Errorf("InnerText() = %q", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed", "<TEI><biblStruct></TEI>"},
		{"two roots", "<a/><b/>"},
		{"text only", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformed", tt.input, err)
			}
		})
	}
}

func TestRecords_RootRecord(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<biblStruct><monogr/></biblStruct>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(doc.Records()); got != 1 {
		t.Errorf("Records() = %d, want 1", got)
	}
}

func TestEnrichAndWrite(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rec := doc.Records()[0]
	Enrich(rec, "istex", "ABC123", "https://api.istex.fr/ark:/67375/ABC")

	idno := rec.Child("idno")
	if idno == nil {
		t.Fatal("Enrich() did not add idno")
	}
	if v, _ := idno.Attr("type"); v != "istex" {
		t.Errorf("idno type = %q", v)
	}
	if idno.InnerText() != "ABC123" {
		t.Errorf("idno text = %q", idno.InnerText())
	}
	if target, _ := rec.Child("ptr").Attr("target"); target != "https://api.istex.fr/ark:/67375/ABC" {
		t.Errorf("ptr target = %q", target)
	}

	path := filepath.Join(t.TempDir(), "out.tei.xml")
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`xml:id="b0"`,
		`xmlns="http://www.tei-c.org/ns/1.0"`,
		`<idno type="istex">ABC123</idno>`,
		`<ptr type="istex" target="https://api.istex.fr/ark:/67375/ABC"/>`,
		`Adaptive learning &amp; <hi>normal</hi> games`,
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output missing %s", want)
		}
	}

	again, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-Parse() error = %v", err)
	}
	if got := len(again.Records()); got != 2 {
		t.Errorf("re-parsed Records() = %d, want 2", got)
	}
	if again.Records()[0].Child("idno") == nil {
		t.Error("re-parsed record lost its idno")
	}
}

func TestEnrich_NoURI(t *testing.T) {
	rec := NewElement(RecordTag)
	Enrich(rec, "istex", "X", "")
	if rec.Child("ptr") != nil {
		t.Error("Enrich() with empty uri should not add ptr")
	}
	if len(rec.Elements()) != 1 {
		t.Errorf("Elements() = %d, want 1", len(rec.Elements()))
	}
}
