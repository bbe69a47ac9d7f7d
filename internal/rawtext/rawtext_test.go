package rawtext

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFromReader(t *testing.T) {
	got, err := FromReader(strings.NewReader("References\r\nMilgrom P (1991)\n\nYoung HP (1993)\n"))
	if err != nil {
		t.Fatalf("FromReader() error = %v", err)
	}
	want := []string{"References", "Milgrom P (1991)", "", "Young HP (1993)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromReader() = %q, want %q", got, want)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"mixed terminators", "a\r\nb\rc\n", []string{"a", "b", "c"}},
		{"keeps blank lines", "a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromHTML(t *testing.T) {
	src := `<html><head><style>p { color: red }</style></head><body>
		<h2>References</h2>
		<ol>
			<li>Milgrom P, Roberts J (1991) Adaptive learning.<br>Games Econ Behav 3:82-100</li>
			<li><p>Young HP (1993) The evolution of conventions.</p></li>
		</ol>
		<script>var x = 1;</script>
	</body></html>`
	got, err := FromHTML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("FromHTML() error = %v", err)
	}
	want := []string{
		"References",
		"Milgrom P, Roberts J (1991) Adaptive learning.",
		"Games Econ Behav 3:82-100",
		"Young HP (1993) The evolution of conventions.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromHTML() = %q, want %q", got, want)
	}
}

func TestLines(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(txt, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Lines(txt)
	if err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("Lines() = %q", got)
	}

	if _, err := Lines(filepath.Join(dir, "doc.xyz")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Lines(.xyz) error = %v, want ErrUnsupported", err)
	}
	if _, err := Lines(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Lines(missing) should fail")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.pdf", true},
		{"a.PDF", true},
		{"a.docx", true},
		{"a.tei.xml", false},
		{"a", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
