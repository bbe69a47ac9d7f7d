package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"collapse whitespace", "  Adaptive \t learning  in ", "Adaptive learning in"},
		{"control characters", "games\x0cand\x00play", "games and play"},
		{"dash variants", "pp. 12–18 — 19", "pp. 12-18 - 19"},
		{"quote variants", "“quoted” ‘single’ «guillemets»", `"quoted" 'single' "guillemets"`},
		{"hyphenated line break", "adap-\nting strategies", "adapting strategies"},
		{"hyphen before crlf", "equili-\r\n  brium", "equilibrium"},
		{"ligatures", "ﬁnite ﬂow æther œuvre", "finite flow aether oeuvre"},
		{"soft hyphen dropped", "equi\u00adlibrium", "equilibrium"},
		{"plain hyphen kept", "normal-form games", "normal-form games"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOCRSignature_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Adaptive learning in normal form games",
		"modern rnodern moclern",
		"l1Ii|! O0oQ",
		"rrnn nnn vvv",
		"Économétrie appliquée",
		"ﬁnancial æsthetics — “quoted”",
		"Ann Intern Med 109:312",
	}

	for _, s := range inputs {
		once := OCRSignature(s)
		twice := OCRSignature(once)
		if once != twice {
			t.Errorf("OCRSignature not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestOCRSignature_Confusables(t *testing.T) {
	if OCRSignature("modern") != OCRSignature("modem") {
		t.Errorf("expected rn and m to collapse: %q vs %q", OCRSignature("modern"), OCRSignature("modem"))
	}
	if OCRSignature("l0ng") != OCRSignature("IOng") {
		t.Errorf("expected l/I and 0/O to collapse: %q vs %q", OCRSignature("l0ng"), OCRSignature("IOng"))
	}
}

func TestSoftCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Adaptive learning", "Adaptive learning", true},
		{"case and hyphen", "Normal-Form Games", "normal form games", false},
		{"hyphen removed and case folded", "Normal-Form Games", "normalform games", true},
		{"typographic dash", "Self–organizing maps", "self-organizing maps", true},
		{"ocr confusion long strings", "Economic modelling", "Econornic rnodelling", true},
		{"ocr confusion too short", "rnap", "map", false},
		{"ocr digit swap", "Vol 10 of Collected", "Vol IO of CoIIected", true},
		{"different titles", "Adaptive learning", "Evolutionary dynamics", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SoftCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("SoftCompare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSoftCompare_Reflexive(t *testing.T) {
	for _, s := range []string{"a", "Ann Intern Med", "ﬁnite games", "x-y", "1991", "-", "--", "—", ".", "' "} {
		if !SoftCompare(s, s) {
			t.Errorf("SoftCompare(%q, %q) = false, want true", s, s)
		}
	}
}

func TestWords(t *testing.T) {
	got := Words("Milgrom, P. (1991): Adaptive learning; vol_2 [12]")
	want := []string{"Milgrom", "P", "1991", "Adaptive", "learning", "vol_2", "12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
}
