// Package zone finds the range of raw text lines holding a document's
// reference list.
package zone

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/refzone/internal/textnorm"
	"go.uber.org/zap"
)

// ErrNoZone is returned when no plausible reference zone was found.
var ErrNoZone = errors.New("no reference zone found")

// Params tunes the locator.
type Params struct {
	// WindowFactor sets the start window to WindowFactor*records+1 lines.
	WindowFactor int
	// ShortWindowMax caps the end window, which is records/2 lines.
	ShortWindowMax int
	// SanityRatio rejects zones longer than SanityRatio*records lines.
	SanityRatio int
	// Header matches a section heading that starts the zone.
	Header *regexp.Regexp
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		WindowFactor:   3,
		ShortWindowMax: 10,
		SanityRatio:    12,
		Header:         DefaultHeader,
	}
}

// Zone is an inclusive line range.
type Zone struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines in z.
func (z Zone) Len() int {
	return z.End - z.Start + 1
}

// KnownTokens collects the word tokens of the record texts worth looking
// for in raw lines. Single runes and short lowercase words are dropped.
func KnownTokens(recordTexts []string) map[string]struct{} {
	known := make(map[string]struct{})
	for _, text := range recordTexts {
		for _, w := range textnorm.Words(textnorm.Normalize(text)) {
			if keepToken(w) {
				known[w] = struct{}{}
			}
		}
	}
	return known
}

func keepToken(w string) bool {
	n := utf8.RuneCountInString(w)
	if n <= 1 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(w)
	if n <= 4 && unicode.IsLower(first) {
		return false
	}
	return true
}

// LineScores returns the content plus structural score of every line.
func LineScores(lines []string, recordTexts []string) []int {
	known := KnownTokens(recordTexts)
	scores := make([]int, len(lines))
	for i, line := range lines {
		norm := textnorm.Normalize(line)
		content := 0
		for w := range textnorm.WordSet(norm) {
			if _, ok := known[w]; ok {
				content++
			}
		}
		scores[i] = 2*content + structuralScore(norm)
	}
	return scores
}

// Locate returns the zone of lines most likely to be the reference list of
// the given records.
func Locate(lines []string, recordTexts []string, p Params, log *zap.Logger) (Zone, error) {
	if log == nil {
		log = zap.NewNop()
	}
	n := len(recordTexts)
	if n == 0 || len(lines) == 0 {
		return Zone{}, ErrNoZone
	}
	scores := LineScores(lines, recordTexts)
	if scores[argmax(scores)] == 0 {
		return Zone{}, ErrNoZone
	}

	start := headerLine(lines, p.Header)
	switch {
	case start >= 0:
	case n == 1:
		start = argmax(scores)
	default:
		start = argmaxLast(windowSums(scores, p.WindowFactor*n+1)) - 1
		if start < 0 {
			start = 0
		}
	}

	w := n / 2
	if w > p.ShortWindowMax {
		w = p.ShortWindowMax
	}
	if w < 1 {
		w = 1
	}
	end := start
	for end+1 < len(lines) && windowSum(scores, end+1, w) > 0 {
		end++
	}

	z := Zone{Start: start, End: end}
	if p.SanityRatio > 0 && z.Len() > p.SanityRatio*n {
		log.Warn("reference zone failed sanity check",
			zap.Int("start", z.Start),
			zap.Int("end", z.End),
			zap.Int("span", z.Len()),
			zap.Int("records", n))
		return Zone{}, ErrNoZone
	}
	return z, nil
}

// headerLine returns the last line matching header, or -1.
func headerLine(lines []string, header *regexp.Regexp) int {
	if header == nil {
		return -1
	}
	found := -1
	for i, line := range lines {
		if header.MatchString(textnorm.Normalize(line)) {
			found = i
		}
	}
	return found
}

func windowSum(scores []int, from, width int) int {
	sum := 0
	for i := from; i < from+width && i < len(scores); i++ {
		sum += scores[i]
	}
	return sum
}

func windowSums(scores []int, width int) []int {
	sums := make([]int, len(scores))
	for i := range scores {
		sums[i] = windowSum(scores, i, width)
	}
	return sums
}

// argmax returns the first index of the largest value.
func argmax(values []int) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// argmaxLast returns the last index of the largest value, so that among
// windows covering the same lines the one starting at the dense region wins.
func argmaxLast(values []int) int {
	best := 0
	for i, v := range values {
		if v >= values[best] {
			best = i
		}
	}
	return best
}
