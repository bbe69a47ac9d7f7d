package zone

import "regexp"

// cue is a surface pattern typical of bibliography lines.
type cue struct {
	name   string
	re     *regexp.Regexp
	weight int
}

var cues = []cue{
	{"year-punct", regexp.MustCompile(`[(\[,:;.]\s*(?:1[5-9]|20)\d{2}[a-z]?\s*[)\],.;:]`), 2},
	{"volume-page", regexp.MustCompile(`\b\d{1,4}\s*:\s*\d{1,5}(?:\s*-\s*\d{1,5})?\b`), 2},
	{"volume-issue-page", regexp.MustCompile(`\b\d{1,4}\s*\(\s*\d{1,4}(?:\s*-\s*\d{1,4})?\s*\)\s*:?\s*\d{1,5}`), 2},
	{"doi", regexp.MustCompile(`\b10\.\d{4,9}/[^\s<>"{}|\\^~\[\]]+`), 2},
	{"vol-literal", regexp.MustCompile(`(?i)\b(?:vol|no|nr|pp?)\.\s*\d`), 1},
	{"page-range", regexp.MustCompile(`\b\d{1,5}\s*-\s*\d{1,5}\b`), 1},
	{"in-citation", regexp.MustCompile(`(?:^|\s)In:\s`), 1},
	{"label", regexp.MustCompile(`^\s*(?:\[\d{1,3}\]|\(\d{1,3}\)|\d{1,3}\.)\s+\p{Lu}`), 1},
}

// DefaultHeader matches a reference-section heading line.
var DefaultHeader = regexp.MustCompile(`(?i)^\s*(?:[\dIVX]+\.?\s+)?(?:references?|bibliography|bibliographie|literature(?: cited)?|works cited|r[ée]f[ée]rences(?: bibliographiques)?|literatur(?:verzeichnis)?)\s*:?\s*$`)

// structuralScore sums the weights of the cues present in line. Each cue
// counts once per line.
func structuralScore(line string) int {
	score := 0
	for _, c := range cues {
		if c.re.MatchString(line) {
			score += c.weight
		}
	}
	return score
}
