// Package hitcheck decides whether the top search hit for a record is the
// same work as the record.
package hitcheck

import (
	"regexp"
	"strings"

	"github.com/matsen/refzone/internal/author"
	"github.com/matsen/refzone/internal/fields"
	"github.com/matsen/refzone/internal/search"
	"github.com/matsen/refzone/internal/textnorm"
)

// Rule names the rule that accepted a hit.
type Rule string

// Rules, in evaluation order.
const (
	RuleNone      Rule = ""
	RuleJournalID Rule = "A:issn"
	RuleJournal   Rule = "A:title"
	RuleTitle     Rule = "B"
)

// Result is the outcome of a validation.
type Result struct {
	Accepted bool `json:"accepted"`
	Rule     Rule `json:"rule,omitempty"`
}

// Validator checks hits. It is safe for concurrent use.
type Validator struct {
	issn map[string]string
}

// New returns a Validator using the built-in abbreviation table extended (or
// overridden) by extra, which maps abbreviations to ISSNs.
func New(extra map[string]string) *Validator {
	v := &Validator{issn: make(map[string]string, len(journalISSN)+len(extra))}
	for k, issn := range journalISSN {
		v.issn[k] = issn
	}
	for k, issn := range extra {
		v.issn[abbrevKey(k)] = issn
	}
	return v
}

// LookupISSN returns the ISSN known for a journal abbreviation.
func (v *Validator) LookupISSN(abbrev string) (string, bool) {
	issn, ok := v.issn[abbrevKey(abbrev)]
	return issn, ok
}

// Validate applies the journal rule, then the title/author rule.
func (v *Validator) Validate(c fields.Canonical, hit *search.Hit) Result {
	if hit == nil {
		return Result{}
	}
	if rule := v.journalRule(c, hit); rule != RuleNone {
		return Result{Accepted: true, Rule: rule}
	}
	if titleRule(c, hit) {
		return Result{Accepted: true, Rule: RuleTitle}
	}
	return Result{}
}

// journalRule matches on year, journal, volume and first page.
func (v *Validator) journalRule(c fields.Canonical, hit *search.Hit) Rule {
	if !c.Has(fields.FieldPublicationDate) || !c.Has(fields.FieldHostTitle) ||
		!c.Has(fields.FieldHostVolume) || !c.Has(fields.FieldHostPagesFirst) {
		return RuleNone
	}
	if hit.PublicationDate == "" || hit.Host.Volume == "" || hit.Host.Pages.First == "" {
		return RuleNone
	}
	if !sameYear(c.First(fields.FieldPublicationDate), hit.PublicationDate) ||
		!sameNumber(c.First(fields.FieldHostVolume), hit.Host.Volume) ||
		!sameNumber(c.First(fields.FieldHostPagesFirst), hit.Host.Pages.First) {
		return RuleNone
	}

	journals := c[fields.FieldHostTitle]
	for _, j := range journals {
		issn, ok := v.LookupISSN(j)
		if !ok {
			continue
		}
		for _, candidate := range hit.Host.ISSN {
			if normalizeISSN(candidate) == normalizeISSN(issn) {
				return RuleJournalID
			}
		}
	}
	if hit.Host.Title != "" {
		for _, j := range journals {
			if textnorm.SoftCompare(j, hit.Host.Title) {
				return RuleJournal
			}
		}
	}
	return RuleNone
}

// titleRule matches on year, title and first author surname.
func titleRule(c fields.Canonical, hit *search.Hit) bool {
	if !c.Has(fields.FieldTitle) || !c.Has(fields.FieldPublicationDate) || !c.Has(fields.FieldAuthorName) {
		return false
	}
	if hit.Title == "" || hit.PublicationDate == "" {
		return false
	}
	if !sameYear(c.First(fields.FieldPublicationDate), hit.PublicationDate) {
		return false
	}
	if !textnorm.SoftCompare(c.First(fields.FieldTitle), hit.Title) {
		return false
	}
	return author.SameSurname(c.First(fields.FieldAuthorName), hit.FirstAuthor())
}

var (
	yearPattern  = regexp.MustCompile(`\d{4}`)
	digitPattern = regexp.MustCompile(`\d+`)
)

// sameYear compares the first four-digit runs of two dates.
func sameYear(a, b string) bool {
	ya, yb := yearPattern.FindString(a), yearPattern.FindString(b)
	return ya != "" && ya == yb
}

// sameNumber compares the leading numbers of two values, or the trimmed
// values when either has no digits.
func sameNumber(a, b string) bool {
	na, nb := digitPattern.FindString(a), digitPattern.FindString(b)
	if na == "" || nb == "" {
		return strings.TrimSpace(a) != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return strings.TrimLeft(na, "0") == strings.TrimLeft(nb, "0")
}
