package hitcheck

import (
	"testing"

	"github.com/matsen/refzone/internal/fields"
	"github.com/matsen/refzone/internal/search"
)

func annalsHit() *search.Hit {
	return &search.Hit{
		ID:              "HIT1",
		Title:           "Aspirin in the prevention of myocardial infarction",
		PublicationDate: "1988",
		Host: search.Host{
			Title:  "Annals of Internal Medicine",
			ISSN:   []string{"0003-4819"},
			Volume: "109",
			Pages:  search.Pages{First: "312", Last: "318"},
		},
		Authors: []search.Author{{Name: "John A. Smith"}},
	}
}

func TestValidate_JournalAbbreviation(t *testing.T) {
	c := fields.Canonical{
		fields.FieldPublicationDate: {"1988"},
		fields.FieldHostTitle:       {"Ann Intern Med"},
		fields.FieldHostVolume:      {"109"},
		fields.FieldHostPagesFirst:  {"312"},
	}
	got := New(nil).Validate(c, annalsHit())
	if !got.Accepted || got.Rule != RuleJournalID {
		t.Errorf("Validate() = %+v, want accepted by %q", got, RuleJournalID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		c     fields.Canonical
		mod   func(*search.Hit)
		extra map[string]string
		want  Result
	}{
		{
			name: "abbreviation with periods",
			c: fields.Canonical{
				fields.FieldPublicationDate: {"1988-03"},
				fields.FieldHostTitle:       {"Ann. Intern. Med."},
				fields.FieldHostVolume:      {"109"},
				fields.FieldHostPagesFirst:  {"312-318"},
			},
			want: Result{Accepted: true, Rule: RuleJournalID},
		},
		{
			name: "full journal title",
			c: fields.Canonical{
				fields.FieldPublicationDate: {"1988"},
				fields.FieldHostTitle:       {"Annals of lnternal Medicine"},
				fields.FieldHostVolume:      {"109"},
				fields.FieldHostPagesFirst:  {"312"},
			},
			want: Result{Accepted: true, Rule: RuleJournal},
		},
		{
			name: "wrong volume",
			c: fields.Canonical{
				fields.FieldPublicationDate: {"1988"},
				fields.FieldHostTitle:       {"Ann Intern Med"},
				fields.FieldHostVolume:      {"110"},
				fields.FieldHostPagesFirst:  {"312"},
			},
			want: Result{},
		},
		{
			name: "wrong issn",
			c: fields.Canonical{
				fields.FieldPublicationDate: {"1988"},
				fields.FieldHostTitle:       {"Ann Intern Med"},
				fields.FieldHostVolume:      {"109"},
				fields.FieldHostPagesFirst:  {"312"},
			},
			mod: func(h *search.Hit) {
				h.Host.ISSN = []string{"1234-5678"}
				h.Host.Title = "Other journal"
			},
			want: Result{},
		},
		{
			name: "configured abbreviation",
			c: fields.Canonical{
				fields.FieldPublicationDate: {"1988"},
				fields.FieldHostTitle:       {"Acta Int Med"},
				fields.FieldHostVolume:      {"109"},
				fields.FieldHostPagesFirst:  {"312"},
			},
			extra: map[string]string{"Acta Int. Med.": "0003-4819"},
			want:  Result{Accepted: true, Rule: RuleJournalID},
		},
		{
			name: "title and surname",
			c: fields.Canonical{
				fields.FieldTitle:           {"Aspirin in the prevention of myocardial infarction"},
				fields.FieldPublicationDate: {"1988"},
				fields.FieldAuthorName:      {"Smith", "Jones"},
			},
			want: Result{Accepted: true, Rule: RuleTitle},
		},
		{
			name: "title with ocr noise",
			c: fields.Canonical{
				fields.FieldTitle:           {"Aspirin in the prevention of rnyocardial infarction"},
				fields.FieldPublicationDate: {"1988"},
				fields.FieldAuthorName:      {"Smith"},
			},
			want: Result{Accepted: true, Rule: RuleTitle},
		},
		{
			name: "date mismatch",
			c: fields.Canonical{
				fields.FieldTitle:           {"Aspirin in the prevention of myocardial infarction"},
				fields.FieldPublicationDate: {"1989"},
				fields.FieldAuthorName:      {"Smith"},
				fields.FieldHostTitle:       {"Ann Intern Med"},
				fields.FieldHostVolume:      {"109"},
				fields.FieldHostPagesFirst:  {"312"},
			},
			want: Result{},
		},
		{
			name: "hit author in comma form",
			c: fields.Canonical{
				fields.FieldTitle:           {"Aspirin in the prevention of myocardial infarction"},
				fields.FieldPublicationDate: {"1988"},
				fields.FieldAuthorName:      {"Smith"},
			},
			mod:  func(h *search.Hit) { h.Authors = []search.Author{{Name: "Smith, John A."}} },
			want: Result{Accepted: true, Rule: RuleTitle},
		},
		{
			name: "wrong surname",
			c: fields.Canonical{
				fields.FieldTitle:           {"Aspirin in the prevention of myocardial infarction"},
				fields.FieldPublicationDate: {"1988"},
				fields.FieldAuthorName:      {"Brown"},
			},
			want: Result{},
		},
		{
			name: "hit without authors",
			c: fields.Canonical{
				fields.FieldTitle:           {"Aspirin in the prevention of myocardial infarction"},
				fields.FieldPublicationDate: {"1988"},
				fields.FieldAuthorName:      {"Smith"},
			},
			mod:  func(h *search.Hit) { h.Authors = []search.Author{{Name: "  "}} },
			want: Result{},
		},
		{
			name: "nothing to compare",
			c:    fields.Canonical{fields.FieldNull: {"misc"}},
			want: Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := annalsHit()
			if tt.mod != nil {
				tt.mod(hit)
			}
			if got := New(tt.extra).Validate(tt.c, hit); got != tt.want {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidate_NilHit(t *testing.T) {
	if got := New(nil).Validate(fields.Canonical{fields.FieldTitle: {"x"}}, nil); got.Accepted {
		t.Errorf("Validate(nil) = %+v", got)
	}
}

func TestAbbrevKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ann Intern Med", "ann intern med"},
		{"Ann. Intern. Med.", "ann intern med"},
		{"  PROC.NATL. ACAD ", "proc natl acad"},
	}
	for _, tt := range tests {
		if got := abbrevKey(tt.in); got != tt.want {
			t.Errorf("abbrevKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameNumber(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"109", "109", true},
		{"0109", "109", true},
		{"312-318", "312", true},
		{"109", "110", false},
		{"xiv", "XIV", true},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := sameNumber(tt.a, tt.b); got != tt.want {
			t.Errorf("sameNumber(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
