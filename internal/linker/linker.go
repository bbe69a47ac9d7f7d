// Package linker assigns the lines of a reference zone to the records they
// transcribe.
package linker

import (
	"strings"

	"github.com/matsen/refzone/internal/textnorm"
)

// Unassigned marks a line linked to no record.
const Unassigned = -1

// Params tunes the assignment heuristics.
type Params struct {
	// MinScore is the smallest score accepted for a new record.
	MinScore int
	// DriftMultiplier bounds continuation lines: the score must exceed
	// DriftMultiplier times the mean of the other records.
	DriftMultiplier float64
	// TieRatio allows resolving a tie in favor of the previous record when
	// at most records/TieRatio records share the maximum.
	TieRatio float64
	// RepechageMin is the score a tie must exceed to be resolved.
	RepechageMin int
	// StopWords are ignored line tokens, compared case-insensitively.
	StopWords []string
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		MinScore:        5,
		DriftMultiplier: 2,
		TieRatio:        10,
		RepechageMin:    5,
		StopWords:       []string{"&", "and", "in"},
	}
}

// Matrix holds one row per line and one column per record.
type Matrix [][]int

// Alignment holds one record index, or Unassigned, per line.
type Alignment []int

// BuildMatrix counts, for each line and record, the line tokens found in the
// record's word set. A token repeated in the line counts each time; a token
// repeated in the record counts once.
func BuildMatrix(lines []string, records []map[string]struct{}, stopWords []string) Matrix {
	stop := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = true
	}

	m := make(Matrix, len(lines))
	for i, line := range lines {
		var toks []string
		for _, w := range textnorm.Words(textnorm.Normalize(line)) {
			if !stop[strings.ToLower(w)] {
				toks = append(toks, w)
			}
		}
		row := make([]int, len(records))
		for j, words := range records {
			for _, tok := range toks {
				if _, ok := words[tok]; ok {
					row[j]++
				}
			}
		}
		m[i] = row
	}
	return m
}

// Link aligns every line with at most one record.
func Link(lines []string, records []map[string]struct{}, p Params) Alignment {
	return Assign(BuildMatrix(lines, records, p.StopWords), len(records), p)
}

// Assign turns a score matrix into an alignment. Only the assignment of the
// immediately preceding line is taken into account.
func Assign(m Matrix, records int, p Params) Alignment {
	out := make(Alignment, len(m))
	prev := Unassigned
	for i, row := range m {
		out[i] = decide(row, prev, records, p)
		prev = out[i]
	}
	return out
}

func decide(row []int, prev, records int, p Params) int {
	best, sum := 0, 0
	var maxima []int
	for j, v := range row {
		sum += v
		switch {
		case v > best:
			best = v
			maxima = []int{j}
		case v == best && v > 0:
			maxima = append(maxima, j)
		}
	}
	if best == 0 {
		return Unassigned
	}

	if len(maxima) == 1 {
		top := maxima[0]
		if top != prev {
			if best >= p.MinScore {
				return top
			}
			return Unassigned
		}
		others := 0.0
		if len(row) > 1 {
			others = float64(sum-best) / float64(len(row)-1)
		}
		if float64(best) > p.DriftMultiplier*others {
			return top
		}
		return Unassigned
	}

	if prev != Unassigned && contains(maxima, prev) &&
		p.TieRatio > 0 && float64(len(maxima)) <= float64(records)/p.TieRatio &&
		best > p.RepechageMin {
		return prev
	}
	return Unassigned
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Assigned returns the lines linked to each record index.
func (a Alignment) Assigned(records int) [][]int {
	out := make([][]int, records)
	for line, rec := range a {
		if rec >= 0 && rec < records {
			out[rec] = append(out[rec], line)
		}
	}
	return out
}
