// Package score implements keyword-weighted disease scoring. Each
// disease carries a bimodal keyword table: strongly diagnostic phrases
// and weakly generic ones. A disease only enters the candidate pool
// when its name is mentioned outright or enough diagnostic phrases
// match, which keeps "fever and headache" from suggesting hemorrhagic
// fevers.
package score

import (
	"sort"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/symptom"
)

// MinDiagnosticHits is how many distinct diagnostic keywords must match
// before a disease passes the existence gate without an explicit name
// or alias mention.
const MinDiagnosticHits = 2

// Base confidence fallback: raw score over baseDivisor, capped at
// baseCeiling so keyword volume alone never reads as certainty.
const (
	baseDivisor = 10.0
	baseCeiling = 0.95
)

// Match records one keyword hit against the symptom set.
type Match struct {
	Keyword    string
	Weight     float64
	Diagnostic bool
}

// Breakdown explains how one disease scored. Eligible reports whether
// the disease passed the existence gate; ineligible breakdowns are
// kept so callers can show why a disease was excluded.
type Breakdown struct {
	Disease        disease.ID
	Raw            float64
	DiagnosticHits int
	GenericHits    int
	NameMentioned  bool
	Eligible       bool
	Matches        []Match
}

// Scorer evaluates symptom sets against a keyword table. It holds only
// immutable tables and is safe for concurrent use.
type Scorer struct {
	table Table
	reg   *disease.Registry
}

// NewScorer builds a scorer. Nil arguments fall back to the builtin
// table and registry.
func NewScorer(table Table, reg *disease.Registry) *Scorer {
	if table == nil {
		table = DefaultTable()
	}
	if reg == nil {
		reg = disease.Default()
	}
	return &Scorer{table: table, reg: reg}
}

// Registry exposes the disease registry the scorer resolves against.
func (s *Scorer) Registry() *disease.Registry { return s.reg }

// Score evaluates every disease in the table against the set and
// returns breakdowns for those with at least one keyword match or a
// name mention, ordered by raw score with deterministic tie-breaks.
func (s *Scorer) Score(set *symptom.Set) []Breakdown {
	if set == nil || set.Empty() {
		return nil
	}
	out := make([]Breakdown, 0, 8)
	for id, kw := range s.table {
		b := s.scoreOne(id, kw, set)
		if len(b.Matches) == 0 && !b.NameMentioned {
			continue
		}
		out = append(out, b)
	}
	SortBreakdowns(out)
	return out
}

func (s *Scorer) scoreOne(id disease.ID, kw Keywords, set *symptom.Set) Breakdown {
	b := Breakdown{Disease: id}

	for keyword, weight := range kw.Diagnostic {
		if set.Contains(keyword) {
			b.Matches = append(b.Matches, Match{Keyword: keyword, Weight: weight, Diagnostic: true})
			b.DiagnosticHits++
			b.Raw += weight
		}
	}
	for keyword, weight := range kw.Generic {
		if set.Contains(keyword) {
			b.Matches = append(b.Matches, Match{Keyword: keyword, Weight: weight})
			b.GenericHits++
			b.Raw += weight
		}
	}

	sort.Slice(b.Matches, func(i, j int) bool {
		if b.Matches[i].Weight != b.Matches[j].Weight {
			return b.Matches[i].Weight > b.Matches[j].Weight
		}
		return b.Matches[i].Keyword < b.Matches[j].Keyword
	})

	b.NameMentioned = s.mentioned(id, set)
	b.Eligible = b.NameMentioned || b.DiagnosticHits >= MinDiagnosticHits
	return b
}

// mentioned checks the disease ID, display name and every registered
// alias against the report text.
func (s *Scorer) mentioned(id disease.ID, set *symptom.Set) bool {
	if set.Contains(string(id)) {
		return true
	}
	if info, ok := s.reg.Info(id); ok && set.Contains(info.Display) {
		return true
	}
	for _, alias := range s.reg.Aliases(id) {
		if set.Contains(alias) {
			return true
		}
	}
	return false
}

// BaseConfidence converts a raw keyword score into the fallback base
// confidence used when no structured prior is available.
func BaseConfidence(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	c := raw / baseDivisor
	if c > baseCeiling {
		return baseCeiling
	}
	return c
}

// SortBreakdowns orders by raw score descending, breaking ties by
// diagnostic hit count and then by lexicographically smaller ID so
// equal-signal results rank the same on every run.
func SortBreakdowns(bs []Breakdown) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Raw != bs[j].Raw {
			return bs[i].Raw > bs[j].Raw
		}
		if bs[i].DiagnosticHits != bs[j].DiagnosticHits {
			return bs[i].DiagnosticHits > bs[j].DiagnosticHits
		}
		return bs[i].Disease < bs[j].Disease
	})
}
