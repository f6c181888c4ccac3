// Package patient carries the optional reporter profile attached to a
// diagnosis request.
package patient

import "github.com/cognicore/dxcore/pkg/dxcore/disease"

// Profile describes the reporter. The zero value means nothing is
// known; Age zero reads as unknown rather than newborn.
type Profile struct {
	Age             int
	Pregnant        bool
	KnownConditions []disease.ID
}

// Knows reports whether the given disease appears in the reporter's
// known conditions.
func (p Profile) Knows(id disease.ID) bool {
	for _, c := range p.KnownConditions {
		if c == id {
			return true
		}
	}
	return false
}

// HighRisk reports whether the profile alone warrants extra severity
// weight: seniors, infants and pregnant reporters.
func (p Profile) HighRisk() bool {
	return p.Age >= 65 || (p.Age > 0 && p.Age < 2) || p.Pregnant
}

// RiskNote names the first matching high-risk attribute, or empty.
func (p Profile) RiskNote() string {
	switch {
	case p.Age >= 65:
		return "age 65 or over"
	case p.Age > 0 && p.Age < 2:
		return "under two years old"
	case p.Pregnant:
		return "pregnant"
	}
	return ""
}
