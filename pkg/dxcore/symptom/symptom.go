// Package symptom turns free-form complaint text into a normalized,
// immutable token set. The pipeline is: tokenize, merge multi-word
// phrases, map synonyms onto canonical terms, filter stopwords, dedupe.
// Everything downstream (scoring, calibration, severity) reads the
// resulting Set and never mutates it.
package symptom

import "strings"

// Set is the normalized view of one symptom report. It keeps both the
// canonical token list and the cleaned surface text: keyword tables
// match against canonical tokens, while severity and calibration cue
// lists match phrases against the surface form.
type Set struct {
	tokens    []string
	members   map[string]struct{}
	surface   string
	canonical string
	checklist int
}

// newSet builds a Set from the normalizer's output. Tokens must
// already be deduped and ordered.
func newSet(tokens []string, surface string, checklist int) *Set {
	members := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		members[tok] = struct{}{}
	}
	return &Set{
		tokens:    tokens,
		members:   members,
		surface:   surface,
		canonical: strings.Join(tokens, " "),
		checklist: checklist,
	}
}

// Tokens returns a copy of the canonical token list in first-seen
// order.
func (s *Set) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// TokenCount reports how many distinct canonical tokens were
// extracted. Used by the vagueness penalty.
func (s *Set) TokenCount() int { return len(s.tokens) }

// ChecklistCount reports how many structured checklist items came
// with the report.
func (s *Set) ChecklistCount() int { return s.checklist }

// Empty reports whether normalization produced no usable tokens.
func (s *Set) Empty() bool { return len(s.tokens) == 0 }

// Has checks exact membership of a canonical token.
func (s *Set) Has(token string) bool {
	_, ok := s.members[strings.ToLower(token)]
	return ok
}

// Contains reports whether the phrase occurs on a word boundary in
// either the cleaned surface text or the canonical token text. The
// query is cleaned the same way the input was, so "can't breathe"
// matches a report containing "cant breathe".
func (s *Set) Contains(phrase string) bool {
	phrase = CleanText(phrase)
	if phrase == "" {
		return false
	}
	return containsWords(s.surface, phrase) || containsWords(s.canonical, phrase)
}

// Surface returns the cleaned text: lowercase, punctuation stripped,
// single-spaced, stopwords and numbers still present.
func (s *Set) Surface() string { return s.surface }

// Canonical returns the canonical tokens joined by single spaces.
func (s *Set) Canonical() string { return s.canonical }

// CleanText lowercases, strips punctuation and apostrophes, and
// collapses whitespace. It applies the same rune rules as tokenizing,
// so phrase lists and report text land in the same space.
func CleanText(text string) string {
	return strings.Join(splitTokens(text), " ")
}

// containsWords checks word-boundary containment of needle in
// haystack, both already cleaned.
func containsWords(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
