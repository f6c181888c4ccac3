package symptom

import "strings"

// PhraseEntry maps surface variants of a multi-word symptom onto one
// canonical phrase token ("pain behind eyes", "shortness of breath").
type PhraseEntry struct {
	Canonical string
	Variants  []string
}

// Merger rewrites a token stream so known multi-word symptoms become
// single canonical tokens. Matching is greedy: at each position the
// longest known phrase wins, so "lower back pain" beats "back pain".
type Merger struct {
	phrases map[string]string
	maxLen  int
}

// NewMerger builds a merger from phrase entries. Canonical phrases
// register themselves as their own variant, and single-word variants
// are accepted so informal shorthand can map onto a phrase token.
func NewMerger(entries []PhraseEntry) *Merger {
	m := &Merger{phrases: make(map[string]string)}
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

// Add registers one entry. Later entries win on variant collisions.
func (m *Merger) Add(e PhraseEntry) {
	canon := normalizePhrase(e.Canonical)
	if canon == "" {
		return
	}
	m.register(canon, canon)
	for _, v := range e.Variants {
		if v = normalizePhrase(v); v != "" {
			m.register(v, canon)
		}
	}
}

func (m *Merger) register(variant, canonical string) {
	m.phrases[variant] = canonical
	if n := len(strings.Fields(variant)); n > m.maxLen {
		m.maxLen = n
	}
}

// Len reports how many variants are registered.
func (m *Merger) Len() int { return len(m.phrases) }

// Merge scans tokens left to right, replacing the longest matching
// phrase window at each position with its canonical token.
func (m *Merger) Merge(tokens []string) []string {
	if len(m.phrases) == 0 || len(tokens) == 0 {
		return tokens
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		matched := false
		limit := m.maxLen
		if rest := len(tokens) - i; rest < limit {
			limit = rest
		}
		for n := limit; n >= 1; n-- {
			window := strings.Join(tokens[i:i+n], " ")
			if canon, ok := m.phrases[window]; ok {
				out = append(out, canon)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

// normalizePhrase lowercases and collapses whitespace so lookup keys
// match tokenizer output.
func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
