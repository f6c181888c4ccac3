package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon stores the symptom vocabulary mapping informal or colloquial
// terms to canonical symptom tokens ("temp" → "fever", "throw up" →
// "vomiting").
//
// Design principles:
// - Bidirectional: normalize to canonical OR expand canonical to all variants
// - Explainable: the canonical token is what appears in score breakdowns
// - Multi-word variants ("tummy ache") are resolved by the phrase merger
//   before single-token normalization runs
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	// Example: "fever" -> ["fever", "temp", "temperature", "febrile"]
	synonyms map[string][]string

	// variant -> canonical
	// Example: "temp" -> "fever"
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads synonym mappings from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: fever
//	    variants: [temp, temperature, febrile]
//	  - canonical: abdominal pain
//	    variants: [tummy ache, stomach ache, belly pain]
//
// Multi-word canonicals and variants are supported. All tokens are
// normalized to lowercase. The canonical is included in its own
// variant list. Empty canonicals are a configuration error.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for i, entry := range config.Synonyms {
		canonical := strings.ToLower(strings.TrimSpace(entry.Canonical))
		if canonical == "" {
			return nil, fmt.Errorf("synonyms[%d]: empty canonical", i)
		}

		variants := make([]string, 0, len(entry.Variants)+1)
		variants = append(variants, canonical)
		for _, v := range entry.Variants {
			normalized := strings.ToLower(strings.TrimSpace(v))
			if normalized != "" && normalized != canonical {
				variants = append(variants, normalized)
			}
		}

		lex.AddSynonymGroup(canonical, variants)
	}

	return lex, nil
}

// AddSynonymGroup adds a synonym group with a canonical form and its
// variants. The canonical form is always first in the stored list. If
// the group already exists, old reverse index entries are cleaned up
// first.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	canonical = strings.ToLower(canonical)

	if oldVariants, exists := l.synonyms[canonical]; exists {
		for _, oldV := range oldVariants {
			delete(l.reverseIndex, oldV)
		}
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := make(map[string]bool)

	normalized = append(normalized, canonical)
	seen[canonical] = true

	for _, v := range variants {
		v = strings.ToLower(v)
		if !seen[v] {
			normalized = append(normalized, v)
			seen[v] = true
		}
	}

	l.synonyms[canonical] = normalized

	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical form of a token. If the token is not
// in the lexicon, returns the token itself.
//
// Examples:
//   - Normalize("temp") -> "fever"
//   - Normalize("unknown") -> "unknown"
func (l *Lexicon) Normalize(token string) string {
	token = strings.ToLower(token)
	if canonical, ok := l.reverseIndex[token]; ok {
		return canonical
	}
	return token
}

// Variants returns all known variants of a token (including the
// canonical form). If the token is not in the lexicon, returns a slice
// containing only the token itself.
func (l *Lexicon) Variants(token string) []string {
	token = strings.ToLower(token)

	if variants, ok := l.synonyms[token]; ok {
		return variants
	}

	if canonical, ok := l.reverseIndex[token]; ok {
		if variants, ok := l.synonyms[canonical]; ok {
			return variants
		}
	}

	return []string{token}
}

// HasSynonyms returns true if the token appears anywhere in the lexicon.
func (l *Lexicon) HasSynonyms(token string) bool {
	token = strings.ToLower(token)
	_, exists := l.reverseIndex[token]
	return exists
}

// Groups returns each canonical form with its variants. Used by the
// phrase merger to pick up multi-word variants and by the table
// exporter.
func (l *Lexicon) Groups() map[string][]string {
	out := make(map[string][]string, len(l.synonyms))
	for canonical, variants := range l.synonyms {
		cp := make([]string, len(variants))
		copy(cp, variants)
		out[canonical] = cp
	}
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	totalVariants := 0
	for _, variants := range l.synonyms {
		totalVariants += len(variants)
	}
	return Stats{
		SynonymGroups: len(l.synonyms),
		TotalVariants: totalVariants,
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	SynonymGroups int
	TotalVariants int
}
