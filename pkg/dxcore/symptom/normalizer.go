package symptom

import (
	"strings"

	"github.com/cognicore/dxcore/pkg/dxcore/lexicon"
)

// Normalizer runs the full text pipeline. Stages are ordered so that
// phrase merging sees raw tokens (stopwords intact), synonym mapping
// sees merged tokens, and stopword filtering runs last.
type Normalizer struct {
	tokenizer *Tokenizer
	merger    *Merger
	lexicon   *lexicon.Lexicon
}

// NewNormalizer wires the pipeline stages together. Any stage may be
// nil, in which case it is replaced by a no-op default.
func NewNormalizer(tok *Tokenizer, merger *Merger, lex *lexicon.Lexicon) *Normalizer {
	if tok == nil {
		tok = NewTokenizer(DefaultStopwords())
	}
	if merger == nil {
		merger = NewMerger(nil)
	}
	if lex == nil {
		lex = lexicon.New()
	}
	return &Normalizer{tokenizer: tok, merger: merger, lexicon: lex}
}

// Normalize processes free text plus optional structured checklist
// items into one Set. Checklist items are normalized through the same
// stages but phrase merging never spans the text/item boundary.
func (n *Normalizer) Normalize(text string, checklist []string) *Set {
	var (
		surfaces []string
		combined []string
		items    int
	)

	process := func(source string) []string {
		raw := n.tokenizer.Tokenize(source)
		if len(raw) == 0 {
			return nil
		}
		surfaces = append(surfaces, strings.Join(raw, " "))

		merged := n.merger.Merge(raw)
		mapped := make([]string, len(merged))
		for i, tok := range merged {
			mapped[i] = n.lexicon.Normalize(tok)
		}
		return n.tokenizer.Filter(mapped)
	}

	combined = append(combined, process(text)...)
	for _, item := range checklist {
		toks := process(item)
		if toks == nil && strings.TrimSpace(item) == "" {
			continue
		}
		items++
		combined = append(combined, toks...)
	}

	return newSet(dedupe(combined), strings.Join(surfaces, " "), items)
}

// EntriesFromGroups converts synonym groups into merger entries,
// keeping only groups where the canonical or some variant is
// multi-word. Single-word groups are handled by the lexicon stage.
func EntriesFromGroups(groups map[string][]string) []PhraseEntry {
	var entries []PhraseEntry
	for canonical, variants := range groups {
		multi := strings.ContainsRune(canonical, ' ')
		if !multi {
			for _, v := range variants {
				if strings.ContainsRune(v, ' ') {
					multi = true
					break
				}
			}
		}
		if multi {
			entries = append(entries, PhraseEntry{Canonical: canonical, Variants: variants})
		}
	}
	return entries
}

// dedupe removes duplicate tokens preserving first-seen order.
func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
