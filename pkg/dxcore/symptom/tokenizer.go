package symptom

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits raw symptom text into lowercase word tokens. Input is
// NFKC-folded first so fullwidth characters and unicode compatibility
// forms from web-submitted text match the ASCII keyword tables.
// Apostrophes are dropped inside words ("can't" → "cant") to match the
// severity and calibration phrase lists.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stopword list. The
// list is applied by Filter, not by Tokenize, so phrase matching still
// sees function words ("pain behind eyes").
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// DefaultStopwords returns the builtin stopword list for symptom text.
// Deliberately short: words like "for", "behind", "of" survive until
// after phrase merging, and only then get filtered from the token set.
func DefaultStopwords() []string {
	return []string{
		"a", "an", "the", "and", "or", "but", "so", "also", "with",
		"of", "in", "on", "at", "for", "to", "from", "by", "behind",
		"i", "im", "ive", "me", "my", "mine", "they", "it", "its",
		"am", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "having", "do", "does", "did",
		"feel", "feels", "feeling", "felt", "get", "getting", "got",
		"since", "when", "while", "that", "this", "these", "those",
		"really", "very", "quite", "some", "lot", "bit",
	}
}

// Tokenize splits text into cleaned lowercase tokens. Stopwords are
// retained; use Filter for the post-merge pass.
func (t *Tokenizer) Tokenize(text string) []string {
	return splitTokens(text)
}

func splitTokens(text string) []string {
	text = norm.NFKC.String(text)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := cleanToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-':
			current.WriteRune(unicode.ToLower(r))
		case r == '\'' || r == '’':
			// dropped inside the word: can't → cant
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// Filter applies stopword, length and numeric filtering to a merged
// token stream. Multi-word tokens produced by the phrase merger pass
// through untouched.
func (t *Tokenizer) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.ContainsRune(tok, ' ') {
			out = append(out, tok)
			continue
		}
		if len(tok) <= 1 || isNumericOnly(tok) || t.IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// IsStopword checks membership in the stopword list.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}

// AddStopword adds a word to the stopword list.
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list.
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}

// cleanToken strips leading/trailing hyphens and collapses runs of
// hyphens left over from punctuation like "fever--chills".
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// isNumericOnly returns true if the token contains only digits and
// hyphens. Mixed tokens like "covid-19" are kept.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
