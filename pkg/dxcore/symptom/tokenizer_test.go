package symptom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeLowercasesAndStripsPunctuation(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("High FEVER, chills... and a Headache!")
	want := []string{"high", "fever", "chills", "and", "a", "headache"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeDropsApostrophesInsideWords(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("I can't breathe, it’s worse at night")
	want := []string{"i", "cant", "breathe", "its", "worse", "at", "night"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeFoldsCompatibilityForms(t *testing.T) {
	tok := NewTokenizer(nil)

	// Fullwidth input from copy-pasted forms should match ASCII tables.
	got := tok.Tokenize("ＦＥＶＥＲ ｃｈｉｌｌｓ")
	want := []string{"fever", "chills"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeKeepsHyphenatedTerms(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokenize("covid-19 follow-up --- -x-")
	want := []string{"covid-19", "follow-up", "x"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterDropsStopwordsNumbersAndShortTokens(t *testing.T) {
	tok := NewTokenizer(DefaultStopwords())

	in := []string{"fever", "for", "3", "days", "x", "pain behind eyes"}
	got := tok.Filter(in)
	want := []string{"fever", "days", "pain behind eyes"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterKeepsMergedPhrasesVerbatim(t *testing.T) {
	tok := NewTokenizer(DefaultStopwords())

	// A merged phrase may contain stopwords; it must pass through.
	got := tok.Filter([]string{"shortness of breath"})
	want := []string{"shortness of breath"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestStopwordMutation(t *testing.T) {
	tok := NewTokenizer([]string{"and"})

	if !tok.IsStopword("AND") {
		t.Error("expected case-insensitive stopword hit")
	}

	tok.AddStopword("Maybe")
	if !tok.IsStopword("maybe") {
		t.Error("expected added stopword to register")
	}

	tok.RemoveStopword("and")
	if tok.IsStopword("and") {
		t.Error("expected removed stopword to be gone")
	}
}
