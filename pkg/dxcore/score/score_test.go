package score

import (
	"math"
	"testing"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/lexicon"
	"github.com/cognicore/dxcore/pkg/dxcore/symptom"
)

func testNormalizer() *symptom.Normalizer {
	lex := lexicon.Default()
	merger := symptom.NewMerger(symptom.EntriesFromGroups(lex.Groups()))
	return symptom.NewNormalizer(symptom.NewTokenizer(symptom.DefaultStopwords()), merger, lex)
}

func find(bs []Breakdown, id disease.ID) (Breakdown, bool) {
	for _, b := range bs {
		if b.Disease == id {
			return b, true
		}
	}
	return Breakdown{}, false
}

func TestGenericSymptomsAloneFailExistenceGate(t *testing.T) {
	s := NewScorer(nil, nil)
	set := testNormalizer().Normalize("fever and headache for two days", nil)

	bs := s.Score(set)
	b, ok := find(bs, "dengue")
	if !ok {
		t.Fatal("expected a dengue breakdown for explainability")
	}
	if b.Eligible {
		t.Error("dengue must not pass the gate on fever and headache alone")
	}
	if b.DiagnosticHits != 0 || b.GenericHits != 2 {
		t.Errorf("hits = %d diagnostic, %d generic, want 0 and 2", b.DiagnosticHits, b.GenericHits)
	}

	for _, b := range bs {
		if b.Eligible {
			t.Errorf("%s passed the gate on generic symptoms only", b.Disease)
		}
	}
}

func TestTwoDiagnosticMatchesPassExistenceGate(t *testing.T) {
	s := NewScorer(nil, nil)
	set := testNormalizer().Normalize("high fever, pain behind my eyes and bleeding gums", nil)

	b, ok := find(s.Score(set), "dengue")
	if !ok {
		t.Fatal("dengue missing from breakdowns")
	}
	if !b.Eligible {
		t.Error("two diagnostic matches must pass the gate")
	}
	if b.DiagnosticHits != 2 {
		t.Errorf("DiagnosticHits = %d, want 2", b.DiagnosticHits)
	}
	if want := 3.5 + 3.0 + 1.0; math.Abs(b.Raw-want) > 1e-9 {
		t.Errorf("Raw = %v, want %v", b.Raw, want)
	}
}

func TestNameMentionPassesGateDespiteWeakSignal(t *testing.T) {
	s := NewScorer(nil, nil)
	set := testNormalizer().Normalize("I think I have dengue, just a mild fever", nil)

	b, ok := find(s.Score(set), "dengue")
	if !ok {
		t.Fatal("dengue missing from breakdowns")
	}
	if !b.NameMentioned || !b.Eligible {
		t.Errorf("NameMentioned = %v, Eligible = %v, want both true", b.NameMentioned, b.Eligible)
	}
	if b.DiagnosticHits != 0 {
		t.Errorf("DiagnosticHits = %d, want 0", b.DiagnosticHits)
	}
}

func TestAliasMentionCountsAsName(t *testing.T) {
	s := NewScorer(nil, nil)
	set := testNormalizer().Normalize("my acid reflux is acting up again", nil)

	b, ok := find(s.Score(set), "gerd")
	if !ok {
		t.Fatal("gerd missing from breakdowns")
	}
	if !b.NameMentioned || !b.Eligible {
		t.Errorf("NameMentioned = %v, Eligible = %v, want both true", b.NameMentioned, b.Eligible)
	}
}

func TestRepeatedKeywordCountsOnce(t *testing.T) {
	s := NewScorer(nil, nil)
	set := testNormalizer().Normalize("mosquito bites, mosquito everywhere, mosquito", nil)

	b, ok := find(s.Score(set), "dengue")
	if !ok {
		t.Fatal("dengue missing from breakdowns")
	}
	if b.DiagnosticHits != 1 || len(b.Matches) != 1 {
		t.Errorf("hits = %d, matches = %d, want 1 and 1", b.DiagnosticHits, len(b.Matches))
	}
	if math.Abs(b.Raw-2.5) > 1e-9 {
		t.Errorf("Raw = %v, want 2.5", b.Raw)
	}
}

func TestTieBreaksAreDeterministic(t *testing.T) {
	table := Table{
		"alpha": {Diagnostic: Weights{"marker three": 7.5}},
		"beta":  {Diagnostic: Weights{"marker one": 2.5, "marker two": 2.5, "marker five": 2.5}},
		"delta": {Diagnostic: Weights{"marker one": 2.5, "marker two": 2.5}},
		"gamma": {Diagnostic: Weights{"marker one": 2.5, "marker two": 2.5}},
	}
	s := NewScorer(table, disease.NewRegistry())
	set := testNormalizer().Normalize("marker one marker two marker three marker five", nil)

	bs := s.Score(set)
	var got []disease.ID
	for _, b := range bs {
		got = append(got, b.Disease)
	}

	// beta and alpha tie at 7.5: beta wins on diagnostic hits. delta
	// and gamma tie exactly: smaller ID first.
	want := []disease.ID{"beta", "alpha", "delta", "gamma"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestScoreEmptySet(t *testing.T) {
	s := NewScorer(nil, nil)
	if bs := s.Score(testNormalizer().Normalize("", nil)); bs != nil {
		t.Errorf("expected nil breakdowns for empty input, got %v", bs)
	}
	if bs := s.Score(nil); bs != nil {
		t.Errorf("expected nil breakdowns for nil set, got %v", bs)
	}
}

func TestBaseConfidence(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{-1, 0},
		{2.5, 0.25},
		{7.5, 0.75},
		{9.5, 0.95},
		{12, 0.95},
	}
	for _, tc := range cases {
		if got := BaseConfidence(tc.raw); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("BaseConfidence(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestDefaultTableKeepsWeightBands(t *testing.T) {
	reg := disease.Default()
	for id, kw := range DefaultTable() {
		if !reg.Known(id) {
			t.Errorf("table disease %q is not in the default registry", id)
		}
		for keyword, w := range kw.Diagnostic {
			if w < MinDiagnosticWeight {
				t.Errorf("%s diagnostic %q weight %v below %v", id, keyword, w, MinDiagnosticWeight)
			}
		}
		for keyword, w := range kw.Generic {
			if w <= 0 || w > MaxGenericWeight {
				t.Errorf("%s generic %q weight %v outside (0, %v]", id, keyword, w, MaxGenericWeight)
			}
		}
	}
}

func TestDefaultTableCoversRegistry(t *testing.T) {
	table := DefaultTable()
	for _, info := range disease.Default().All() {
		if _, ok := table[info.ID]; !ok {
			t.Errorf("registry disease %q has no keyword entry", info.ID)
		}
	}
}
