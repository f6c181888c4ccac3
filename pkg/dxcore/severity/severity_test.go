package severity

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/dxcore/pkg/dxcore/patient"
)

// fakeReport satisfies Text with plain substring matching over
// already-normalized wording.
type fakeReport struct {
	text string
}

func (f fakeReport) Contains(phrase string) bool {
	return strings.Contains(f.text, phrase)
}

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  Level
	}{
		{100, LevelEmergency},
		{99, LevelSevere},
		{80, LevelSevere},
		{79, LevelModerateSevere},
		{50, LevelModerateSevere},
		{49, LevelModerate},
		{30, LevelModerate},
		{29, LevelMild},
		{0, LevelMild},
	}

	for _, tc := range cases {
		if got := LevelForScore(tc.score); got != tc.want {
			t.Errorf("LevelForScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestAssessEmergencyShortCircuits(t *testing.T) {
	c := NewDefault()

	got := c.Assess(fakeReport{"severe crushing chest pain cant breathe"}, "", patient.Profile{})

	if got.Score != 100 {
		t.Errorf("Score = %d, want 100", got.Score)
	}
	if got.Level != LevelEmergency {
		t.Errorf("Level = %q, want %q", got.Level, LevelEmergency)
	}
	if !got.Emergency {
		t.Error("Emergency flag should be set")
	}
	// The short circuit skips every additive band, so exactly one
	// factor explains the score.
	if len(got.Factors) != 1 || got.Factors[0].Category != CategoryEmergency {
		t.Errorf("Factors = %+v, want a single emergency factor", got.Factors)
	}
}

func TestAssessBandCapLandsPartially(t *testing.T) {
	c := NewDefault()

	// Three severe phrases at weight 15 would add 45; the band cap of
	// 40 trims the third match down to 10.
	got := c.Assess(fakeReport{"severe unbearable excruciating pain"}, "", patient.Profile{})

	if got.Score != 40 {
		t.Fatalf("Score = %d, want 40", got.Score)
	}
	want := []Factor{
		{Category: CategorySevere, Phrase: "severe", Weight: 15},
		{Category: CategorySevere, Phrase: "unbearable", Weight: 15},
		{Category: CategorySevere, Phrase: "excruciating", Weight: 10},
	}
	if diff := cmp.Diff(want, got.Factors); diff != "" {
		t.Errorf("Factors mismatch (-want +got):\n%s", diff)
	}
	if got.Level != LevelModerate {
		t.Errorf("Level = %q, want %q", got.Level, LevelModerate)
	}
}

func TestAssessStacksAcrossBands(t *testing.T) {
	c := NewDefault()

	// severe 15 + duration 5 + impact 5 + progression 5 = 30.
	got := c.Assess(fakeReport{"severe headache for days getting worse cant sleep"}, "", patient.Profile{})

	if got.Score != 30 {
		t.Fatalf("Score = %d, want 30 (factors: %+v)", got.Score, got.Factors)
	}
	if got.Level != LevelModerate {
		t.Errorf("Level = %q, want %q", got.Level, LevelModerate)
	}
}

func TestAssessBaselineWhenNothingMatches(t *testing.T) {
	c := NewDefault()

	got := c.Assess(fakeReport{"fever and headache"}, "", patient.Profile{})

	if got.Score != 20 {
		t.Errorf("Score = %d, want baseline 20", got.Score)
	}
	if got.Level != LevelMild {
		t.Errorf("Level = %q, want %q", got.Level, LevelMild)
	}
	if len(got.Factors) != 1 || got.Factors[0].Category != CategoryBaseline {
		t.Errorf("Factors = %+v, want a single baseline factor", got.Factors)
	}
}

func TestAssessMildWordingDampens(t *testing.T) {
	c := NewDefault()

	// Two mild matches at -5 land before the dampener cap of 10 cuts
	// off the third; the negative total clamps to zero.
	got := c.Assess(fakeReport{"mild occasional cough improving"}, "", patient.Profile{})

	if got.Score != 0 {
		t.Errorf("Score = %d, want 0 (factors: %+v)", got.Score, got.Factors)
	}
	if got.Level != LevelMild {
		t.Errorf("Level = %q, want %q", got.Level, LevelMild)
	}
	if len(got.Factors) != 2 {
		t.Errorf("got %d factors, want 2 capped mild factors: %+v", len(got.Factors), got.Factors)
	}
}

func TestAssessDiseaseAdjustment(t *testing.T) {
	c := NewDefault()

	// Baseline 20 plus the appendicitis adjustment of +10.
	got := c.Assess(fakeReport{"stomach hurts"}, "appendicitis", patient.Profile{})

	if got.Score != 30 {
		t.Fatalf("Score = %d, want 30", got.Score)
	}
	var adjusted bool
	for _, f := range got.Factors {
		if f.Category == CategoryDisease && f.Phrase == "appendicitis" && f.Weight == 10 {
			adjusted = true
		}
	}
	if !adjusted {
		t.Errorf("missing disease adjustment factor: %+v", got.Factors)
	}
}

func TestAssessProfileBoost(t *testing.T) {
	c := NewDefault()

	without := c.Assess(fakeReport{"fever and headache"}, "", patient.Profile{Age: 40})
	with := c.Assess(fakeReport{"fever and headache"}, "", patient.Profile{Age: 72})

	if with.Score != without.Score+5 {
		t.Errorf("high-risk score = %d, want %d", with.Score, without.Score+5)
	}
	var boosted bool
	for _, f := range with.Factors {
		if f.Category == CategoryProfile && f.Weight == 5 {
			boosted = true
		}
	}
	if !boosted {
		t.Errorf("missing profile factor: %+v", with.Factors)
	}
}

func TestAssessClampsAtHundred(t *testing.T) {
	c := NewDefault()

	// Every band at its cap sums to 95; the appendicitis adjustment
	// pushes past 100 and the clamp holds the score there.
	text := "severe unbearable excruciating persistent constant " +
		"days weeks cant work cant sleep bedridden getting worse rapidly"
	got := c.Assess(fakeReport{text}, "appendicitis", patient.Profile{})

	if got.Score != 100 {
		t.Fatalf("Score = %d, want 100 (factors: %+v)", got.Score, got.Factors)
	}
	if got.Emergency {
		t.Error("additive path must not raise the emergency flag")
	}
}

func TestAssessNilTextUsesBaseline(t *testing.T) {
	c := NewDefault()

	got := c.Assess(nil, "", patient.Profile{})

	if got.Score != 20 {
		t.Errorf("Score = %d, want baseline 20", got.Score)
	}
}
