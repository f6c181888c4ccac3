package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

func TestNewIDStrictlyIncreasing(t *testing.T) {
	b := New()
	// Freeze the clock so both IDs land in the same millisecond and
	// only the monotonic entropy separates them.
	fixed := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	first := b.NewID()
	second := b.NewID()

	if len(first) != 26 || len(second) != 26 {
		t.Fatalf("ULIDs must be 26 chars: %q, %q", first, second)
	}
	if !(first < second) {
		t.Errorf("IDs must increase within a millisecond: %q then %q", first, second)
	}
}

func TestBuildFlattensPipelineOutput(t *testing.T) {
	b := New()
	fixed := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	in := Input{
		Text:      "high fever and rash",
		Checklist: []string{"fever"},
		Display:   "Dengue",
		Verdict: gate.Verdict{
			Disease:    "dengue",
			Confidence: 0.62,
			Source:     gate.SourceAdvanced,
		},
		Detection: detect.Result{
			Ranked: []detect.Candidate{
				{Disease: "dengue", Confidence: 0.62},
				{Disease: "flu", Confidence: 0.31},
			},
			Comorbid: []detect.Comorbidity{
				{Candidate: detect.Candidate{Disease: "typhoid", Confidence: 0.45}, Basis: detect.BasisGap},
			},
		},
		Severity: severity.Assessment{
			Score: 45,
			Level: severity.LevelModerate,
			Factors: []severity.Factor{
				{Category: "severe", Phrase: "high fever", Weight: 15},
			},
		},
		Guidance: gate.GuidanceSpecific,
		Volume:   5,
	}

	got := b.Build(in)

	if got.ID == "" {
		t.Fatal("record must carry an ID")
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, fixed)
	}
	if got.Disease != "dengue" || got.Confidence != 0.62 || got.Source != "advanced" {
		t.Errorf("verdict fields mismatch: %+v", got)
	}
	if got.Guidance != "disease-specific" || got.Volume != 5 {
		t.Errorf("gate fields mismatch: %+v", got)
	}

	wantCands := []store.Candidate{
		{Rank: 1, Disease: "dengue", Confidence: 0.62},
		{Rank: 2, Disease: "flu", Confidence: 0.31},
	}
	if diff := cmp.Diff(wantCands, got.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
	if len(got.Comorbid) != 1 || got.Comorbid[0] != "typhoid" {
		t.Errorf("comorbid mismatch: %v", got.Comorbid)
	}
	if len(got.Factors) != 1 || got.Factors[0].Phrase != "high fever" {
		t.Errorf("factors mismatch: %v", got.Factors)
	}
}
