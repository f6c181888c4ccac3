package dxcore

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance"
	"github.com/cognicore/dxcore/pkg/dxcore/maintenance"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
	"github.com/cognicore/dxcore/pkg/dxcore/score"
)

// Rebuild must keep satisfying the maintenance reassessment hook.
var _ maintenance.RebuildFunc = (*Engine)(nil).Rebuild

// dengueReport carries two diagnostic keywords, two generic ones and a
// duration cue: raw 8.5, base 0.85, one calibration boost.
const dengueReport = "pain behind eyes and bleeding gums with high fever and rash for three days"

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAnalyzeDetectsDengueFromDiagnosticKeywords(t *testing.T) {
	eng := New(Options{})

	res, err := eng.Analyze(context.Background(), Request{Text: dengueReport})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Detected != "dengue" {
		t.Fatalf("Detected = %q, want dengue", res.Detected)
	}
	if res.Source != gate.SourceAdvanced {
		t.Errorf("Source = %q, want %q", res.Source, gate.SourceAdvanced)
	}
	if res.Display != "Dengue" {
		t.Errorf("Display = %q, want Dengue", res.Display)
	}
	if !approx(res.Confidence, 0.85*1.05) {
		t.Errorf("Confidence = %v, want %v", res.Confidence, 0.85*1.05)
	}
	if res.Label != "High" {
		t.Errorf("Label = %q, want High", res.Label)
	}
	if res.Guidance != gate.GuidanceSpecific {
		t.Errorf("Guidance = %q, want %q", res.Guidance, gate.GuidanceSpecific)
	}
	if res.Volume != 5 {
		t.Errorf("Volume = %d, want 5", res.Volume)
	}

	if len(res.Candidates) != 1 {
		t.Fatalf("Candidates = %d, want 1", len(res.Candidates))
	}
	cand := res.Candidates[0]
	if cand.Disease != "dengue" || cand.DiagnosticHits != 2 || cand.Explicit {
		t.Errorf("candidate = %+v", cand)
	}
	if len(cand.Matches) != 4 {
		t.Errorf("matches = %d, want 4 (two diagnostic, two generic)", len(cand.Matches))
	}
}

func TestAnalyzeExternalEstimateTieKeepsBasic(t *testing.T) {
	eng := New(Options{})

	// The base candidate's calibration starts from the supplied
	// probability, so both arbitration sides see the same boosts and
	// the tie keeps the basic source.
	res, err := eng.Analyze(context.Background(), Request{
		Text: dengueReport,
		Base: &BaseEstimate{Label: "dengue", Probability: 0.9},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Detected != "dengue" {
		t.Fatalf("Detected = %q, want dengue", res.Detected)
	}
	if res.Source != gate.SourceBasic {
		t.Errorf("Source = %q, want %q", res.Source, gate.SourceBasic)
	}
	if !approx(res.Confidence, 0.9*1.05) {
		t.Errorf("Confidence = %v, want %v", res.Confidence, 0.9*1.05)
	}
}

func TestAnalyzeExternalEstimateLosesToStrongerSlate(t *testing.T) {
	eng := New(Options{})

	res, err := eng.Analyze(context.Background(), Request{
		Text: dengueReport,
		Base: &BaseEstimate{Label: "typhoid", Probability: 0.2},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Detected != "dengue" {
		t.Fatalf("Detected = %q, want dengue over the weak typhoid prior", res.Detected)
	}
	if res.Source != gate.SourceAdvanced {
		t.Errorf("Source = %q, want %q", res.Source, gate.SourceAdvanced)
	}
	if !approx(res.Confidence, 0.85*1.05) {
		t.Errorf("Confidence = %v, want %v", res.Confidence, 0.85*1.05)
	}
}

func TestAnalyzeBaseLabelResolvesAliases(t *testing.T) {
	eng := New(Options{})

	res, err := eng.Analyze(context.Background(), Request{
		Text: dengueReport,
		Base: &BaseEstimate{Label: "Dengue Fever", Probability: 0.9},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Detected != "dengue" || res.Source != gate.SourceBasic {
		t.Errorf("got %q via %q, want dengue via %q", res.Detected, res.Source, gate.SourceBasic)
	}
}

func TestAnalyzeChecklistBoost(t *testing.T) {
	eng := New(Options{})

	res, err := eng.Analyze(context.Background(), Request{
		Text:      "feeling unwell",
		Checklist: []string{"fever", "rash", "bleeding gums", "pain behind eyes"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Detected != "dengue" {
		t.Fatalf("Detected = %q, want dengue", res.Detected)
	}
	if !approx(res.Confidence, 0.85*1.10) {
		t.Errorf("Confidence = %v, want %v", res.Confidence, 0.85*1.10)
	}
	if len(res.Candidates) == 0 {
		t.Fatal("no candidates")
	}
	if diff := cmp.Diff([]string{"checklist"}, res.Candidates[0].Boosts); diff != "" {
		t.Errorf("boosts mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeProfileConditionExemptsChronicFloor(t *testing.T) {
	eng := New(Options{})
	ctx := context.Background()
	text := "blurred vision and tingling for weeks"

	// Without confirmation the chronic candidate is dropped from the
	// slate and the verdict falls back to the raw estimate.
	plain, err := eng.Analyze(ctx, Request{Text: text})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(plain.MultiDisease.Ranked) != 0 {
		t.Fatalf("ranked = %v, want empty slate", plain.MultiDisease.Ranked)
	}
	if len(plain.MultiDisease.Excluded) != 1 {
		t.Fatalf("excluded = %v, want one entry", plain.MultiDisease.Excluded)
	}
	ex := plain.MultiDisease.Excluded[0]
	if ex.Disease != "diabetes" || ex.Reason != detect.ReasonChronicUnconfirmed {
		t.Errorf("exclusion = %+v", ex)
	}
	if plain.Source != gate.SourceBasic || !approx(plain.Confidence, 0.50) {
		t.Errorf("verdict = %v @ %v via %q, want 0.50 via basic",
			plain.Detected, plain.Confidence, plain.Source)
	}

	// A known-conditions entry confirms the disease and lets it rank.
	known, err := eng.Analyze(ctx, Request{
		Text:    text,
		Profile: patient.Profile{KnownConditions: []disease.ID{"diabetes"}},
	})
	if err != nil {
		t.Fatalf("Analyze with profile: %v", err)
	}
	if len(known.MultiDisease.Ranked) != 1 || known.MultiDisease.Ranked[0].Disease != "diabetes" {
		t.Fatalf("ranked = %v, want diabetes", known.MultiDisease.Ranked)
	}
	if !known.MultiDisease.Ranked[0].Explicit {
		t.Error("ranked candidate should be marked explicit")
	}
	if known.Source != gate.SourceAdvanced || !approx(known.Confidence, 0.5*1.05) {
		t.Errorf("verdict = %v @ %v via %q, want 0.525 via advanced",
			known.Detected, known.Confidence, known.Source)
	}
	if known.Guidance != gate.GuidanceSpecific {
		t.Errorf("Guidance = %q, want %q", known.Guidance, gate.GuidanceSpecific)
	}
}

func TestReportFlattensResult(t *testing.T) {
	eng := New(Options{})
	req := Request{Text: dengueReport}

	res, err := eng.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	rec := eng.Report(req, res)

	if len(rec.ID) != 26 {
		t.Errorf("ID = %q, want a 26-char ULID", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if rec.Input != dengueReport {
		t.Errorf("Input = %q", rec.Input)
	}
	if rec.Disease != "dengue" || rec.Display != "Dengue" {
		t.Errorf("record names %q/%q", rec.Disease, rec.Display)
	}
	if rec.Source != string(gate.SourceAdvanced) {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.Guidance != string(gate.GuidanceSpecific) || rec.Volume != 5 {
		t.Errorf("guidance %q volume %d", rec.Guidance, rec.Volume)
	}
	if !approx(rec.Confidence, res.Confidence) {
		t.Errorf("Confidence = %v, want %v", rec.Confidence, res.Confidence)
	}
	if rec.SeverityScore != res.Severity.Score || rec.SeverityLevel != string(res.Severity.Level) {
		t.Errorf("severity %d/%q, want %d/%q",
			rec.SeverityScore, rec.SeverityLevel, res.Severity.Score, res.Severity.Level)
	}
	if len(rec.Candidates) != 1 || rec.Candidates[0].Rank != 1 || rec.Candidates[0].Disease != "dengue" {
		t.Errorf("candidates = %+v", rec.Candidates)
	}
}

func TestRebuildKeepsUnchangedRecords(t *testing.T) {
	eng := New(Options{})
	ctx := context.Background()
	req := Request{Text: dengueReport}

	res, err := eng.Analyze(ctx, req)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	rec := eng.Report(req, res)

	got, changed, err := eng.Rebuild(ctx, rec)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if changed {
		t.Fatal("Rebuild reported change for an untouched record")
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("record mutated (-want +got):\n%s", diff)
	}
}

func TestRebuildRecomputesDriftedRecords(t *testing.T) {
	eng := New(Options{})
	ctx := context.Background()
	req := Request{Text: dengueReport}

	res, err := eng.Analyze(ctx, req)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	rec := eng.Report(req, res)

	drifted := rec
	drifted.Confidence = 0.01
	drifted.Display = "Stale"

	got, changed, err := eng.Rebuild(ctx, drifted)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !changed {
		t.Fatal("Rebuild missed the drift")
	}
	if got.ID != rec.ID || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("identity changed: %q @ %v", got.ID, got.CreatedAt)
	}
	if got.Display != "Dengue" || !approx(got.Confidence, rec.Confidence) {
		t.Errorf("rebuilt %q @ %v, want Dengue @ %v", got.Display, got.Confidence, rec.Confidence)
	}
}

func TestRebuildHonorsContext(t *testing.T) {
	eng := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, changed, err := eng.Rebuild(ctx, eng.Report(Request{Text: "fever"}, Result{}))
	if err == nil {
		t.Fatal("expected context error")
	}
	if changed {
		t.Error("canceled rebuild must not report change")
	}
}

func TestWhichFindsWeightedDiseases(t *testing.T) {
	eng := New(Options{})

	got := eng.Which("Pain behind eyes!")
	want := []score.IndexEntry{{Disease: "dengue", Weight: 3.5, Diagnostic: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lookup mismatch (-want +got):\n%s", diff)
	}

	if entries := eng.Which("no such keyword"); len(entries) != 0 {
		t.Errorf("unexpected entries: %v", entries)
	}
}

// stubProvider is a canned generative backend for routing tests.
type stubProvider struct {
	advice guidance.Advice
	err    error
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Advise(context.Context, guidance.Request) (guidance.Advice, error) {
	return s.advice, s.err
}

func TestGuidanceRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("risk classes stay deterministic", func(t *testing.T) {
		eng := New(Options{Generative: stubProvider{err: errors.New("llm down")}})
		res, err := eng.Analyze(ctx, Request{Text: dengueReport})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if res.Advice.Source != "template" || !res.Advice.Deterministic {
			t.Errorf("advice from %q deterministic=%v, want template",
				res.Advice.Source, res.Advice.Deterministic)
		}
	})

	t.Run("risk-free diseases use the generative provider", func(t *testing.T) {
		eng := New(Options{Generative: stubProvider{
			advice: guidance.Advice{Summary: "generated", Source: "llm"},
		}})
		res, err := eng.Analyze(ctx, Request{
			Text: "fever headache fatigue",
			Base: &BaseEstimate{Label: "typhoid", Probability: 0.5},
		})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if res.Guidance != gate.GuidanceSpecific {
			t.Fatalf("Guidance = %q, want specific", res.Guidance)
		}
		if res.Advice.Summary != "generated" || res.Advice.Source != "llm" {
			t.Errorf("advice = %+v, want the generative answer", res.Advice)
		}
	})

	t.Run("generative failure surfaces as error", func(t *testing.T) {
		eng := New(Options{Generative: stubProvider{err: errors.New("llm down")}})
		_, err := eng.Analyze(ctx, Request{
			Text: "fever headache fatigue",
			Base: &BaseEstimate{Label: "typhoid", Probability: 0.5},
		})
		if err == nil {
			t.Fatal("expected error from the failing provider")
		}
		if !strings.Contains(err.Error(), "render guidance") {
			t.Errorf("err = %v, want render guidance wrap", err)
		}
	})

	t.Run("generic class skips the generative provider", func(t *testing.T) {
		eng := New(Options{Generative: stubProvider{err: errors.New("llm down")}})
		res, err := eng.Analyze(ctx, Request{Text: "fever and headache"})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if res.Advice.Source != "template" {
			t.Errorf("advice source = %q, want template", res.Advice.Source)
		}
	})
}
