// Package dxcore is the diagnostic reasoning facade. It wires the full
// pipeline: normalize the report text, score keyword tables, calibrate
// confidence, rank candidates with chronic and comorbidity rules, grade
// severity, arbitrate against an optional external estimate, and route
// guidance through the safety gate. The engine holds only immutable
// tables and never persists anything itself.
package dxcore

import (
	"context"
	"fmt"

	"github.com/cognicore/dxcore/pkg/dxcore/calibrate"
	"github.com/cognicore/dxcore/pkg/dxcore/config"
	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance/template"
	"github.com/cognicore/dxcore/pkg/dxcore/lexicon"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
	"github.com/cognicore/dxcore/pkg/dxcore/report"
	"github.com/cognicore/dxcore/pkg/dxcore/score"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
	"github.com/cognicore/dxcore/pkg/dxcore/symptom"
)

// Engine analyzes symptom reports. Safe for concurrent use: every
// component is immutable after construction.
type Engine struct {
	normalizer *symptom.Normalizer
	scorer     *score.Scorer
	calibrator *calibrate.Calibrator
	detector   *detect.Detector
	classifier *severity.Classifier
	gate       gate.Config
	provider   guidance.Provider
	registry   *disease.Registry
	lexicon    *lexicon.Lexicon
	index      *score.Index
	builder    *report.Builder
}

// Options configures an Engine.
type Options struct {
	// Components carries the loaded rule tables. Nil means builtins.
	Components *config.Components

	// Generative is an optional LLM-backed guidance provider. High-risk
	// diseases and gated results never route to it.
	Generative guidance.Provider
}

// New creates an Engine with the given configuration.
func New(opts Options) *Engine {
	comp := opts.Components
	if comp == nil {
		comp = config.Default()
	}

	merger := symptom.NewMerger(symptom.EntriesFromGroups(comp.Lexicon.Groups()))
	tokenizer := symptom.NewTokenizer(symptom.DefaultStopwords())

	return &Engine{
		normalizer: symptom.NewNormalizer(tokenizer, merger, comp.Lexicon),
		scorer:     score.NewScorer(comp.Table, comp.Registry),
		calibrator: calibrate.New(calibrate.DefaultRules(calibrate.DefaultCues()), comp.Calibration),
		detector:   detect.New(comp.Detection, comp.Registry),
		classifier: severity.New(comp.Severity),
		gate:       comp.Gate,
		provider:   guidance.NewRouter(template.New(), opts.Generative, comp.Registry),
		registry:   comp.Registry,
		lexicon:    comp.Lexicon,
		index:      score.NewIndex(comp.Table),
		builder:    report.New(),
	}
}

// BaseEstimate is an external classifier's prior for the report. The
// label is free-form and resolved through the disease registry.
type BaseEstimate struct {
	Label       string
	Probability float64
}

// Request is one symptom report to analyze.
type Request struct {
	Text      string
	Checklist []string
	Profile   patient.Profile
	Base      *BaseEstimate
}

// Candidate is one ranked hypothesis with its full explanation: the
// matched keywords behind the raw score, the pre-calibration base and
// the boost rules that moved it.
type Candidate struct {
	Disease        disease.ID
	Display        string
	Confidence     float64
	Label          string
	Base           float64
	Boosts         []string
	Matches        []score.Match
	DiagnosticHits int
	Explicit       bool
}

// Result is the outcome of one analysis. Built fresh per request and
// never mutated afterwards.
type Result struct {
	Detected     disease.ID
	Display      string
	Confidence   float64
	Label        string
	Source       gate.Source
	MultiDisease detect.Result
	Candidates   []Candidate
	Severity     severity.Assessment
	Guidance     gate.Guidance
	Volume       int
	Advice       guidance.Advice
	Insufficient bool
}

// Analyze runs the full pipeline over one report. Reports that yield no
// usable tokens are not errors: they return the insufficient-input
// marker with generic guidance.
func (e *Engine) Analyze(ctx context.Context, req Request) (Result, error) {
	ev := e.evaluate(req)

	advice, err := e.provider.Advise(ctx, guidance.Request{
		Disease:    ev.verdict.Disease,
		Display:    ev.display,
		Confidence: ev.verdict.Confidence,
		Class:      ev.class,
		Severity:   ev.severity,
		Symptoms:   ev.set.Tokens(),
		Profile:    req.Profile,
	})
	if err != nil {
		return Result{}, fmt.Errorf("render guidance: %w", err)
	}

	return Result{
		Detected:     ev.verdict.Disease,
		Display:      ev.display,
		Confidence:   ev.verdict.Confidence,
		Label:        detect.ConfidenceLabel(ev.verdict.Confidence),
		Source:       ev.verdict.Source,
		MultiDisease: ev.detection,
		Candidates:   ev.candidates,
		Severity:     ev.severity,
		Guidance:     ev.class,
		Volume:       ev.volume,
		Advice:       advice.Trim(ev.volume),
		Insufficient: ev.insufficient,
	}, nil
}

// Report flattens a finished analysis into a persistable record with a
// fresh ULID. Storing the record is the caller's concern.
func (e *Engine) Report(req Request, res Result) store.Assessment {
	return e.builder.Build(report.Input{
		Text:      req.Text,
		Checklist: req.Checklist,
		Display:   res.Display,
		Verdict:   gate.Verdict{Disease: res.Detected, Confidence: res.Confidence, Source: res.Source},
		Detection: res.MultiDisease,
		Severity:  res.Severity,
		Guidance:  res.Guidance,
		Volume:    res.Volume,
	})
}

// Rebuild re-evaluates a stored record under the current tables,
// preserving its identity. It reports whether anything material
// changed. The patient profile is request-scoped and not stored, so
// profile-driven adjustments are absent from rebuilt records. Matches
// the maintenance reassessment hook signature.
func (e *Engine) Rebuild(ctx context.Context, rec store.Assessment) (store.Assessment, bool, error) {
	if err := ctx.Err(); err != nil {
		return rec, false, err
	}

	ev := e.evaluate(Request{Text: rec.Input, Checklist: rec.Checklist})
	updated := e.builder.Build(report.Input{
		Text:      rec.Input,
		Checklist: rec.Checklist,
		Display:   ev.display,
		Verdict:   ev.verdict,
		Detection: ev.detection,
		Severity:  ev.severity,
		Guidance:  ev.class,
		Volume:    ev.volume,
	})
	updated.ID = rec.ID
	updated.CreatedAt = rec.CreatedAt

	if !assessmentChanged(rec, updated) {
		return rec, false, nil
	}
	return updated, true, nil
}

// Which answers the reverse keyword question: which diseases weight
// this keyword, heaviest first. Known synonym variants resolve to
// their canonical form before the lookup.
func (e *Engine) Which(keyword string) []score.IndexEntry {
	return e.index.Lookup(e.lexicon.Normalize(keyword))
}

// Registry exposes the disease registry the engine resolves against.
func (e *Engine) Registry() *disease.Registry { return e.registry }

// evaluation carries the pipeline output up to, but not including,
// guidance rendering. Rebuild stops here; Analyze goes on to render.
type evaluation struct {
	set          *symptom.Set
	verdict      gate.Verdict
	display      string
	detection    detect.Result
	candidates   []Candidate
	severity     severity.Assessment
	class        gate.Guidance
	volume       int
	insufficient bool
}

func (e *Engine) evaluate(req Request) evaluation {
	set := e.normalizer.Normalize(req.Text, req.Checklist)

	if set.Empty() {
		verdict := gate.Verdict{Confidence: gate.InsufficientConfidence, Source: gate.SourceBasic}
		return evaluation{
			set:          set,
			verdict:      verdict,
			display:      detect.LabelUndetermined,
			severity:     severity.Assessment{Level: severity.LevelForScore(0)},
			class:        gate.GuidanceGeneric,
			volume:       e.gate.Volume(verdict.Confidence),
			insufficient: true,
		}
	}

	breakdowns := e.scorer.Score(set)

	var baseID disease.ID
	var baseProb float64
	if req.Base != nil {
		baseID = e.registry.Resolve(req.Base.Label)
		baseProb = clamp01(req.Base.Probability)
	}

	type explain struct {
		breakdown score.Breakdown
		cal       calibrate.Result
	}
	explains := make(map[disease.ID]explain, len(breakdowns))

	var cands []detect.Candidate
	for _, b := range breakdowns {
		if !b.Eligible {
			continue
		}
		base := score.BaseConfidence(b.Raw)
		if b.Disease == baseID && baseProb > 0 {
			base = baseProb
		}
		cal := e.calibrator.Apply(base, calibrate.Evidence{Text: set, DiagnosticHits: b.DiagnosticHits})
		cands = append(cands, detect.Candidate{
			Disease:        b.Disease,
			Confidence:     cal.Confidence,
			DiagnosticHits: b.DiagnosticHits,
			Explicit:       b.NameMentioned || req.Profile.Knows(b.Disease),
		})
		explains[b.Disease] = explain{breakdown: b, cal: cal}
	}

	detection := e.detector.Detect(cands)

	var advanced *detect.Candidate
	if len(detection.Ranked) > 0 {
		advanced = &detection.Ranked[0]
	}
	verdict := gate.Arbitrate(e.basicEstimate(set, breakdowns, baseID, baseProb), advanced)

	candidates := make([]Candidate, 0, len(detection.Ranked))
	for _, c := range detection.Ranked {
		info, _ := e.registry.Info(c.Disease)
		ex := explains[c.Disease]
		candidates = append(candidates, Candidate{
			Disease:        c.Disease,
			Display:        info.Display,
			Confidence:     c.Confidence,
			Label:          detect.ConfidenceLabel(c.Confidence),
			Base:           ex.cal.Base,
			Boosts:         ex.cal.Applied,
			Matches:        ex.breakdown.Matches,
			DiagnosticHits: c.DiagnosticHits,
			Explicit:       c.Explicit,
		})
	}

	return evaluation{
		set:        set,
		verdict:    verdict,
		display:    e.displayFor(verdict, detection),
		detection:  detection,
		candidates: candidates,
		severity:   e.classifier.Assess(set, verdict.Disease, req.Profile),
		class:      e.gate.Route(verdict.Disease, verdict.Confidence),
		volume:     e.gate.Volume(verdict.Confidence),
	}
}

// basicEstimate is the baseline side of the arbitration. An external
// estimate is calibrated against the report evidence; without one, the
// strongest eligible raw score converts to the fallback base, so the
// advanced side wins exactly when calibration added something.
func (e *Engine) basicEstimate(set *symptom.Set, breakdowns []score.Breakdown, baseID disease.ID, baseProb float64) gate.Estimate {
	if baseID != "" && baseProb > 0 {
		hits := 0
		for _, b := range breakdowns {
			if b.Disease == baseID {
				hits = b.DiagnosticHits
				break
			}
		}
		cal := e.calibrator.Apply(baseProb, calibrate.Evidence{Text: set, DiagnosticHits: hits})
		return gate.Estimate{Disease: baseID, Confidence: cal.Confidence}
	}

	for _, b := range breakdowns {
		if b.Eligible {
			return gate.Estimate{Disease: b.Disease, Confidence: score.BaseConfidence(b.Raw)}
		}
	}
	return gate.Estimate{}
}

// displayFor renders the verdict for display. Gated results keep their
// detected ID but read as uncertain; an empty verdict defers to the
// detector's slate label.
func (e *Engine) displayFor(v gate.Verdict, detection detect.Result) string {
	if v.Disease == "" {
		return e.detector.Label(detection)
	}
	if v.Confidence < e.gate.SafetyFloor {
		return detect.LabelUncertain
	}
	info, _ := e.registry.Info(v.Disease)
	return info.Display
}

// assessmentChanged compares the table-derived fields of two records.
// Identity and input fields are excluded; slices compare by value so
// nil and empty are interchangeable.
func assessmentChanged(a, b store.Assessment) bool {
	if a.Disease != b.Disease || a.Display != b.Display || a.Source != b.Source ||
		a.Confidence != b.Confidence || a.SeverityScore != b.SeverityScore ||
		a.SeverityLevel != b.SeverityLevel || a.Emergency != b.Emergency ||
		a.Guidance != b.Guidance || a.Volume != b.Volume {
		return true
	}
	if len(a.Candidates) != len(b.Candidates) ||
		len(a.Comorbid) != len(b.Comorbid) ||
		len(a.Factors) != len(b.Factors) {
		return true
	}
	for i := range a.Candidates {
		if a.Candidates[i] != b.Candidates[i] {
			return true
		}
	}
	for i := range a.Comorbid {
		if a.Comorbid[i] != b.Comorbid[i] {
			return true
		}
	}
	for i := range a.Factors {
		if a.Factors[i] != b.Factors[i] {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
