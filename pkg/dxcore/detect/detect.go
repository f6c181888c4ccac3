// Package detect turns calibrated candidates into a ranked diagnosis
// slate. It drops weak and unconfirmed-chronic candidates, keeps the
// strongest few, and flags comorbidity when secondary candidates score
// close to the primary or form a known co-presentation pair.
package detect

import (
	"sort"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
)

// Default detection thresholds.
const (
	DefaultMinConfidence  = 0.15
	DefaultChronicFloor   = 0.60
	DefaultComorbidityGap = 0.20
	DefaultTopN           = 3
	MinTopN               = 3
	MaxTopN               = 5
)

// Display labels for slates without a confident primary.
const (
	LabelUncertain    = "Uncertain - multiple systems involved"
	LabelUndetermined = "Undetermined"
)

// ConfidenceLabel buckets a calibrated confidence for display.
func ConfidenceLabel(c float64) string {
	switch {
	case c >= 0.75:
		return "High"
	case c >= 0.45:
		return "Medium"
	default:
		return "Low"
	}
}

// Thresholds configures the detector. The three confidence thresholds
// are independent knobs; tuning one never moves the others.
type Thresholds struct {
	// MinConfidence drops candidates below this calibrated value.
	MinConfidence float64
	// ChronicFloor is the higher bar a chronic disease must clear
	// unless the reporter mentioned it outright.
	ChronicFloor float64
	// ComorbidityGap flags a secondary candidate as comorbid when its
	// confidence is within this distance of the primary.
	ComorbidityGap float64
	// TopN bounds the ranked slate, between MinTopN and MaxTopN.
	TopN int
}

// DefaultThresholds returns the standard detection knobs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence:  DefaultMinConfidence,
		ChronicFloor:   DefaultChronicFloor,
		ComorbidityGap: DefaultComorbidityGap,
		TopN:           DefaultTopN,
	}
}

// Candidate is one calibrated disease hypothesis entering detection.
type Candidate struct {
	Disease        disease.ID
	Confidence     float64
	DiagnosticHits int
	// Explicit marks diseases the reporter named or carries in their
	// known-conditions profile; it exempts chronic candidates from the
	// higher floor.
	Explicit bool
}

// Reason explains why a candidate was dropped.
type Reason string

const (
	ReasonBelowFloor         Reason = "below-confidence-floor"
	ReasonChronicUnconfirmed Reason = "chronic-without-confirmation"
)

// Exclusion records one dropped candidate.
type Exclusion struct {
	Disease    disease.ID
	Confidence float64
	Reason     Reason
}

// Basis says what made a secondary candidate comorbid.
type Basis string

const (
	BasisGap     Basis = "confidence-gap"
	BasisPattern Basis = "known-pattern"
)

// Comorbidity is a secondary candidate judged to co-present with the
// primary. Pattern is set only for BasisPattern.
type Comorbidity struct {
	Candidate Candidate
	Basis     Basis
	Pattern   string
}

// Result is the detector's output. Ranked is ordered strongest first;
// when it is empty the report carried too little usable signal.
type Result struct {
	Ranked   []Candidate
	Comorbid []Comorbidity
	Excluded []Exclusion
}

// Primary returns the top candidate, if any survived.
func (r Result) Primary() (Candidate, bool) {
	if len(r.Ranked) == 0 {
		return Candidate{}, false
	}
	return r.Ranked[0], true
}

// pattern is a curated co-presentation pair.
type pattern struct {
	a, b disease.ID
	name string
}

// defaultPatterns lists disease pairs that commonly present together
// regardless of the confidence gap between them.
func defaultPatterns() []pattern {
	return []pattern{
		{"diabetes", "hypertension", "metabolic"},
		{"asthma", "allergic reaction", "atopic"},
		{"gerd", "peptic ulcer", "digestive"},
		{"covid", "pneumonia", "respiratory"},
		{"rheumatoid arthritis", "osteoarthritis", "musculoskeletal"},
		{"hypothyroidism", "hyperthyroidism", "endocrine"},
	}
}

// Detector applies thresholds over candidates. Immutable after
// construction and safe for concurrent use.
type Detector struct {
	thresholds Thresholds
	registry   *disease.Registry
	patterns   []pattern
}

// New builds a detector. A nil registry falls back to the builtin one,
// and a zero TopN falls back to the default slate size.
func New(thresholds Thresholds, reg *disease.Registry) *Detector {
	if reg == nil {
		reg = disease.Default()
	}
	if thresholds.TopN == 0 {
		thresholds.TopN = DefaultTopN
	}
	return &Detector{
		thresholds: thresholds,
		registry:   reg,
		patterns:   defaultPatterns(),
	}
}

// Detect filters, ranks and annotates candidates.
func (d *Detector) Detect(cands []Candidate) Result {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		if sorted[i].DiagnosticHits != sorted[j].DiagnosticHits {
			return sorted[i].DiagnosticHits > sorted[j].DiagnosticHits
		}
		return sorted[i].Disease < sorted[j].Disease
	})

	var res Result
	for _, c := range sorted {
		switch {
		case c.Confidence < d.thresholds.MinConfidence:
			res.Excluded = append(res.Excluded, Exclusion{
				Disease: c.Disease, Confidence: c.Confidence, Reason: ReasonBelowFloor,
			})
		case d.registry.Chronic(c.Disease) && !c.Explicit && c.Confidence < d.thresholds.ChronicFloor:
			res.Excluded = append(res.Excluded, Exclusion{
				Disease: c.Disease, Confidence: c.Confidence, Reason: ReasonChronicUnconfirmed,
			})
		case len(res.Ranked) < d.topN():
			res.Ranked = append(res.Ranked, c)
		}
	}

	if len(res.Ranked) > 1 {
		primary := res.Ranked[0]
		for _, c := range res.Ranked[1:] {
			if primary.Confidence-c.Confidence < d.thresholds.ComorbidityGap {
				res.Comorbid = append(res.Comorbid, Comorbidity{Candidate: c, Basis: BasisGap})
			} else if name, ok := d.patternFor(primary.Disease, c.Disease); ok {
				res.Comorbid = append(res.Comorbid, Comorbidity{Candidate: c, Basis: BasisPattern, Pattern: name})
			}
		}
	}

	return res
}

// Label renders the result for display. A survivor shows its display
// name; an all-filtered slate reads as uncertain; no signal at all
// reads as undetermined.
func (d *Detector) Label(r Result) string {
	if primary, ok := r.Primary(); ok {
		info, _ := d.registry.Info(primary.Disease)
		return info.Display
	}
	if len(r.Excluded) > 0 {
		return LabelUncertain
	}
	return LabelUndetermined
}

func (d *Detector) topN() int {
	n := d.thresholds.TopN
	if n < MinTopN {
		return MinTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

func (d *Detector) patternFor(a, b disease.ID) (string, bool) {
	for _, p := range d.patterns {
		if (p.a == a && p.b == b) || (p.a == b && p.b == a) {
			return p.name, true
		}
	}
	return "", false
}
