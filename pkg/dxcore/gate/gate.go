// Package gate holds the decision layer between analysis and display:
// which diagnosis source wins, whether disease-specific guidance is
// safe to surface, and how much of it to show.
package gate

import (
	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/disease"
)

// Source labels which pipeline produced the reported diagnosis.
type Source string

const (
	// SourceBasic is the baseline estimate, either supplied by an
	// external classifier or derived from raw keyword scores.
	SourceBasic Source = "basic"

	// SourceAdvanced marks a result substituted by the multi-disease
	// detector's primary candidate.
	SourceAdvanced Source = "advanced"
)

// Guidance is the safety-gate outcome for recommendation routing.
type Guidance string

const (
	GuidanceGeneric  Guidance = "generic"
	GuidanceSpecific Guidance = "disease-specific"
)

// InsufficientConfidence is the fixed marker reported when the input
// carried no usable symptom tokens. It sits well under every routing
// threshold so such results can never surface targeted guidance.
const InsufficientConfidence = 0.05

// Config carries the gate thresholds.
type Config struct {
	// SafetyFloor is the minimum confidence at which disease-specific
	// recommendations may be surfaced. The boundary is inclusive: a
	// confidence of exactly SafetyFloor passes.
	SafetyFloor float64

	// FullVolume and ReducedVolume bound how many recommendations of
	// each kind are surfaced above and below the safety floor.
	FullVolume    int
	ReducedVolume int
}

// DefaultConfig returns the builtin gate thresholds.
func DefaultConfig() Config {
	return Config{
		SafetyFloor:   0.40,
		FullVolume:    5,
		ReducedVolume: 3,
	}
}

// Estimate is one side of the arbitration.
type Estimate struct {
	Disease    disease.ID
	Confidence float64
}

// Verdict is the arbitrated diagnosis.
type Verdict struct {
	Disease    disease.ID
	Confidence float64
	Source     Source
}

// Arbitrate picks between the baseline estimate and the detector's
// primary candidate. The advanced side wins only when its calibrated
// confidence strictly exceeds the baseline; ties keep the baseline.
// Substitution is total: disease and confidence move together, never
// mixed across sources.
func Arbitrate(basic Estimate, advanced *detect.Candidate) Verdict {
	if advanced != nil && advanced.Confidence > basic.Confidence {
		return Verdict{
			Disease:    advanced.Disease,
			Confidence: advanced.Confidence,
			Source:     SourceAdvanced,
		}
	}
	return Verdict{
		Disease:    basic.Disease,
		Confidence: basic.Confidence,
		Source:     SourceBasic,
	}
}

// Route returns the guidance class for an arbitrated result. Unknown
// diseases route generic regardless of confidence.
func (c Config) Route(id disease.ID, confidence float64) Guidance {
	if id == "" || confidence < c.SafetyFloor {
		return GuidanceGeneric
	}
	return GuidanceSpecific
}

// Volume returns how many recommendations to surface at the given
// confidence. The cutover shares the safety floor so targeted advice
// and advice volume always move together.
func (c Config) Volume(confidence float64) int {
	if confidence >= c.SafetyFloor {
		return c.FullVolume
	}
	return c.ReducedVolume
}
