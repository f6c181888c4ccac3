// Package severity grades how urgent a symptom report sounds,
// independently of which disease it suggests. Scores live on a 0-100
// scale built from additive factor bands with per-band caps; emergency
// phrases bypass the arithmetic entirely.
package severity

import (
	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
)

// Text is the read surface the classifier needs from a normalized
// report. Satisfied by symptom.Set.
type Text interface {
	Contains(phrase string) bool
}

// Level is the display band for a severity score.
type Level string

const (
	LevelMild           Level = "Mild"
	LevelModerate       Level = "Moderate"
	LevelModerateSevere Level = "Moderate to Severe"
	LevelSevere         Level = "Severe"
	LevelEmergency      Level = "Emergency"
)

// LevelForScore maps a clamped score onto its band. Only a full 100
// reads as an emergency.
func LevelForScore(score int) Level {
	switch {
	case score >= 100:
		return LevelEmergency
	case score >= 80:
		return LevelSevere
	case score >= 50:
		return LevelModerateSevere
	case score >= 30:
		return LevelModerate
	}
	return LevelMild
}

// Factor categories as they appear in assessments.
const (
	CategoryEmergency   = "emergency"
	CategorySevere      = "severe"
	CategoryModerate    = "moderate"
	CategoryDuration    = "duration"
	CategoryImpact      = "impact"
	CategoryProgression = "progression"
	CategoryMild        = "mild"
	CategoryDisease     = "disease"
	CategoryProfile     = "profile"
	CategoryBaseline    = "baseline"
)

// Factor records one applied severity signal with the weight that
// actually landed after capping.
type Factor struct {
	Category string
	Phrase   string
	Weight   int
}

// Assessment is the classifier's output.
type Assessment struct {
	Score     int
	Level     Level
	Emergency bool
	Factors   []Factor
}

// Band is one additive factor category: a phrase list, the weight per
// match and a cap on the band's total contribution. A negative weight
// makes the band a dampener; Cap then bounds the total reduction.
type Band struct {
	Phrases []string
	Weight  int
	Cap     int
}

// Config holds the phrase bands and adjustment tables.
type Config struct {
	// Emergency phrases short-circuit to a score of 100.
	Emergency []string

	Severe      Band
	Moderate    Band
	Duration    Band
	Impact      Band
	Progression Band
	Mild        Band

	// DiseaseAdjust nudges the score for diseases that tend to run
	// hotter or cooler than their wording suggests.
	DiseaseAdjust map[disease.ID]int

	// ProfileBoost is added once for high-risk reporters.
	ProfileBoost int

	// Baseline is the score when no factor matched at all: symptoms
	// were reported, so the floor is not zero.
	Baseline int
}

// DefaultConfig returns the builtin severity model.
func DefaultConfig() Config {
	return Config{
		Emergency: []string{
			"chest pain", "crushing chest", "cant breathe",
			"difficulty breathing", "severe bleeding", "unconscious",
			"seizure", "worst headache", "thunderclap", "anaphylaxis",
			"coughing blood", "vomiting blood", "slurred speech",
			"face drooping",
		},
		Severe: Band{
			Phrases: []string{
				"severe", "unbearable", "excruciating", "intense",
				"extreme", "worst", "high fever", "cant stand",
				"cant walk", "dehydrated",
			},
			Weight: 15,
			Cap:    40,
		},
		Moderate: Band{
			Phrases: []string{
				"moderate", "persistent", "constant", "significant",
				"bad", "painful", "spreading", "swollen", "recurring",
			},
			Weight: 10,
			Cap:    20,
		},
		Duration: Band{
			Phrases: []string{
				"days", "weeks", "months", "all day", "all night",
				"wont go away", "chronic",
			},
			Weight: 5,
			Cap:    10,
		},
		Impact: Band{
			Phrases: []string{
				"cant work", "cant sleep", "cant eat", "bedridden",
				"missed work", "cant focus", "interfering",
				"daily activities",
			},
			Weight: 5,
			Cap:    15,
		},
		Progression: Band{
			Phrases: []string{
				"getting worse", "worsening", "deteriorating",
				"rapidly", "suddenly worse", "worse than yesterday",
			},
			Weight: 5,
			Cap:    10,
		},
		Mild: Band{
			Phrases: []string{
				"mild", "slight", "slightly", "a little", "minor",
				"occasional", "manageable", "improving", "getting better",
			},
			Weight: -5,
			Cap:    10,
		},
		DiseaseAdjust: map[disease.ID]int{
			"appendicitis":  10,
			"heart disease": 10,
			"dengue":        5,
			"malaria":       5,
			"pneumonia":     5,
			"typhoid":       5,
			"covid":         5,
			"cold":          -5,
			"gerd":          -5,
		},
		ProfileBoost: 5,
		Baseline:     20,
	}
}

// Classifier grades reports against a fixed config. Immutable and safe
// for concurrent use.
type Classifier struct {
	cfg Config
}

// New builds a classifier from an explicit config.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// NewDefault builds a classifier with the builtin model.
func NewDefault() *Classifier {
	return New(DefaultConfig())
}

// Assess grades one report. The primary disease may be empty, in which
// case no disease adjustment applies.
func (c *Classifier) Assess(text Text, primary disease.ID, prof patient.Profile) Assessment {
	if text == nil {
		text = noText{}
	}

	for _, phrase := range c.cfg.Emergency {
		if text.Contains(phrase) {
			return Assessment{
				Score:     100,
				Level:     LevelEmergency,
				Emergency: true,
				Factors:   []Factor{{Category: CategoryEmergency, Phrase: phrase, Weight: 100}},
			}
		}
	}

	var (
		score   int
		factors []Factor
	)
	apply := func(category string, band Band) {
		added, fs := applyBand(text, category, band)
		score += added
		factors = append(factors, fs...)
	}

	apply(CategorySevere, c.cfg.Severe)
	apply(CategoryModerate, c.cfg.Moderate)
	apply(CategoryDuration, c.cfg.Duration)
	apply(CategoryImpact, c.cfg.Impact)
	apply(CategoryProgression, c.cfg.Progression)
	apply(CategoryMild, c.cfg.Mild)

	// No wording factor matched but symptoms were still reported, so
	// start from the baseline rather than zero. Disease and profile
	// adjustments stack on top either way.
	if len(factors) == 0 {
		score = c.cfg.Baseline
		factors = append(factors, Factor{Category: CategoryBaseline, Weight: c.cfg.Baseline})
	}

	if primary != "" {
		if adj := c.cfg.DiseaseAdjust[primary]; adj != 0 {
			score += adj
			factors = append(factors, Factor{Category: CategoryDisease, Phrase: string(primary), Weight: adj})
		}
	}
	if prof.HighRisk() {
		score += c.cfg.ProfileBoost
		factors = append(factors, Factor{Category: CategoryProfile, Phrase: prof.RiskNote(), Weight: c.cfg.ProfileBoost})
	}

	score = clamp(score, 0, 100)
	return Assessment{Score: score, Level: LevelForScore(score), Factors: factors}
}

// applyBand walks the band's phrases in order, applying each match
// until the cap is exhausted. The last match before the cap may land
// partially.
func applyBand(text Text, category string, band Band) (int, []Factor) {
	var (
		total   int
		factors []Factor
	)
	for _, phrase := range band.Phrases {
		if !text.Contains(phrase) {
			continue
		}
		remaining := band.Cap - abs(total)
		if remaining <= 0 {
			break
		}
		w := band.Weight
		if abs(w) > remaining {
			if w < 0 {
				w = -remaining
			} else {
				w = remaining
			}
		}
		total += w
		factors = append(factors, Factor{Category: category, Phrase: phrase, Weight: w})
	}
	return total, factors
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type noText struct{}

func (noText) Contains(string) bool { return false }
