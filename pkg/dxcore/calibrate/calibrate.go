// Package calibrate adjusts base confidence using evidence quality.
// Calibration never invents certainty: boosts are relative to the base
// estimate, the total boost is capped, and the result is clamped to
// the unit interval.
package calibrate

// TextView is the read surface calibration needs from a normalized
// report. Satisfied by symptom.Set.
type TextView interface {
	Contains(phrase string) bool
	TokenCount() int
	ChecklistCount() int
}

// Evidence is what the rules can see about one scored candidate.
type Evidence struct {
	Text           TextView
	DiagnosticHits int
}

// Rule is one named calibration heuristic. Rules are evaluated in
// order and each contributes its boost at most once.
type Rule struct {
	Name    string
	Boost   float64
	Applies func(Evidence) bool
}

// Config bounds the calibration arithmetic.
type Config struct {
	// MaxBoost caps the summed rule boosts, so calibrated confidence
	// never exceeds base times (1 + MaxBoost).
	MaxBoost float64
	// VaguePenalty is subtracted outright when the report has fewer
	// than MinTokens tokens. Applied after the cap.
	VaguePenalty float64
	MinTokens    int
}

// DefaultConfig returns the standard calibration bounds.
func DefaultConfig() Config {
	return Config{
		MaxBoost:     0.60,
		VaguePenalty: 0.10,
		MinTokens:    3,
	}
}

// Cues are the phrase lists the default rules scan for.
type Cues struct {
	// Duration phrases signal the reporter tracked the timeline.
	Duration []string
	// Intensity phrases are severity modifiers.
	Intensity []string
	// Detail phrases describe pain quality or circumstance.
	Detail []string
}

// DefaultCues returns the builtin phrase lists.
func DefaultCues() Cues {
	return Cues{
		Duration: []string{
			"days", "weeks", "months", "hours", "yesterday",
			"last night", "all day", "all week", "since",
		},
		Intensity: []string{
			"severe", "intense", "unbearable", "extreme", "terrible",
			"awful", "worst", "excruciating", "sharp", "crushing",
		},
		Detail: []string{
			"radiating", "spreading", "comes and goes", "constant",
			"intermittent", "throbbing", "burning", "on one side",
			"worse when", "worse at", "after eating", "when breathing",
			"when walking",
		},
	}
}

// DefaultRules returns the four standard rules in application order.
func DefaultRules(cues Cues) []Rule {
	return []Rule{
		{
			Name:  "diagnostic-density",
			Boost: 0.15,
			Applies: func(ev Evidence) bool {
				return ev.DiagnosticHits >= 3
			},
		},
		{
			Name:  "duration",
			Boost: 0.05,
			Applies: func(ev Evidence) bool {
				return containsAny(ev.Text, cues.Duration)
			},
		},
		{
			Name:  "specificity",
			Boost: 0.08,
			Applies: func(ev Evidence) bool {
				return containsAny(ev.Text, cues.Intensity) && containsAny(ev.Text, cues.Detail)
			},
		},
		{
			Name:  "checklist",
			Boost: 0.10,
			Applies: func(ev Evidence) bool {
				return ev.Text.ChecklistCount() >= 4
			},
		},
	}
}

// Calibrator applies a fixed rule set. Immutable after construction.
type Calibrator struct {
	rules []Rule
	cfg   Config
}

// New builds a calibrator from explicit rules and bounds.
func New(rules []Rule, cfg Config) *Calibrator {
	return &Calibrator{rules: rules, cfg: cfg}
}

// NewDefault wires the builtin rules, cues and bounds.
func NewDefault() *Calibrator {
	return New(DefaultRules(DefaultCues()), DefaultConfig())
}

// Result explains one calibration pass.
type Result struct {
	Base       float64
	Applied    []string
	TotalBoost float64
	Boost      float64
	Capped     bool
	Penalized  bool
	Confidence float64
}

// Apply folds the rules over the evidence and returns the calibrated
// confidence with its explanation.
func (c *Calibrator) Apply(base float64, ev Evidence) Result {
	if ev.Text == nil {
		ev.Text = emptyText{}
	}

	r := Result{Base: base}
	for _, rule := range c.rules {
		if rule.Applies(ev) {
			r.Applied = append(r.Applied, rule.Name)
			r.TotalBoost += rule.Boost
		}
	}

	r.Boost = r.TotalBoost
	if r.Boost > c.cfg.MaxBoost {
		r.Boost = c.cfg.MaxBoost
		r.Capped = true
	}

	conf := base * (1 + r.Boost)
	if ev.Text.TokenCount() < c.cfg.MinTokens {
		conf -= c.cfg.VaguePenalty
		r.Penalized = true
	}

	r.Confidence = clamp01(conf)
	return r
}

func containsAny(t TextView, phrases []string) bool {
	for _, p := range phrases {
		if t.Contains(p) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// emptyText stands in for absent text so rule closures never see nil.
type emptyText struct{}

func (emptyText) Contains(string) bool { return false }
func (emptyText) TokenCount() int      { return 0 }
func (emptyText) ChecklistCount() int  { return 0 }
