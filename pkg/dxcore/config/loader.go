package config

import (
	"fmt"

	"github.com/cognicore/dxcore/pkg/dxcore/calibrate"
	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/internalerr"
	"github.com/cognicore/dxcore/pkg/dxcore/lexicon"
	"github.com/cognicore/dxcore/pkg/dxcore/score"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
)

// Loader loads all rule table files and constructs engine components.
// Empty paths fall back to the builtin defaults, so a zero Loader
// yields a fully working configuration.
type Loader struct {
	SynonymsPath   string
	DiseasesPath   string
	KeywordsPath   string
	SeverityPath   string
	ThresholdsPath string
}

// Components holds every loaded table in engine-ready form.
type Components struct {
	Lexicon     *lexicon.Lexicon
	Registry    *disease.Registry
	Table       score.Table
	Severity    severity.Config
	Detection   detect.Thresholds
	Gate        gate.Config
	Calibration calibrate.Config
}

// Default returns the builtin configuration without touching disk.
func Default() *Components {
	return &Components{
		Lexicon:     lexicon.Default(),
		Registry:    disease.Default(),
		Table:       score.DefaultTable(),
		Severity:    severity.DefaultConfig(),
		Detection:   detect.DefaultThresholds(),
		Gate:        gate.DefaultConfig(),
		Calibration: calibrate.DefaultConfig(),
	}
}

// Load reads all configured files and returns initialized components.
// Validation is strict. A keyword table that breaks the weight band
// discipline, a registry with duplicate IDs, or thresholds outside
// their legal ranges abort the load with an error wrapping
// internalerr.ErrInvalidConfig.
func (l Loader) Load() (*Components, error) {
	comp := Default()

	if l.SynonymsPath != "" {
		lex, err := lexicon.LoadFromYAML(l.SynonymsPath)
		if err != nil {
			return nil, fmt.Errorf("load synonyms: %w", err)
		}
		comp.Lexicon = lex
	}

	if l.DiseasesPath != "" {
		file, err := LoadDiseaseFile(l.DiseasesPath)
		if err != nil {
			return nil, fmt.Errorf("load diseases: %w", err)
		}
		reg, err := buildRegistry(file)
		if err != nil {
			return nil, fmt.Errorf("load diseases: %w", err)
		}
		comp.Registry = reg
	}

	if l.KeywordsPath != "" {
		file, err := LoadKeywordFile(l.KeywordsPath)
		if err != nil {
			return nil, fmt.Errorf("load keywords: %w", err)
		}
		table, err := buildTable(file, comp.Registry)
		if err != nil {
			return nil, fmt.Errorf("load keywords: %w", err)
		}
		comp.Table = table
	}

	if l.SeverityPath != "" {
		file, err := LoadSeverityFile(l.SeverityPath)
		if err != nil {
			return nil, fmt.Errorf("load severity: %w", err)
		}
		cfg, err := buildSeverity(file, comp.Registry)
		if err != nil {
			return nil, fmt.Errorf("load severity: %w", err)
		}
		comp.Severity = cfg
	}

	if l.ThresholdsPath != "" {
		file, err := LoadThresholdFile(l.ThresholdsPath)
		if err != nil {
			return nil, fmt.Errorf("load thresholds: %w", err)
		}
		if err := applyThresholds(file, comp); err != nil {
			return nil, fmt.Errorf("load thresholds: %w", err)
		}
	}

	return comp, nil
}

// invalidf builds a validation error that matches
// errors.Is(err, internalerr.ErrInvalidConfig).
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func buildRegistry(file *DiseaseFile) (*disease.Registry, error) {
	reg := disease.NewRegistry()
	for i, entry := range file.Diseases {
		id := disease.ID(entry.ID)
		if entry.ID == "" {
			return nil, invalidf("diseases[%d]: empty id", i)
		}
		if reg.Known(reg.Resolve(entry.ID)) {
			return nil, invalidf("diseases[%d]: duplicate id %q", i, entry.ID)
		}
		reg.Add(disease.Info{
			ID:       id,
			Display:  entry.Display,
			Category: entry.Category,
			Chronic:  entry.Chronic,
			Risk:     disease.ParseRiskClass(entry.Risk),
		}, entry.Aliases...)
	}
	return reg, nil
}

func buildTable(file *KeywordFile, reg *disease.Registry) (score.Table, error) {
	table := score.Table{}
	for key, bands := range file.Keywords {
		id := reg.Resolve(key)
		if id == "" {
			return nil, invalidf("keywords: empty disease key")
		}

		kw := score.Keywords{
			Diagnostic: score.Weights{},
			Generic:    score.Weights{},
		}
		for phrase, w := range bands.Diagnostic {
			if phrase == "" {
				return nil, invalidf("keywords[%s]: empty diagnostic phrase", key)
			}
			if w < score.MinDiagnosticWeight {
				return nil, invalidf("keywords[%s]: diagnostic %q weight %.2f under the %.1f floor",
					key, phrase, w, score.MinDiagnosticWeight)
			}
			kw.Diagnostic[phrase] = w
		}
		for phrase, w := range bands.Generic {
			if phrase == "" {
				return nil, invalidf("keywords[%s]: empty generic phrase", key)
			}
			if w <= 0 {
				return nil, invalidf("keywords[%s]: generic %q weight %.2f must be positive",
					key, phrase, w)
			}
			if w > score.MaxGenericWeight {
				return nil, invalidf("keywords[%s]: generic %q weight %.2f over the %.1f ceiling",
					key, phrase, w, score.MaxGenericWeight)
			}
			if _, both := kw.Diagnostic[phrase]; both {
				return nil, invalidf("keywords[%s]: %q appears in both bands", key, phrase)
			}
			kw.Generic[phrase] = w
		}

		table[id] = kw
	}
	return table, nil
}

func buildSeverity(file *SeverityFile, reg *disease.Registry) (severity.Config, error) {
	bands := []struct {
		name string
		band BandSection
	}{
		{"severe", file.Severe},
		{"moderate", file.Moderate},
		{"duration", file.Duration},
		{"impact", file.Impact},
		{"progression", file.Progression},
		{"mild", file.Mild},
	}
	for _, b := range bands {
		if b.band.Cap < 0 {
			return severity.Config{}, invalidf("severity: %s cap %d must not be negative", b.name, b.band.Cap)
		}
	}
	if file.Baseline < 0 || file.Baseline > 100 {
		return severity.Config{}, invalidf("severity: baseline %d outside 0..100", file.Baseline)
	}
	if file.ProfileBoost < 0 {
		return severity.Config{}, invalidf("severity: profile boost %d must not be negative", file.ProfileBoost)
	}

	adjust := make(map[disease.ID]int, len(file.DiseaseAdjust))
	for key, delta := range file.DiseaseAdjust {
		adjust[reg.Resolve(key)] = delta
	}

	return severity.Config{
		Emergency:     file.Emergency,
		Severe:        toBand(file.Severe),
		Moderate:      toBand(file.Moderate),
		Duration:      toBand(file.Duration),
		Impact:        toBand(file.Impact),
		Progression:   toBand(file.Progression),
		Mild:          toBand(file.Mild),
		DiseaseAdjust: adjust,
		ProfileBoost:  file.ProfileBoost,
		Baseline:      file.Baseline,
	}, nil
}

func toBand(b BandSection) severity.Band {
	return severity.Band{Phrases: b.Phrases, Weight: b.Weight, Cap: b.Cap}
}

// applyThresholds overlays non-zero fields of the file onto the
// component defaults, then validates the merged values.
func applyThresholds(file *ThresholdFile, comp *Components) error {
	d := &comp.Detection
	if v := file.Detection.MinConfidence; v != 0 {
		d.MinConfidence = v
	}
	if v := file.Detection.ChronicFloor; v != 0 {
		d.ChronicFloor = v
	}
	if v := file.Detection.ComorbidityGap; v != 0 {
		d.ComorbidityGap = v
	}
	if v := file.Detection.TopN; v != 0 {
		d.TopN = v
	}

	g := &comp.Gate
	if v := file.Gate.SafetyFloor; v != 0 {
		g.SafetyFloor = v
	}
	if v := file.Gate.FullVolume; v != 0 {
		g.FullVolume = v
	}
	if v := file.Gate.ReducedVolume; v != 0 {
		g.ReducedVolume = v
	}

	c := &comp.Calibration
	if v := file.Calibration.MaxBoost; v != 0 {
		c.MaxBoost = v
	}
	if v := file.Calibration.VaguePenalty; v != 0 {
		c.VaguePenalty = v
	}
	if v := file.Calibration.MinTokens; v != 0 {
		c.MinTokens = v
	}

	switch {
	case d.MinConfidence <= 0 || d.MinConfidence >= 1:
		return invalidf("detection: min_confidence %.2f outside (0,1)", d.MinConfidence)
	case d.ChronicFloor <= 0 || d.ChronicFloor >= 1:
		return invalidf("detection: chronic_floor %.2f outside (0,1)", d.ChronicFloor)
	case d.ComorbidityGap <= 0 || d.ComorbidityGap >= 1:
		return invalidf("detection: comorbidity_gap %.2f outside (0,1)", d.ComorbidityGap)
	case d.TopN < detect.MinTopN || d.TopN > detect.MaxTopN:
		return invalidf("detection: top_n %d outside %d..%d", d.TopN, detect.MinTopN, detect.MaxTopN)
	case g.SafetyFloor <= 0 || g.SafetyFloor >= 1:
		return invalidf("gate: safety_floor %.2f outside (0,1)", g.SafetyFloor)
	case g.ReducedVolume < 1:
		return invalidf("gate: reduced_volume %d must be at least 1", g.ReducedVolume)
	case g.FullVolume < g.ReducedVolume:
		return invalidf("gate: full_volume %d under reduced_volume %d", g.FullVolume, g.ReducedVolume)
	case c.MaxBoost <= 0:
		return invalidf("calibration: max_boost %.2f must be positive", c.MaxBoost)
	case c.VaguePenalty < 0:
		return invalidf("calibration: vague_penalty %.2f must not be negative", c.VaguePenalty)
	case c.MinTokens < 1:
		return invalidf("calibration: min_tokens %d must be at least 1", c.MinTokens)
	}

	return nil
}
