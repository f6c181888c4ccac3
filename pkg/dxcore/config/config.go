// Package config loads the engine's rule tables from YAML files and
// builds them into ready components. Every table has a builtin default,
// so configuration files are overrides, not requirements.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DiseaseEntry is one disease in the on-disk registry.
type DiseaseEntry struct {
	ID       string   `yaml:"id"`
	Display  string   `yaml:"display,omitempty"`
	Category string   `yaml:"category,omitempty"`
	Chronic  bool     `yaml:"chronic,omitempty"`
	Risk     string   `yaml:"risk,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty"`
}

// DiseaseFile is the disease registry file. Loading it replaces the
// builtin registry wholesale.
type DiseaseFile struct {
	Diseases []DiseaseEntry `yaml:"diseases"`
}

// LoadDiseaseFile reads a disease registry from a YAML file.
func LoadDiseaseFile(path string) (*DiseaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file DiseaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// KeywordBands holds the two weight bands for one disease, keyed by
// canonical keyword or phrase.
type KeywordBands struct {
	Diagnostic map[string]float64 `yaml:"diagnostic,omitempty"`
	Generic    map[string]float64 `yaml:"generic,omitempty"`
}

// KeywordFile is the keyword weight table file. Loading it replaces the
// builtin table wholesale.
type KeywordFile struct {
	Keywords map[string]KeywordBands `yaml:"keywords"`
}

// LoadKeywordFile reads a keyword table from a YAML file.
func LoadKeywordFile(path string) (*KeywordFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file KeywordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// BandSection is one severity phrase band: each matched phrase adds
// Weight points, and the band's total contribution is capped at Cap.
type BandSection struct {
	Phrases []string `yaml:"phrases"`
	Weight  int      `yaml:"weight"`
	Cap     int      `yaml:"cap"`
}

// SeverityFile is the severity model file. Loading it replaces the
// builtin model wholesale.
type SeverityFile struct {
	Emergency     []string       `yaml:"emergency"`
	Severe        BandSection    `yaml:"severe"`
	Moderate      BandSection    `yaml:"moderate"`
	Duration      BandSection    `yaml:"duration"`
	Impact        BandSection    `yaml:"impact"`
	Progression   BandSection    `yaml:"progression"`
	Mild          BandSection    `yaml:"mild"`
	DiseaseAdjust map[string]int `yaml:"disease_adjust,omitempty"`
	ProfileBoost  int            `yaml:"profile_boost"`
	Baseline      int            `yaml:"baseline"`
}

// LoadSeverityFile reads a severity model from a YAML file.
func LoadSeverityFile(path string) (*SeverityFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file SeverityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// DetectionSection carries the detector thresholds.
type DetectionSection struct {
	MinConfidence  float64 `yaml:"min_confidence"`
	ChronicFloor   float64 `yaml:"chronic_floor"`
	ComorbidityGap float64 `yaml:"comorbidity_gap"`
	TopN           int     `yaml:"top_n"`
}

// GateSection carries the safety-gate thresholds.
type GateSection struct {
	SafetyFloor   float64 `yaml:"safety_floor"`
	FullVolume    int     `yaml:"full_volume"`
	ReducedVolume int     `yaml:"reduced_volume"`
}

// CalibrationSection carries the calibrator bounds.
type CalibrationSection struct {
	MaxBoost     float64 `yaml:"max_boost"`
	VaguePenalty float64 `yaml:"vague_penalty"`
	MinTokens    int     `yaml:"min_tokens"`
}

// ThresholdFile gathers the numeric knobs of every pipeline stage.
// Unlike the table files, it merges: a zero field keeps the builtin
// value, so a file may override a single knob.
type ThresholdFile struct {
	Detection   DetectionSection   `yaml:"detection"`
	Gate        GateSection        `yaml:"gate"`
	Calibration CalibrationSection `yaml:"calibration"`
}

// LoadThresholdFile reads pipeline thresholds from a YAML file.
func LoadThresholdFile(path string) (*ThresholdFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ThresholdFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}
