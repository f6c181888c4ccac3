package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
)

// Conventional table file names, shared by Export and NewDirLoader.
const (
	FileSynonyms   = "synonyms.yaml"
	FileDiseases   = "diseases.yaml"
	FileKeywords   = "keywords.yaml"
	FileSeverity   = "severity.yaml"
	FileThresholds = "thresholds.yaml"
)

// NewDirLoader returns a Loader pointing at the conventional table
// files under dir. Files that do not exist are left unset, so those
// tables keep their builtin defaults.
func NewDirLoader(dir string) Loader {
	var l Loader
	set := func(dst *string, name string) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			*dst = path
		}
	}
	set(&l.SynonymsPath, FileSynonyms)
	set(&l.DiseasesPath, FileDiseases)
	set(&l.KeywordsPath, FileKeywords)
	set(&l.SeverityPath, FileSeverity)
	set(&l.ThresholdsPath, FileThresholds)
	return l
}

// Render serializes components back into the YAML table formats the
// Loader reads, keyed by conventional file name. Rendering the builtin
// defaults produces editable starting points for every table.
func Render(c *Components) (map[string][]byte, error) {
	out := make(map[string][]byte, 5)

	render := func(name string, v any) error {
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		out[name] = data
		return nil
	}

	if err := render(FileSynonyms, synonymsFile(c)); err != nil {
		return nil, err
	}
	if err := render(FileDiseases, diseaseFile(c.Registry)); err != nil {
		return nil, err
	}
	if err := render(FileKeywords, keywordFile(c)); err != nil {
		return nil, err
	}
	if err := render(FileSeverity, severityFile(c)); err != nil {
		return nil, err
	}
	if err := render(FileThresholds, thresholdFile(c)); err != nil {
		return nil, err
	}

	return out, nil
}

// Export writes the rendered tables into dir, creating it if needed.
func Export(c *Components, dir string) error {
	files, err := Render(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("export tables: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), files[name], 0644); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}

// synonymsFile rebuilds the synonyms document from the lexicon groups.
// Stored variant lists carry the canonical first; it is stripped here
// because the loader re-adds it.
func synonymsFile(c *Components) any {
	type group struct {
		Canonical string   `yaml:"canonical"`
		Variants  []string `yaml:"variants,flow"`
	}
	var doc struct {
		Synonyms []group `yaml:"synonyms"`
	}

	groups := c.Lexicon.Groups()
	canonicals := make([]string, 0, len(groups))
	for canonical := range groups {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		variants := groups[canonical]
		if len(variants) > 0 && variants[0] == canonical {
			variants = variants[1:]
		}
		doc.Synonyms = append(doc.Synonyms, group{Canonical: canonical, Variants: variants})
	}
	return doc
}

func diseaseFile(reg *disease.Registry) *DiseaseFile {
	file := &DiseaseFile{}
	for _, info := range reg.All() {
		entry := DiseaseEntry{
			ID:       string(info.ID),
			Display:  info.Display,
			Category: info.Category,
			Chronic:  info.Chronic,
		}
		if info.Risk != disease.RiskNone {
			entry.Risk = info.Risk.String()
		}
		for _, alias := range reg.Aliases(info.ID) {
			if alias == string(info.ID) || alias == strings.ToLower(info.Display) {
				continue
			}
			entry.Aliases = append(entry.Aliases, alias)
		}
		file.Diseases = append(file.Diseases, entry)
	}
	return file
}

func keywordFile(c *Components) *KeywordFile {
	file := &KeywordFile{Keywords: make(map[string]KeywordBands, len(c.Table))}
	for id, kw := range c.Table {
		file.Keywords[string(id)] = KeywordBands{
			Diagnostic: kw.Diagnostic,
			Generic:    kw.Generic,
		}
	}
	return file
}

func severityFile(c *Components) *SeverityFile {
	adjust := make(map[string]int, len(c.Severity.DiseaseAdjust))
	for id, delta := range c.Severity.DiseaseAdjust {
		adjust[string(id)] = delta
	}
	return &SeverityFile{
		Emergency:     c.Severity.Emergency,
		Severe:        fromBand(c.Severity.Severe),
		Moderate:      fromBand(c.Severity.Moderate),
		Duration:      fromBand(c.Severity.Duration),
		Impact:        fromBand(c.Severity.Impact),
		Progression:   fromBand(c.Severity.Progression),
		Mild:          fromBand(c.Severity.Mild),
		DiseaseAdjust: adjust,
		ProfileBoost:  c.Severity.ProfileBoost,
		Baseline:      c.Severity.Baseline,
	}
}

func fromBand(b severity.Band) BandSection {
	return BandSection{Phrases: b.Phrases, Weight: b.Weight, Cap: b.Cap}
}

func thresholdFile(c *Components) *ThresholdFile {
	return &ThresholdFile{
		Detection: DetectionSection{
			MinConfidence:  c.Detection.MinConfidence,
			ChronicFloor:   c.Detection.ChronicFloor,
			ComorbidityGap: c.Detection.ComorbidityGap,
			TopN:           c.Detection.TopN,
		},
		Gate: GateSection{
			SafetyFloor:   c.Gate.SafetyFloor,
			FullVolume:    c.Gate.FullVolume,
			ReducedVolume: c.Gate.ReducedVolume,
		},
		Calibration: CalibrationSection{
			MaxBoost:     c.Calibration.MaxBoost,
			VaguePenalty: c.Calibration.VaguePenalty,
			MinTokens:    c.Calibration.MinTokens,
		},
	}
}
