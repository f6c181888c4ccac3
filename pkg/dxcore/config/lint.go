package config

import (
	"fmt"
	"sort"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/score"
)

// Finding severities. Errors break engine invariants; warnings flag
// tables that load fine but cannot behave as intended.
const (
	SeverityError = "error"
	SeverityWarn  = "warn"
)

// Finding is one lint result against a loaded table.
type Finding struct {
	Table    string // which table the finding concerns
	Subject  string // disease, phrase, or variant at issue
	Severity string
	Message  string
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint checks loaded components for problems the strict loader does
// not reject: unknown disease references, non-canonical keyword
// phrases, variants claimed by several synonym groups, and thresholds
// that can never bind. The weight band checks are repeated here so
// hand-built tables get the same scrutiny as loaded ones. Findings
// come back in a stable order.
func Lint(c *Components) []Finding {
	var out []Finding
	add := func(table, subject, sev, format string, args ...any) {
		out = append(out, Finding{
			Table:    table,
			Subject:  subject,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	lintKeywords(c, add)
	lintRegistry(c, add)
	lintSeverity(c, add)
	lintSynonyms(c, add)
	lintThresholds(c, add)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Table != out[j].Table {
			return out[i].Table < out[j].Table
		}
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Message < out[j].Message
	})
	return out
}

type addFunc func(table, subject, sev, format string, args ...any)

func lintKeywords(c *Components, add addFunc) {
	ids := make([]disease.ID, 0, len(c.Table))
	for id := range c.Table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		kw := c.Table[id]
		if !c.Registry.Known(id) {
			add(FileKeywords, string(id), SeverityWarn, "keywords for unregistered disease")
		}
		if len(kw.Diagnostic) == 0 {
			add(FileKeywords, string(id), SeverityWarn, "no diagnostic keywords; existence depends on a name mention")
		}

		for _, phrase := range sortedKeys(kw.Diagnostic) {
			w := kw.Diagnostic[phrase]
			if w < score.MinDiagnosticWeight {
				add(FileKeywords, string(id), SeverityError,
					"diagnostic %q weight %.2f under the %.1f floor", phrase, w, score.MinDiagnosticWeight)
			}
			lintPhraseForm(c, FileKeywords, phrase, add)
		}
		for _, phrase := range sortedKeys(kw.Generic) {
			w := kw.Generic[phrase]
			if w <= 0 || w > score.MaxGenericWeight {
				add(FileKeywords, string(id), SeverityError,
					"generic %q weight %.2f outside (0,%.1f]", phrase, w, score.MaxGenericWeight)
			}
			if _, both := kw.Diagnostic[phrase]; both {
				add(FileKeywords, string(id), SeverityError, "%q appears in both bands", phrase)
			}
			lintPhraseForm(c, FileKeywords, phrase, add)
		}
	}
}

// lintPhraseForm flags keyword phrases that are not in canonical
// lexicon form; the scorer matches canonical symptom sets, so a
// variant-form phrase can never hit.
func lintPhraseForm(c *Components, table, phrase string, add addFunc) {
	if canonical := c.Lexicon.Normalize(phrase); canonical != phrase {
		add(table, phrase, SeverityWarn, "phrase is not canonical, normalizes to %q", canonical)
	}
}

func lintRegistry(c *Components, add addFunc) {
	for _, info := range c.Registry.All() {
		if _, ok := c.Table[info.ID]; !ok {
			add(FileDiseases, string(info.ID), SeverityWarn, "no keyword entry; candidate can never score")
		}
	}
}

func lintSeverity(c *Components, add addFunc) {
	if len(c.Severity.Emergency) == 0 {
		add(FileSeverity, "emergency", SeverityWarn, "empty emergency list disables the short-circuit")
	}
	ids := make([]disease.ID, 0, len(c.Severity.DiseaseAdjust))
	for id := range c.Severity.DiseaseAdjust {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if !c.Registry.Known(id) {
			add(FileSeverity, string(id), SeverityWarn, "adjustment for unregistered disease")
		}
	}
}

// lintSynonyms flags variants claimed by more than one group. Only the
// last loaded group wins the reverse index entry, so the earlier claim
// silently stops matching.
func lintSynonyms(c *Components, add addFunc) {
	groups := c.Lexicon.Groups()
	claims := map[string][]string{}
	for canonical, variants := range groups {
		for _, v := range variants {
			claims[v] = append(claims[v], canonical)
		}
	}
	for _, variant := range sortedStringKeys(claims) {
		canonicals := claims[variant]
		if len(canonicals) > 1 {
			sort.Strings(canonicals)
			add(FileSynonyms, variant, SeverityWarn, "claimed by %d groups %v", len(canonicals), canonicals)
		}
	}
}

func lintThresholds(c *Components, add addFunc) {
	if c.Detection.ChronicFloor <= c.Detection.MinConfidence {
		add(FileThresholds, "chronic_floor", SeverityWarn,
			"chronic_floor %.2f never binds under min_confidence %.2f",
			c.Detection.ChronicFloor, c.Detection.MinConfidence)
	}
	if c.Detection.ComorbidityGap >= c.Gate.SafetyFloor {
		add(FileThresholds, "comorbidity_gap", SeverityWarn,
			"comorbidity_gap %.2f at or over safety_floor %.2f pairs weak candidates with gated primaries",
			c.Detection.ComorbidityGap, c.Gate.SafetyFloor)
	}
}

func sortedKeys(m score.Weights) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
