package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/dxcore/internal/intake"
	"github.com/cognicore/dxcore/pkg/dxcore"
	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

var analyzeFlags struct {
	file       string
	checklist  []string
	age        int
	pregnant   bool
	conditions []string
	baseLabel  string
	baseProb   float64
	tables     string
	store      string
	jsonOut    bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [report text]",
	Short: "Analyze one symptom report",
	Long: `Analyze runs the full pipeline over a single report: keyword scoring,
confidence calibration, multi-disease ranking, severity grading and
safety-gated guidance.

The report comes from the arguments, from --file, or from stdin when
--file is "-". Checklist items add structured symptoms on top of the
free text. When a history store is configured the assessment is
persisted under a fresh ULID.

  dxcore analyze "high fever with rash and pain behind eyes for three days"
  dxcore analyze --file report.txt --age 70 --condition diabetes
  cat report.txt | dxcore analyze --file - --json`,
	Args: cobra.ArbitraryArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.file, "file", "f", "", "read the report from a file, - for stdin")
	f.StringArrayVar(&analyzeFlags.checklist, "check", nil, "structured checklist item, repeatable")
	f.IntVar(&analyzeFlags.age, "age", 0, "reporter age in years")
	f.BoolVar(&analyzeFlags.pregnant, "pregnant", false, "reporter is pregnant")
	f.StringArrayVar(&analyzeFlags.conditions, "condition", nil, "known prior condition, repeatable")
	f.StringVar(&analyzeFlags.baseLabel, "base-label", "", "external classifier label to arbitrate against")
	f.Float64Var(&analyzeFlags.baseProb, "base-prob", 0, "external classifier probability for --base-label")
	f.StringVar(&analyzeFlags.tables, "tables", "", "directory of rule table YAML files")
	f.StringVar(&analyzeFlags.store, "store", "", "SQLite path for assessment history")
	f.BoolVar(&analyzeFlags.jsonOut, "json", false, "emit the assessment as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if analyzeFlags.file != "" {
		var data []byte
		var err error
		if analyzeFlags.file == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(analyzeFlags.file)
		}
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}
		text = string(data)
	}
	text = intake.Sanitize(text)
	checklist := intake.CleanList(analyzeFlags.checklist)
	if text == "" && len(checklist) == 0 {
		return fmt.Errorf("nothing to analyze: pass report text, --file or --check")
	}

	comp, err := loadComponents(analyzeFlags.tables)
	if err != nil {
		return err
	}
	engine := newEngine(comp)

	req := dxcore.Request{
		Text:      text,
		Checklist: checklist,
		Profile:   patient.Profile{Age: analyzeFlags.age, Pregnant: analyzeFlags.pregnant},
	}
	for _, cond := range analyzeFlags.conditions {
		if id := comp.Registry.Resolve(cond); id != "" {
			req.Profile.KnownConditions = append(req.Profile.KnownConditions, id)
		}
	}
	if analyzeFlags.baseLabel != "" {
		req.Base = &dxcore.BaseEstimate{Label: analyzeFlags.baseLabel, Probability: analyzeFlags.baseProb}
	}

	ctx := cmd.Context()
	res, err := engine.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	rec := engine.Report(req, res)

	st, err := openStore(ctx, analyzeFlags.store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
		if err := st.UpsertAssessment(ctx, rec); err != nil {
			return fmt.Errorf("persist assessment: %w", err)
		}
	}

	if analyzeFlags.jsonOut {
		return printJSON(cmd.OutOrStdout(), rec, res)
	}
	printAnalysis(cmd.OutOrStdout(), rec, res)
	return nil
}

func printAnalysis(w io.Writer, rec store.Assessment, res dxcore.Result) {
	fmt.Fprintf(w, "Assessment %s\n", rec.ID)
	if res.Insufficient {
		fmt.Fprintln(w, "Input carried no usable symptoms; guidance below is generic.")
	}
	fmt.Fprintf(w, "Detected:  %s (%.1f%% %s, %s)\n", res.Display, res.Confidence*100, res.Label, res.Source)
	fmt.Fprintf(w, "Severity:  %d/100 %s", res.Severity.Score, res.Severity.Level)
	if res.Severity.Emergency {
		fmt.Fprint(w, "  EMERGENCY")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Guidance:  %s (%d care points)\n", res.Guidance, res.Volume)

	if len(res.Candidates) > 0 {
		fmt.Fprintln(w, "\nDifferential:")
		for i, c := range res.Candidates {
			marker := ""
			if c.Explicit {
				marker = " [named]"
			}
			fmt.Fprintf(w, "  %d. %-22s %5.1f%%  %-6s %d diagnostic hits%s\n",
				i+1, c.Display, c.Confidence*100, c.Label, c.DiagnosticHits, marker)
		}
	}
	if len(res.MultiDisease.Comorbid) > 0 {
		fmt.Fprintln(w, "\nComorbidity:")
		for _, c := range res.MultiDisease.Comorbid {
			if c.Basis == detect.BasisPattern {
				fmt.Fprintf(w, "  - %s %.1f%% (%s: %s)\n",
					c.Candidate.Disease, c.Candidate.Confidence*100, c.Basis, c.Pattern)
				continue
			}
			fmt.Fprintf(w, "  - %s %.1f%% (%s)\n", c.Candidate.Disease, c.Candidate.Confidence*100, c.Basis)
		}
	}
	if len(res.MultiDisease.Excluded) > 0 {
		fmt.Fprintln(w, "\nExcluded:")
		for _, x := range res.MultiDisease.Excluded {
			fmt.Fprintf(w, "  - %s %.1f%%: %s\n", x.Disease, x.Confidence*100, x.Reason)
		}
	}
	if len(res.Severity.Factors) > 0 {
		fmt.Fprintln(w, "\nSeverity factors:")
		for _, f := range res.Severity.Factors {
			fmt.Fprintf(w, "  %+-4d %s (%s)\n", f.Weight, f.Phrase, f.Category)
		}
	}

	fmt.Fprintf(w, "\n%s\n", res.Advice.Summary)
	printList(w, "Care", res.Advice.Care)
	printList(w, "Avoid", res.Advice.Avoid)
	if res.Advice.Seek != "" {
		fmt.Fprintf(w, "Seek care: %s\n", res.Advice.Seek)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

// analysisJSON is the stable machine-readable shape of one analysis.
type analysisJSON struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Input         string          `json:"input"`
	Checklist     []string        `json:"checklist,omitempty"`
	Disease       string          `json:"disease,omitempty"`
	Display       string          `json:"display"`
	Confidence    float64         `json:"confidence"`
	Label         string          `json:"label"`
	Source        string          `json:"source"`
	SeverityScore int             `json:"severity_score"`
	SeverityLevel string          `json:"severity_level"`
	Emergency     bool            `json:"emergency,omitempty"`
	Guidance      string          `json:"guidance"`
	Volume        int             `json:"volume"`
	Insufficient  bool            `json:"insufficient,omitempty"`
	Candidates    []candidateJSON `json:"candidates,omitempty"`
	Comorbid      []comorbidJSON  `json:"comorbid,omitempty"`
	Excluded      []exclusionJSON `json:"excluded,omitempty"`
	Advice        adviceJSON      `json:"advice"`
}

type candidateJSON struct {
	Rank           int     `json:"rank"`
	Disease        string  `json:"disease"`
	Display        string  `json:"display"`
	Confidence     float64 `json:"confidence"`
	Label          string  `json:"label"`
	DiagnosticHits int     `json:"diagnostic_hits"`
	Explicit       bool    `json:"explicit,omitempty"`
}

type comorbidJSON struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Basis      string  `json:"basis"`
	Pattern    string  `json:"pattern,omitempty"`
}

type exclusionJSON struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type adviceJSON struct {
	Summary       string   `json:"summary"`
	Care          []string `json:"care"`
	Avoid         []string `json:"avoid,omitempty"`
	Seek          string   `json:"seek,omitempty"`
	Source        string   `json:"source"`
	Deterministic bool     `json:"deterministic"`
}

func printJSON(w io.Writer, rec store.Assessment, res dxcore.Result) error {
	out := analysisJSON{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		Input:         rec.Input,
		Checklist:     rec.Checklist,
		Disease:       string(res.Detected),
		Display:       res.Display,
		Confidence:    res.Confidence,
		Label:         res.Label,
		Source:        string(res.Source),
		SeverityScore: res.Severity.Score,
		SeverityLevel: string(res.Severity.Level),
		Emergency:     res.Severity.Emergency,
		Guidance:      string(res.Guidance),
		Volume:        res.Volume,
		Insufficient:  res.Insufficient,
		Advice: adviceJSON{
			Summary:       res.Advice.Summary,
			Care:          res.Advice.Care,
			Avoid:         res.Advice.Avoid,
			Seek:          res.Advice.Seek,
			Source:        res.Advice.Source,
			Deterministic: res.Advice.Deterministic,
		},
	}
	for i, c := range res.Candidates {
		out.Candidates = append(out.Candidates, candidateJSON{
			Rank:           i + 1,
			Disease:        string(c.Disease),
			Display:        c.Display,
			Confidence:     c.Confidence,
			Label:          c.Label,
			DiagnosticHits: c.DiagnosticHits,
			Explicit:       c.Explicit,
		})
	}
	for _, c := range res.MultiDisease.Comorbid {
		out.Comorbid = append(out.Comorbid, comorbidJSON{
			Disease:    string(c.Candidate.Disease),
			Confidence: c.Candidate.Confidence,
			Basis:      string(c.Basis),
			Pattern:    c.Pattern,
		})
	}
	for _, x := range res.MultiDisease.Excluded {
		out.Excluded = append(out.Excluded, exclusionJSON{
			Disease:    string(x.Disease),
			Confidence: x.Confidence,
			Reason:     string(x.Reason),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
