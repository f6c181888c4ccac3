package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/dxcore/pkg/dxcore/analytics"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

var statsFlags struct {
	store   string
	tables  string
	disease string
	days    int
	top     int
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the assessment history",
	Long: `Stats aggregates stored assessments: totals, mean confidence, top
diseases and the severity, source and guidance distributions. A
history store is required.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	f := statsCmd.Flags()
	f.StringVar(&statsFlags.store, "store", "", "SQLite path for assessment history")
	f.StringVar(&statsFlags.tables, "tables", "", "directory of rule table YAML files")
	f.StringVar(&statsFlags.disease, "disease", "", "restrict to one disease, name or alias")
	f.IntVar(&statsFlags.days, "days", 0, "restrict to the last N days")
	f.IntVar(&statsFlags.top, "top", 10, "number of top diseases to list")
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	st, err := requireStore(ctx, statsFlags.store)
	if err != nil {
		return err
	}
	defer st.Close()

	q := store.Query{}
	if statsFlags.disease != "" {
		comp, err := loadComponents(statsFlags.tables)
		if err != nil {
			return err
		}
		id := comp.Registry.Resolve(statsFlags.disease)
		if id == "" {
			return fmt.Errorf("unknown disease %q", statsFlags.disease)
		}
		q.Disease = string(id)
	}
	if statsFlags.days > 0 {
		q.Since = time.Now().AddDate(0, 0, -statsFlags.days)
	}

	stats, err := analytics.Collect(ctx, st, q)
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-17s %d\n", "Assessments:", stats.Total)
	fmt.Fprintf(w, "%-17s %d\n", "Undetermined:", stats.Undetermined)
	fmt.Fprintf(w, "%-17s %d\n", "Emergencies:", stats.Emergencies)
	fmt.Fprintf(w, "%-17s %d\n", "With comorbidity:", stats.WithComorbidity)
	fmt.Fprintf(w, "%-17s %.1f%%\n", "Mean confidence:", stats.MeanConfidence*100)

	if top := stats.TopDiseases(statsFlags.top); len(top) > 0 {
		fmt.Fprintln(w, "\nTop diseases:")
		for i, d := range top {
			fmt.Fprintf(w, "  %d. %-22s %4d  mean %.1f%%\n", i+1, d.Disease, d.Count, d.MeanConfidence*100)
		}
	}

	printCounts(w, "Severity levels", stats.Levels, severityLevelOrder)
	printCounts(w, "Verdict sources", stats.Sources, nil)
	printCounts(w, "Guidance classes", stats.Guidance, nil)
	return nil
}

// severityLevelOrder lists bands mildest first for stable output.
var severityLevelOrder = []string{
	string(severity.LevelMild),
	string(severity.LevelModerate),
	string(severity.LevelModerateSevere),
	string(severity.LevelSevere),
	string(severity.LevelEmergency),
}

func printCounts(w io.Writer, title string, counts map[string]int64, order []string) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	if order == nil {
		order = make([]string, 0, len(counts))
		for k := range counts {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	for _, k := range order {
		if n, ok := counts[k]; ok {
			fmt.Fprintf(w, "  %-22s %d\n", k, n)
		}
	}
}
