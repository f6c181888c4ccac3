package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/dxcore/internal/intake"
	"github.com/cognicore/dxcore/pkg/dxcore"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
)

var seedFlags struct {
	tables  string
	store   string
	workers int
}

var seedCmd = &cobra.Command{
	Use:   "seed <reports.jsonl>",
	Short: "Bulk-analyze a JSONL report file into the history store",
	Long: `Seed reads one JSON report per line, analyzes each and persists the
assessments. A line looks like

  {"text": "fever and rash", "checklist": ["headache"], "age": 34}

Malformed lines are skipped with a warning. A history store is
required.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedFlags.tables, "tables", "", "directory of rule table YAML files")
	f.StringVar(&seedFlags.store, "store", "", "SQLite path for assessment history")
	f.IntVar(&seedFlags.workers, "workers", 4, "concurrent analysis workers")
}

func runSeed(cmd *cobra.Command, args []string) error {
	reports, err := intake.LoadFromJSONL(args[0])
	if err != nil {
		return err
	}

	comp, err := loadComponents(seedFlags.tables)
	if err != nil {
		return err
	}
	engine := newEngine(comp)

	st, err := requireStore(cmd.Context(), seedFlags.store)
	if err != nil {
		return err
	}
	defer st.Close()

	workers := seedFlags.workers
	if workers < 1 {
		workers = 1
	}

	var stored atomic.Int64
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for _, r := range reports {
		r := r
		g.Go(func() error {
			req := dxcore.Request{
				Text:      r.Text,
				Checklist: intake.CleanList(r.Checklist),
				Profile:   patient.Profile{Age: r.Age, Pregnant: r.Pregnant},
			}
			for _, cond := range r.Conditions {
				if id := comp.Registry.Resolve(cond); id != "" {
					req.Profile.KnownConditions = append(req.Profile.KnownConditions, id)
				}
			}
			res, err := engine.Analyze(ctx, req)
			if err != nil {
				return fmt.Errorf("analyze report: %w", err)
			}
			rec := engine.Report(req, res)
			if err := st.UpsertAssessment(ctx, rec); err != nil {
				return fmt.Errorf("persist %s: %w", rec.ID, err)
			}
			stored.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d assessments from %s\n", stored.Load(), args[0])
	return nil
}
