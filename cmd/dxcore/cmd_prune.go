package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/dxcore/pkg/dxcore/maintenance"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

var pruneFlags struct {
	store     string
	tables    string
	olderThan time.Duration
	reassess  bool
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Expire old assessments and replay the rest",
	Long: `Prune maintains the history store. --older-than deletes assessments
created before the retention window; --reassess replays the remainder
through the current tables, rewriting records whose verdict changed.
Replayed records keep their ID and creation time.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	f := pruneCmd.Flags()
	f.StringVar(&pruneFlags.store, "store", "", "SQLite path for assessment history")
	f.StringVar(&pruneFlags.tables, "tables", "", "directory of rule table YAML files")
	f.DurationVar(&pruneFlags.olderThan, "older-than", 0, "delete assessments older than this, e.g. 720h")
	f.BoolVar(&pruneFlags.reassess, "reassess", false, "replay kept assessments through the current tables")
}

func runPrune(cmd *cobra.Command, _ []string) error {
	if pruneFlags.olderThan <= 0 && !pruneFlags.reassess {
		return fmt.Errorf("nothing to do: pass --older-than and/or --reassess")
	}

	ctx := cmd.Context()
	st, err := requireStore(ctx, pruneFlags.store)
	if err != nil {
		return err
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	cleaner := &maintenance.Cleaner{Store: st, Retention: pruneFlags.olderThan}

	if pruneFlags.olderThan > 0 {
		res, err := cleaner.Prune(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		fmt.Fprintf(w, "Deleted %d assessments older than %s\n", res.Deleted, pruneFlags.olderThan)
	}

	if pruneFlags.reassess {
		comp, err := loadComponents(pruneFlags.tables)
		if err != nil {
			return err
		}
		cleaner.Rebuild = newEngine(comp).Rebuild

		res, err := cleaner.Reassess(ctx, store.Query{})
		if err != nil {
			return fmt.Errorf("reassess: %w", err)
		}
		fmt.Fprintf(w, "Reassessed %d assessments: %d updated, %d errors\n", res.Scanned, res.Updated, res.Errors)
	}
	return nil
}
