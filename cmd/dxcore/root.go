package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; "dev" for local builds.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dxcore",
	Short: "Diagnostic confidence and severity reasoning engine",
	Long: `dxcore turns free-text symptom reports into ranked disease candidates
with calibrated confidence, comorbidity flags, a severity grade and
safety-gated care guidance.

Reports are analyzed against weighted keyword tables. Results can be
kept in a history store (SQLite via --store or DXCORE_DB, Postgres via
DATABASE_URL) and served over a REST API.`,
	Version: version,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(whichCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(pruneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
