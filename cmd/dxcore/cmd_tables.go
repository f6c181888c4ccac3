package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/dxcore/pkg/dxcore/config"
)

var tablesFlags struct {
	tables string
	dir    string
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Inspect and export the rule tables",
}

var tablesLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the rule tables for problems",
	Long: `Lint loads the tables and reports findings the strict loader does not
reject: unknown disease references, non-canonical keyword phrases,
variants claimed by several synonym groups and thresholds that can
never bind. Errors exit non-zero.`,
	Args: cobra.NoArgs,
	RunE: runTablesLint,
}

var tablesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active tables as YAML files",
	Long: `Export renders the active rule tables into a directory of YAML files
that load back through --tables. Exporting the builtins is the easiest
way to start a customized table set.`,
	Args: cobra.NoArgs,
	RunE: runTablesExport,
}

func init() {
	tablesCmd.AddCommand(tablesLintCmd)
	tablesCmd.AddCommand(tablesExportCmd)
	tablesLintCmd.Flags().StringVar(&tablesFlags.tables, "tables", "", "directory of rule table YAML files")
	tablesExportCmd.Flags().StringVar(&tablesFlags.tables, "tables", "", "directory of rule table YAML files")
	tablesExportCmd.Flags().StringVar(&tablesFlags.dir, "dir", "tables", "output directory")
}

func runTablesLint(cmd *cobra.Command, _ []string) error {
	comp, err := loadComponents(tablesFlags.tables)
	if err != nil {
		return err
	}

	findings := config.Lint(comp)
	w := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	errs := 0
	for _, f := range findings {
		if f.Severity == config.SeverityError {
			errs++
		}
		fmt.Fprintf(w, "%-5s %s: %s: %s\n", f.Severity, f.Table, f.Subject, f.Message)
	}
	if errs > 0 {
		return fmt.Errorf("%d error(s) in %d finding(s)", errs, len(findings))
	}
	fmt.Fprintf(w, "%d warning(s), no errors.\n", len(findings))
	return nil
}

func runTablesExport(cmd *cobra.Command, _ []string) error {
	comp, err := loadComponents(tablesFlags.tables)
	if err != nil {
		return err
	}
	if err := config.Export(comp, tablesFlags.dir); err != nil {
		return err
	}

	names := []string{
		config.FileSynonyms,
		config.FileDiseases,
		config.FileKeywords,
		config.FileSeverity,
		config.FileThresholds,
	}
	w := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintf(w, "wrote %s/%s\n", tablesFlags.dir, name)
	}
	return nil
}
