package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var whichFlags struct {
	tables string
}

var whichCmd = &cobra.Command{
	Use:   "which <keyword>",
	Short: "Show which diseases weight a keyword",
	Long: `Which answers the reverse lookup: given a symptom keyword or phrase,
list the diseases that weight it, heaviest first. Known synonym
variants resolve to their canonical form before the lookup.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWhich,
}

func init() {
	whichCmd.Flags().StringVar(&whichFlags.tables, "tables", "", "directory of rule table YAML files")
}

func runWhich(cmd *cobra.Command, args []string) error {
	comp, err := loadComponents(whichFlags.tables)
	if err != nil {
		return err
	}
	engine := newEngine(comp)

	keyword := comp.Lexicon.Normalize(strings.Join(args, " "))
	entries := engine.Which(keyword)

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(w, "No disease weights %q\n", keyword)
		return nil
	}

	fmt.Fprintf(w, "%q is weighted by:\n", keyword)
	for _, e := range entries {
		band := "generic"
		if e.Diagnostic {
			band = "diagnostic"
		}
		display := string(e.Disease)
		if info, ok := comp.Registry.Info(e.Disease); ok {
			display = info.Display
		}
		fmt.Fprintf(w, "  %-22s %.1f  %s\n", display, e.Weight, band)
	}
	return nil
}
