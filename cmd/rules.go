package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fairclaim/tradeline-audit/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered audit rules",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(_ *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tSEVERITY\tCATEGORY\tCITATIONS")
	for _, r := range rules.All() {
		m := rules.MetaFor(r.ID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.ID, m.Severity, m.Category, strings.Join(m.Citations, ","))
	}
	return eris.Wrap(w.Flush(), "rules: flush table")
}
