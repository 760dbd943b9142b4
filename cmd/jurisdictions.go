package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fairclaim/tradeline-audit/internal/jurisdiction"
)

var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "Show the statute-of-limitations reference table",
	RunE:  runJurisdictions,
}

func init() {
	jurisdictionsCmd.Flags().String("code", "", "show a single jurisdiction")
	rootCmd.AddCommand(jurisdictionsCmd)
}

func runJurisdictions(cmd *cobra.Command, _ []string) error {
	table := jurisdiction.Builtin()
	if cfg.JurisdictionFile != "" {
		t, err := jurisdiction.LoadFile(cfg.JurisdictionFile)
		if err != nil {
			return err
		}
		table = t
	}

	codes := table.Codes()
	if only, _ := cmd.Flags().GetString("code"); only != "" {
		if _, ok := table.Lookup(only); !ok {
			return eris.Errorf("jurisdictions: unknown code %q", only)
		}
		codes = []string{only}
	}
	sort.Strings(codes)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tSOL GENERAL\tSOL MEDICAL\tUSURY CAP\tTOLLING")
	for _, code := range codes {
		p, _ := table.Lookup(code)
		fmt.Fprintf(w, "%s\t%s\t%dy\t%dy\t%.1f%%\t%s\n",
			p.Code, p.Name,
			p.SOLFor(jurisdiction.ClassGeneral), p.SOLFor(jurisdiction.ClassMedical),
			p.UsuryCapPct, p.TollingCitation)
	}
	return eris.Wrap(w.Flush(), "jurisdictions: flush table")
}
