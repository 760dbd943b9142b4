package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fairclaim/tradeline-audit/internal/audit"
	"github.com/fairclaim/tradeline-audit/internal/jurisdiction"
	"github.com/fairclaim/tradeline-audit/internal/resolve"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Audit a set of tradelines",
	Long: `Analyze structured tradelines for re-aging, SOL, status, fee, and
cross-account violations.

The input file holds either a JSON array of tradelines (each a flat map of
field name to string value) or, for cross-source comparison, an array of
{"source": ..., "tradelines": [...]} envelopes.

Examples:
  # Single-report audit with risk profile
  analyze --input report.json --jurisdiction TX --profile

  # Cross-source comparison across bureau exports
  analyze --input bureaus.json --cross-source

  # Machine-readable output
  analyze --input report.json --format json --output findings.json`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("input", "", "path to the tradelines JSON file (required)")
	f.String("jurisdiction", "", "two-letter jurisdiction code enabling SOL/usury rules")
	f.Bool("profile", false, "include the aggregated risk profile")
	f.Bool("cross-source", false, "treat input as per-source envelopes and compare sources")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	_ = analyzeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	code, _ := cmd.Flags().GetString("jurisdiction")
	withProfile, _ := cmd.Flags().GetBool("profile")
	crossSource, _ := cmd.Flags().GetBool("cross-source")
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")

	analyzer, err := buildAnalyzer()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return eris.Wrap(err, "analyze: read input")
	}

	var report audit.Report
	if crossSource {
		var sources []audit.SourceInput
		if err := json.Unmarshal(data, &sources); err != nil {
			return eris.Wrap(err, "analyze: parse source envelopes")
		}
		flags := analyzer.AnalyzeSources(sources)
		report = audit.Report{Flags: flags, Accounts: countAccounts(sources)}
		if withProfile {
			p := analyzer.Profile(flags)
			report.Profile = &p
		}
	} else {
		var bags []map[string]string
		if err := json.Unmarshal(data, &bags); err != nil {
			return eris.Wrap(err, "analyze: parse tradelines")
		}
		report = analyzer.Run(bags, code, withProfile)
	}

	zap.L().Info("analyze: complete",
		zap.Int("accounts", report.Accounts),
		zap.Int("flags", len(report.Flags)),
	)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrap(err, "analyze: create output file")
		}
		defer f.Close()
		out = f
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(report), "analyze: encode report")
	}

	return printReport(out, report)
}

// buildAnalyzer assembles the engine, honoring reference-data overrides
// from config.
func buildAnalyzer() (*audit.Analyzer, error) {
	var opts []audit.Option
	if cfg.JurisdictionFile != "" {
		table, err := jurisdiction.LoadFile(cfg.JurisdictionFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, audit.WithJurisdictions(table))
	}
	if cfg.AliasFile != "" {
		extra, err := resolve.LoadAliasFile(cfg.AliasFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, audit.WithResolver(
			resolve.NewWithAliases(cfg.Resolver.SimilarityThreshold, extra)))
	}
	return audit.New(cfg, opts...), nil
}

func printReport(out *os.File, report audit.Report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNTS\tRULE\tSEVERITY\tEXPLANATION")
	for _, f := range report.Flags {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			indexList(f.AccountIndexes), f.RuleID, f.Severity, f.Explanation)
	}
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "analyze: flush table")
	}

	if report.Profile != nil {
		p := report.Profile
		fmt.Fprintf(out, "\nScore: %.1f (%s)  Dispute strength: %s  Litigation potential: %v\n",
			p.Score, p.Level, p.DisputeStrength, p.LitigationPotential)
		for _, pat := range p.Patterns {
			fmt.Fprintf(out, "Pattern: %s (%s, confidence %.0f): %s\n",
				pat.Name, pat.Tier, pat.Confidence, strings.Join(pat.MatchedRules, ", "))
		}
		fmt.Fprintf(out, "Approach: %s\n", p.RecommendedApproach)
	}
	return nil
}

func indexList(idxs []int) string {
	if len(idxs) == 0 {
		return "-"
	}
	parts := make([]string, len(idxs))
	for i, v := range idxs {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}

func countAccounts(sources []audit.SourceInput) int {
	n := 0
	for _, s := range sources {
		n += len(s.Tradelines)
	}
	return n
}
