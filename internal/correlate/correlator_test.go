package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairclaim/tradeline-audit/internal/config"
	"github.com/fairclaim/tradeline-audit/internal/model"
	"github.com/fairclaim/tradeline-audit/internal/resolve"
)

func testCorrelator() *Correlator {
	cfg := config.Default()
	return New(resolve.New(cfg.Resolver.SimilarityThreshold), cfg.Rules)
}

func lines(fieldSets ...map[string]string) []model.Tradeline {
	out := make([]model.Tradeline, 0, len(fieldSets))
	for i, fields := range fieldSets {
		out = append(out, model.NewTradeline(fields, i))
	}
	return out
}

func byRule(flags []model.Flag) map[string][]model.Flag {
	out := map[string][]model.Flag{}
	for _, f := range flags {
		out[f.RuleID] = append(out[f.RuleID], f)
	}
	return out
}

func TestAnalyzeRequiresTwoAccounts(t *testing.T) {
	c := testCorrelator()
	assert.Nil(t, c.Analyze(nil))
	assert.Nil(t, c.Analyze(lines(map[string]string{model.KeyBalance: "500"})))
}

func TestDuplicateBalanceCluster(t *testing.T) {
	// Two accounts at the same cent amount whose creditor names fuzzy-match,
	// plus a third at a different amount. Exactly one cluster, and it holds
	// only the first two.
	c := testCorrelator()
	flags := c.Analyze(lines(
		map[string]string{
			model.KeyFurnisher:        "Midland Funding LLC",
			model.KeyOriginalCreditor: "First Premier Bank",
			model.KeyBalance:          "500.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Portfolio Recovery Associates",
			model.KeyOriginalCreditor: "First Premier Bank NA",
			model.KeyBalance:          "500.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Midland Funding LLC",
			model.KeyOriginalCreditor: "First Premier Bank",
			model.KeyBalance:          "900.00",
		},
	))

	dupes := byRule(flags)["duplicate_balance"]
	require.Len(t, dupes, 1)
	assert.Equal(t, []int{0, 1}, dupes[0].AccountIndexes)
	assert.Equal(t, model.SeverityHigh, dupes[0].Severity)
	assert.Equal(t, "Midland Funding LLC", dupes[0].Evidence["account_0_furnisher"])
}

func TestDuplicateBalanceDistinctCreditors(t *testing.T) {
	c := testCorrelator()
	flags := c.Analyze(lines(
		map[string]string{
			model.KeyFurnisher:        "Midland Funding",
			model.KeyOriginalCreditor: "First Premier Bank",
			model.KeyBalance:          "500.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Portfolio Recovery",
			model.KeyOriginalCreditor: "Verizon Wireless",
			model.KeyBalance:          "500.00",
		},
	))
	assert.Empty(t, byRule(flags)["duplicate_balance"])
}

func TestSameDebtDifferentAccounts(t *testing.T) {
	c := testCorrelator()
	flags := c.Analyze(lines(
		map[string]string{
			model.KeyFurnisher:        "Midland Funding",
			model.KeyOriginalCreditor: "Capital One Bank",
			model.KeyAccountNumber:    "1234-5678",
			model.KeyBalance:          "1250.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Midland Credit Management",
			model.KeyOriginalCreditor: "Capital One Bank, N.A.",
			model.KeyAccountNumber:    "9900-0021",
			model.KeyBalance:          "1280.00",
		},
	))

	same := byRule(flags)["same_debt_diff_account"]
	require.Len(t, same, 1)
	assert.Equal(t, []int{0, 1}, same[0].AccountIndexes)

	// Same account number keyed both times: no finding.
	flags = c.Analyze(lines(
		map[string]string{
			model.KeyFurnisher:        "Midland Funding",
			model.KeyOriginalCreditor: "Capital One Bank",
			model.KeyAccountNumber:    "1234-5678",
			model.KeyBalance:          "1250.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Midland Credit Management",
			model.KeyOriginalCreditor: "Capital One Bank",
			model.KeyAccountNumber:    "12345678",
			model.KeyBalance:          "1280.00",
		},
	))
	assert.Empty(t, byRule(flags)["same_debt_diff_account"])
}

func TestAliasMasking(t *testing.T) {
	// Midland Funding and Midland Credit Management share a canonical parent;
	// both reporting the same original creditor is one debt under two names.
	c := testCorrelator()
	flags := c.Analyze(lines(
		map[string]string{
			model.KeyFurnisher:        "Midland Funding LLC",
			model.KeyOriginalCreditor: "Synchrony Bank",
			model.KeyBalance:          "300.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Midland Credit Management",
			model.KeyOriginalCreditor: "Synchrony Bank",
			model.KeyBalance:          "310.00",
		},
	))

	masked := byRule(flags)["alias_masking"]
	require.Len(t, masked, 1)
	assert.Equal(t, []int{0, 1}, masked[0].AccountIndexes)

	// Same canonical furnisher but unrelated debts: no finding.
	flags = c.Analyze(lines(
		map[string]string{
			model.KeyFurnisher:        "Midland Funding LLC",
			model.KeyOriginalCreditor: "Synchrony Bank",
			model.KeyBalance:          "300.00",
		},
		map[string]string{
			model.KeyFurnisher:        "Midland Credit Management",
			model.KeyOriginalCreditor: "Verizon Wireless",
			model.KeyBalance:          "310.00",
		},
	))
	assert.Empty(t, byRule(flags)["alias_masking"])
}

func TestCollectorWaterfall(t *testing.T) {
	debt := func(furnisher string) map[string]string {
		return map[string]string{
			model.KeyAccountType:      "Collection",
			model.KeyFurnisher:        furnisher,
			model.KeyOriginalCreditor: "Comenity Bank",
			model.KeyBalance:          "780.00",
		}
	}

	c := testCorrelator()
	flags := c.Analyze(lines(
		debt("Portfolio Recovery Associates"),
		debt("LVNV Funding"),
		debt("Jefferson Capital Systems"),
	))

	waterfall := byRule(flags)["collector_waterfall"]
	require.Len(t, waterfall, 1)
	assert.Equal(t, []int{0, 1, 2}, waterfall[0].AccountIndexes)
	assert.Equal(t, model.SeverityMedium, waterfall[0].Severity)

	// Two of the three collectors share a corporate parent: only two
	// distinct entities, so no waterfall.
	flags = c.Analyze(lines(
		debt("Portfolio Recovery Associates"),
		debt("LVNV Funding"),
		debt("Resurgent Capital"),
	))
	assert.Empty(t, byRule(flags)["collector_waterfall"])
}

func TestFurnisherIdenticalDOFD(t *testing.T) {
	acct := func(creditor, dofd string) map[string]string {
		return map[string]string{
			model.KeyFurnisher:        "IC System",
			model.KeyOriginalCreditor: creditor,
			model.KeyDOFD:             dofd,
		}
	}

	c := testCorrelator()
	flags := c.Analyze(lines(
		acct("Comcast", "2021-03-15"),
		acct("Verizon Wireless", "2021-03-15"),
		acct("City Utilities", "2021-03-15"),
	))

	batch := byRule(flags)["furnisher_identical_dofd"]
	require.Len(t, batch, 1)
	assert.Equal(t, []int{0, 1, 2}, batch[0].AccountIndexes)

	// Only two shared dates: below the batch threshold.
	flags = c.Analyze(lines(
		acct("Comcast", "2021-03-15"),
		acct("Verizon Wireless", "2021-03-15"),
		acct("City Utilities", "2022-09-01"),
	))
	assert.Empty(t, byRule(flags)["furnisher_identical_dofd"])
}

func TestFurnisherClockDrift(t *testing.T) {
	// Removal dates sit at opened + 90 months instead of DOFD + 90 months,
	// and the two anchors are far enough apart to be distinguishable.
	acct := func(opened, dofd, removal string) map[string]string {
		return map[string]string{
			model.KeyFurnisher:   "Jefferson Capital Systems",
			model.KeyDateOpened:  opened,
			model.KeyDOFD:        dofd,
			model.KeyRemovalDate: removal,
		}
	}

	c := testCorrelator()
	flags := c.Analyze(lines(
		acct("2020-01-01", "2018-01-01", "2027-07-01"),
		acct("2021-06-01", "2019-03-01", "2028-12-01"),
	))

	drift := byRule(flags)["furnisher_clock_drift"]
	require.Len(t, drift, 1)
	assert.Equal(t, []int{0, 1}, drift[0].AccountIndexes)

	// Removal anchored to the DOFD as required: clean.
	flags = c.Analyze(lines(
		acct("2020-01-01", "2018-01-01", "2025-07-01"),
		acct("2021-06-01", "2019-03-01", "2026-09-01"),
	))
	assert.Empty(t, byRule(flags)["furnisher_clock_drift"])
}

func TestCompareSourcesDOFDMismatch(t *testing.T) {
	c := testCorrelator()
	reports := []model.SourceReport{
		{
			Source: "equifax",
			Tradelines: lines(map[string]string{
				model.KeyFurnisher:     "Midland Funding",
				model.KeyAccountNumber: "4455-8890",
				model.KeyDOFD:          "2018-02-01",
			}),
		},
		{
			Source: "experian",
			Tradelines: lines(map[string]string{
				model.KeyFurnisher:     "Midland Credit Management",
				model.KeyAccountNumber: "44558890",
				model.KeyDOFD:          "2020-02-01",
			}),
		},
	}

	flags := c.CompareSources(reports)
	require.Len(t, flags, 1)
	f := flags[0]
	assert.Equal(t, "cross_source_mismatch", f.RuleID)
	assert.Equal(t, model.KeyDOFD, f.Evidence["field"])
	assert.Equal(t, "2018-02-01", f.Evidence["source_equifax"])
	assert.Equal(t, "2020-02-01", f.Evidence["source_experian"])
	assert.Equal(t, "730", f.Evidence["drift_days"])
}

func TestCompareSourcesWithinTolerance(t *testing.T) {
	c := testCorrelator()
	reports := []model.SourceReport{
		{
			Source: "equifax",
			Tradelines: lines(map[string]string{
				model.KeyAccountNumber: "1000",
				model.KeyDOFD:          "2018-02-01",
			}),
		},
		{
			Source: "transunion",
			Tradelines: lines(map[string]string{
				model.KeyAccountNumber: "1000",
				model.KeyDOFD:          "2018-05-01",
			}),
		},
	}
	assert.Empty(t, c.CompareSources(reports))
}

func TestCompareSourcesAccountNumberDecisive(t *testing.T) {
	// Different account numbers keep two otherwise-similar views apart.
	c := testCorrelator()
	reports := []model.SourceReport{
		{
			Source: "equifax",
			Tradelines: lines(map[string]string{
				model.KeyFurnisher:     "Midland Funding",
				model.KeyAccountNumber: "1111",
				model.KeyBalance:       "420.00",
				model.KeyDOFD:          "2018-02-01",
			}),
		},
		{
			Source: "experian",
			Tradelines: lines(map[string]string{
				model.KeyFurnisher:     "Midland Funding",
				model.KeyAccountNumber: "2222",
				model.KeyBalance:       "420.00",
				model.KeyDOFD:          "2021-02-01",
			}),
		},
	}
	assert.Empty(t, c.CompareSources(reports))
}
