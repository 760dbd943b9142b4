package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairclaim/tradeline-audit/internal/config"
	"github.com/fairclaim/tradeline-audit/internal/model"
)

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func testAnalyzer() *Analyzer {
	return New(config.Default(), WithClock(func() time.Time { return testNow }))
}

func ruleIDs(flags []model.Flag) map[string]bool {
	out := map[string]bool{}
	for _, f := range flags {
		out[f.RuleID] = true
	}
	return out
}

func TestAnalyzeCleanInput(t *testing.T) {
	a := testAnalyzer()
	assert.Empty(t, a.Analyze(nil, ""))
	assert.Empty(t, a.Analyze([]map[string]string{
		{
			"creditor_name":  "Chase Bank",
			"account_status": "Current",
			"balance":        "1200.00",
			"date_opened":    "2022-05-01",
			"date_reported":  "2026-07-01",
		},
	}, "PA"))
}

func TestAnalyzeLongTimeline(t *testing.T) {
	a := testAnalyzer()

	// A removal date over eight years past the open date fires.
	flags := a.Analyze([]map[string]string{
		{
			"creditor_name":          "First Premier Bank",
			"date_opened":            "2010-01-01",
			"estimated_removal_date": "2020-01-01",
		},
	}, "")
	ids := ruleIDs(flags)
	assert.True(t, ids["long_timeline"])

	// Seven years stays inside the window.
	flags = a.Analyze([]map[string]string{
		{
			"creditor_name":          "First Premier Bank",
			"date_opened":            "2020-01-01",
			"estimated_removal_date": "2027-01-01",
		},
	}, "")
	assert.False(t, ruleIDs(flags)["long_timeline"])
}

func TestAnalyzeUnknownJurisdictionDisablesSOL(t *testing.T) {
	bag := map[string]string{
		"creditor_name": "Midland Funding",
		"account_type":  "Collection",
		"dofd":          "2015-01-01",
	}

	a := testAnalyzer()
	withSOL := ruleIDs(a.Analyze([]map[string]string{bag}, "PA"))
	assert.True(t, withSOL["sol_expired_reporting"])

	withoutSOL := ruleIDs(a.Analyze([]map[string]string{bag}, "ZZ"))
	assert.False(t, withoutSOL["sol_expired_reporting"])
}

func TestAnalyzeIncludesCorrelatorFindings(t *testing.T) {
	dup := func() map[string]string {
		return map[string]string{
			"furnisher":         "Midland Funding",
			"original_creditor": "Synchrony Bank",
			"account_type":      "Collection",
			"balance":           "640.00",
			"original_balance":  "640.00",
		}
	}
	other := dup()
	other["furnisher"] = "Midland Credit Management"

	a := testAnalyzer()
	flags := a.Analyze([]map[string]string{dup(), other}, "")
	ids := ruleIDs(flags)
	assert.True(t, ids["duplicate_balance"])
	assert.True(t, ids["alias_masking"])
}

func TestAnalyzeOrderedByAccountThenRule(t *testing.T) {
	a := testAnalyzer()
	flags := a.Analyze([]map[string]string{
		{
			"creditor_name":  "Chase Bank",
			"account_status": "Paid",
			"balance":        "300.00",
			"date_reported":  "2030-01-01",
		},
		{
			"creditor_name":  "Comenity Bank",
			"account_status": "Settled",
			"balance":        "100.00",
		},
	}, "")
	require.GreaterOrEqual(t, len(flags), 3)

	for i := 1; i < len(flags); i++ {
		prev, cur := flags[i-1], flags[i]
		pi, ci := prev.AccountIndexes[0], cur.AccountIndexes[0]
		if pi == ci {
			assert.LessOrEqual(t, prev.RuleID, cur.RuleID)
		} else {
			assert.Less(t, pi, ci)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	bags := []map[string]string{
		{
			"furnisher":    "LVNV Funding",
			"account_type": "Collection",
			"dofd":         "2014-06-01",
			"date_opened":  "2021-02-01",
			"balance":      "900.00",
		},
		{
			"furnisher":        "Resurgent Capital",
			"account_type":     "Collection",
			"balance":          "900.00",
			"original_balance": "400.00",
		},
	}

	a := testAnalyzer()
	first := a.Analyze(bags, "PA")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Analyze(bags, "PA"))
	}
}

func TestAnalyzeSources(t *testing.T) {
	a := testAnalyzer()
	flags := a.AnalyzeSources([]SourceInput{
		{
			Source: "equifax",
			Tradelines: []map[string]string{{
				"furnisher":      "Midland Funding",
				"account_number": "7001-4432",
				"dofd":           "2017-03-01",
			}},
		},
		{
			Source: "experian",
			Tradelines: []map[string]string{{
				"furnisher":      "Midland Credit Management",
				"account_number": "70014432",
				"dofd":           "2019-09-01",
			}},
		},
	})

	require.Len(t, flags, 1)
	assert.Equal(t, "cross_source_mismatch", flags[0].RuleID)
	assert.Equal(t, "2017-03-01", flags[0].Evidence["source_equifax"])
}

func TestRunEnvelope(t *testing.T) {
	a := testAnalyzer()
	report := a.Run([]map[string]string{
		{
			"creditor_name":  "Chase Bank",
			"account_status": "Paid",
			"balance":        "250.00",
		},
	}, "PA", true)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Equal(t, "PA", report.Jurisdiction)
	assert.Equal(t, 1, report.Accounts)
	require.NotNil(t, report.Profile)
	assert.Equal(t, report.Profile.TotalFlags, len(report.Flags))
	assert.NotEmpty(t, report.Flags)
}

func TestProfileIdempotent(t *testing.T) {
	a := testAnalyzer()
	flags := a.Analyze([]map[string]string{
		{
			"furnisher":    "LVNV Funding",
			"account_type": "Collection",
			"dofd":         "2014-06-01",
			"date_opened":  "2021-02-01",
		},
	}, "PA")
	require.NotEmpty(t, flags)

	first := a.Profile(flags)
	second := a.Profile(flags)
	assert.Equal(t, first, second)
}
