package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fairclaim/tradeline-audit/internal/model"
)

func init() {
	Register(Rule{ID: "future_date", Eval: evalFutureDate})
	Register(Rule{ID: "report_before_dofd", Eval: evalReportBeforeDOFD})
	Register(Rule{ID: "status_code_conflict", Eval: evalStatusCodeConflict})
}

// evalFutureDate flags any date field beyond now plus a small clock-skew
// allowance. All offending fields are collected into one finding.
func evalFutureDate(ctx *Context) (*model.Flag, error) {
	horizon := ctx.Now.AddDate(0, 0, ctx.Cfg.FutureSlackDays)

	var offending []string
	ev := map[string]string{}
	for _, key := range model.DateKeys {
		// The estimated removal date is expected to be in the future.
		if key == model.KeyRemovalDate {
			continue
		}
		d, ok := ctx.TL.Date(key)
		if !ok {
			continue
		}
		if d.After(horizon) {
			offending = append(offending, key)
			ev[key] = ctx.TL.Field(key)
		}
	}
	if len(offending) == 0 {
		return nil, nil
	}
	sort.Strings(offending)

	return &model.Flag{
		RuleID: "future_date",
		Explanation: fmt.Sprintf(
			"Date field(s) %s lie in the future as of %s.",
			strings.Join(offending, ", "), ctx.Now.Format("2006-01-02")),
		Evidence: ev,
	}, nil
}

// evalReportBeforeDOFD flags a reporting or update date earlier than the
// delinquency date it is supposed to postdate.
func evalReportBeforeDOFD(ctx *Context) (*model.Flag, error) {
	dofd, ok := ctx.TL.Date(model.KeyDOFD)
	if !ok {
		return nil, nil
	}

	for _, key := range []string{model.KeyDateReported, model.KeyLastUpdated} {
		d, ok := ctx.TL.Date(key)
		if !ok {
			continue
		}
		if d.Before(dofd) {
			ev := ctx.TL.Snapshot(key, model.KeyDOFD, model.KeyFurnisher)
			return &model.Flag{
				RuleID: "report_before_dofd",
				Explanation: fmt.Sprintf(
					"%s %s precedes the delinquency date %s; the account cannot have been reported before it defaulted.",
					key, d.Format("2006-01-02"), dofd.Format("2006-01-02")),
				Evidence: ev,
			}, nil
		}
	}
	return nil, nil
}

// statusCodeMeanings maps Metro 2 style numeric status codes to the account
// state they assert, grouped into comparable categories.
var statusCodeMeanings = map[string]string{
	"11": "current",
	"13": "paid",
	"61": "paid",
	"62": "paid",
	"63": "paid",
	"64": "chargeoff",
	"65": "paid",
	"71": "delinquent",
	"78": "delinquent",
	"80": "delinquent",
	"82": "delinquent",
	"83": "delinquent",
	"84": "delinquent",
	"93": "collection",
	"97": "chargeoff",
}

// evalStatusCodeConflict flags a numeric status code that contradicts the
// free-text status. Charge-off and collection are treated as compatible
// since a charged-off debt is commonly reported by its collector.
func evalStatusCodeConflict(ctx *Context) (*model.Flag, error) {
	code := ctx.TL.Field(model.KeyStatusCode)
	if code == "" {
		return nil, nil
	}
	codeMeaning, known := statusCodeMeanings[code]
	if !known {
		return nil, nil
	}

	textMeaning := statusTextCategory(ctx.TL.Field(model.KeyAccountStatus))
	if textMeaning == "" || textMeaning == codeMeaning {
		return nil, nil
	}
	if derogatory(codeMeaning) && derogatory(textMeaning) {
		return nil, nil
	}

	return &model.Flag{
		RuleID: "status_code_conflict",
		Explanation: fmt.Sprintf(
			"Status code %s means %q but the reported status text reads as %q.",
			code, codeMeaning, textMeaning),
		Evidence: ctx.TL.Snapshot(model.KeyStatusCode, model.KeyAccountStatus, model.KeyFurnisher),
	}, nil
}

// statusTextCategory buckets a free-text status into the same categories as
// the code table. Unrecognized text yields "" and the rule declines.
func statusTextCategory(status string) string {
	s := strings.ToLower(status)
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "charge"):
		return "chargeoff"
	case strings.Contains(s, "collection"):
		return "collection"
	case strings.Contains(s, "paid"), strings.Contains(s, "settled"), strings.Contains(s, "closed"):
		return "paid"
	case strings.Contains(s, "current"), strings.Contains(s, "pays as agreed"), strings.Contains(s, "never late"), s == "ok":
		return "current"
	case strings.Contains(s, "late"), strings.Contains(s, "delinquen"), strings.Contains(s, "past due"):
		return "delinquent"
	default:
		return ""
	}
}

// derogatory groups the categories that all describe a defaulted debt.
func derogatory(category string) bool {
	return category == "chargeoff" || category == "collection" || category == "delinquent"
}
