package rules

import (
	"fmt"
	"strings"

	"github.com/fairclaim/tradeline-audit/internal/model"
)

func init() {
	Register(Rule{ID: "paid_with_balance", Eval: evalPaidWithBalance})
	Register(Rule{ID: "history_contradiction", Eval: evalHistoryContradiction})
}

// evalPaidWithBalance fires when a resolved or transferred status coexists
// with a positive balance. Either the status or the balance is false, and a
// transferred debt still showing a balance will be collected twice.
func evalPaidWithBalance(ctx *Context) (*model.Flag, error) {
	status := strings.ToLower(ctx.TL.Field(model.KeyAccountStatus))
	if status == "" {
		return nil, nil
	}

	resolved := containsAny(status, "paid", "settled", "closed")
	transferred := containsAny(status, "sold", "transferred", "transfer")
	if !resolved && !transferred {
		return nil, nil
	}

	balance := ctx.TL.Money(model.KeyBalance)
	if balance <= 0 {
		return nil, nil
	}

	return &model.Flag{
		RuleID: "paid_with_balance",
		Explanation: fmt.Sprintf(
			"Status %q requires a zero balance, but $%.2f is still reported.",
			ctx.TL.Field(model.KeyAccountStatus), balance),
		Evidence: ctx.TL.Snapshot(model.KeyAccountStatus, model.KeyBalance, model.KeyFurnisher, model.KeyCreditorName),
	}, nil
}

// derogMarkers are payment-history tokens indicating recent delinquency.
var derogMarkers = map[string]bool{
	"30": true, "60": true, "90": true, "120": true, "150": true, "180": true,
	"CO": true, "CA": true, "RP": true,
}

// evalHistoryContradiction flags a clean status text combined with
// delinquency markers in the payment-history string, a lexical
// contradiction between two views of the same account.
func evalHistoryContradiction(ctx *Context) (*model.Flag, error) {
	if statusTextCategory(ctx.TL.Field(model.KeyAccountStatus)) != "current" {
		return nil, nil
	}
	history := ctx.TL.Field(model.KeyPaymentHistory)
	if history == "" {
		return nil, nil
	}

	var hits []string
	for _, tok := range strings.FieldsFunc(strings.ToUpper(history), func(r rune) bool {
		return r == ' ' || r == ',' || r == '|' || r == '/' || r == ';' || r == '-'
	}) {
		if derogMarkers[tok] {
			hits = append(hits, tok)
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ev := ctx.TL.Snapshot(model.KeyAccountStatus, model.KeyPaymentHistory, model.KeyFurnisher)
	ev["derog_markers"] = strings.Join(hits, ",")

	return &model.Flag{
		RuleID: "history_contradiction",
		Explanation: fmt.Sprintf(
			"Status reads clean (%q) while the payment history contains delinquency markers: %s.",
			ctx.TL.Field(model.KeyAccountStatus), strings.Join(hits, ", ")),
		Evidence: ev,
	}, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
