package rules

import (
	"fmt"
	"strings"

	"github.com/fairclaim/tradeline-audit/internal/model"
)

func init() {
	Register(Rule{ID: "balance_growth", Eval: evalBalanceGrowth})
	Register(Rule{ID: "growth_after_transfer", Eval: evalGrowthAfterTransfer})
	Register(Rule{ID: "interest_over_cap", Eval: evalInterestOverCap})
}

// evalBalanceGrowth flags a collection balance materially above the original
// debt.
func evalBalanceGrowth(ctx *Context) (*model.Flag, error) {
	if !ctx.TL.IsCollection() {
		return nil, nil
	}
	original := ctx.TL.Money(model.KeyOriginalBalance)
	current := ctx.TL.Money(model.KeyBalance)
	if original <= 0 || current <= original*ctx.Cfg.BalanceGrowthRatio {
		return nil, nil
	}

	growthPct := (current - original) / original * 100
	return &model.Flag{
		RuleID: "balance_growth",
		Explanation: fmt.Sprintf(
			"Collection balance $%.2f is %.0f%% above the original $%.2f, past the %.0f%% growth threshold.",
			current, growthPct, original, (ctx.Cfg.BalanceGrowthRatio-1)*100),
		Evidence: ctx.TL.Snapshot(model.KeyBalance, model.KeyOriginalBalance, model.KeyFurnisher, model.KeyOriginalCreditor),
	}, nil
}

// evalGrowthAfterTransfer flags any balance increase on a debt marked as
// sold or transferred to a collector; the buyer usually has no right to
// accrue further interest.
func evalGrowthAfterTransfer(ctx *Context) (*model.Flag, error) {
	marker := strings.ToLower(ctx.TL.Field(model.KeyAccountStatus) + " " + ctx.TL.Field(model.KeyRemarks))
	transferred := containsAny(marker, "sold", "transferred", "transfer")
	if !transferred && !(ctx.TL.IsCollection() && ctx.TL.Has(model.KeyOriginalCreditor)) {
		return nil, nil
	}

	original := ctx.TL.Money(model.KeyOriginalBalance)
	current := ctx.TL.Money(model.KeyBalance)
	if original <= 0 || current <= original {
		return nil, nil
	}
	// Plain collection accounts without an explicit transfer marker get the
	// growth-ratio rule instead; require the marker for modest increases.
	if !transferred && current <= original*ctx.Cfg.BalanceGrowthRatio {
		return nil, nil
	}

	return &model.Flag{
		RuleID: "growth_after_transfer",
		Explanation: fmt.Sprintf(
			"Balance grew from $%.2f to $%.2f after the debt moved to a collector.",
			original, current),
		Evidence: ctx.TL.Snapshot(model.KeyBalance, model.KeyOriginalBalance, model.KeyAccountStatus, model.KeyFurnisher, model.KeyOriginalCreditor),
	}, nil
}

// evalInterestOverCap compares the implied annualized growth rate against
// the jurisdiction's interest cap for the debt class, with a small buffer
// for one-time fees. Declines without a jurisdiction profile.
func evalInterestOverCap(ctx *Context) (*model.Flag, error) {
	if ctx.Jurisdiction == nil {
		return nil, nil
	}
	original := ctx.TL.Money(model.KeyOriginalBalance)
	current := ctx.TL.Money(model.KeyBalance)
	if original <= 0 || current <= original {
		return nil, nil
	}

	anchor, ok := ctx.TL.Date(model.KeyDOFD)
	if !ok {
		anchor, ok = ctx.TL.Date(model.KeyDateOpened)
		if !ok {
			return nil, nil
		}
	}
	years := ctx.Now.Sub(anchor).Hours() / 24 / 365.25
	if years < 0.5 {
		return nil, nil
	}

	ratePct := (current - original) / original / years * 100
	cap := ctx.Jurisdiction.CapFor(ctx.DebtClass())
	if cap <= 0 || ratePct <= cap+ctx.Cfg.FeeBufferPct {
		return nil, nil
	}

	ev := ctx.TL.Snapshot(model.KeyBalance, model.KeyOriginalBalance, model.KeyDOFD, model.KeyDateOpened, model.KeyFurnisher)
	ev["implied_rate_pct"] = fmt.Sprintf("%.2f", ratePct)
	ev["jurisdiction_cap_pct"] = fmt.Sprintf("%.2f", cap)

	return &model.Flag{
		RuleID: "interest_over_cap",
		Explanation: fmt.Sprintf(
			"Implied annualized growth of %.1f%% exceeds the %s %s-debt interest cap of %.1f%% (plus %.1f%% fee buffer).",
			ratePct, ctx.Jurisdiction.Code, ctx.DebtClass(), cap, ctx.Cfg.FeeBufferPct),
		Evidence: ev,
	}, nil
}
