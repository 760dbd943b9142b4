package rules

import (
	"fmt"
	"time"

	"github.com/fairclaim/tradeline-audit/internal/jurisdiction"
	"github.com/fairclaim/tradeline-audit/internal/model"
)

func init() {
	Register(Rule{ID: "sol_expired_reporting", Eval: evalSOLExpired})
	Register(Rule{ID: "sol_revival_payment", Eval: evalSOLRevival})
	Register(Rule{ID: "zombie_debt", Eval: evalZombieDebt})
}

// evalSOLExpired notes a time-barred debt still being reported. Low
// severity on its own; it anchors the revival and zombie patterns.
func evalSOLExpired(ctx *Context) (*model.Flag, error) {
	dofd, expired, limit, elapsed, ok := solState(ctx)
	if !ok || !expired {
		return nil, nil
	}

	ev := ctx.TL.Snapshot(model.KeyDOFD, model.KeyFurnisher, model.KeyCreditorName)
	ev["sol_limit_years"] = fmt.Sprintf("%d", limit)
	ev["elapsed_years"] = fmt.Sprintf("%.1f", elapsed)

	return &model.Flag{
		RuleID: "sol_expired_reporting",
		Explanation: fmt.Sprintf(
			"%.1f years have passed since the %s delinquency; the %s limitations period for %s debt is %d years, so the debt is time-barred.",
			elapsed, dofd.Format("2006-01-02"), ctx.Jurisdiction.Code, ctx.DebtClass(), limit),
		Evidence: ev,
	}, nil
}

// evalSOLRevival flags a payment recorded after the limitations period ran,
// the classic signal of a solicited SOL restart.
func evalSOLRevival(ctx *Context) (*model.Flag, error) {
	dofd, _, limit, _, ok := solState(ctx)
	if !ok {
		return nil, nil
	}
	lastPayment, has := ctx.TL.Date(model.KeyLastPayment)
	if !has {
		return nil, nil
	}
	expiry := dofd.AddDate(limit, 0, 0)
	if !lastPayment.After(expiry) {
		return nil, nil
	}

	return &model.Flag{
		RuleID: "sol_revival_payment",
		Explanation: fmt.Sprintf(
			"A payment on %s postdates the limitations expiry %s; a payment this late can revive an otherwise time-barred debt.",
			lastPayment.Format("2006-01-02"), expiry.Format("2006-01-02")),
		Evidence: ctx.TL.Snapshot(model.KeyLastPayment, model.KeyDOFD, model.KeyFurnisher),
	}, nil
}

// evalZombieDebt flags an account first opened or reported only after the
// limitations period expired.
func evalZombieDebt(ctx *Context) (*model.Flag, error) {
	dofd, _, limit, _, ok := solState(ctx)
	if !ok {
		return nil, nil
	}
	expiry := dofd.AddDate(limit, 0, 0)

	for _, key := range []string{model.KeyDateOpened, model.KeyDateReported} {
		d, has := ctx.TL.Date(key)
		if !has {
			continue
		}
		if d.After(expiry) {
			ev := ctx.TL.Snapshot(key, model.KeyDOFD, model.KeyFurnisher, model.KeyOriginalCreditor)
			return &model.Flag{
				RuleID: "zombie_debt",
				Explanation: fmt.Sprintf(
					"%s %s falls after the limitations expiry %s; the account surfaced only once the debt was already time-barred.",
					key, d.Format("2006-01-02"), expiry.Format("2006-01-02")),
				Evidence: ev,
			}, nil
		}
	}
	return nil, nil
}

// solState gathers the shared preconditions of the SOL rules. ok is false
// when the jurisdiction profile or DOFD is unavailable.
func solState(ctx *Context) (dofd time.Time, expired bool, limitYears int, elapsedYears float64, ok bool) {
	if ctx.Jurisdiction == nil {
		return time.Time{}, false, 0, 0, false
	}
	dofd, has := ctx.TL.Date(model.KeyDOFD)
	if !has {
		return time.Time{}, false, 0, 0, false
	}
	expired, limitYears, elapsedYears = jurisdiction.SOLCheck(ctx.Jurisdiction, ctx.DebtClass(), dofd, ctx.Now)
	if limitYears <= 0 {
		return time.Time{}, false, 0, 0, false
	}
	return dofd, expired, limitYears, elapsedYears, true
}
