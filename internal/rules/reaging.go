package rules

import (
	"fmt"
	"time"

	"github.com/fairclaim/tradeline-audit/internal/model"
)

func init() {
	Register(Rule{ID: "reaging_open_after_dofd", Eval: evalOpenAfterDOFD})
	Register(Rule{ID: "collection_no_dofd", Eval: evalCollectionNoDOFD})
}

// evalOpenAfterDOFD fires when the reported open date trails the DOFD by
// strictly more than the re-aging window. At exactly the window boundary the
// rule stays silent; one month past it fires.
func evalOpenAfterDOFD(ctx *Context) (*model.Flag, error) {
	opened, ok := ctx.TL.Date(model.KeyDateOpened)
	if !ok {
		return nil, nil
	}
	dofd, ok := ctx.TL.Date(model.KeyDOFD)
	if !ok {
		return nil, nil
	}

	boundary := dofd.AddDate(0, ctx.Cfg.ReagingMonths, 0)
	if !opened.After(boundary) {
		return nil, nil
	}

	months := monthsBetween(dofd, opened)
	return &model.Flag{
		RuleID: "reaging_open_after_dofd",
		Explanation: fmt.Sprintf(
			"Open date %s is %d months after the delinquency date %s; a debt transferred this long after default carries the original DOFD, not a new one.",
			opened.Format("2006-01-02"), months, dofd.Format("2006-01-02")),
		Evidence: ctx.TL.Snapshot(model.KeyDateOpened, model.KeyDOFD, model.KeyFurnisher, model.KeyCreditorName, model.KeyOriginalCreditor),
	}, nil
}

// evalCollectionNoDOFD flags a collection account with a recent open date
// and no delinquency date at all: the one field that limits reporting has
// been withheld.
func evalCollectionNoDOFD(ctx *Context) (*model.Flag, error) {
	if !ctx.TL.IsCollection() {
		return nil, nil
	}
	if ctx.TL.Has(model.KeyDOFD) {
		return nil, nil
	}
	opened, ok := ctx.TL.Date(model.KeyDateOpened)
	if !ok {
		return nil, nil
	}
	if opened.Before(ctx.Now.AddDate(-ctx.Cfg.RecentOpenYears, 0, 0)) {
		return nil, nil
	}

	return &model.Flag{
		RuleID: "collection_no_dofd",
		Explanation: fmt.Sprintf(
			"Collection account opened %s reports no date of first delinquency; without it the reporting period cannot be anchored.",
			opened.Format("2006-01-02")),
		Evidence: ctx.TL.Snapshot(model.KeyDateOpened, model.KeyAccountType, model.KeyFurnisher, model.KeyCreditorName),
	}, nil
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}
