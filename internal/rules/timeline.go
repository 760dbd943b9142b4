package rules

import (
	"fmt"
	"math"

	"github.com/fairclaim/tradeline-audit/internal/model"
)

func init() {
	Register(Rule{ID: "timeline_mismatch", Eval: evalTimelineMismatch})
	Register(Rule{ID: "long_timeline", Eval: evalLongTimeline})
}

// evalTimelineMismatch checks that the estimated removal date sits within
// tolerance of DOFD plus the reporting window. The flag carries the expected
// date and the drift in days.
func evalTimelineMismatch(ctx *Context) (*model.Flag, error) {
	dofd, ok := ctx.TL.Date(model.KeyDOFD)
	if !ok {
		return nil, nil
	}
	removal, ok := ctx.TL.Date(model.KeyRemovalDate)
	if !ok {
		return nil, nil
	}

	expected := dofd.AddDate(0, ctx.Cfg.ReportingPeriodMonths, 0)
	deltaDays := int(math.Round(removal.Sub(expected).Hours() / 24))
	if abs(deltaDays) <= ctx.Cfg.ToleranceDays {
		return nil, nil
	}

	ev := ctx.TL.Snapshot(model.KeyDOFD, model.KeyRemovalDate, model.KeyFurnisher, model.KeyCreditorName)
	ev["expected_removal_date"] = expected.Format("2006-01-02")
	ev["drift_days"] = fmt.Sprintf("%d", deltaDays)

	return &model.Flag{
		RuleID: "timeline_mismatch",
		Explanation: fmt.Sprintf(
			"Estimated removal date %s is %d days from the expected %s (DOFD + %d months); tolerance is %d days.",
			removal.Format("2006-01-02"), deltaDays, expected.Format("2006-01-02"),
			ctx.Cfg.ReportingPeriodMonths, ctx.Cfg.ToleranceDays),
		Evidence: ev,
	}, nil
}

// evalLongTimeline flags an opened-to-removal span beyond the maximum
// reporting window, which only a reset delinquency clock can produce.
func evalLongTimeline(ctx *Context) (*model.Flag, error) {
	opened, ok := ctx.TL.Date(model.KeyDateOpened)
	if !ok {
		return nil, nil
	}
	removal, ok := ctx.TL.Date(model.KeyRemovalDate)
	if !ok {
		return nil, nil
	}

	limit := opened.AddDate(ctx.Cfg.LongTimelineYears, 0, 0)
	if !removal.After(limit) {
		return nil, nil
	}

	years := removal.Sub(opened).Hours() / 24 / 365.25
	return &model.Flag{
		RuleID: "long_timeline",
		Explanation: fmt.Sprintf(
			"Account spans %.1f years from open (%s) to estimated removal (%s), beyond the %d-year maximum reporting window.",
			years, opened.Format("2006-01-02"), removal.Format("2006-01-02"), ctx.Cfg.LongTimelineYears),
		Evidence: ctx.TL.Snapshot(model.KeyDateOpened, model.KeyRemovalDate, model.KeyFurnisher, model.KeyCreditorName),
	}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
