package correlate

import (
	"fmt"
	"math"

	"github.com/fairclaim/tradeline-audit/internal/model"
	"github.com/fairclaim/tradeline-audit/internal/resolve"
	"github.com/fairclaim/tradeline-audit/internal/rules"
)

// CompareSources audits one consumer's accounts as reported by multiple
// sources. Accounts are matched across sources by account number or by a
// strong furnisher match in the same balance range; any matched pair whose
// delinquency or removal dates disagree beyond tolerance is flagged, since
// the disagreement is itself proof at least one source is wrong.
func (c *Correlator) CompareSources(reports []model.SourceReport) []model.Flag {
	var flags []model.Flag
	for i := 0; i < len(reports); i++ {
		for j := i + 1; j < len(reports); j++ {
			flags = append(flags, c.compareSourcePair(reports[i], reports[j])...)
		}
	}
	sortFlags(flags)
	return flags
}

func (c *Correlator) compareSourcePair(a, b model.SourceReport) []model.Flag {
	var flags []model.Flag
	for _, ta := range a.Tradelines {
		for _, tb := range b.Tradelines {
			if !c.sameAccount(ta, tb) {
				continue
			}
			flags = append(flags, c.compareDates(a.Source, b.Source, ta, tb)...)
		}
	}
	return flags
}

// sameAccount decides whether two source views describe the same debt.
// An account-number match is decisive; otherwise require a strong furnisher
// match with balances in the same bucket.
func (c *Correlator) sameAccount(a, b model.Tradeline) bool {
	ka := resolve.AccountKey(a.Field(model.KeyAccountNumber))
	kb := resolve.AccountKey(b.Field(model.KeyAccountNumber))
	if ka != "" && kb != "" {
		return ka == kb
	}
	if !c.res.SameEntity(a.FurnisherName(), b.FurnisherName()) {
		return false
	}
	ba, bb := a.Money(model.KeyBalance), b.Money(model.KeyBalance)
	return int64(ba/100) == int64(bb/100)
}

func (c *Correlator) compareDates(sourceA, sourceB string, a, b model.Tradeline) []model.Flag {
	var flags []model.Flag
	for _, key := range []string{model.KeyDOFD, model.KeyRemovalDate} {
		da, okA := a.Date(key)
		db, okB := b.Date(key)
		if !okA || !okB {
			continue
		}
		driftDays := int(math.Round(math.Abs(da.Sub(db).Hours()) / 24))
		if driftDays <= c.cfg.ToleranceDays {
			continue
		}

		ev := map[string]string{
			"field":             key,
			"source_" + sourceA: a.Field(key),
			"source_" + sourceB: b.Field(key),
			"drift_days":        fmt.Sprintf("%d", driftDays),
			"furnisher":         a.FurnisherName(),
		}
		f := model.Flag{
			RuleID: "cross_source_mismatch",
			Explanation: fmt.Sprintf(
				"%s differs by %d days between %s (%s) and %s (%s) for the same account.",
				key, driftDays, sourceA, a.Field(key), sourceB, b.Field(key)),
			Evidence:       ev,
			AccountIndexes: []int{a.Index, b.Index},
		}
		rules.Stamp(&f)
		flags = append(flags, f)
	}
	return flags
}
