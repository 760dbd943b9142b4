// Package correlate finds relational violations invisible to single-account
// rules: disguised duplicates, furnisher-level batch manipulation, and
// cross-source timeline disagreements.
package correlate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairclaim/tradeline-audit/internal/config"
	"github.com/fairclaim/tradeline-audit/internal/model"
	"github.com/fairclaim/tradeline-audit/internal/resolve"
	"github.com/fairclaim/tradeline-audit/internal/rules"
)

// Correlator audits a consumer's full tradeline set. It requires the
// complete set as input; the individual checks then run in parallel.
type Correlator struct {
	res *resolve.Resolver
	cfg config.RulesConfig
}

// New creates a Correlator.
func New(res *resolve.Resolver, cfg config.RulesConfig) *Correlator {
	return &Correlator{res: res, cfg: cfg}
}

// Analyze runs every cross-account check over the full tradeline set and
// returns the findings ordered by rule id, then first account index.
func (c *Correlator) Analyze(tls []model.Tradeline) []model.Flag {
	if len(tls) < 2 {
		return nil
	}

	checks := []func([]model.Tradeline) []model.Flag{
		c.duplicateBalances,
		c.sameDebtDifferentAccounts,
		c.aliasMasking,
		c.collectorWaterfall,
		c.furnisherAudit,
	}

	var mu sync.Mutex
	var flags []model.Flag
	var g errgroup.Group
	for _, check := range checks {
		check := check
		g.Go(func() error {
			found := check(tls)
			mu.Lock()
			flags = append(flags, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // checks never error; the group only provides the join

	sortFlags(flags)
	return flags
}

// originalCreditor falls back through the identity fields a parser may have
// populated.
func originalCreditor(tl model.Tradeline) string {
	if v := tl.Field(model.KeyOriginalCreditor); v != "" {
		return v
	}
	return tl.Field(model.KeyCreditorName)
}

// creditorClusters partitions the given indexes into groups whose creditor
// names resolve to the same entity. Canonical alias matches are assigned
// first; fuzzy matching only merges the remaining groups, so one account
// never lands in two clusters.
func (c *Correlator) creditorClusters(tls []model.Tradeline, idxs []int, nameOf func(model.Tradeline) string) [][]int {
	type group struct {
		rep     string // raw representative name
		members []int
	}

	var groups []group
	byCanonical := map[string]int{}
	for _, i := range idxs {
		name := nameOf(tls[i])
		if name == "" {
			continue
		}
		key := c.res.Canonical(name)
		if gi, ok := byCanonical[key]; ok {
			groups[gi].members = append(groups[gi].members, i)
			continue
		}
		byCanonical[key] = len(groups)
		groups = append(groups, group{rep: name, members: []int{i}})
	}

	// Fuzzy pass: union groups whose representatives match approximately.
	parent := make([]int, len(groups))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			if find(i) == find(j) {
				continue
			}
			if c.res.SameEntity(groups[i].rep, groups[j].rep) {
				parent[find(j)] = find(i)
			}
		}
	}

	merged := map[int][]int{}
	for i, grp := range groups {
		root := find(i)
		merged[root] = append(merged[root], grp.members...)
	}

	var out [][]int
	for _, members := range merged {
		sort.Ints(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// duplicateBalances clusters by exact balance (to the cent) and same
// original creditor; any cluster of two or more is a candidate duplicate.
func (c *Correlator) duplicateBalances(tls []model.Tradeline) []model.Flag {
	byBalance := map[int64][]int{}
	for i := range tls {
		bal := tls[i].Money(model.KeyBalance)
		if bal <= 0 {
			continue
		}
		cents := int64(bal*100 + 0.5)
		byBalance[cents] = append(byBalance[cents], i)
	}

	var flags []model.Flag
	for cents, idxs := range byBalance {
		if len(idxs) < 2 {
			continue
		}
		for _, cluster := range c.creditorClusters(tls, idxs, originalCreditor) {
			if len(cluster) < 2 {
				continue
			}
			flags = append(flags, c.clusterFlag("duplicate_balance", tls, cluster, fmt.Sprintf(
				"%d accounts report the identical balance $%.2f for the same original creditor: %s.",
				len(cluster), float64(cents)/100, furnisherList(tls, cluster))))
		}
	}
	return flags
}

// sameDebtDifferentAccounts buckets balances by width 100 and flags fuzzy
// creditor groups carrying two or more distinct account numbers.
func (c *Correlator) sameDebtDifferentAccounts(tls []model.Tradeline) []model.Flag {
	byBucket := map[int64][]int{}
	for i := range tls {
		bal := tls[i].Money(model.KeyBalance)
		if bal <= 0 {
			continue
		}
		byBucket[int64(bal/100)] = append(byBucket[int64(bal/100)], i)
	}

	var flags []model.Flag
	for _, idxs := range byBucket {
		if len(idxs) < 2 {
			continue
		}
		for _, cluster := range c.creditorClusters(tls, idxs, originalCreditor) {
			if len(cluster) < 2 {
				continue
			}
			numbers := map[string]bool{}
			for _, i := range cluster {
				if key := resolve.AccountKey(tls[i].Field(model.KeyAccountNumber)); key != "" {
					numbers[key] = true
				}
			}
			if len(numbers) < 2 {
				continue
			}
			flags = append(flags, c.clusterFlag("same_debt_diff_account", tls, cluster, fmt.Sprintf(
				"%d accounts in the same balance range share an original creditor but carry %d different account numbers.",
				len(cluster), len(numbers))))
		}
	}
	return flags
}

// aliasMasking flags one canonical furnisher reporting the same debt under
// multiple raw entity names.
func (c *Correlator) aliasMasking(tls []model.Tradeline) []model.Flag {
	byFurnisher := map[string][]int{}
	for i := range tls {
		name := tls[i].FurnisherName()
		if name == "" {
			continue
		}
		key := c.res.Canonical(name)
		byFurnisher[key] = append(byFurnisher[key], i)
	}

	var flags []model.Flag
	for _, idxs := range byFurnisher {
		if len(idxs) < 2 {
			continue
		}
		// Sub-group by original-creditor prefix: same debt family.
		byPrefix := map[string][]int{}
		for _, i := range idxs {
			prefix := creditorPrefix(originalCreditor(tls[i]))
			if prefix == "" {
				continue
			}
			byPrefix[prefix] = append(byPrefix[prefix], i)
		}
		for _, sub := range byPrefix {
			if len(sub) < 2 {
				continue
			}
			raw := map[string]bool{}
			for _, i := range sub {
				raw[tls[i].FurnisherName()] = true
			}
			if len(raw) < 2 {
				continue
			}
			flags = append(flags, c.clusterFlag("alias_masking", tls, sub, fmt.Sprintf(
				"Related entities (%s) report the same underlying debt under %d different furnisher names.",
				furnisherList(tls, sub), len(raw))))
		}
	}
	return flags
}

// collectorWaterfall flags three or more distinct collectors on one
// original debt.
func (c *Correlator) collectorWaterfall(tls []model.Tradeline) []model.Flag {
	var collections []int
	for i := range tls {
		if tls[i].IsCollection() && originalCreditor(tls[i]) != "" {
			collections = append(collections, i)
		}
	}
	if len(collections) < 3 {
		return nil
	}

	var flags []model.Flag
	for _, cluster := range c.creditorClusters(tls, collections, originalCreditor) {
		if len(cluster) < 3 {
			continue
		}
		collectors := map[string]bool{}
		for _, i := range cluster {
			if f := tls[i].FurnisherName(); f != "" {
				collectors[c.res.Canonical(f)] = true
			}
		}
		if len(collectors) < 3 {
			continue
		}
		flags = append(flags, c.clusterFlag("collector_waterfall", tls, cluster, fmt.Sprintf(
			"%d distinct collectors (%s) report the same original debt; stale placements were never deleted.",
			len(collectors), furnisherList(tls, cluster))))
	}
	return flags
}

// furnisherAudit looks for furnisher-level batch behavior: identical DOFDs
// across many accounts and a repeated wrong-anchor removal date.
func (c *Correlator) furnisherAudit(tls []model.Tradeline) []model.Flag {
	byFurnisher := map[string][]int{}
	for i := range tls {
		name := tls[i].FurnisherName()
		if name == "" {
			continue
		}
		byFurnisher[c.res.Canonical(name)] = append(byFurnisher[c.res.Canonical(name)], i)
	}

	var flags []model.Flag
	for _, idxs := range byFurnisher {
		if len(idxs) < 2 {
			continue
		}

		// Bit-identical DOFDs across three or more accounts.
		byDOFD := map[string][]int{}
		for _, i := range idxs {
			if d := tls[i].Field(model.KeyDOFD); d != "" {
				byDOFD[d] = append(byDOFD[d], i)
			}
		}
		for dofd, shared := range byDOFD {
			if len(shared) < 3 {
				continue
			}
			flags = append(flags, c.clusterFlag("furnisher_identical_dofd", tls, shared, fmt.Sprintf(
				"%s reports the identical delinquency date %s on %d separate accounts, indicating batch-assigned dates.",
				tls[shared[0]].FurnisherName(), dofd, len(shared))))
		}

		// Removal date anchored to the open date instead of the DOFD.
		var drifted []int
		for _, i := range idxs {
			if c.clockDrift(tls[i]) {
				drifted = append(drifted, i)
			}
		}
		if len(drifted) >= 2 {
			flags = append(flags, c.clusterFlag("furnisher_clock_drift", tls, drifted, fmt.Sprintf(
				"%s anchors removal dates to the open date rather than the DOFD on %d accounts.",
				tls[drifted[0]].FurnisherName(), len(drifted))))
		}
	}
	return flags
}

// clockDrift reports whether the removal date tracks the open date plus the
// reporting window while disagreeing with the DOFD anchor.
func (c *Correlator) clockDrift(tl model.Tradeline) bool {
	opened, ok := tl.Date(model.KeyDateOpened)
	if !ok {
		return false
	}
	dofd, ok := tl.Date(model.KeyDOFD)
	if !ok {
		return false
	}
	removal, ok := tl.Date(model.KeyRemovalDate)
	if !ok {
		return false
	}

	fromOpen := opened.AddDate(0, c.cfg.ReportingPeriodMonths, 0)
	fromDOFD := dofd.AddDate(0, c.cfg.ReportingPeriodMonths, 0)
	return withinDays(removal, fromOpen, c.cfg.ToleranceDays) &&
		!withinDays(removal, fromDOFD, c.cfg.ToleranceDays)
}

// clusterFlag builds a stamped correlator finding over the given indexes.
func (c *Correlator) clusterFlag(ruleID string, tls []model.Tradeline, idxs []int, explanation string) model.Flag {
	ev := map[string]string{}
	for _, i := range idxs {
		ev[fmt.Sprintf("account_%d_furnisher", i)] = tls[i].FurnisherName()
		if bal := tls[i].Field(model.KeyBalance); bal != "" {
			ev[fmt.Sprintf("account_%d_balance", i)] = bal
		}
	}

	f := model.Flag{
		RuleID:         ruleID,
		Explanation:    explanation,
		Evidence:       ev,
		AccountIndexes: append([]int(nil), idxs...),
	}
	rules.Stamp(&f)
	return f
}

func furnisherList(tls []model.Tradeline, idxs []int) string {
	seen := map[string]bool{}
	var names []string
	for _, i := range idxs {
		n := tls[i].FurnisherName()
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

func creditorPrefix(name string) string {
	n := resolve.Normalize(name)
	if len(n) > 10 {
		return n[:10]
	}
	return n
}

func withinDays(a, b time.Time, days int) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= time.Duration(days)*24*time.Hour
}

func sortFlags(flags []model.Flag) {
	sort.Slice(flags, func(i, j int) bool {
		if flags[i].RuleID != flags[j].RuleID {
			return flags[i].RuleID < flags[j].RuleID
		}
		return firstIndex(flags[i]) < firstIndex(flags[j])
	})
}

func firstIndex(f model.Flag) int {
	if len(f.AccountIndexes) == 0 {
		return -1
	}
	return f.AccountIndexes[0]
}
