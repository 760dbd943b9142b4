package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fairclaim/tradeline-audit/internal/model"
)

// outcome is the per-rule result the evaluator combines: a fired flag, a
// declined rule (both nil), or a fault.
type outcome struct {
	flag *model.Flag
	err  error
}

// Evaluator runs a fixed rule set against single tradelines. Zero rules can
// abort a batch: faults and panics are contained per rule.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator builds an evaluator over all registered rules.
func NewEvaluator() *Evaluator {
	return &Evaluator{rules: All()}
}

// NewEvaluatorWith builds an evaluator over an explicit rule set, used by
// tests and by callers that restrict the catalogue.
func NewEvaluatorWith(rules []Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// Rules returns the evaluator's rule set.
func (e *Evaluator) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// EvalTradeline evaluates every rule against the tradeline in ctx. Flags are
// stamped with declarative metadata and tagged with the account index.
// A faulting rule is logged with its id and dropped; the rest still run.
func (e *Evaluator) EvalTradeline(ctx *Context) []model.Flag {
	var flags []model.Flag
	for _, r := range e.rules {
		out := runRule(r, ctx)
		if out.err != nil {
			zap.L().Warn("rules: rule fault, skipping",
				zap.String("rule_id", r.ID),
				zap.Int("account_index", ctx.TL.Index),
				zap.String("diagnostic", truncate(out.err.Error(), 200)),
			)
			continue
		}
		if out.flag == nil {
			continue
		}
		f := *out.flag
		Stamp(&f)
		f.AccountIndexes = []int{ctx.TL.Index}
		flags = append(flags, f)
	}
	return flags
}

// runRule executes one rule, converting panics into rule faults.
func runRule(r Rule, ctx *Context) (out outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = outcome{err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	flag, err := r.Eval(ctx)
	return outcome{flag: flag, err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
