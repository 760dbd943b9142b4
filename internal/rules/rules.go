// Package rules implements the single-account audit heuristics. Each rule is
// a pure predicate over one tradeline; rules register themselves from init
// functions, so adding a heuristic is adding a file, never touching dispatch.
package rules

import (
	"sort"
	"time"

	"github.com/fairclaim/tradeline-audit/internal/config"
	"github.com/fairclaim/tradeline-audit/internal/jurisdiction"
	"github.com/fairclaim/tradeline-audit/internal/model"
)

// Context carries everything a rule may consult. Jurisdiction is nil when
// the caller supplied no jurisdiction code; rules that need it decline.
type Context struct {
	TL           model.Tradeline
	Jurisdiction *jurisdiction.Profile
	Now          time.Time
	Cfg          config.RulesConfig
}

// DebtClass classifies the tradeline's debt for SOL and interest-cap lookup.
func (c *Context) DebtClass() jurisdiction.DebtClass {
	if c.TL.IsMedical() {
		return jurisdiction.ClassMedical
	}
	return jurisdiction.ClassGeneral
}

// Rule is one registered heuristic. Eval returns (nil, nil) when the rule
// does not fire; a non-nil error marks a rule fault, which the evaluator
// logs and drops without aborting the batch.
type Rule struct {
	ID   string
	Eval func(*Context) (*model.Flag, error)
}

var registry []Rule

// Register adds a rule to the package registry. Called from init functions
// in the rule files.
func Register(r Rule) {
	registry = append(registry, r)
}

// All returns the registered rules sorted by id.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
