// Package audit is the engine facade: it wires the model, reference data,
// resolver, rule evaluator, correlator, and scorer into one pure,
// synchronous analysis call. Nothing here performs I/O; the worst case for
// bad input is an empty flag list, never an error.
package audit

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fairclaim/tradeline-audit/internal/config"
	"github.com/fairclaim/tradeline-audit/internal/correlate"
	"github.com/fairclaim/tradeline-audit/internal/jurisdiction"
	"github.com/fairclaim/tradeline-audit/internal/model"
	"github.com/fairclaim/tradeline-audit/internal/resolve"
	"github.com/fairclaim/tradeline-audit/internal/rules"
	"github.com/fairclaim/tradeline-audit/internal/score"
)

// Report is one analysis result envelope.
type Report struct {
	ID           string             `json:"id"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Jurisdiction string             `json:"jurisdiction,omitempty"`
	Accounts     int                `json:"accounts"`
	Flags        []model.Flag       `json:"flags"`
	Profile      *model.RiskProfile `json:"profile,omitempty"`
}

// Analyzer is a stateless audit engine. All reference data is immutable
// after construction, so one Analyzer is safe for concurrent use.
type Analyzer struct {
	cfg           *config.Config
	jurisdictions *jurisdiction.Table
	resolver      *resolve.Resolver
	evaluator     *rules.Evaluator
	correlator    *correlate.Correlator
	scorer        *score.Scorer

	// now is injectable for tests; zero means time.Now per call.
	now func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock fixes the analyzer's notion of "now".
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithJurisdictions replaces the built-in reference table.
func WithJurisdictions(t *jurisdiction.Table) Option {
	return func(a *Analyzer) {
		a.jurisdictions = t
	}
}

// WithResolver replaces the default entity resolver, e.g. one extended from
// an alias file.
func WithResolver(r *resolve.Resolver) Option {
	return func(a *Analyzer) { a.resolver = r }
}

// New builds an Analyzer from config.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:           cfg,
		jurisdictions: jurisdiction.Builtin(),
		resolver:      resolve.New(cfg.Resolver.SimilarityThreshold),
		evaluator:     rules.NewEvaluator(),
		scorer:        score.New(cfg.Score),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	// Built last so an option-supplied resolver is the one the correlator uses.
	a.correlator = correlate.New(a.resolver, cfg.Rules)
	return a
}

// Resolver exposes the analyzer's entity resolver for callers that need
// identity decisions outside a full analysis.
func (a *Analyzer) Resolver() *resolve.Resolver {
	return a.resolver
}

// Jurisdictions exposes the reference table.
func (a *Analyzer) Jurisdictions() *jurisdiction.Table {
	return a.jurisdictions
}

// Analyze evaluates every rule against every tradeline, then runs the
// cross-account correlator over the full set. An unknown jurisdiction code
// disables the SOL and usury rules rather than failing. Output is ordered
// by account index, then rule id.
func (a *Analyzer) Analyze(bags []map[string]string, jurisdictionCode string) []model.Flag {
	tls := make([]model.Tradeline, len(bags))
	for i, bag := range bags {
		tls[i] = model.NewTradeline(bag, i)
	}
	return a.analyzeTradelines(tls, jurisdictionCode)
}

func (a *Analyzer) analyzeTradelines(tls []model.Tradeline, jurisdictionCode string) []model.Flag {
	now := a.now()

	var profile *jurisdiction.Profile
	if jurisdictionCode != "" {
		p, ok := a.jurisdictions.Lookup(jurisdictionCode)
		if ok {
			profile = p
		} else {
			zap.L().Warn("audit: unknown jurisdiction, SOL and usury rules disabled",
				zap.String("jurisdiction", jurisdictionCode),
			)
		}
	}

	// Rules never communicate, so per-account evaluation is embarrassingly
	// parallel. Results land in a pre-sized slice; no ordering is required
	// until the final sort.
	perAccount := make([][]model.Flag, len(tls))
	var g errgroup.Group
	g.SetLimit(a.cfg.Audit.MaxConcurrency)
	for i := range tls {
		i := i
		g.Go(func() error {
			perAccount[i] = a.evaluator.EvalTradeline(&rules.Context{
				TL:           tls[i],
				Jurisdiction: profile,
				Now:          now,
				Cfg:          a.cfg.Rules,
			})
			return nil
		})
	}
	_ = g.Wait() // evaluation contains its own faults; the group only joins

	var flags []model.Flag
	for _, fs := range perAccount {
		flags = append(flags, fs...)
	}

	// The correlator needs the complete set; it runs after the join point.
	flags = append(flags, a.correlator.Analyze(tls)...)

	sort.Slice(flags, func(i, j int) bool {
		fi, fj := firstIndex(flags[i]), firstIndex(flags[j])
		if fi != fj {
			return fi < fj
		}
		return flags[i].RuleID < flags[j].RuleID
	})

	zap.L().Info("audit: analysis complete",
		zap.Int("accounts", len(tls)),
		zap.Int("flags", len(flags)),
		zap.String("jurisdiction", jurisdictionCode),
	)

	return flags
}

// AnalyzeSources compares one consumer's accounts across multiple reporting
// sources, returning only the cross-source findings.
func (a *Analyzer) AnalyzeSources(reports []SourceInput) []model.Flag {
	srcs := make([]model.SourceReport, len(reports))
	for i, r := range reports {
		tls := make([]model.Tradeline, len(r.Tradelines))
		for j, bag := range r.Tradelines {
			tls[j] = model.NewTradeline(bag, j)
			tls[j].Source = r.Source
		}
		srcs[i] = model.SourceReport{Source: r.Source, Tradelines: tls}
	}
	return a.correlator.CompareSources(srcs)
}

// SourceInput is one source's raw tradeline list.
type SourceInput struct {
	Source     string              `json:"source"`
	Tradelines []map[string]string `json:"tradelines"`
}

// Profile aggregates a flag list into a risk profile. Running it twice on
// the same flags yields identical output.
func (a *Analyzer) Profile(flags []model.Flag) model.RiskProfile {
	return a.scorer.BuildProfile(flags)
}

// Run performs a full analysis and wraps it in a report envelope.
func (a *Analyzer) Run(bags []map[string]string, jurisdictionCode string, withProfile bool) Report {
	flags := a.Analyze(bags, jurisdictionCode)
	r := Report{
		ID:           uuid.NewString(),
		GeneratedAt:  a.now().UTC(),
		Jurisdiction: jurisdictionCode,
		Accounts:     len(bags),
		Flags:        flags,
	}
	if withProfile {
		p := a.Profile(flags)
		r.Profile = &p
	}
	return r
}

func firstIndex(f model.Flag) int {
	if len(f.AccountIndexes) == 0 {
		return -1
	}
	return f.AccountIndexes[0]
}
