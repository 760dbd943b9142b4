// Package score aggregates a flag list into one calibrated risk profile.
// Scoring is idempotent and order-independent: the input list is never
// mutated and flags are canonically sorted before aggregation.
package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fairclaim/tradeline-audit/internal/config"
	"github.com/fairclaim/tradeline-audit/internal/model"
	"github.com/fairclaim/tradeline-audit/internal/rules"
)

// Scorer builds risk profiles from flag sets.
type Scorer struct {
	cfg config.ScoreConfig
}

// New creates a Scorer.
func New(cfg config.ScoreConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// willfulnessMarkers in explanation text imply the furnisher knew.
var willfulnessMarkers = []string{"willful", "knowing", "deliberate", "intentional", "systemic", "batch"}

// BuildProfile computes the calibrated narrative for a flag set.
func (s *Scorer) BuildProfile(flags []model.Flag) model.RiskProfile {
	// Work on a sorted copy so output is independent of input order and the
	// caller's slice stays untouched.
	working := make([]model.Flag, len(flags))
	copy(working, flags)
	sort.Slice(working, func(i, j int) bool {
		if working[i].RuleID != working[j].RuleID {
			return working[i].RuleID < working[j].RuleID
		}
		return firstIndex(working[i]) < firstIndex(working[j])
	})

	working = append(working, s.synthesizeSystemic(working)...)

	score := s.baseScore(working)
	patterns := s.detectPatterns(working)

	highCount := 0
	for _, f := range working {
		if f.Severity == model.SeverityHigh {
			highCount++
		}
	}

	topTier := model.PatternTier("")
	for _, p := range patterns {
		if p.Tier.Rank() > topTier.Rank() {
			topTier = p.Tier
		}
	}

	strength, approach := s.decide(highCount, topTier)

	return model.RiskProfile{
		Score:               score,
		Level:               s.level(score),
		Patterns:            patterns,
		DisputeStrength:     strength,
		LitigationPotential: s.litigation(working, highCount, topTier),
		RecommendedApproach: approach,
		TotalFlags:          len(flags),
		HighSeverity:        highCount,
	}
}

// synthesizeSystemic returns a systemic-violation flag per account carrying
// at least SystemicHighCount independent high-severity findings.
func (s *Scorer) synthesizeSystemic(flags []model.Flag) []model.Flag {
	highByAccount := map[int]map[string]bool{}
	for _, f := range flags {
		if f.Severity != model.SeverityHigh || len(f.AccountIndexes) != 1 {
			continue
		}
		idx := f.AccountIndexes[0]
		if highByAccount[idx] == nil {
			highByAccount[idx] = map[string]bool{}
		}
		highByAccount[idx][f.RuleID] = true
	}

	var accounts []int
	for idx, ids := range highByAccount {
		if len(ids) >= s.cfg.SystemicHighCount {
			accounts = append(accounts, idx)
		}
	}
	sort.Ints(accounts)

	var synth []model.Flag
	for _, idx := range accounts {
		f := model.Flag{
			RuleID: "systemic_violation",
			Explanation: fmt.Sprintf(
				"Account %d carries %d independent high-severity violations; this is systemic misreporting, not isolated error.",
				idx, len(highByAccount[idx])),
			AccountIndexes: []int{idx},
		}
		rules.Stamp(&f)
		synth = append(synth, f)
	}
	return synth
}

// baseScore sums severity weights scaled by category weights, capped at 100.
func (s *Scorer) baseScore(flags []model.Flag) float64 {
	var total float64
	for _, f := range flags {
		total += s.severityWeight(f.Severity) * s.categoryWeight(f.Category)
	}
	return math.Min(math.Round(total*100)/100, 100)
}

func (s *Scorer) severityWeight(sev model.Severity) float64 {
	switch sev {
	case model.SeverityHigh:
		return s.cfg.HighWeight
	case model.SeverityMedium:
		return s.cfg.MediumWeight
	default:
		return s.cfg.LowWeight
	}
}

func (s *Scorer) categoryWeight(category string) float64 {
	switch category {
	case rules.CategoryReaging, rules.CategorySOL:
		return s.cfg.ReagingCategoryWeight
	case rules.CategoryFee:
		return s.cfg.FeeCategoryWeight
	default:
		return 1.0
	}
}

// detectPatterns matches the catalogue against the distinct rule ids present.
func (s *Scorer) detectPatterns(flags []model.Flag) []model.PatternMatch {
	present := map[string]bool{}
	for _, f := range flags {
		present[f.RuleID] = true
	}

	var matches []model.PatternMatch
	for _, p := range patternCatalogue {
		var matched []string
		for _, id := range p.RuleIDs {
			if present[id] {
				matched = append(matched, id)
			}
		}
		if len(matched) < p.MinMatch {
			continue
		}

		ratio := float64(len(matched)) / float64(len(p.RuleIDs))
		confidence := math.Min(s.cfg.ConfidenceBase+s.cfg.ConfidenceSpan*ratio+p.Boost*ratio, 100)
		matches = append(matches, model.PatternMatch{
			PatternID:    p.ID,
			Name:         p.Name,
			MatchedRules: matched,
			Confidence:   math.Round(confidence*100) / 100,
			Tier:         s.tier(confidence),
		})
	}
	return matches
}

func (s *Scorer) tier(confidence float64) model.PatternTier {
	switch {
	case confidence >= s.cfg.DefinitiveTier:
		return model.TierDefinitive
	case confidence >= s.cfg.StrongTier:
		return model.TierStrong
	case confidence >= s.cfg.ModerateTier:
		return model.TierModerate
	default:
		return model.TierWeak
	}
}

func (s *Scorer) level(score float64) model.RiskLevel {
	switch {
	case score >= s.cfg.CriticalThreshold:
		return model.RiskCritical
	case score >= s.cfg.HighThreshold:
		return model.RiskHigh
	case score >= s.cfg.MediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// decide maps (high-severity count, top pattern tier) to a dispute strength
// and recommended approach.
func (s *Scorer) decide(highCount int, topTier model.PatternTier) (string, string) {
	switch {
	case highCount >= 3 || topTier == model.TierDefinitive:
		return "very_strong",
			"Demand immediate deletion from every bureau citing the documented violations; refer for FCRA litigation review in parallel."
	case highCount == 2 || topTier == model.TierStrong:
		return "strong",
			"Dispute with method-of-verification demands to each furnisher and bureau; prepare a CFPB complaint if verification is rubber-stamped."
	case highCount == 1 || topTier == model.TierModerate:
		return "moderate",
			"Dispute directly with the furnisher and bureaus, requesting the complete account history and DOFD documentation."
	default:
		return "weak",
			"Request debt validation and monitor subsequent reports for reinsertion or date changes."
	}
}

// litigation flags cases worth an attorney's time: repeated high-severity
// violations, a strong pattern, or language implying willfulness.
func (s *Scorer) litigation(flags []model.Flag, highCount int, topTier model.PatternTier) bool {
	if highCount >= 2 || topTier.Rank() >= model.TierStrong.Rank() {
		return true
	}
	for _, f := range flags {
		text := strings.ToLower(f.Explanation)
		for _, marker := range willfulnessMarkers {
			if strings.Contains(text, marker) {
				return true
			}
		}
	}
	return false
}

func firstIndex(f model.Flag) int {
	if len(f.AccountIndexes) == 0 {
		return -1
	}
	return f.AccountIndexes[0]
}
