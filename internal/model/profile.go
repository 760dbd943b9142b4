package model

// RiskLevel buckets the overall score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// PatternTier grades how complete a higher-order pattern match is.
type PatternTier string

const (
	TierWeak       PatternTier = "weak"
	TierModerate   PatternTier = "moderate"
	TierStrong     PatternTier = "strong"
	TierDefinitive PatternTier = "definitive"
)

// Rank orders tiers; unknown values rank lowest.
func (t PatternTier) Rank() int {
	switch t {
	case TierDefinitive:
		return 4
	case TierStrong:
		return 3
	case TierModerate:
		return 2
	case TierWeak:
		return 1
	default:
		return 0
	}
}

// PatternMatch is one detected higher-order rule combination.
type PatternMatch struct {
	PatternID    string      `json:"pattern_id"`
	Name         string      `json:"name"`
	MatchedRules []string    `json:"matched_rules"`
	Confidence   float64     `json:"confidence"`
	Tier         PatternTier `json:"tier"`
}

// RiskProfile is the calibrated aggregate over a flag set. It is recomputed
// on demand and never persisted by this engine.
type RiskProfile struct {
	Score               float64        `json:"score"`
	Level               RiskLevel      `json:"level"`
	Patterns            []PatternMatch `json:"patterns,omitempty"`
	DisputeStrength     string         `json:"dispute_strength"`
	LitigationPotential bool           `json:"litigation_potential"`
	RecommendedApproach string         `json:"recommended_approach"`

	TotalFlags   int `json:"total_flags"`
	HighSeverity int `json:"high_severity"`
}
