package model

// Severity grades how strongly a finding supports a dispute.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities for sorting; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Flag is one finding emitted by a rule or by the cross-account correlator.
// Downstream consumers (scorer, letter generators) treat it as read-only.
type Flag struct {
	RuleID      string   `json:"rule_id"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Explanation string   `json:"explanation"`
	Rationale   string   `json:"rationale"`

	Citations         []string `json:"citations,omitempty"`
	SuggestedEvidence []string `json:"suggested_evidence,omitempty"`

	// Evidence snapshots the field values that triggered the finding.
	Evidence map[string]string `json:"evidence,omitempty"`

	// AccountIndexes lists every tradeline involved. Single-account rules
	// carry exactly one index; correlator flags carry all members.
	AccountIndexes []int `json:"account_indexes,omitempty"`
}

// SourceReport is one reporting source's view of a consumer's tradelines,
// used for cross-source comparison.
type SourceReport struct {
	Source     string      `json:"source"`
	Tradelines []Tradeline `json:"-"`
}
