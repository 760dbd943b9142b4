package score

// Pattern is one catalogued rule-id combination whose joint presence means
// more than its members individually. MinMatch is how many of RuleIDs must
// fire; Boost scales extra confidence by match completeness.
type Pattern struct {
	ID       string
	Name     string
	RuleIDs  []string
	MinMatch int
	Boost    float64
}

// patternCatalogue is evaluated in declared order; output ordering is fixed
// regardless of flag order.
var patternCatalogue = []Pattern{
	{
		ID:       "definitive_reaging",
		Name:     "Definitive re-aging",
		RuleIDs:  []string{"timeline_mismatch", "reaging_open_after_dofd", "long_timeline"},
		MinMatch: 2,
		Boost:    15,
	},
	{
		ID:       "zombie_revival",
		Name:     "Zombie debt revival",
		RuleIDs:  []string{"zombie_debt", "sol_revival_payment", "sol_expired_reporting"},
		MinMatch: 2,
		Boost:    12,
	},
	{
		ID:       "double_collection",
		Name:     "Duplicate collection",
		RuleIDs:  []string{"duplicate_balance", "same_debt_diff_account", "alias_masking", "collector_waterfall"},
		MinMatch: 2,
		Boost:    10,
	},
	{
		ID:       "furnisher_batch",
		Name:     "Furnisher batch manipulation",
		RuleIDs:  []string{"furnisher_identical_dofd", "furnisher_clock_drift", "cross_source_mismatch"},
		MinMatch: 2,
		Boost:    10,
	},
	{
		ID:       "fee_stacking",
		Name:     "Fee and interest stacking",
		RuleIDs:  []string{"balance_growth", "growth_after_transfer", "interest_over_cap"},
		MinMatch: 2,
		Boost:    8,
	},
	{
		ID:       "masked_delinquency",
		Name:     "Masked delinquency state",
		RuleIDs:  []string{"paid_with_balance", "history_contradiction", "status_code_conflict"},
		MinMatch: 2,
		Boost:    8,
	},
}
