package rules

import "github.com/fairclaim/tradeline-audit/internal/model"

// Meta is the declarative per-rule metadata: severity, scoring category,
// rationale, citation keys, and suggested evidence. Tuning a severity never
// touches rule logic; it is an edit to this table.
type Meta struct {
	Severity          model.Severity
	Category          string
	Rationale         string
	Citations         []string
	SuggestedEvidence []string
}

// Scoring categories. The scorer weights re-aging/timeline/SOL findings
// above fee findings, and both above everything else.
const (
	CategoryReaging     = "reaging"
	CategorySOL         = "sol"
	CategoryFee         = "fee"
	CategoryIntegrity   = "integrity"
	CategoryDuplicate   = "duplicate"
	CategoryFurnisher   = "furnisher"
	CategoryCrossSource = "cross_source"
)

// metadata keys every rule id the engine can emit, including correlator and
// synthesized ids. MetaFor falls back to a medium/integrity default for
// unknown ids so a missing entry degrades instead of crashing.
var metadata = map[string]Meta{
	"timeline_mismatch": {
		Severity:  model.SeverityHigh,
		Category:  CategoryReaging,
		Rationale: "The estimated removal date must track DOFD plus the 7.5-year reporting window; drift beyond tolerance indicates the delinquency clock was moved.",
		Citations: []string{"fcra_605c", "fcra_623_a5"},
		SuggestedEvidence: []string{
			"original creditor statements establishing the true DOFD",
			"prior credit reports showing an earlier removal date",
		},
	},
	"long_timeline": {
		Severity:  model.SeverityHigh,
		Category:  CategoryReaging,
		Rationale: "An opened-to-removal span beyond the maximum reporting window is impossible without the delinquency date having been reset.",
		Citations: []string{"fcra_605c"},
		SuggestedEvidence: []string{
			"account opening documents",
			"historical credit reports covering the account's first appearance",
		},
	},
	"reaging_open_after_dofd": {
		Severity:  model.SeverityHigh,
		Category:  CategoryReaging,
		Rationale: "A debt cannot first be opened years after it became delinquent; a late open date on a transferred debt restarts the reporting clock illegally.",
		Citations: []string{"fcra_605c", "fcra_623_a5", "fdcpa_807"},
		SuggestedEvidence: []string{
			"chain-of-title records for the debt sale",
			"original account agreement and delinquency notices",
		},
	},
	"collection_no_dofd": {
		Severity:  model.SeverityMedium,
		Category:  CategoryReaging,
		Rationale: "A recently opened collection with no reported DOFD hides the only date that limits how long it may be reported.",
		Citations: []string{"fcra_623_a5"},
		SuggestedEvidence: []string{
			"validation request for the original delinquency date",
		},
	},
	"future_date": {
		Severity:  model.SeverityMedium,
		Category:  CategoryIntegrity,
		Rationale: "Date fields in the future are facially impossible and show the furnisher's data is unreliable.",
		Citations: []string{"fcra_607b"},
		SuggestedEvidence: []string{
			"the report page showing the impossible date",
		},
	},
	"report_before_dofd": {
		Severity:  model.SeverityMedium,
		Category:  CategoryIntegrity,
		Rationale: "An account cannot be reported or updated before it became delinquent; the sequence contradiction undermines the reported DOFD.",
		Citations: []string{"fcra_607b"},
		SuggestedEvidence: []string{
			"report history showing the reporting and delinquency dates",
		},
	},
	"status_code_conflict": {
		Severity:  model.SeverityMedium,
		Category:  CategoryIntegrity,
		Rationale: "The industry status code and the free-text status describe different account states; at least one is false.",
		Citations: []string{"fcra_607b", "fcra_611"},
		SuggestedEvidence: []string{
			"Metro 2 field printout from the bureau disclosure",
		},
	},
	"paid_with_balance": {
		Severity:  model.SeverityHigh,
		Category:  CategoryIntegrity,
		Rationale: "A paid, settled, closed, or transferred account must carry a zero balance; a residual balance double-reports the same debt.",
		Citations: []string{"fcra_607b", "fcra_623_a2"},
		SuggestedEvidence: []string{
			"settlement letter or payoff confirmation",
			"statements showing the zero balance",
		},
	},
	"history_contradiction": {
		Severity:  model.SeverityMedium,
		Category:  CategoryIntegrity,
		Rationale: "A clean current status cannot coexist with recent delinquency markers in the payment history grid.",
		Citations: []string{"fcra_607b"},
		SuggestedEvidence: []string{
			"payment history grid from all three bureaus",
		},
	},
	"balance_growth": {
		Severity:  model.SeverityMedium,
		Category:  CategoryFee,
		Rationale: "A collection balance far above the original debt implies fees or interest the collector may have no contractual or statutory right to add.",
		Citations: []string{"fdcpa_808_1"},
		SuggestedEvidence: []string{
			"itemization of the balance from validation response",
			"original creditor's final statement",
		},
	},
	"growth_after_transfer": {
		Severity:  model.SeverityHigh,
		Category:  CategoryFee,
		Rationale: "A balance that keeps growing after charge-off and sale indicates post-transfer interest the buyer usually cannot lawfully accrue.",
		Citations: []string{"fdcpa_808_1", "fdcpa_807"},
		SuggestedEvidence: []string{
			"purchase agreement terms on interest accrual",
			"balance history before and after the transfer",
		},
	},
	"interest_over_cap": {
		Severity:  model.SeverityHigh,
		Category:  CategoryFee,
		Rationale: "The implied annualized growth rate exceeds the jurisdiction's interest cap even after allowing for one-time fees.",
		Citations: []string{"fdcpa_808_1"},
		SuggestedEvidence: []string{
			"state usury statute for the relevant debt class",
			"itemized balance history",
		},
	},
	"sol_expired_reporting": {
		Severity:  model.SeverityLow,
		Category:  CategorySOL,
		Rationale: "The debt is time-barred; collection attempts without disclosure of that fact are deceptive even though reporting may continue.",
		Citations: []string{"fdcpa_807"},
		SuggestedEvidence: []string{
			"jurisdiction SOL statute",
			"proof of the delinquency date",
		},
	},
	"sol_revival_payment": {
		Severity:  model.SeverityHigh,
		Category:  CategorySOL,
		Rationale: "A payment recorded after the limitations period expired can restart the SOL; collectors soliciting such payments without disclosure act deceptively.",
		Citations: []string{"fdcpa_807", "fdcpa_806"},
		SuggestedEvidence: []string{
			"payment records and any solicitation that prompted the payment",
		},
	},
	"zombie_debt": {
		Severity:  model.SeverityHigh,
		Category:  CategorySOL,
		Rationale: "An account first opened or reported after the limitations period expired is a revived zombie debt with a fabricated timeline.",
		Citations: []string{"fcra_605c", "fdcpa_807"},
		SuggestedEvidence: []string{
			"historical reports showing the account was absent",
			"chain-of-title for the debt purchase",
		},
	},

	// Correlator findings.
	"duplicate_balance": {
		Severity:  model.SeverityHigh,
		Category:  CategoryDuplicate,
		Rationale: "Multiple furnishers reporting the same balance for the same original creditor are reporting one debt twice.",
		Citations: []string{"fcra_607b", "fdcpa_807"},
		SuggestedEvidence: []string{
			"full tradeline printouts for every account in the cluster",
		},
	},
	"same_debt_diff_account": {
		Severity:  model.SeverityHigh,
		Category:  CategoryDuplicate,
		Rationale: "Near-identical balances from the same original creditor under different account numbers disguise a duplicate as a distinct debt.",
		Citations: []string{"fcra_607b"},
		SuggestedEvidence: []string{
			"account numbers and balances for each listing",
		},
	},
	"alias_masking": {
		Severity:  model.SeverityHigh,
		Category:  CategoryDuplicate,
		Rationale: "Related corporate entities reporting the same underlying debt under different furnisher names double-count it while evading duplicate detection.",
		Citations: []string{"fcra_607b", "fdcpa_807"},
		SuggestedEvidence: []string{
			"corporate registry records linking the furnisher entities",
		},
	},
	"collector_waterfall": {
		Severity:  model.SeverityMedium,
		Category:  CategoryDuplicate,
		Rationale: "Three or more collectors on one original debt means stale placements were never deleted as the debt moved down the resale chain.",
		Citations: []string{"fcra_623_a2"},
		SuggestedEvidence: []string{
			"dates each collector first reported",
		},
	},
	"furnisher_identical_dofd": {
		Severity:  model.SeverityHigh,
		Category:  CategoryFurnisher,
		Rationale: "Bit-identical delinquency dates across a furnisher's accounts indicate batch-assigned synthetic dates, not per-account history.",
		Citations: []string{"fcra_623_a5"},
		SuggestedEvidence: []string{
			"DOFD for every account reported by the furnisher",
		},
	},
	"furnisher_clock_drift": {
		Severity:  model.SeverityHigh,
		Category:  CategoryFurnisher,
		Rationale: "Removal dates tracking the open date instead of the DOFD across multiple accounts show the furnisher systematically anchors the clock to the wrong date.",
		Citations: []string{"fcra_605c", "fcra_623_a5"},
		SuggestedEvidence: []string{
			"open, delinquency, and removal dates for the affected accounts",
		},
	},
	"cross_source_mismatch": {
		Severity:  model.SeverityHigh,
		Category:  CategoryCrossSource,
		Rationale: "The same debt carrying materially different delinquency or removal dates at different sources proves at least one report is inaccurate.",
		Citations: []string{"fcra_607b", "fcra_611"},
		SuggestedEvidence: []string{
			"side-by-side reports from each source",
		},
	},

	// Synthesized by the pattern scorer.
	"systemic_violation": {
		Severity:  model.SeverityHigh,
		Category:  CategoryReaging,
		Rationale: "Three or more independent high-severity violations on one account indicate systemic misreporting rather than isolated error.",
		Citations: []string{"fcra_607b", "fcra_623"},
		SuggestedEvidence: []string{
			"the complete set of underlying findings",
		},
	},
}

// MetaFor returns the metadata for a rule id. Unknown ids get a conservative
// default so a finding is never dropped for lack of a table entry.
func MetaFor(id string) Meta {
	if m, ok := metadata[id]; ok {
		return m
	}
	return Meta{Severity: model.SeverityMedium, Category: CategoryIntegrity}
}

// Stamp applies the metadata table onto a flag produced by a rule body.
func Stamp(f *model.Flag) {
	m := MetaFor(f.RuleID)
	f.Severity = m.Severity
	f.Category = m.Category
	f.Rationale = m.Rationale
	f.Citations = m.Citations
	f.SuggestedEvidence = m.SuggestedEvidence
}
