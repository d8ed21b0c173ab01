package model

// Outcome is the result of a single rule.
type Outcome string

const (
	Favorable     Outcome = "favorable"
	Unfavorable   Outcome = "unfavorable"
	NotApplicable Outcome = "n/a"
)

// OutcomeOf maps a pass/fail check to an Outcome.
func OutcomeOf(favorable bool) Outcome {
	if favorable {
		return Favorable
	}
	return Unfavorable
}

// RuleCode identifies a rule. Each code has at most one Params shape.
type RuleCode string

// Financial risk rules.
const (
	CodeNoFinancialData       RuleCode = "noFinancialData"
	CodeNoValidRevenueData    RuleCode = "noValidRevenueData"
	CodeUnrealisticBudget     RuleCode = "unrealisticBudget"
	CodeConsecutiveLosses     RuleCode = "consecutiveLosses"
	CodeLowProfitMargin       RuleCode = "lowProfitMargin"
	CodeHighProfitVolatility  RuleCode = "highProfitVolatility"
	CodeHighRevenueVolatility RuleCode = "highRevenueVolatility"
	CodeProfitNotGrowing      RuleCode = "profitNotGrowing"
	CodeRevenueNotGrowing     RuleCode = "revenueNotGrowing"
	CodeSwingsInRevenue       RuleCode = "swingsInRevenue"
	CodeSwingsInProfit        RuleCode = "swingsInProfit"
)

// Funding history rules.
const (
	CodeNoFundingHistory               RuleCode = "noFundingHistory"
	CodeRecentGrant                    RuleCode = "recentGrant"
	CodeMultipleFundingInstances       RuleCode = "multipleFundingInstances"
	CodeMostlyGrants                   RuleCode = "mostlyGrants"
	CodeOneFundingSignificantToRevenue RuleCode = "oneFundingSignificantToRevenue"
	CodeOneFundingSignificantToTotal   RuleCode = "oneFundingSignificantToTotal"
	CodeSteadyFundingGrowth            RuleCode = "steadyFundingGrowth"
)

// RuleParams is the evidence attached to a rule outcome. The set of
// implementations is closed to this package.
type RuleParams interface {
	ruleParams()
}

// RuleOutcome is one evaluated rule with its evidence.
type RuleOutcome struct {
	Code    RuleCode   `json:"code"`
	Params  RuleParams `json:"params,omitempty"`
	Outcome Outcome    `json:"outcome"`
}

// CategoryResult pairs a categorical level with the rules that produced it.
type CategoryResult[L ~string] struct {
	Result L             `json:"result"`
	Rules  []RuleOutcome `json:"rules"`
}

// UnrealisticBudgetParams is the evidence for CodeUnrealisticBudget.
type UnrealisticBudgetParams struct {
	ProjectBudget float64 `json:"projectBudget"`
	LatestRevenue float64 `json:"latestRevenue"`
}

// ConsecutiveLossesParams is the evidence for CodeConsecutiveLosses.
type ConsecutiveLossesParams struct {
	LossYears int `json:"lossYears"`
}

// ProfitMarginParams is the evidence for CodeLowProfitMargin.
type ProfitMarginParams struct {
	AverageMargin        float64 `json:"averageMargin"`
	AverageMarginPercent string  `json:"averageMarginPercent"`
}

// VolatilityParams is the evidence for the volatility rules.
type VolatilityParams struct {
	Volatility        float64 `json:"volatility"`
	VolatilityPercent string  `json:"volatilityPercent"`
}

// GrowthParams is the evidence for the not-growing rules.
type GrowthParams struct {
	ConsecutiveYearsWithoutGrowth int `json:"consecutiveYearsWithoutGrowth"`
}

// SwingParams is the evidence for the swing rules.
type SwingParams struct {
	SwingsCount int `json:"swingsCount"`
}

// RecentGrantParams is the evidence for CodeRecentGrant.
type RecentGrantParams struct {
	MostRecentYear int `json:"mostRecentYear"`
}

// FundingInstancesParams is the evidence for CodeMultipleFundingInstances.
type FundingInstancesParams struct {
	Times int `json:"times"`
}

// GrantShareParams is the evidence for CodeMostlyGrants.
type GrantShareParams struct {
	GrantRatio float64 `json:"grantRatio"`
	Percentage string  `json:"percentage"`
}

// SignificantToRevenueParams is the evidence for CodeOneFundingSignificantToRevenue.
type SignificantToRevenueParams struct {
	LargestFundingAmount float64 `json:"largestFundingAmount"`
	AverageAnnualRevenue float64 `json:"averageAnnualRevenue"`
	ReceivedYear         int     `json:"receivedYear"`
	IsLoan               bool    `json:"isLoan"`
}

// SignificantToTotalParams is the evidence for CodeOneFundingSignificantToTotal.
type SignificantToTotalParams struct {
	LargestFundingAmount float64 `json:"largestFundingAmount"`
	TotalFundingAmount   float64 `json:"totalFundingAmount"`
}

// FundingGrowthParams is the evidence for CodeSteadyFundingGrowth.
type FundingGrowthParams struct {
	GrowthRatio        float64 `json:"growthRatio"`
	GrowthYearsPercent string  `json:"growthYearsPercent"`
}

func (UnrealisticBudgetParams) ruleParams()    {}
func (ConsecutiveLossesParams) ruleParams()    {}
func (ProfitMarginParams) ruleParams()         {}
func (VolatilityParams) ruleParams()           {}
func (GrowthParams) ruleParams()               {}
func (SwingParams) ruleParams()                {}
func (RecentGrantParams) ruleParams()          {}
func (FundingInstancesParams) ruleParams()     {}
func (GrantShareParams) ruleParams()           {}
func (SignificantToRevenueParams) ruleParams() {}
func (SignificantToTotalParams) ruleParams()   {}
func (FundingGrowthParams) ruleParams()        {}
