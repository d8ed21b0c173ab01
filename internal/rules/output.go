package rules

import "github.com/sells-group/assess-cli/internal/model"

// Fallback is a read-only rule that always runs when its data is missing.
type Fallback struct {
	Weight float64 `json:"weight"`
}

// FinancialRiskRules echoes the financial rules with their fallbacks.
type FinancialRiskRules struct {
	FinancialRisk
	NoFinancialData    Fallback `json:"noFinancialData"`
	NoValidRevenueData Fallback `json:"noValidRevenueData"`
}

// FundingHistoryRules echoes the funding rules with their fallback.
type FundingHistoryRules struct {
	FundingHistory
	NoFundingHistory Fallback `json:"noFundingHistory"`
}

// OutputWeights echoes the category weights and each company's share of the
// consortium budget.
type OutputWeights struct {
	Weights
	PerCompany map[string]float64 `json:"perCompany"`
}

// Output is the configuration actually applied to an assessment.
type Output struct {
	FinancialRiskRules  FinancialRiskRules  `json:"financialRiskRules"`
	FundingHistoryRules FundingHistoryRules `json:"fundingHistoryRules"`
	Weights             OutputWeights       `json:"weights"`
}

// NewOutput builds the echo of cfg for the given consortium.
func NewOutput(cfg Config, consortium model.Consortium) Output {
	return Output{
		FinancialRiskRules: FinancialRiskRules{
			FinancialRisk:      cfg.FinancialRisk,
			NoFinancialData:    Fallback{Weight: 1},
			NoValidRevenueData: Fallback{Weight: 1},
		},
		FundingHistoryRules: FundingHistoryRules{
			FundingHistory:   cfg.FundingHistory,
			NoFundingHistory: Fallback{Weight: 1},
		},
		Weights: OutputWeights{
			Weights:    cfg.Weights,
			PerCompany: consortium.BudgetShares(),
		},
	}
}
