// Package rules holds the rule configuration used by the financial and
// funding evaluators: defaults, caller overrides, validation and the weighted
// score shared by every rule category.
package rules

// Rule is the part every rule entry shares. Perform=false removes the rule
// from evaluation and from the total weight.
type Rule struct {
	Weight  float64 `json:"weight" yaml:"weight"`
	Perform bool    `json:"perform" yaml:"perform"`
}

// UnrealisticBudget compares the company budget to its latest revenue.
type UnrealisticBudget struct {
	Rule                 `yaml:",inline"`
	BudgetToRevenueRatio float64 `json:"budgetToRevenueRatio" yaml:"budgetToRevenueRatio"`
}

// ConsecutiveLosses flags long runs of negative profit.
type ConsecutiveLosses struct {
	Rule                `yaml:",inline"`
	MaxAllowedLossYears int `json:"maxAllowedLossYears" yaml:"maxAllowedLossYears"`
	StartingIndex       int `json:"startingIndex" yaml:"startingIndex"`
}

// LowProfitMargin flags a low average profit margin.
type LowProfitMargin struct {
	Rule             `yaml:",inline"`
	MinMarginPercent float64 `json:"minMarginPercent" yaml:"minMarginPercent"`
}

// Volatility flags a high spread of year-over-year growth.
type Volatility struct {
	Rule                 `yaml:",inline"`
	MaxVolatilityPercent float64 `json:"maxVolatilityPercent" yaml:"maxVolatilityPercent"`
}

// NotGrowing flags long runs of years without growth.
type NotGrowing struct {
	Rule                          `yaml:",inline"`
	ConsecutiveYearsWithoutGrowth int `json:"consecutiveYearsWithoutGrowth" yaml:"consecutiveYearsWithoutGrowth"`
}

// Swings flags repeated large sign changes in a series.
type Swings struct {
	Rule                      `yaml:",inline"`
	MaxSwingsThreshold        int     `json:"maxSwingsThreshold" yaml:"maxSwingsThreshold"`
	ConsideredASwingThreshold float64 `json:"consideredASwingThreshold" yaml:"consideredASwingThreshold"`
}

// FinancialRisk configures the financial risk evaluator.
type FinancialRisk struct {
	ConsecutiveLosses     ConsecutiveLosses `json:"consecutiveLosses" yaml:"consecutiveLosses"`
	LowProfitMargin       LowProfitMargin   `json:"lowProfitMargin" yaml:"lowProfitMargin"`
	HighProfitVolatility  Volatility        `json:"highProfitVolatility" yaml:"highProfitVolatility"`
	HighRevenueVolatility Volatility        `json:"highRevenueVolatility" yaml:"highRevenueVolatility"`
	ProfitNotGrowing      NotGrowing        `json:"profitNotGrowing" yaml:"profitNotGrowing"`
	RevenueNotGrowing     NotGrowing        `json:"revenueNotGrowing" yaml:"revenueNotGrowing"`
	SwingsInRevenue       Swings            `json:"swingsInRevenue" yaml:"swingsInRevenue"`
	SwingsInProfit        Swings            `json:"swingsInProfit" yaml:"swingsInProfit"`
	UnrealisticBudget     UnrealisticBudget `json:"unrealisticBudget" yaml:"unrealisticBudget"`
}

// RecentGrant favors a grant received within MinTimeAgo years.
type RecentGrant struct {
	Rule       `yaml:",inline"`
	MinTimeAgo int `json:"minTimeAgo" yaml:"minTimeAgo"`
}

// MultipleFundingInstances favors repeat funding.
type MultipleFundingInstances struct {
	Rule     `yaml:",inline"`
	MinTimes int `json:"minTimes" yaml:"minTimes"`
}

// MostlyGrants favors histories made mostly of grants rather than loans.
type MostlyGrants struct {
	Rule           `yaml:",inline"`
	GrantThreshold float64 `json:"grantThreshold" yaml:"grantThreshold"`
}

// SignificantToRevenue favors one funding that is large relative to revenue.
type SignificantToRevenue struct {
	Rule                `yaml:",inline"`
	PercentageOfRevenue float64 `json:"percentageOfRevenue" yaml:"percentageOfRevenue"`
}

// SignificantToTotal favors one funding that dominates the total received.
type SignificantToTotal struct {
	Rule                     `yaml:",inline"`
	PercentageOfTotalFunding float64 `json:"percentageOfTotalFunding" yaml:"percentageOfTotalFunding"`
}

// SteadyFundingGrowth favors amounts that increase year over year.
type SteadyFundingGrowth struct {
	Rule                 `yaml:",inline"`
	GrowthYearsThreshold float64 `json:"growthYearsThreshold" yaml:"growthYearsThreshold"`
}

// FundingHistory configures the funding history evaluator.
type FundingHistory struct {
	RecentGrant                    RecentGrant              `json:"recentGrant" yaml:"recentGrant"`
	MultipleFundingInstances       MultipleFundingInstances `json:"multipleFundingInstances" yaml:"multipleFundingInstances"`
	MostlyGrants                   MostlyGrants             `json:"mostlyGrants" yaml:"mostlyGrants"`
	OneFundingSignificantToRevenue SignificantToRevenue     `json:"oneFundingSignificantToRevenue" yaml:"oneFundingSignificantToRevenue"`
	OneFundingSignificantToTotal   SignificantToTotal       `json:"oneFundingSignificantToTotal" yaml:"oneFundingSignificantToTotal"`
	SteadyFundingGrowth            SteadyFundingGrowth      `json:"steadyFundingGrowth" yaml:"steadyFundingGrowth"`
}

// Weights are the category weights used by the traffic-light aggregators.
type Weights struct {
	CompanyFinancialRisk        float64 `json:"companyFinancialRisk" yaml:"companyFinancialRisk"`
	CompanyFundingHistory       float64 `json:"companyFundingHistory" yaml:"companyFundingHistory"`
	CompanyDescriptionClarity   float64 `json:"companyDescriptionClarity" yaml:"companyDescriptionClarity"`
	CompanyDescriptionRelevancy float64 `json:"companyDescriptionRelevancy" yaml:"companyDescriptionRelevancy"`
	AllCompanyEvaluations       float64 `json:"allCompanyEvaluations" yaml:"allCompanyEvaluations"`
	ProjectInnovation           float64 `json:"projectInnovation" yaml:"projectInnovation"`
	ProjectStrategicFit         float64 `json:"projectStrategicFit" yaml:"projectStrategicFit"`
}

// Config is the complete rule configuration of one assessment. It holds no
// pointers, maps or slices, so a plain assignment is a deep copy.
type Config struct {
	FinancialRisk  FinancialRisk  `json:"financialRisk" yaml:"financialRisk"`
	FundingHistory FundingHistory `json:"fundingHistory" yaml:"fundingHistory"`
	Weights        Weights        `json:"weights" yaml:"weights"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FinancialRisk: FinancialRisk{
			ConsecutiveLosses: ConsecutiveLosses{
				Rule:                Rule{Weight: 0.3, Perform: true},
				MaxAllowedLossYears: 2,
				StartingIndex:       1,
			},
			LowProfitMargin: LowProfitMargin{
				Rule:             Rule{Weight: 0.2, Perform: true},
				MinMarginPercent: 0.05,
			},
			HighProfitVolatility: Volatility{
				Rule:                 Rule{Weight: 0.2, Perform: true},
				MaxVolatilityPercent: 0.3,
			},
			HighRevenueVolatility: Volatility{
				Rule:                 Rule{Weight: 0.1, Perform: true},
				MaxVolatilityPercent: 0.2,
			},
			ProfitNotGrowing: NotGrowing{
				Rule:                          Rule{Weight: 0.2, Perform: true},
				ConsecutiveYearsWithoutGrowth: 3,
			},
			RevenueNotGrowing: NotGrowing{
				Rule:                          Rule{Weight: 0.1, Perform: true},
				ConsecutiveYearsWithoutGrowth: 3,
			},
			SwingsInRevenue: Swings{
				Rule:                      Rule{Weight: 0.1, Perform: true},
				MaxSwingsThreshold:        2,
				ConsideredASwingThreshold: 0.1,
			},
			SwingsInProfit: Swings{
				Rule:                      Rule{Weight: 0.1, Perform: true},
				MaxSwingsThreshold:        2,
				ConsideredASwingThreshold: 0.1,
			},
			UnrealisticBudget: UnrealisticBudget{
				Rule:                 Rule{Weight: 1, Perform: true},
				BudgetToRevenueRatio: 2,
			},
		},
		FundingHistory: FundingHistory{
			RecentGrant: RecentGrant{
				Rule:       Rule{Weight: 0.25, Perform: true},
				MinTimeAgo: 3,
			},
			MultipleFundingInstances: MultipleFundingInstances{
				Rule:     Rule{Weight: 0.25, Perform: true},
				MinTimes: 2,
			},
			MostlyGrants: MostlyGrants{
				Rule:           Rule{Weight: 0.125, Perform: true},
				GrantThreshold: 0.7,
			},
			OneFundingSignificantToRevenue: SignificantToRevenue{
				Rule:                Rule{Weight: 0.125, Perform: true},
				PercentageOfRevenue: 0.1,
			},
			OneFundingSignificantToTotal: SignificantToTotal{
				Rule:                     Rule{Weight: 0.125, Perform: false},
				PercentageOfTotalFunding: 0.5,
			},
			SteadyFundingGrowth: SteadyFundingGrowth{
				Rule:                 Rule{Weight: 0.125, Perform: true},
				GrowthYearsThreshold: 0.7,
			},
		},
		Weights: Weights{
			CompanyFinancialRisk:        0.6,
			CompanyFundingHistory:       0.2,
			CompanyDescriptionClarity:   0.1,
			CompanyDescriptionRelevancy: 0.1,
			AllCompanyEvaluations:       0.8,
			ProjectInnovation:           0.1,
			ProjectStrategicFit:         0.1,
		},
	}
}
