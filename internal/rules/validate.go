package rules

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/assess-cli/internal/model"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = eris.New("rules: invalid configuration")

type namedValue struct {
	name  string
	value float64
}

// Validate checks that every weight and threshold is usable.
func Validate(c Config) error {
	var errs []string

	nonNegative := []namedValue{
		{"financialRisk.consecutiveLosses.weight", c.FinancialRisk.ConsecutiveLosses.Weight},
		{"financialRisk.lowProfitMargin.weight", c.FinancialRisk.LowProfitMargin.Weight},
		{"financialRisk.highProfitVolatility.weight", c.FinancialRisk.HighProfitVolatility.Weight},
		{"financialRisk.highRevenueVolatility.weight", c.FinancialRisk.HighRevenueVolatility.Weight},
		{"financialRisk.profitNotGrowing.weight", c.FinancialRisk.ProfitNotGrowing.Weight},
		{"financialRisk.revenueNotGrowing.weight", c.FinancialRisk.RevenueNotGrowing.Weight},
		{"financialRisk.swingsInRevenue.weight", c.FinancialRisk.SwingsInRevenue.Weight},
		{"financialRisk.swingsInProfit.weight", c.FinancialRisk.SwingsInProfit.Weight},
		{"financialRisk.unrealisticBudget.weight", c.FinancialRisk.UnrealisticBudget.Weight},
		{"fundingHistory.recentGrant.weight", c.FundingHistory.RecentGrant.Weight},
		{"fundingHistory.multipleFundingInstances.weight", c.FundingHistory.MultipleFundingInstances.Weight},
		{"fundingHistory.mostlyGrants.weight", c.FundingHistory.MostlyGrants.Weight},
		{"fundingHistory.oneFundingSignificantToRevenue.weight", c.FundingHistory.OneFundingSignificantToRevenue.Weight},
		{"fundingHistory.oneFundingSignificantToTotal.weight", c.FundingHistory.OneFundingSignificantToTotal.Weight},
		{"fundingHistory.steadyFundingGrowth.weight", c.FundingHistory.SteadyFundingGrowth.Weight},
		{"weights.companyFinancialRisk", c.Weights.CompanyFinancialRisk},
		{"weights.companyFundingHistory", c.Weights.CompanyFundingHistory},
		{"weights.companyDescriptionClarity", c.Weights.CompanyDescriptionClarity},
		{"weights.companyDescriptionRelevancy", c.Weights.CompanyDescriptionRelevancy},
		{"weights.allCompanyEvaluations", c.Weights.AllCompanyEvaluations},
		{"weights.projectInnovation", c.Weights.ProjectInnovation},
		{"weights.projectStrategicFit", c.Weights.ProjectStrategicFit},
		{"financialRisk.lowProfitMargin.minMarginPercent", c.FinancialRisk.LowProfitMargin.MinMarginPercent},
		{"financialRisk.highProfitVolatility.maxVolatilityPercent", c.FinancialRisk.HighProfitVolatility.MaxVolatilityPercent},
		{"financialRisk.highRevenueVolatility.maxVolatilityPercent", c.FinancialRisk.HighRevenueVolatility.MaxVolatilityPercent},
		{"financialRisk.swingsInRevenue.consideredASwingThreshold", c.FinancialRisk.SwingsInRevenue.ConsideredASwingThreshold},
		{"financialRisk.swingsInProfit.consideredASwingThreshold", c.FinancialRisk.SwingsInProfit.ConsideredASwingThreshold},
		{"financialRisk.consecutiveLosses.maxAllowedLossYears", float64(c.FinancialRisk.ConsecutiveLosses.MaxAllowedLossYears)},
		{"financialRisk.profitNotGrowing.consecutiveYearsWithoutGrowth", float64(c.FinancialRisk.ProfitNotGrowing.ConsecutiveYearsWithoutGrowth)},
		{"financialRisk.revenueNotGrowing.consecutiveYearsWithoutGrowth", float64(c.FinancialRisk.RevenueNotGrowing.ConsecutiveYearsWithoutGrowth)},
		{"financialRisk.swingsInRevenue.maxSwingsThreshold", float64(c.FinancialRisk.SwingsInRevenue.MaxSwingsThreshold)},
		{"financialRisk.swingsInProfit.maxSwingsThreshold", float64(c.FinancialRisk.SwingsInProfit.MaxSwingsThreshold)},
		{"fundingHistory.recentGrant.minTimeAgo", float64(c.FundingHistory.RecentGrant.MinTimeAgo)},
		{"fundingHistory.multipleFundingInstances.minTimes", float64(c.FundingHistory.MultipleFundingInstances.MinTimes)},
	}
	for _, nv := range nonNegative {
		if nv.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", nv.name))
		}
	}

	fractions := []namedValue{
		{"fundingHistory.mostlyGrants.grantThreshold", c.FundingHistory.MostlyGrants.GrantThreshold},
		{"fundingHistory.oneFundingSignificantToTotal.percentageOfTotalFunding", c.FundingHistory.OneFundingSignificantToTotal.PercentageOfTotalFunding},
		{"fundingHistory.steadyFundingGrowth.growthYearsThreshold", c.FundingHistory.SteadyFundingGrowth.GrowthYearsThreshold},
	}
	for _, nv := range fractions {
		if nv.value < 0 || nv.value > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1", nv.name))
		}
	}

	if c.FundingHistory.OneFundingSignificantToRevenue.PercentageOfRevenue < 0 {
		errs = append(errs, "fundingHistory.oneFundingSignificantToRevenue.percentageOfRevenue must be >= 0")
	}
	if c.FinancialRisk.UnrealisticBudget.BudgetToRevenueRatio <= 0 {
		errs = append(errs, "financialRisk.unrealisticBudget.budgetToRevenueRatio must be > 0")
	}
	if idx := c.FinancialRisk.ConsecutiveLosses.StartingIndex; idx < 0 || idx >= model.FinancialYears {
		errs = append(errs, fmt.Sprintf("financialRisk.consecutiveLosses.startingIndex must be between 0 and %d", model.FinancialYears-1))
	}

	w := c.Weights
	if w.CompanyFinancialRisk+w.CompanyFundingHistory+w.CompanyDescriptionClarity+w.CompanyDescriptionRelevancy <= 0 {
		errs = append(errs, "company weights must sum to > 0")
	}
	if w.AllCompanyEvaluations+w.ProjectInnovation+w.ProjectStrategicFit <= 0 {
		errs = append(errs, "project weights must sum to > 0")
	}

	if len(errs) > 0 {
		return eris.Wrap(ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}
