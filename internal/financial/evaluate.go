// Package financial rates a company's financial risk from its five-year
// revenue and profit series.
package financial

import (
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
)

// Risk thresholds on 1 - score.
const (
	HighRiskThreshold   = 0.66
	MediumRiskThreshold = 0.33
)

type indicator struct {
	rule    rules.Rule
	outcome model.RuleOutcome
}

// Evaluate rates one company. It is a pure function of its inputs.
func Evaluate(c model.Company, cfg rules.FinancialRisk) model.CategoryResult[model.FinancialRisk] {
	if c.FinancialData == nil {
		return model.CategoryResult[model.FinancialRisk]{
			Result: model.RiskNA,
			Rules:  []model.RuleOutcome{{Code: model.CodeNoFinancialData, Outcome: model.NotApplicable}},
		}
	}

	revenues := c.FinancialData.Revenues
	profits := c.FinancialData.Profits

	latestRevenue, ok := latestNonZero(revenues)
	if !ok {
		return model.CategoryResult[model.FinancialRisk]{
			Result: model.RiskHigh,
			Rules:  []model.RuleOutcome{{Code: model.CodeNoValidRevenueData, Outcome: model.Unfavorable}},
		}
	}

	if cfg.UnrealisticBudget.Perform {
		ratio := c.Budget / latestRevenue
		if ratio > cfg.UnrealisticBudget.BudgetToRevenueRatio {
			return model.CategoryResult[model.FinancialRisk]{
				Result: model.RiskHigh,
				Rules: []model.RuleOutcome{{
					Code:    model.CodeUnrealisticBudget,
					Params:  model.UnrealisticBudgetParams{ProjectBudget: c.Budget, LatestRevenue: latestRevenue},
					Outcome: model.Unfavorable,
				}},
			}
		}
	}

	indicators := []indicator{
		{cfg.ConsecutiveLosses.Rule, consecutiveLosses(profits, cfg.ConsecutiveLosses)},
		{cfg.LowProfitMargin.Rule, lowProfitMargin(revenues, profits, cfg.LowProfitMargin)},
		{cfg.HighProfitVolatility.Rule, highVolatility(model.CodeHighProfitVolatility, profits, cfg.HighProfitVolatility)},
		{cfg.HighRevenueVolatility.Rule, highVolatility(model.CodeHighRevenueVolatility, revenues, cfg.HighRevenueVolatility)},
		{cfg.ProfitNotGrowing.Rule, notGrowing(model.CodeProfitNotGrowing, profits, cfg.ProfitNotGrowing)},
		{cfg.RevenueNotGrowing.Rule, notGrowing(model.CodeRevenueNotGrowing, revenues, cfg.RevenueNotGrowing)},
		{cfg.SwingsInRevenue.Rule, swings(model.CodeSwingsInRevenue, revenues, cfg.SwingsInRevenue)},
		{cfg.SwingsInProfit.Rule, swings(model.CodeSwingsInProfit, profits, cfg.SwingsInProfit)},
	}

	checks := make([]rules.Check, 0, len(indicators))
	outcomes := make([]model.RuleOutcome, 0, len(indicators))
	for _, ind := range indicators {
		if !ind.rule.Perform {
			continue
		}
		checks = append(checks, rules.Check{Outcome: ind.outcome.Outcome, Weight: ind.rule.Weight})
		outcomes = append(outcomes, ind.outcome)
	}

	return model.CategoryResult[model.FinancialRisk]{
		Result: Level(1 - rules.Score(checks)),
		Rules:  outcomes,
	}
}

// Level maps a risk percentage to its category.
func Level(risk float64) model.FinancialRisk {
	switch {
	case risk >= HighRiskThreshold:
		return model.RiskHigh
	case risk >= MediumRiskThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func consecutiveLosses(profits []float64, cfg rules.ConsecutiveLosses) model.RuleOutcome {
	run := longestLossRun(profits, cfg.StartingIndex)
	return model.RuleOutcome{
		Code:    model.CodeConsecutiveLosses,
		Params:  model.ConsecutiveLossesParams{LossYears: run},
		Outcome: model.OutcomeOf(run <= cfg.MaxAllowedLossYears),
	}
}

func lowProfitMargin(revenues, profits []float64, cfg rules.LowProfitMargin) model.RuleOutcome {
	m := averageMargin(revenues, profits)
	return model.RuleOutcome{
		Code:    model.CodeLowProfitMargin,
		Params:  model.ProfitMarginParams{AverageMargin: m, AverageMarginPercent: formatPercent(m)},
		Outcome: model.OutcomeOf(m >= cfg.MinMarginPercent),
	}
}

func highVolatility(code model.RuleCode, values []float64, cfg rules.Volatility) model.RuleOutcome {
	v := volatility(values)
	return model.RuleOutcome{
		Code:    code,
		Params:  model.VolatilityParams{Volatility: v, VolatilityPercent: formatPercent(v)},
		Outcome: model.OutcomeOf(v <= cfg.MaxVolatilityPercent),
	}
}

func notGrowing(code model.RuleCode, values []float64, cfg rules.NotGrowing) model.RuleOutcome {
	run := longestStagnation(values)
	return model.RuleOutcome{
		Code:    code,
		Params:  model.GrowthParams{ConsecutiveYearsWithoutGrowth: run},
		Outcome: model.OutcomeOf(run < cfg.ConsecutiveYearsWithoutGrowth),
	}
}

func swings(code model.RuleCode, values []float64, cfg rules.Swings) model.RuleOutcome {
	n := countSwings(values, cfg.ConsideredASwingThreshold)
	return model.RuleOutcome{
		Code:    code,
		Params:  model.SwingParams{SwingsCount: n},
		Outcome: model.OutcomeOf(n <= cfg.MaxSwingsThreshold),
	}
}
