package funding

import (
	"fmt"
	"time"

	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
)

// Level thresholds on the funding score.
const (
	LowThreshold    = 0.33
	MediumThreshold = 0.66
)

// Lookup returns the funding entries of a company, oldest first.
type Lookup interface {
	Lookup(businessID string) ([]Entry, bool)
}

// Evaluator rates funding histories against a lookup table.
type Evaluator struct {
	table Lookup
	now   func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the time source used by the recent grant rule.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator creates an Evaluator over table.
func NewEvaluator(table Lookup, opts ...Option) *Evaluator {
	e := &Evaluator{table: table, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

type check struct {
	rule    rules.Rule
	outcome model.RuleOutcome
}

// Evaluate rates one company. avgRevenue may be nil when unknown.
func (e *Evaluator) Evaluate(businessID string, avgRevenue *float64, cfg rules.FundingHistory) model.CategoryResult[model.FundingHistory] {
	entries, ok := e.table.Lookup(businessID)
	if !ok || len(entries) == 0 {
		return model.CategoryResult[model.FundingHistory]{
			Result: model.FundingNone,
			Rules:  []model.RuleOutcome{{Code: model.CodeNoFundingHistory, Outcome: model.NotApplicable}},
		}
	}

	all := []check{
		{cfg.RecentGrant.Rule, recentGrant(entries, e.now().Year(), cfg.RecentGrant)},
		{cfg.MultipleFundingInstances.Rule, multipleInstances(entries, cfg.MultipleFundingInstances)},
		{cfg.MostlyGrants.Rule, mostlyGrants(entries, cfg.MostlyGrants)},
		{cfg.OneFundingSignificantToRevenue.Rule, significantToRevenue(entries, avgRevenue, cfg.OneFundingSignificantToRevenue)},
		{cfg.OneFundingSignificantToTotal.Rule, significantToTotal(entries, cfg.OneFundingSignificantToTotal)},
		{cfg.SteadyFundingGrowth.Rule, steadyGrowth(entries, cfg.SteadyFundingGrowth)},
	}

	checks := make([]rules.Check, 0, len(all))
	outcomes := make([]model.RuleOutcome, 0, len(all))
	for _, c := range all {
		if !c.rule.Perform {
			continue
		}
		checks = append(checks, rules.Check{Outcome: c.outcome.Outcome, Weight: c.rule.Weight})
		outcomes = append(outcomes, c.outcome)
	}

	return model.CategoryResult[model.FundingHistory]{
		Result: Level(rules.Score(checks)),
		Rules:  outcomes,
	}
}

// Level maps a funding score to its category.
func Level(score float64) model.FundingHistory {
	switch {
	case score == 0:
		return model.FundingNone
	case score <= LowThreshold:
		return model.FundingLow
	case score <= MediumThreshold:
		return model.FundingMedium
	default:
		return model.FundingHigh
	}
}

func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func largest(entries []Entry) Entry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Amount > best.Amount {
			best = e
		}
	}
	return best
}

func recentGrant(entries []Entry, currentYear int, cfg rules.RecentGrant) model.RuleOutcome {
	latest := entries[len(entries)-1].Year
	return model.RuleOutcome{
		Code:    model.CodeRecentGrant,
		Params:  model.RecentGrantParams{MostRecentYear: latest},
		Outcome: model.OutcomeOf(latest >= currentYear-cfg.MinTimeAgo),
	}
}

func multipleInstances(entries []Entry, cfg rules.MultipleFundingInstances) model.RuleOutcome {
	return model.RuleOutcome{
		Code:    model.CodeMultipleFundingInstances,
		Params:  model.FundingInstancesParams{Times: len(entries)},
		Outcome: model.OutcomeOf(len(entries) >= cfg.MinTimes),
	}
}

func mostlyGrants(entries []Entry, cfg rules.MostlyGrants) model.RuleOutcome {
	grants := 0
	for _, e := range entries {
		if !e.IsLoan {
			grants++
		}
	}
	ratio := float64(grants) / float64(len(entries))
	return model.RuleOutcome{
		Code:    model.CodeMostlyGrants,
		Params:  model.GrantShareParams{GrantRatio: ratio, Percentage: formatPercent(ratio)},
		Outcome: model.OutcomeOf(ratio >= cfg.GrantThreshold),
	}
}

func significantToRevenue(entries []Entry, avgRevenue *float64, cfg rules.SignificantToRevenue) model.RuleOutcome {
	if avgRevenue == nil || *avgRevenue == 0 {
		return model.RuleOutcome{Code: model.CodeOneFundingSignificantToRevenue, Outcome: model.NotApplicable}
	}
	top := largest(entries)
	return model.RuleOutcome{
		Code: model.CodeOneFundingSignificantToRevenue,
		Params: model.SignificantToRevenueParams{
			LargestFundingAmount: top.Amount,
			AverageAnnualRevenue: *avgRevenue,
			ReceivedYear:         top.Year,
			IsLoan:               top.IsLoan,
		},
		Outcome: model.OutcomeOf(top.Amount >= *avgRevenue*cfg.PercentageOfRevenue),
	}
}

func significantToTotal(entries []Entry, cfg rules.SignificantToTotal) model.RuleOutcome {
	if len(entries) < 2 {
		return model.RuleOutcome{Code: model.CodeOneFundingSignificantToTotal, Outcome: model.NotApplicable}
	}
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	top := largest(entries).Amount
	favorable := total > 0 && top/total >= cfg.PercentageOfTotalFunding
	return model.RuleOutcome{
		Code:    model.CodeOneFundingSignificantToTotal,
		Params:  model.SignificantToTotalParams{LargestFundingAmount: top, TotalFundingAmount: total},
		Outcome: model.OutcomeOf(favorable),
	}
}

func steadyGrowth(entries []Entry, cfg rules.SteadyFundingGrowth) model.RuleOutcome {
	if len(entries) < 2 {
		return model.RuleOutcome{Code: model.CodeSteadyFundingGrowth, Outcome: model.NotApplicable}
	}
	increases := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].Amount > entries[i-1].Amount {
			increases++
		}
	}
	ratio := float64(increases) / float64(len(entries)-1)
	return model.RuleOutcome{
		Code:    model.CodeSteadyFundingGrowth,
		Params:  model.FundingGrowthParams{GrowthRatio: ratio, GrowthYearsPercent: formatPercent(ratio)},
		Outcome: model.OutcomeOf(ratio >= cfg.GrowthYearsThreshold),
	}
}
