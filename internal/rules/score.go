package rules

import "github.com/sells-group/assess-cli/internal/model"

// Neutral is the score of a category with no performed rules.
const Neutral = 0.5

// Check is one performed rule as seen by the aggregation.
type Check struct {
	Outcome model.Outcome
	Weight  float64
}

// OutcomeValue maps an outcome to its score contribution.
func OutcomeValue(o model.Outcome) float64 {
	switch o {
	case model.Favorable:
		return 1
	case model.Unfavorable:
		return 0
	default:
		return Neutral
	}
}

// Score is the weighted mean of the outcome values. It returns Neutral when
// the total weight is zero.
func Score(checks []Check) float64 {
	var sum, total float64
	for _, c := range checks {
		if c.Weight <= 0 {
			continue
		}
		sum += OutcomeValue(c.Outcome) * c.Weight
		total += c.Weight
	}
	if total == 0 {
		return Neutral
	}
	return sum / total
}
