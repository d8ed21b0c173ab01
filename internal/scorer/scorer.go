// Package scorer turns category levels and qualitative lights into the
// per-company and overall traffic lights.
package scorer

import (
	"math"

	"github.com/sells-group/assess-cli/internal/model"
)

// Traffic light thresholds on a 0..1 score.
const (
	GreenThreshold  = 0.75
	YellowThreshold = 0.4
)

// Component names used in Result.Components.
const (
	ComponentFinancialRisk  = "financial_risk"
	ComponentFundingHistory = "funding_history"
	ComponentRelevancy      = "relevancy"
	ComponentClarity        = "clarity"
	ComponentCompanies      = "companies"
	ComponentInnovation     = "innovation"
	ComponentStrategicFit   = "strategic_fit"
)

// Result is an aggregated score with the light it maps to.
type Result struct {
	Score      float64            `json:"score"`
	Light      model.TrafficLight `json:"light"`
	Components map[string]float64 `json:"components"`
}

var riskScores = map[model.FinancialRisk]float64{
	model.RiskLow:    1,
	model.RiskMedium: 0.66,
	model.RiskHigh:   0.33,
	model.RiskNA:     1,
}

var fundingScores = map[model.FundingHistory]float64{
	model.FundingHigh:   1,
	model.FundingMedium: 0.66,
	model.FundingLow:    0.33,
	model.FundingNone:   0,
}

var lightScores = map[model.TrafficLight]float64{
	model.Green:  1,
	model.Yellow: 0.5,
	model.Red:    0,
}

// LightScore maps a light to 0..1. Unknown or missing lights are yellow.
func LightScore(l model.TrafficLight) float64 {
	if s, ok := lightScores[l]; ok {
		return s
	}
	return lightScores[model.Yellow]
}

// Light maps a score to a traffic light.
func Light(score float64) model.TrafficLight {
	switch {
	case score >= GreenThreshold:
		return model.Green
	case score >= YellowThreshold:
		return model.Yellow
	default:
		return model.Red
	}
}

type weighted struct {
	name   string
	score  float64
	weight float64
}

// combine is the weighted mean of the parts, rounded to six decimals so that
// float noise cannot move a score across a threshold. Zero total weight
// yields the neutral 0.5.
func combine(parts []weighted) Result {
	components := make(map[string]float64, len(parts))
	var sum, total float64
	for _, p := range parts {
		components[p.name] = p.score
		if p.weight <= 0 {
			continue
		}
		sum += p.score * p.weight
		total += p.weight
	}
	score := 0.5
	if total > 0 {
		score = math.Round(sum/total*1e6) / 1e6
	}
	return Result{Score: score, Light: Light(score), Components: components}
}
