package scorer

import (
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
)

// CompanyInput holds the signals combined into one company's light.
type CompanyInput struct {
	FinancialRisk  model.FinancialRisk
	FundingHistory model.FundingHistory
	// Role is nil when no role description was assessed.
	Role *model.RoleAssessment
}

// Company scores one consortium member.
func Company(in CompanyInput, w rules.Weights) Result {
	relevancy, clarity := model.Yellow, model.Yellow
	if in.Role != nil {
		relevancy, clarity = in.Role.Relevancy, in.Role.Clarity
	}

	risk, ok := riskScores[in.FinancialRisk]
	if !ok {
		risk = riskScores[model.RiskNA]
	}

	return combine([]weighted{
		{ComponentFinancialRisk, risk, w.CompanyFinancialRisk},
		{ComponentFundingHistory, fundingScores[in.FundingHistory], w.CompanyFundingHistory},
		{ComponentRelevancy, LightScore(relevancy), w.CompanyDescriptionRelevancy},
		{ComponentClarity, LightScore(clarity), w.CompanyDescriptionClarity},
	})
}

// CompanyTrafficLight returns only the light of Company.
func CompanyTrafficLight(in CompanyInput, w rules.Weights) model.TrafficLight {
	return Company(in, w).Light
}
