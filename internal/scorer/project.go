package scorer

import (
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
)

// Member is one company's light with its share of the consortium budget.
type Member struct {
	Share float64
	Light model.TrafficLight
}

// Project blends the budget-weighted company lights with the project level
// innovation and strategic fit lights. A nil assessment counts as yellow for
// both. When no member has a positive share, members count equally.
func Project(members []Member, assessment *model.ProjectAssessment, w rules.Weights) Result {
	var totalShare float64
	for _, m := range members {
		if m.Share > 0 {
			totalShare += m.Share
		}
	}

	var companies float64
	for _, m := range members {
		switch {
		case totalShare > 0 && m.Share > 0:
			companies += m.Share / totalShare * LightScore(m.Light)
		case totalShare <= 0:
			companies += LightScore(m.Light) / float64(len(members))
		}
	}
	if len(members) == 0 {
		companies = LightScore(model.Yellow)
	}

	innovation, fit := model.Yellow, model.Yellow
	if assessment != nil {
		innovation, fit = assessment.InnovationTrafficLight, assessment.StrategicFitTrafficLight
	}

	return combine([]weighted{
		{ComponentCompanies, companies, w.AllCompanyEvaluations},
		{ComponentInnovation, LightScore(innovation), w.ProjectInnovation},
		{ComponentStrategicFit, LightScore(fit), w.ProjectStrategicFit},
	})
}

// ProjectTrafficLight returns only the light of Project.
func ProjectTrafficLight(members []Member, assessment *model.ProjectAssessment, w rules.Weights) model.TrafficLight {
	return Project(members, assessment, w).Light
}
