package assess

import (
	"time"

	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
)

// Assessment is the report returned for one project.
type Assessment struct {
	ID                           string                    `json:"id"`
	CompanyEvaluations           []model.CompanyEvaluation `json:"companyEvaluations"`
	OverallTrafficLight          model.TrafficLight        `json:"overallTrafficLight"`
	QualitativeProjectAssessment *model.ProjectAssessment  `json:"qualitativeProjectAssessment,omitempty"`
	Metadata                     Metadata                  `json:"metadata"`
}

// Metadata records how the report was produced.
type Metadata struct {
	UsedConfiguration rules.Output       `json:"usedConfiguration"`
	OverallScore      float64            `json:"overallScore"`
	CompanyScores     map[string]float64 `json:"companyScores"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}
