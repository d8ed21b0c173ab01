package model

// RoleAssessment is the qualitative verdict on one company's project role.
type RoleAssessment struct {
	Relevancy TrafficLight `json:"relevancy"`
	Clarity   TrafficLight `json:"clarity"`
	Feedback  string       `json:"feedback"`
}

// ProjectAssessment is the qualitative verdict on the whole project.
type ProjectAssessment struct {
	InnovationTrafficLight   TrafficLight `json:"innovationTrafficLight"`
	StrategicFitTrafficLight TrafficLight `json:"strategicFitTrafficLight"`
	Feedback                 string       `json:"feedback"`
}

// CompanyEvaluation is the per-company section of the report.
type CompanyEvaluation struct {
	BusinessID                string                         `json:"businessId"`
	Name                      string                         `json:"name,omitempty"`
	FinancialRisk             CategoryResult[FinancialRisk]  `json:"financialRisk"`
	FundingHistory            CategoryResult[FundingHistory] `json:"fundingHistory"`
	QualitativeRoleAssessment *RoleAssessment                `json:"qualitativeRoleAssessment,omitempty"`
	TrafficLight              TrafficLight                   `json:"trafficLight"`
}
