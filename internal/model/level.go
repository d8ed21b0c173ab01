package model

// TrafficLight is the three-state verdict used for companies and projects.
type TrafficLight string

const (
	Green  TrafficLight = "green"
	Yellow TrafficLight = "yellow"
	Red    TrafficLight = "red"
)

// Valid reports whether the light is one of the known values.
func (t TrafficLight) Valid() bool {
	switch t {
	case Green, Yellow, Red:
		return true
	}
	return false
}

// FinancialRisk is the categorical outcome of the financial rule set.
type FinancialRisk string

const (
	RiskNA     FinancialRisk = "n/a"
	RiskLow    FinancialRisk = "low"
	RiskMedium FinancialRisk = "medium"
	RiskHigh   FinancialRisk = "high"
)

// FundingHistory is the categorical outcome of the funding history rule set.
type FundingHistory string

const (
	FundingNone   FundingHistory = "none"
	FundingLow    FundingHistory = "low"
	FundingMedium FundingHistory = "medium"
	FundingHigh   FundingHistory = "high"
)
