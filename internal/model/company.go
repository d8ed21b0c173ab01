// Package model defines the request, rule and report types shared by the
// assessment packages.
package model

import "strings"

// FinancialYears is the length of the revenue and profit series.
const FinancialYears = 5

// FinancialData holds a company's yearly figures, oldest year first.
type FinancialData struct {
	Revenues []float64 `json:"revenues" yaml:"revenues" validate:"len=5"`
	Profits  []float64 `json:"profits" yaml:"profits" validate:"len=5"`
}

// Company is one consortium member.
type Company struct {
	BusinessID             string         `json:"businessId" validate:"required,businessid"`
	Name                   string         `json:"name,omitempty"`
	Budget                 float64        `json:"budget" validate:"gt=0"`
	RequestedFunding       float64        `json:"requestedFunding" validate:"gte=0,ltefield=Budget"`
	ProjectRoleDescription string         `json:"projectRoleDescription,omitempty" validate:"omitempty,max=5000"`
	FinancialData          *FinancialData `json:"financialData,omitempty" validate:"omitempty"`
}

// HasRoleDescription reports whether a non-blank role description was supplied.
func (c Company) HasRoleDescription() bool {
	return strings.TrimSpace(c.ProjectRoleDescription) != ""
}

// AverageRevenue returns the mean yearly revenue, or nil when there is no
// financial data or the mean is zero.
func (c Company) AverageRevenue() *float64 {
	if c.FinancialData == nil || len(c.FinancialData.Revenues) == 0 {
		return nil
	}
	var sum float64
	for _, r := range c.FinancialData.Revenues {
		sum += r
	}
	avg := sum / float64(len(c.FinancialData.Revenues))
	if avg == 0 {
		return nil
	}
	return &avg
}

// Consortium is the ordered list of applicants. The first entry is the lead.
type Consortium []Company

// TotalBudget sums the budgets of every member.
func (c Consortium) TotalBudget() float64 {
	var total float64
	for _, m := range c {
		total += m.Budget
	}
	return total
}

// BudgetShares maps each business id to its fraction of the consortium
// budget. A zero total budget splits the weight evenly.
func (c Consortium) BudgetShares() map[string]float64 {
	shares := make(map[string]float64, len(c))
	if len(c) == 0 {
		return shares
	}
	total := c.TotalBudget()
	for _, m := range c {
		if total <= 0 {
			shares[m.BusinessID] += 1 / float64(len(c))
			continue
		}
		shares[m.BusinessID] += m.Budget / total
	}
	return shares
}

// DuplicateBusinessIDs returns the ids that occur more than once, ignoring
// blank placeholders.
func (c Consortium) DuplicateBusinessIDs() []string {
	seen := make(map[string]int, len(c))
	var dups []string
	for _, m := range c {
		id := strings.TrimSpace(m.BusinessID)
		if id == "" {
			continue
		}
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

// ProjectInput is the caller-supplied assessment request. Configuration is a
// partial rule configuration document merged onto the defaults.
type ProjectInput struct {
	GeneralDescription string     `json:"generalDescription" validate:"required,min=10,max=5000"`
	Consortium         Consortium `json:"consortium" validate:"required,min=1,dive"`
	Configuration      RawConfig  `json:"configuration"`
}

// RawConfig carries an unparsed configuration override.
type RawConfig []byte

// MarshalJSON emits the raw document, or null when empty.
func (r RawConfig) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON keeps a copy of the raw document.
func (r *RawConfig) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	*r = append((*r)[0:0], data...)
	return nil
}
