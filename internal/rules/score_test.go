package rules

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/assess-cli/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		want   float64
	}{
		{"no checks is neutral", nil, Neutral},
		{"zero weights are neutral", []Check{{model.Unfavorable, 0}, {model.Favorable, 0}}, Neutral},
		{"all favorable", []Check{{model.Favorable, 0.3}, {model.Favorable, 0.2}}, 1},
		{"all unfavorable", []Check{{model.Unfavorable, 0.3}, {model.Unfavorable, 0.2}}, 0},
		{"n/a is half", []Check{{model.NotApplicable, 1}}, 0.5},
		{"weighted", []Check{{model.Favorable, 0.3}, {model.Unfavorable, 0.1}}, 0.75},
		{"mixed with n/a", []Check{{model.Favorable, 0.25}, {model.NotApplicable, 0.25}, {model.Unfavorable, 0.5}}, 0.375},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.checks)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNewOutput(t *testing.T) {
	consortium := model.Consortium{
		{BusinessID: "0112038-9", Budget: 750},
		{BusinessID: "1572860-0", Budget: 250},
	}
	out := NewOutput(Default(), consortium)

	assert.InDelta(t, 0.75, out.Weights.PerCompany["0112038-9"], 1e-9)
	assert.InDelta(t, 0.25, out.Weights.PerCompany["1572860-0"], 1e-9)
	assert.InDelta(t, 1.0, out.FinancialRiskRules.NoFinancialData.Weight, 1e-9)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc["financialRiskRules"], "noValidRevenueData")
	assert.Contains(t, doc["financialRiskRules"], "consecutiveLosses")
	assert.Contains(t, doc["fundingHistoryRules"], "noFundingHistory")
	assert.Contains(t, doc["weights"], "perCompany")
	assert.Contains(t, doc["weights"], "allCompanyEvaluations")
}
