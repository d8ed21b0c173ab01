package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, Favorable, OutcomeOf(true))
	assert.Equal(t, Unfavorable, OutcomeOf(false))
}

func TestRuleOutcome_JSON(t *testing.T) {
	t.Run("with params", func(t *testing.T) {
		out, err := json.Marshal(RuleOutcome{
			Code:    CodeUnrealisticBudget,
			Params:  UnrealisticBudgetParams{ProjectBudget: 201, LatestRevenue: 100},
			Outcome: Unfavorable,
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":"unrealisticBudget","params":{"projectBudget":201,"latestRevenue":100},"outcome":"unfavorable"}`, string(out))
	})

	t.Run("without params", func(t *testing.T) {
		out, err := json.Marshal(RuleOutcome{Code: CodeNoFinancialData, Outcome: NotApplicable})
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":"noFinancialData","outcome":"n/a"}`, string(out))
	})
}

func TestCategoryResult_JSON(t *testing.T) {
	res := CategoryResult[FundingHistory]{
		Result: FundingNone,
		Rules:  []RuleOutcome{{Code: CodeNoFundingHistory, Outcome: NotApplicable}},
	}
	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"none","rules":[{"code":"noFundingHistory","outcome":"n/a"}]}`, string(out))
}

func TestTrafficLight_Valid(t *testing.T) {
	assert.True(t, Green.Valid())
	assert.True(t, Yellow.Valid())
	assert.True(t, Red.Valid())
	assert.False(t, TrafficLight("blue").Valid())
	assert.False(t, TrafficLight("").Valid())
}
