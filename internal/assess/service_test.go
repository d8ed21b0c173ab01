package assess

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/assess-cli/internal/funding"
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
)

type mockAssessor struct {
	mock.Mock
}

func (m *mockAssessor) AssessProject(ctx context.Context, description string) (*model.ProjectAssessment, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectAssessment), args.Error(1)
}

func (m *mockAssessor) AssessCompanyRole(ctx context.Context, projectDescription, roleDescription string) (*model.RoleAssessment, error) {
	args := m.Called(ctx, projectDescription, roleDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleAssessment), args.Error(1)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(a Assessor, data funding.Data, opts ...Option) *Service {
	fe := funding.NewEvaluator(funding.NewTable(data), funding.WithClock(func() time.Time { return fixedNow }))
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "assessment-1" }),
	}, opts...)
	return NewService(fe, a, opts...)
}

func growing() *model.FinancialData {
	return &model.FinancialData{
		Revenues: []float64{100, 110, 120, 130, 140},
		Profits:  []float64{10, 11, 12, 13, 14},
	}
}

// Lead: low risk, no funding history, green role -> 0.8 green.
// Partner: budget ten times the latest revenue -> high risk, no role -> 0.298 red.
func sampleInput() model.ProjectInput {
	return model.ProjectInput{
		GeneralDescription: "Autonomous drones for inspecting power lines.",
		Consortium: model.Consortium{
			{
				BusinessID:             "0112038-9",
				Name:                   "Lead Oy",
				Budget:                 100,
				ProjectRoleDescription: "We build the drones.",
				FinancialData:          growing(),
			},
			{
				BusinessID:    "1572860-0",
				Name:          "Partner Oy",
				Budget:        1000,
				FinancialData: growing(),
			},
		},
	}
}

func TestAssess_EndToEnd(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, "Autonomous drones for inspecting power lines.").
		Return(&model.ProjectAssessment{InnovationTrafficLight: model.Green, StrategicFitTrafficLight: model.Green, Feedback: "Strong."}, nil)
	a.On("AssessCompanyRole", mock.Anything, "Autonomous drones for inspecting power lines.", "We build the drones.").
		Return(&model.RoleAssessment{Relevancy: model.Green, Clarity: model.Green, Feedback: "Clear."}, nil)

	got, err := newTestService(a, funding.Data{}).Assess(context.Background(), sampleInput())
	require.NoError(t, err)
	a.AssertExpectations(t)

	assert.Equal(t, "assessment-1", got.ID)
	assert.Equal(t, fixedNow, got.Metadata.GeneratedAt)
	require.Len(t, got.CompanyEvaluations, 2)

	lead := got.CompanyEvaluations[0]
	assert.Equal(t, "0112038-9", lead.BusinessID)
	assert.Equal(t, "Lead Oy", lead.Name)
	assert.Equal(t, model.RiskLow, lead.FinancialRisk.Result)
	assert.Equal(t, model.FundingNone, lead.FundingHistory.Result)
	require.NotNil(t, lead.QualitativeRoleAssessment)
	assert.Equal(t, model.Green, lead.TrafficLight)
	assert.InDelta(t, 0.8, got.Metadata.CompanyScores["0112038-9"], 1e-9)

	partner := got.CompanyEvaluations[1]
	assert.Equal(t, model.RiskHigh, partner.FinancialRisk.Result)
	require.Len(t, partner.FinancialRisk.Rules, 1)
	assert.Equal(t, model.CodeUnrealisticBudget, partner.FinancialRisk.Rules[0].Code)
	assert.Nil(t, partner.QualitativeRoleAssessment)
	assert.Equal(t, model.Red, partner.TrafficLight)
	assert.InDelta(t, 0.298, got.Metadata.CompanyScores["1572860-0"], 1e-9)

	// 0.8 * (100/1100 * 1 + 1000/1100 * 0) + 0.1 + 0.1
	assert.InDelta(t, 0.272727, got.Metadata.OverallScore, 1e-6)
	assert.Equal(t, model.Red, got.OverallTrafficLight)
	assert.Equal(t, "Strong.", got.QualitativeProjectAssessment.Feedback)

	used := got.Metadata.UsedConfiguration
	assert.Equal(t, rules.Default().Weights, used.Weights.Weights)
	assert.InDelta(t, 100.0/1100, used.Weights.PerCompany["0112038-9"], 1e-9)
	assert.InDelta(t, 1.0, used.FundingHistoryRules.NoFundingHistory.Weight, 1e-9)
}

func TestAssess_ReportJSONShape(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).
		Return(&model.ProjectAssessment{InnovationTrafficLight: model.Yellow, StrategicFitTrafficLight: model.Red, Feedback: "x"}, nil)

	in := sampleInput()
	in.Consortium = in.Consortium[1:]
	got, err := newTestService(a, funding.Data{}).Assess(context.Background(), in)
	require.NoError(t, err)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"id", "companyEvaluations", "overallTrafficLight", "qualitativeProjectAssessment", "metadata"} {
		assert.Contains(t, doc, key)
	}
	meta := doc["metadata"].(map[string]any)
	assert.Contains(t, meta, "usedConfiguration")
	assert.Contains(t, meta, "generatedAt")
	ev := doc["companyEvaluations"].([]any)[0].(map[string]any)
	assert.NotContains(t, ev, "qualitativeRoleAssessment")
}

func TestAssess_FundingHistoryFromTable(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(&model.ProjectAssessment{InnovationTrafficLight: model.Green, StrategicFitTrafficLight: model.Green}, nil)

	in := sampleInput()
	in.Consortium = model.Consortium{in.Consortium[1]}
	data := funding.Data{"1572860-0": {{Year: 2024, Amount: 50_000}, {Year: 2023, Amount: 40_000}}}

	got, err := newTestService(a, data).Assess(context.Background(), in)
	require.NoError(t, err)
	history := got.CompanyEvaluations[0].FundingHistory
	assert.NotEqual(t, model.FundingNone, history.Result)
	assert.NotEmpty(t, history.Rules)
}

func TestAssess_ConfigurationOverride(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(&model.ProjectAssessment{InnovationTrafficLight: model.Green, StrategicFitTrafficLight: model.Green}, nil)

	in := sampleInput()
	in.Consortium = model.Consortium{in.Consortium[1]}
	in.Configuration = model.RawConfig(`{"financialRisk":{"unrealisticBudget":{"perform":false}},"weights":{"companyFundingHistory":0}}`)

	got, err := newTestService(a, funding.Data{}).Assess(context.Background(), in)
	require.NoError(t, err)
	ev := got.CompanyEvaluations[0]
	assert.Equal(t, model.RiskLow, ev.FinancialRisk.Result)
	for _, r := range ev.FinancialRisk.Rules {
		assert.NotEqual(t, model.CodeUnrealisticBudget, r.Code)
	}
	// (0.6*1 + 0.1*0.5 + 0.1*0.5) / 0.8
	assert.InDelta(t, 0.875, got.Metadata.CompanyScores["1572860-0"], 1e-9)
	assert.Equal(t, model.Green, ev.TrafficLight)
	assert.False(t, got.Metadata.UsedConfiguration.FinancialRiskRules.UnrealisticBudget.Perform)
	assert.Zero(t, got.Metadata.UsedConfiguration.Weights.CompanyFundingHistory)
}

func TestAssess_InvalidConfiguration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		override string
	}{
		{"negative weight", `{"weights":{"companyFinancialRisk":-1}}`},
		{"unknown rule", `{"financialRisk":{"madeUpRule":{"weight":1}}}`},
		{"malformed", `{"weights":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := new(mockAssessor)
			in := sampleInput()
			in.Configuration = model.RawConfig(tt.override)

			_, err := newTestService(a, funding.Data{}).Assess(context.Background(), in)
			require.Error(t, err)
			assert.True(t, eris.Is(err, rules.ErrInvalidConfig))
			a.AssertNotCalled(t, "AssessProject", mock.Anything, mock.Anything)
		})
	}
}

func TestAssess_EmptyConsortium(t *testing.T) {
	t.Parallel()
	_, err := newTestService(new(mockAssessor), funding.Data{}).Assess(context.Background(), model.ProjectInput{GeneralDescription: "desc"})
	require.ErrorIs(t, err, ErrEmptyConsortium)
}

func TestAssess_ProjectAssessorFailure(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))
	a.On("AssessCompanyRole", mock.Anything, mock.Anything, mock.Anything).
		Return(&model.RoleAssessment{Relevancy: model.Green, Clarity: model.Green}, nil).Maybe()

	_, err := newTestService(a, funding.Data{}).Assess(context.Background(), sampleInput())
	require.Error(t, err)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAssess_RoleFailureCancelsProjectCall(t *testing.T) {
	t.Parallel()
	var cancelled atomic.Bool
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			select {
			case <-ctx.Done():
				cancelled.Store(true)
			case <-time.After(5 * time.Second):
			}
		}).
		Return(nil, context.Canceled)
	a.On("AssessCompanyRole", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("schema mismatch"))

	_, err := newTestService(a, funding.Data{}).Assess(context.Background(), sampleInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0112038-9")
	assert.True(t, cancelled.Load())
}

func TestAssess_ConcurrencyLimit(t *testing.T) {
	t.Parallel()
	var inFlight, peak atomic.Int32
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(&model.ProjectAssessment{InnovationTrafficLight: model.Green, StrategicFitTrafficLight: model.Green}, nil)
	a.On("AssessCompanyRole", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
		}).
		Return(&model.RoleAssessment{Relevancy: model.Green, Clarity: model.Green}, nil)

	ids := []string{"0112038-9", "1572860-0", "0737546-2", "2331972-7", "0201256-6", "1011382-5"}
	in := model.ProjectInput{GeneralDescription: "A project with many partners."}
	for _, id := range ids {
		in.Consortium = append(in.Consortium, model.Company{BusinessID: id, Budget: 100, ProjectRoleDescription: "role"})
	}

	got, err := newTestService(a, funding.Data{}, WithConcurrency(2)).Assess(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got.CompanyEvaluations, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, got.CompanyEvaluations[i].BusinessID)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAssess_Deterministic(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(&model.ProjectAssessment{InnovationTrafficLight: model.Yellow, StrategicFitTrafficLight: model.Green}, nil)
	a.On("AssessCompanyRole", mock.Anything, mock.Anything, mock.Anything).Return(&model.RoleAssessment{Relevancy: model.Yellow, Clarity: model.Red}, nil)

	svc := newTestService(a, funding.Data{"0112038-9": {{Year: 2020, Amount: 10}}})
	first, err := svc.Assess(context.Background(), sampleInput())
	require.NoError(t, err)
	second, err := svc.Assess(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssess_DefaultOverrideRoundTrips(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(&model.ProjectAssessment{InnovationTrafficLight: model.Green, StrategicFitTrafficLight: model.Yellow}, nil)
	a.On("AssessCompanyRole", mock.Anything, mock.Anything, mock.Anything).Return(&model.RoleAssessment{Relevancy: model.Green, Clarity: model.Yellow}, nil)
	svc := newTestService(a, funding.Data{"1572860-0": {{Year: 2023, Amount: 5_000}}})

	plain, err := svc.Assess(context.Background(), sampleInput())
	require.NoError(t, err)

	override, err := json.Marshal(rules.Default())
	require.NoError(t, err)
	in := sampleInput()
	in.Configuration = model.RawConfig(override)
	echoed, err := svc.Assess(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, plain, echoed)
}

func TestAssess_DecliningLossMakingCompany(t *testing.T) {
	t.Parallel()
	a := new(mockAssessor)
	a.On("AssessProject", mock.Anything, mock.Anything).Return(&model.ProjectAssessment{InnovationTrafficLight: model.Green, StrategicFitTrafficLight: model.Green}, nil)

	in := model.ProjectInput{
		GeneralDescription: "Autonomous drones for inspecting power lines.",
		Consortium: model.Consortium{{
			BusinessID: "0112038-9",
			Budget:     20_000,
			FinancialData: &model.FinancialData{
				Revenues: []float64{100, 90, 80, 70, 60},
				Profits:  []float64{0, -2, -3, -2, -1},
			},
		}},
	}

	got, err := newTestService(a, funding.Data{}).Assess(context.Background(), in)
	require.NoError(t, err)
	a.AssertNotCalled(t, "AssessCompanyRole", mock.Anything, mock.Anything, mock.Anything)

	require.Len(t, got.CompanyEvaluations, 1)
	ev := got.CompanyEvaluations[0]
	assert.Equal(t, model.RiskHigh, ev.FinancialRisk.Result)
	assert.Equal(t, model.FundingNone, ev.FundingHistory.Result)
	assert.Nil(t, ev.QualitativeRoleAssessment)
	// 0.6*0.33 + 0.2*0 + 0.1*0.5 + 0.1*0.5
	assert.InDelta(t, 0.298, got.Metadata.CompanyScores["0112038-9"], 1e-9)
	assert.Equal(t, model.Red, ev.TrafficLight)
}

func TestNewService_Defaults(t *testing.T) {
	t.Parallel()
	svc := NewService(funding.NewEvaluator(funding.NewTable(nil)), new(mockAssessor), WithConcurrency(0))
	assert.Equal(t, defaultConcurrency, svc.concurrency)
	assert.Equal(t, rules.Default(), svc.BaseConfig())
	assert.NotEmpty(t, svc.newID())
}
