package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/assess-cli/internal/model"
)

func TestObserveAssessment(t *testing.T) {
	before := testutil.ToFloat64(AssessmentsTotal.WithLabelValues("green"))
	beforeErr := testutil.ToFloat64(AssessmentsTotal.WithLabelValues("error"))

	ObserveAssessment(model.Green, 10*time.Millisecond)
	ObserveAssessment("", time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(AssessmentsTotal.WithLabelValues("green")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(AssessmentsTotal.WithLabelValues("error")))
}

func TestObserveRules(t *testing.T) {
	c := RuleOutcomesTotal.WithLabelValues(string(model.CodeConsecutiveLosses), string(model.Unfavorable))
	before := testutil.ToFloat64(c)

	ObserveRules([]model.RuleOutcome{
		{Code: model.CodeConsecutiveLosses, Outcome: model.Unfavorable},
		{Code: model.CodeConsecutiveLosses, Outcome: model.Unfavorable},
		{Code: model.CodeLowProfitMargin, Outcome: model.Favorable},
	})
	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestObserveAssessorCall(t *testing.T) {
	ok := AssessorCallsTotal.WithLabelValues("gemini", "project", "ok")
	failed := AssessorCallsTotal.WithLabelValues("gemini", "project", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveAssessorCall("gemini", "project", nil, time.Second)
	ObserveAssessorCall("gemini", "project", errors.New("boom"), time.Second)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestHandler(t *testing.T) {
	ObserveAssessment(model.Red, time.Millisecond)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assess_assessments_total")
}
