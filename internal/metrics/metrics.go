// Package metrics holds the Prometheus collectors for the assessment service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/assess-cli/internal/model"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assess_assessments_total",
			Help: "Completed assessments by overall traffic light, or error",
		},
		[]string{"result"},
	)

	AssessmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assess_assessment_duration_seconds",
			Help:    "Wall time of a full assessment",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	RuleOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assess_rule_outcomes_total",
			Help: "Evaluated rules by code and outcome",
		},
		[]string{"code", "outcome"},
	)

	AssessorCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assess_assessor_calls_total",
			Help: "Qualitative assessor calls by provider, kind and status",
		},
		[]string{"provider", "kind", "status"},
	)

	AssessorCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assess_assessor_call_duration_seconds",
			Help:    "Latency of qualitative assessor calls including retries",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider", "kind"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assess_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)

// ObserveAssessment records one finished assessment. An empty light marks
// a failure.
func ObserveAssessment(light model.TrafficLight, took time.Duration) {
	result := string(light)
	if result == "" {
		result = "error"
	}
	AssessmentsTotal.WithLabelValues(result).Inc()
	AssessmentDuration.Observe(took.Seconds())
}

// ObserveRules counts every rule outcome of a category result.
func ObserveRules(rules []model.RuleOutcome) {
	for _, r := range rules {
		RuleOutcomesTotal.WithLabelValues(string(r.Code), string(r.Outcome)).Inc()
	}
}

// ObserveAssessorCall records one assessor call.
func ObserveAssessorCall(provider, kind string, err error, took time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	AssessorCallsTotal.WithLabelValues(provider, kind, status).Inc()
	AssessorCallDuration.WithLabelValues(provider, kind).Observe(took.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
