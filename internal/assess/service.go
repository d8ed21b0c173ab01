// Package assess runs a full project assessment: rule evaluation per
// company, qualitative calls, and aggregation into the report.
package assess

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/assess-cli/internal/financial"
	"github.com/sells-group/assess-cli/internal/funding"
	"github.com/sells-group/assess-cli/internal/metrics"
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
	"github.com/sells-group/assess-cli/internal/scorer"
)

// Assessor produces the qualitative assessments.
type Assessor interface {
	AssessProject(ctx context.Context, description string) (*model.ProjectAssessment, error)
	AssessCompanyRole(ctx context.Context, projectDescription, roleDescription string) (*model.RoleAssessment, error)
}

// ErrEmptyConsortium is returned for a project without companies.
var ErrEmptyConsortium = eris.New("assess: consortium is empty")

// UpstreamError wraps a qualitative assessor failure.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

const defaultConcurrency = 5

// Service assesses projects. It is safe for concurrent use.
type Service struct {
	funding     *funding.Evaluator
	assessor    Assessor
	base        rules.Config
	concurrency int
	now         func() time.Time
	newID       func() string
}

// Option configures a Service.
type Option func(*Service)

// WithBaseConfig replaces the rule defaults that overrides merge onto.
func WithBaseConfig(cfg rules.Config) Option {
	return func(s *Service) { s.base = cfg }
}

// WithConcurrency bounds the number of companies evaluated at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets the assessment id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService wires the funding evaluator and qualitative assessor.
func NewService(fe *funding.Evaluator, assessor Assessor, opts ...Option) *Service {
	s := &Service{
		funding:     fe,
		assessor:    assessor,
		base:        rules.Default(),
		concurrency: defaultConcurrency,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// BaseConfig returns the rule configuration overrides are merged onto.
func (s *Service) BaseConfig() rules.Config {
	return s.base
}

// Assess evaluates input. Configuration errors wrap rules.ErrInvalidConfig;
// assessor failures are returned as *UpstreamError and cancel the other
// in-flight calls.
func (s *Service) Assess(ctx context.Context, input model.ProjectInput) (*Assessment, error) {
	start := time.Now()
	a, err := s.assess(ctx, input)
	if err != nil {
		metrics.ObserveAssessment("", time.Since(start))
		return nil, err
	}
	metrics.ObserveAssessment(a.OverallTrafficLight, time.Since(start))
	return a, nil
}

func (s *Service) assess(ctx context.Context, input model.ProjectInput) (*Assessment, error) {
	if len(input.Consortium) == 0 {
		return nil, ErrEmptyConsortium
	}
	cfg, err := rules.Resolve(s.base, input.Configuration)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	log := zap.L().With(zap.String("assessment_id", id), zap.Int("companies", len(input.Consortium)))
	log.Info("assess: starting")

	evaluations := make([]model.CompanyEvaluation, len(input.Consortium))
	scores := make([]scorer.Result, len(input.Consortium))
	var project *model.ProjectAssessment

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.assessor.AssessProject(gCtx, input.GeneralDescription)
		if err != nil {
			return &UpstreamError{Err: err}
		}
		project = p
		return nil
	})

	g.Go(func() error {
		cg, cCtx := errgroup.WithContext(gCtx)
		cg.SetLimit(s.concurrency)
		for i, c := range input.Consortium {
			cg.Go(func() error {
				ev, res, err := s.evaluateCompany(cCtx, c, input.GeneralDescription, cfg)
				if err != nil {
					return err
				}
				evaluations[i] = ev
				scores[i] = res
				return nil
			})
		}
		return cg.Wait()
	})

	if err := g.Wait(); err != nil {
		log.Error("assess: failed", zap.Error(err))
		return nil, err
	}

	shares := input.Consortium.BudgetShares()
	members := make([]scorer.Member, len(evaluations))
	companyScores := make(map[string]float64, len(evaluations))
	for i, ev := range evaluations {
		members[i] = scorer.Member{Share: shares[ev.BusinessID], Light: ev.TrafficLight}
		companyScores[ev.BusinessID] = scores[i].Score
	}
	overall := scorer.Project(members, project, cfg.Weights)

	log.Info("assess: complete",
		zap.String("overall", string(overall.Light)),
		zap.Float64("score", overall.Score),
	)

	return &Assessment{
		ID:                           id,
		CompanyEvaluations:           evaluations,
		OverallTrafficLight:          overall.Light,
		QualitativeProjectAssessment: project,
		Metadata: Metadata{
			UsedConfiguration: rules.NewOutput(cfg, input.Consortium),
			OverallScore:      overall.Score,
			CompanyScores:     companyScores,
			GeneratedAt:       s.now().UTC(),
		},
	}, nil
}

// evaluateCompany runs the rule sets while the role assessment is in
// flight, then aggregates the company light.
func (s *Service) evaluateCompany(ctx context.Context, c model.Company, description string, cfg rules.Config) (model.CompanyEvaluation, scorer.Result, error) {
	var role *model.RoleAssessment
	g, gCtx := errgroup.WithContext(ctx)
	if c.HasRoleDescription() {
		g.Go(func() error {
			r, err := s.assessor.AssessCompanyRole(gCtx, description, c.ProjectRoleDescription)
			if err != nil {
				return &UpstreamError{Err: eris.Wrapf(err, "assess: company %s", c.BusinessID)}
			}
			role = r
			return nil
		})
	}

	risk := financial.Evaluate(c, cfg.FinancialRisk)
	history := s.funding.Evaluate(c.BusinessID, c.AverageRevenue(), cfg.FundingHistory)
	metrics.ObserveRules(risk.Rules)
	metrics.ObserveRules(history.Rules)

	if err := g.Wait(); err != nil {
		return model.CompanyEvaluation{}, scorer.Result{}, err
	}

	res := scorer.Company(scorer.CompanyInput{
		FinancialRisk:  risk.Result,
		FundingHistory: history.Result,
		Role:           role,
	}, cfg.Weights)

	zap.L().Debug("assess: company evaluated",
		zap.String("business_id", c.BusinessID),
		zap.String("financial_risk", string(risk.Result)),
		zap.String("funding_history", string(history.Result)),
		zap.String("light", string(res.Light)),
	)

	return model.CompanyEvaluation{
		BusinessID:                c.BusinessID,
		Name:                      c.Name,
		FinancialRisk:             risk,
		FundingHistory:            history,
		QualitativeRoleAssessment: role,
		TrafficLight:              res.Light,
	}, res, nil
}
