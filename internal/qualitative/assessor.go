// Package qualitative produces the AI-generated project and company role
// assessments. Replies are validated against a JSON schema; anything else
// fails the call.
package qualitative

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/assess-cli/internal/metrics"
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/resilience"
)

// Assessor runs qualitative prompts through a Generator under a
// resilience.Guard.
type Assessor struct {
	gen   Generator
	guard *resilience.Guard
}

// New builds an Assessor. A nil guard calls the generator directly.
func New(gen Generator, guard *resilience.Guard) *Assessor {
	return &Assessor{gen: gen, guard: guard}
}

// AssessProject rates the project's innovation and strategic fit.
func (a *Assessor) AssessProject(ctx context.Context, description string) (*model.ProjectAssessment, error) {
	var out model.ProjectAssessment
	if err := a.run(ctx, "project", projectPrompt(description), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssessCompanyRole rates one company's role in the project.
func (a *Assessor) AssessCompanyRole(ctx context.Context, projectDescription, roleDescription string) (*model.RoleAssessment, error) {
	var out model.RoleAssessment
	if err := a.run(ctx, "role", rolePrompt(projectDescription, roleDescription), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Assessor) run(ctx context.Context, kind string, p Prompt, out any) error {
	start := time.Now()
	text, err := resilience.Call(ctx, a.guard, "assess "+kind, func(ctx context.Context) (string, error) {
		return a.gen.Generate(ctx, p)
	})
	if err == nil {
		err = p.Schema.decode(text, out)
	}
	metrics.ObserveAssessorCall(a.gen.Provider(), kind, err, time.Since(start))
	if err != nil {
		zap.L().Error("qualitative: assessment failed",
			zap.String("provider", a.gen.Provider()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return eris.Wrapf(err, "qualitative: %s assessment", kind)
	}
	zap.L().Debug("qualitative: assessment complete",
		zap.String("provider", a.gen.Provider()),
		zap.String("kind", kind),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
