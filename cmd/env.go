package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/assess-cli/internal/api"
	"github.com/sells-group/assess-cli/internal/assess"
	"github.com/sells-group/assess-cli/internal/config"
	"github.com/sells-group/assess-cli/internal/funding"
	"github.com/sells-group/assess-cli/internal/qualitative"
	"github.com/sells-group/assess-cli/internal/rules"
	"github.com/sells-group/assess-cli/pkg/ytj"
)

// assessEnv holds everything the serve and assess commands need.
type assessEnv struct {
	Service   *assess.Service
	Funding   *funding.Table
	Validator *api.Validator
	Companies ytj.Client // nil for the assess command
	redis     *redis.Client
}

// Close releases resources held by the environment.
func (e *assessEnv) Close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
}

// initAssessEnv loads the funding table and rule defaults, then builds the
// qualitative assessor and the assessment service. Callers should defer
// env.Close().
func initAssessEnv(ctx context.Context, mode string) (*assessEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	table, err := funding.Open(ctx, fundingSource(cfg))
	if err != nil {
		return nil, eris.Wrap(err, "load funding table")
	}

	base, err := loadBaseRules(cfg.Rules)
	if err != nil {
		return nil, err
	}

	assessor, err := qualitative.Open(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "init qualitative assessor")
	}

	svc := assess.NewService(
		funding.NewEvaluator(table),
		assessor,
		assess.WithBaseConfig(base),
		assess.WithConcurrency(cfg.Assess.MaxConcurrentCompanies),
	)

	return &assessEnv{
		Service:   svc,
		Funding:   table,
		Validator: api.NewValidator(cfg.Assess.MinBudget, cfg.Assess.MaxFundingRatio),
	}, nil
}

// attachCompanies adds the company register client, cached in Redis when
// companies.redis_addr is set.
func (e *assessEnv) attachCompanies(ctx context.Context, cc config.CompaniesConfig) {
	client := ytj.NewClient(
		ytj.WithBaseURL(cc.BaseURL),
		ytj.WithRateLimit(cc.RequestsPerSec),
		ytj.WithHTTPClient(&http.Client{Timeout: time.Duration(cc.TimeoutSecs) * time.Second}),
	)

	if cc.RedisAddr == "" {
		zap.L().Debug("ASSESS_COMPANIES_REDIS_ADDR not set, company lookups are not cached")
		e.Companies = client
		return
	}

	rdb := redis.NewClient(&redis.Options{Addr: cc.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Cache errors fall through to the register.
		zap.L().Warn("redis unreachable, company cache will miss", zap.String("addr", cc.RedisAddr), zap.Error(err))
	}
	e.redis = rdb
	e.Companies = ytj.NewCached(client, rdb, time.Duration(cc.CacheTTLMinutes)*time.Minute)
	zap.L().Info("company lookup cache enabled", zap.String("addr", cc.RedisAddr))
}

func fundingSource(c *config.Config) funding.Source {
	return funding.Source{
		Driver:      c.Funding.Driver,
		Path:        c.Funding.Path,
		DatabaseURL: c.Funding.DatabaseURL,
	}
}

// loadBaseRules returns the built-in rule configuration, overlaid with
// rules.file when one is configured.
func loadBaseRules(rc config.RulesConfig) (rules.Config, error) {
	if rc.File == "" {
		return rules.Default(), nil
	}
	base, err := rules.LoadFile(rc.File, rules.Default())
	if err != nil {
		return base, eris.Wrap(err, "load rules file")
	}
	zap.L().Info("rule defaults loaded", zap.String("file", rc.File))
	return base, nil
}
