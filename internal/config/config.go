package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Assessor  AssessorConfig  `yaml:"assessor" mapstructure:"assessor"`
	Funding   FundingConfig   `yaml:"funding" mapstructure:"funding"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Companies CompaniesConfig `yaml:"companies" mapstructure:"companies"`
	Assess    AssessConfig    `yaml:"assess" mapstructure:"assess"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// RateLimit is requests per second per client for /api routes; 0 disables.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// AssessorConfig selects the qualitative provider and its call policy.
type AssessorConfig struct {
	Provider            string `yaml:"provider" mapstructure:"provider"`
	TimeoutSecs         int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RetryAttempts       int    `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMillis  int    `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
	BreakerThreshold    int    `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSecs int    `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
}

// Timeout is the per-call deadline.
func (a AssessorConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// FundingConfig locates the historical funding table.
type FundingConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RulesConfig points at an optional YAML file overriding the rule defaults.
type RulesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// CompaniesConfig configures the company register lookup.
type CompaniesConfig struct {
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RedisAddr       string  `yaml:"redis_addr" mapstructure:"redis_addr"`
	CacheTTLMinutes int     `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
}

// AssessConfig bounds assessment requests.
type AssessConfig struct {
	MaxConcurrentCompanies int     `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
	MinBudget              float64 `yaml:"min_budget" mapstructure:"min_budget"`
	MaxFundingRatio        float64 `yaml:"max_funding_ratio" mapstructure:"max_funding_ratio"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ASSESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("assessor.provider", "gemini")
	v.SetDefault("assessor.timeout_secs", 30)
	v.SetDefault("assessor.retry_attempts", 3)
	v.SetDefault("assessor.retry_backoff_ms", 500)
	v.SetDefault("assessor.breaker_threshold", 5)
	v.SetDefault("assessor.breaker_cooldown_secs", 30)
	v.SetDefault("funding.driver", "json")
	v.SetDefault("funding.path", "data/funding.json")
	v.SetDefault("funding.database_url", "")
	v.SetDefault("rules.file", "")
	v.SetDefault("companies.base_url", "https://avoindata.prh.fi/opendata-ytj-api/v3")
	v.SetDefault("companies.requests_per_sec", 2.0)
	v.SetDefault("companies.timeout_secs", 10)
	v.SetDefault("companies.redis_addr", "")
	v.SetDefault("companies.cache_ttl_minutes", 60)
	v.SetDefault("assess.max_concurrent_companies", 5)
	v.SetDefault("assess.min_budget", 20000)
	v.SetDefault("assess.max_funding_ratio", 0.8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "serve", "assess" and "funding".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		errs = append(errs, c.validateAssess()...)
	case "assess":
		errs = append(errs, c.validateAssess()...)
	case "funding":
		errs = append(errs, c.validateFunding()...)
	default:
		return eris.New(fmt.Sprintf("config: unknown mode %q", mode))
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateAssess() []string {
	var errs []string
	switch c.Assessor.Provider {
	case "gemini":
		if c.Gemini.Key == "" {
			errs = append(errs, "gemini.key is required")
		}
	case "anthropic":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("assessor.provider %q must be gemini or anthropic", c.Assessor.Provider))
	}
	if c.Assessor.TimeoutSecs <= 0 {
		errs = append(errs, "assessor.timeout_secs must be > 0")
	}
	if c.Assessor.RetryAttempts < 1 || c.Assessor.RetryAttempts > 10 {
		errs = append(errs, "assessor.retry_attempts must be between 1 and 10")
	}
	if c.Assess.MaxConcurrentCompanies < 1 || c.Assess.MaxConcurrentCompanies > 50 {
		errs = append(errs, "assess.max_concurrent_companies must be between 1 and 50")
	}
	if c.Assess.MinBudget < 0 {
		errs = append(errs, "assess.min_budget must be >= 0")
	}
	if c.Assess.MaxFundingRatio <= 0 || c.Assess.MaxFundingRatio > 1 {
		errs = append(errs, "assess.max_funding_ratio must be in (0, 1]")
	}
	return append(errs, c.validateFunding()...)
}

func (c *Config) validateFunding() []string {
	switch c.Funding.Driver {
	case "json", "sqlite":
		if c.Funding.Path == "" {
			return []string{"funding.path is required for driver " + c.Funding.Driver}
		}
	case "postgres":
		if c.Funding.DatabaseURL == "" {
			return []string{"funding.database_url is required for driver postgres"}
		}
	default:
		return []string{fmt.Sprintf("funding.driver %q must be json, sqlite or postgres", c.Funding.Driver)}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
