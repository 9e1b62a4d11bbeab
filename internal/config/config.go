package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresDBName  string `toml:"postgres_db_name"`
	RunDBMigrations bool   `toml:"run_db_migrations"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// rate limiting
	LoginRateLimitAllowedPerMin   int `toml:"login_rate_limit_allowed_per_min"`
	SessionRateLimitAllowedPerMin int `toml:"session_rate_limit_allowed_per_min"`

	// session engine
	PlanCacheSizeMB             int      `toml:"plan_cache_size_mb"`
	SweepSchedule               string   `toml:"sweep_schedule"`
	DurationEstimatesMaxPerUser int      `toml:"duration_estimates_max_per_user"`
	DurationEstimatesTTL        Duration `toml:"duration_estimates_ttl"`
	AuthTokenTTL                Duration `toml:"auth_token_ttl"`
	AuthTokensCleanupSchedule   string   `toml:"auth_tokens_cleanup_schedule"`
	AllowedOrigins              []string `toml:"allowed_origins"`
}

// Duration lets TOML files carry values like "24h" or "90m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()
	return cfg, nil
}

func Load(env, configPath string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(configPath, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", configPath, err)
	}
	return tomlConfig.Get(env)
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PlanCacheSizeMB <= 0 {
		c.PlanCacheSizeMB = 16
	}
	if c.SweepSchedule == "" {
		c.SweepSchedule = "@every 5m"
	}
	if c.DurationEstimatesMaxPerUser <= 0 {
		c.DurationEstimatesMaxPerUser = 500
	}
	if c.DurationEstimatesTTL.Duration <= 0 {
		c.DurationEstimatesTTL.Duration = 180 * 24 * time.Hour
	}
	if c.AuthTokenTTL.Duration <= 0 {
		c.AuthTokenTTL.Duration = 7 * 24 * time.Hour
	}
	if c.AuthTokensCleanupSchedule == "" {
		c.AuthTokensCleanupSchedule = "@every 8h"
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.SessionRateLimitAllowedPerMin <= 0 {
		c.SessionRateLimitAllowedPerMin = 300
	}
}
