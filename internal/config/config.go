package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port         string          `mapstructure:"port"`
	DatabaseURL  string          `mapstructure:"database_url"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Log          LogConfig       `mapstructure:"log"`
	Apollo       ApolloConfig    `mapstructure:"apollo"`
	Search       SearchConfig    `mapstructure:"search"`
	Scrape       ScrapeConfig    `mapstructure:"scrape"`
	LLM          LLMConfig       `mapstructure:"llm"`
	OpenAI       OpenAIConfig    `mapstructure:"openai"`
	Anthropic    AnthropicConfig `mapstructure:"anthropic"`
	Outreach     OutreachConfig  `mapstructure:"outreach"`
	Output       OutputConfig    `mapstructure:"output"`
	RateLimit    RateLimitRaw    `mapstructure:"rate_limit"`
	RateGenerate RateLimitConfig `mapstructure:"-"`
}

// DatabaseConfig sizes the pgx connection pool.
type DatabaseConfig struct {
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ApolloConfig holds organization-search API settings.
type ApolloConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds the fixed filters sent to the organization search.
type SearchConfig struct {
	EmployeeRange string `mapstructure:"employee_range"`
	Industry      string `mapstructure:"industry"`
	Location      string `mapstructure:"location"`
	PerPage       int    `mapstructure:"per_page"`
	MaxLeads      int    `mapstructure:"max_leads"`
}

// ScrapeConfig controls homepage scraping.
type ScrapeConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	BlockedDomains []string      `mapstructure:"blocked_domains"`
}

// LLMConfig selects the completion provider and its shared limits.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"`
	MaxTokens int64         `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig defines how to contact the chat completions API.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OutreachConfig shapes the generated message.
type OutreachConfig struct {
	Persona string `mapstructure:"persona"`
}

// OutputConfig points at the JSON export written after each run.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitRaw keeps the textual <requests>/<interval> values before parsing.
type RateLimitRaw struct {
	Generate string `mapstructure:"generate"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Load reads configuration from an optional config.yaml and the environment.
// Nested keys map to env vars with dots replaced by underscores (apollo.api_key -> APOLLO_API_KEY).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.Scrape.BlockedDomains = splitList(cfg.Scrape.BlockedDomains)

	rl, err := parseRateLimit(cfg.RateLimit.Generate)
	if err != nil {
		return nil, eris.Wrap(err, "config: invalid RATE_LIMIT_GENERATE value")
	}
	cfg.RateGenerate = rl

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.max_conn_idle_time", 15*time.Minute)
	v.SetDefault("database.health_check_period", 30*time.Second)
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("apollo.api_key", "")
	v.SetDefault("apollo.base_url", "https://api.apollo.io")
	v.SetDefault("apollo.timeout", 30*time.Second)
	v.SetDefault("search.employee_range", "1-1000")
	v.SetDefault("search.industry", "retail")
	v.SetDefault("search.location", "Europe")
	v.SetDefault("search.per_page", 10)
	v.SetDefault("search.max_leads", 5)
	v.SetDefault("scrape.timeout", 5*time.Second)
	v.SetDefault("scrape.user_agent", defaultUserAgent)
	v.SetDefault("scrape.blocked_domains", []string{"louisvuitton"})
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_tokens", 150)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("outreach.persona", "a hardware computer store")
	v.SetDefault("output.path", "leads_output.json")
	v.SetDefault("rate_limit.generate", "5/min")
}

// splitList accepts both YAML lists and a single comma-separated env value.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "off") {
		return RateLimitConfig{}, nil
	}

	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, eris.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, eris.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, eris.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
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
