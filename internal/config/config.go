// Package config loads application configuration from config.yaml and
// PRESUPUESTO_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/pkg/llm"
)

// Config holds the full application configuration.
type Config struct {
	LLM        llm.Config              `yaml:"llm" mapstructure:"llm"`
	Estimate   EstimateConfig          `yaml:"estimate" mapstructure:"estimate"`
	Quote      QuoteConfig             `yaml:"quote" mapstructure:"quote"`
	Confidence model.ConfidenceWeights `yaml:"confidence" mapstructure:"confidence"`
	Defaults   DefaultsConfig          `yaml:"defaults" mapstructure:"defaults"`
	Server     ServerConfig            `yaml:"server" mapstructure:"server"`
	Log        LogConfig               `yaml:"log" mapstructure:"log"`
}

// EstimateConfig configures the value completion pipeline.
type EstimateConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// QuoteConfig configures quotation rendering.
type QuoteConfig struct {
	IVARate float64 `yaml:"iva_rate" mapstructure:"iva_rate"`
	UseLLM  bool    `yaml:"use_llm" mapstructure:"use_llm"`
}

// DefaultsConfig holds the static fallback value table.
type DefaultsConfig struct {
	SheetValues map[string]float64 `yaml:"sheet_values" mapstructure:"sheet_values"`
	GlobalValue float64            `yaml:"global_value" mapstructure:"global_value"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port         int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB  int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	CORSOrigins  []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	TimeoutSecs  int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ShutdownSecs int      `yaml:"shutdown_secs" mapstructure:"shutdown_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRESUPUESTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.timeout_secs", 120)
	v.SetDefault("server.shutdown_secs", 10)
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "claude-haiku-4-5-20251001")
	v.SetDefault("estimate.enabled", true)
	v.SetDefault("quote.iva_rate", 0.19)
	v.SetDefault("quote.use_llm", true)
	v.SetDefault("confidence.direct", 0.9)
	v.SetDefault("confidence.pattern", 0.7)
	v.SetDefault("confidence.estimated", 0.7)
	v.SetDefault("confidence.default", 0.4)
	v.SetDefault("confidence.synthesized", 0.3)
	v.SetDefault("defaults.global_value", 1_000_000)

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

// Validate checks the fields required by the given run mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Quote.IVARate > 0 && c.Quote.IVARate < 1, "quote.iva_rate must be in (0, 1)")
	for _, w := range []float64{
		c.Confidence.Direct, c.Confidence.Pattern, c.Confidence.Estimated,
		c.Confidence.Default, c.Confidence.Synthesized,
	} {
		if w < 0 || w > 1 {
			problems = append(problems, "confidence weights must be in [0, 1]")
			break
		}
	}

	switch mode {
	case "extract", "cotizar":
		if c.Estimate.Enabled {
			check(c.LLM.APIKey != "", "llm.api_key is required when estimation is enabled")
		}
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
		check(c.Server.MaxUploadMB > 0, "server.max_upload_mb must be > 0")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
