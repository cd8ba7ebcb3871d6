// Package config loads batchwatch settings from a YAML file, a .env file and
// BATCHWATCH_* environment variables, in that order of increasing priority.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dm/batchwatch/internal/model"
)

const envPrefix = "BATCHWATCH_"

// Config is the full application configuration.
type Config struct {
	API      APIConfig     `yaml:"api"`
	Poll     PollConfig    `yaml:"poll"`
	Log      LogConfig     `yaml:"log"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Slack    SlackConfig   `yaml:"slack"`
	Headless bool          `yaml:"headless"`
}

type APIConfig struct {
	URL      string        `yaml:"url" validate:"required,url"`
	Token    string        `yaml:"token"`
	Tenant   string        `yaml:"tenant"`
	Insecure bool          `yaml:"insecure"`
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
}

type PollConfig struct {
	Interval      time.Duration `yaml:"interval" validate:"gte=1s"`
	ErrorCooldown time.Duration `yaml:"error_cooldown" validate:"gte=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type SlackConfig struct {
	WebhookURL  string `yaml:"webhook_url" validate:"omitempty,url"`
	MinSeverity string `yaml:"min_severity" validate:"omitempty,oneof=info success warning error"`
}

// Severity returns MinSeverity as a model.Severity, defaulting to info.
func (s SlackConfig) Severity() model.Severity {
	switch s.MinSeverity {
	case "success":
		return model.SeveritySuccess
	case "warning":
		return model.SeverityWarning
	case "error":
		return model.SeverityError
	default:
		return model.SeverityInfo
	}
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		API:  APIConfig{Timeout: 10 * time.Second},
		Poll: PollConfig{Interval: 10 * time.Second, ErrorCooldown: 30 * time.Second},
		Log:  LogConfig{Level: "info"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), the .env file at envFile and the process environment. An explicit
// envFile must exist; otherwise ./.env is loaded when present.
// The result is not validated; call Validate after applying flags.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}
	var errs *multierror.Error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("API_URL", &cfg.API.URL)
	str("TOKEN", &cfg.API.Token)
	str("TENANT", &cfg.API.Tenant)
	boolean("INSECURE", &cfg.API.Insecure)
	duration("TIMEOUT", &cfg.API.Timeout)
	duration("INTERVAL", &cfg.Poll.Interval)
	duration("ERROR_COOLDOWN", &cfg.Poll.ErrorCooldown)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)
	str("METRICS_ADDR", &cfg.Metrics.Addr)
	str("SLACK_WEBHOOK", &cfg.Slack.WebhookURL)
	str("SLACK_MIN_SEVERITY", &cfg.Slack.MinSeverity)
	boolean("HEADLESS", &cfg.Headless)

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	return errs.ErrorOrNil()
}

// Validate checks the configuration and returns one error listing every
// invalid field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
