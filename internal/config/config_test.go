package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/batchwatch/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 30*time.Second, cfg.Poll.ErrorCooldown)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Headless)
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "batchwatch.yaml", `
api:
  url: https://survey.example.com
  tenant: acme
  timeout: 3s
poll:
  interval: 15s
log:
  level: debug
  file: /tmp/bw.log
slack:
  webhook_url: https://hooks.slack.com/services/T/B/X
  min_severity: warning
headless: true
`)
	cfg, err := Load(p, "")
	require.NoError(t, err)
	assert.Equal(t, "https://survey.example.com", cfg.API.URL)
	assert.Equal(t, "acme", cfg.API.Tenant)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 30*time.Second, cfg.Poll.ErrorCooldown, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, model.SeverityWarning, cfg.Slack.Severity())
	assert.True(t, cfg.Headless)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingOrBadFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)

	p := writeFile(t, "bad.yaml", "api: [unclosed")
	_, err = Load(p, "")
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	p := writeFile(t, "c.yaml", "api:\n  url: https://a.example.com\npoll:\n  interval: 15s\n")
	t.Setenv("BATCHWATCH_API_URL", "https://b.example.com")
	t.Setenv("BATCHWATCH_INTERVAL", "20s")
	t.Setenv("BATCHWATCH_INSECURE", "true")
	t.Setenv("BATCHWATCH_LOG_LEVEL", " WARN ")

	cfg, err := Load(p, "")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example.com", cfg.API.URL)
	assert.Equal(t, 20*time.Second, cfg.Poll.Interval)
	assert.True(t, cfg.API.Insecure)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "BATCHWATCH_TENANT=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("BATCHWATCH_TENANT") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.Tenant)
}

func TestApplyEnv_BadValues(t *testing.T) {
	env := map[string]string{
		"BATCHWATCH_INTERVAL": "ten",
		"BATCHWATCH_HEADLESS": "maybe",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	err := applyEnv(Default(), lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCHWATCH_INTERVAL")
	assert.Contains(t, err.Error(), "BATCHWATCH_HEADLESS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing url", func(c *Config) { c.API.URL = "" }, "API.URL"},
		{"bad url", func(c *Config) { c.API.URL = "not a url" }, "API.URL"},
		{"short interval", func(c *Config) { c.Poll.Interval = 100 * time.Millisecond }, "Poll.Interval"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "Log.Level"},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "nine-thousand" }, "Metrics.Addr"},
		{"metrics addr ok", func(c *Config) { c.Metrics.Addr = ":9100" }, ""},
		{"bad severity", func(c *Config) { c.Slack.MinSeverity = "fatal" }, "Slack.MinSeverity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.API.URL = "http://localhost:8080"
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSlackSeverity(t *testing.T) {
	assert.Equal(t, model.SeverityInfo, SlackConfig{}.Severity())
	assert.Equal(t, model.SeveritySuccess, SlackConfig{MinSeverity: "success"}.Severity())
	assert.Equal(t, model.SeverityError, SlackConfig{MinSeverity: "error"}.Severity())
}
