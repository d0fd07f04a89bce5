package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  user: leads\n  dbname: leads\n"))
	require.NoError(t, err)

	assert.Equal(t, "host=localhost port=5432 user=leads password= dbname=leads sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 120*time.Minute, cfg.Pipeline.Interval)
	assert.Equal(t, 60, cfg.Pipeline.Threshold)
	assert.Equal(t, time.Second, cfg.Pipeline.BatchPause)
	assert.Equal(t, 5, cfg.AI.BatchSize)
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.InDelta(t, 0.7, *cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 2, cfg.AI.Retry.MaxAttempts)
	assert.Equal(t, 12, cfg.Reddit.MaxKeywordsPerBatch)
	assert.Equal(t, 1800, cfg.Reddit.MaxQueryLength)
	assert.Equal(t, 3*time.Second, cfg.Reddit.MinDelay)
	assert.Equal(t, 7*time.Second, cfg.Reddit.MaxDelay)
	assert.Equal(t, 5, cfg.Reddit.EscalateEvery)
	assert.InDelta(t, 1.5, cfg.Reddit.EscalationFactor, 1e-9)
	assert.Equal(t, 15*time.Second, cfg.Reddit.RateLimitCooldown)
	assert.NotEmpty(t, cfg.Reddit.UserAgents)
	assert.Equal(t, "lead_finder:trigger", cfg.Redis.Channel)
	assert.Equal(t, "leads.qualified", cfg.RabbitMQ.RoutingKey)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("LEAD_FINDER_TEST_KEY", "sk-secret")
	t.Setenv("LEAD_FINDER_TEST_DB_PASSWORD", "pw")

	cfg, err := Load(writeConfig(t, `
database:
  password: ${LEAD_FINDER_TEST_DB_PASSWORD}
ai:
  api_key: ${LEAD_FINDER_TEST_KEY}
  temperature: 0
pipeline:
  interval: 30m
  threshold: 75
`))
	require.NoError(t, err)

	assert.Equal(t, "sk-secret", cfg.AI.APIKey)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Zero(t, *cfg.AI.Temperature)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.Interval)
	assert.Equal(t, 75, cfg.Pipeline.Threshold)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "pipeline: [unclosed"))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"delays inverted", func(c *Config) { c.Reddit.MinDelay = 10 * time.Second }, "min_delay"},
		{"threshold too high", func(c *Config) { c.Pipeline.Threshold = 150 }, "threshold"},
		{"negative batch size", func(c *Config) { c.AI.BatchSize = -1 }, "batch_size"},
		{"unknown provider", func(c *Config) { c.AI.Provider = "mystery" }, "provider"},
		{"short interval", func(c *Config) { c.Pipeline.Interval = time.Second }, "interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.setDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_ShortIntervalAllowedWithCron(t *testing.T) {
	var cfg Config
	cfg.setDefaults()
	cfg.Pipeline.Interval = time.Second
	cfg.Pipeline.Cron = "*/30 * * * *"

	assert.NoError(t, cfg.Validate())
}
