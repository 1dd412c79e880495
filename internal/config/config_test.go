package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Store:  StoreConfig{BasePath: "/tmp/storyloop"},
		Server: ServerConfig{Port: "8080", ReadTimeout: 15 * time.Second},
		Intake: IntakeConfig{
			BatchCap:        DefaultBatchCap,
			BinScoreCap:     DefaultBinScoreCap,
			ReviewThreshold: DefaultReviewThreshold,
			CounterRetries:  DefaultCounterRetries,
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "prod" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Store.BasePath = "" }},
		{"zero batch cap", func(c *Config) { c.Intake.BatchCap = 0 }},
		{"negative score cap", func(c *Config) { c.Intake.BinScoreCap = -1 }},
		{"threshold above one", func(c *Config) { c.Intake.ReviewThreshold = 1.5 }},
		{"zero retries", func(c *Config) { c.Intake.CounterRetries = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("STORYLOOP_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "STORYLOOP_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "STORYLOOP_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "STORYLOOP_TEST_MISSING", "fallback"))
}

func TestGetFloatConfigValue(t *testing.T) {
	t.Setenv("STORYLOOP_TEST_FLOAT", "0.75")

	assert.InDelta(t, 0.75, getFloatConfigValue("", "STORYLOOP_TEST_FLOAT", 0.5), 0.001)
	assert.InDelta(t, 0.5, getFloatConfigValue("", "STORYLOOP_TEST_FLOAT_MISSING", 0.5), 0.001)

	t.Setenv("STORYLOOP_TEST_FLOAT", "not-a-number")
	assert.InDelta(t, 0.5, getFloatConfigValue("", "STORYLOOP_TEST_FLOAT", 0.5), 0.001)
}
