// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Store    StoreConfig
	Server   ServerConfig
	Intake   IntakeConfig
	Metadata MetadataConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StoreConfig holds database configuration.
type StoreConfig struct {
	// BasePath is the directory holding the embedded database.
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// IntakeConfig holds intake and classification tuning.
type IntakeConfig struct {
	// BatchCap is the maximum number of items per intake batch.
	BatchCap int
	// BinScoreCap normalizes bin keyword scores into a confidence.
	BinScoreCap float64
	// ReviewThreshold is the combined-confidence floor for auto-approval.
	ReviewThreshold float64
	// CounterRetries bounds SKU allocation retries on counter conflicts.
	CounterRetries int
}

// MetadataConfig holds external metadata lookup configuration.
type MetadataConfig struct {
	// Enabled toggles external ISBN lookups; with it off, scans carry
	// placeholder metadata the operator fills in.
	Enabled bool
	// BaseURL is the Open Library endpoint.
	BaseURL string
	// Timeout bounds one lookup request.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound lookups.
	RequestsPerSecond float64
}

// Intake defaults.
const (
	DefaultBatchCap        = 20
	DefaultBinScoreCap     = 40.0
	DefaultReviewThreshold = 0.65
	DefaultCounterRetries  = 3
)

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for database storage")
	serverName := flag.String("server-name", "", "Name for the server")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	batchCap := flag.String("batch-cap", "", "Max items per intake batch (default: 20)")
	binScoreCap := flag.String("bin-score-cap", "", "Bin score normalization cap (default: 40)")
	reviewThreshold := flag.String("review-threshold", "", "Auto-approval confidence floor (default: 0.65)")
	counterRetries := flag.String("counter-retries", "", "SKU counter retry bound (default: 3)")

	metadataEnabled := flag.String("metadata-enabled", "", "Enable external ISBN lookups (default: true)")
	metadataBaseURL := flag.String("metadata-base-url", "", "Open Library base URL")
	metadataTimeout := flag.String("metadata-timeout", "", "Metadata lookup timeout (default: 5s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "StoryLoop Intake Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Intake: IntakeConfig{
			BatchCap:        getIntConfigValue(*batchCap, "INTAKE_BATCH_CAP", DefaultBatchCap),
			BinScoreCap:     getFloatConfigValue(*binScoreCap, "INTAKE_BIN_SCORE_CAP", DefaultBinScoreCap),
			ReviewThreshold: getFloatConfigValue(*reviewThreshold, "INTAKE_REVIEW_THRESHOLD", DefaultReviewThreshold),
			CounterRetries:  getIntConfigValue(*counterRetries, "INTAKE_COUNTER_RETRIES", DefaultCounterRetries),
		},
		Metadata: MetadataConfig{
			Enabled:           getBoolConfigValue(*metadataEnabled, "METADATA_ENABLED", true),
			BaseURL:           getConfigValue(*metadataBaseURL, "METADATA_BASE_URL", "https://openlibrary.org"),
			RequestsPerSecond: getFloatConfigValue("", "METADATA_REQUESTS_PER_SECOND", 2),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Metadata.Timeout, err = parseDurationValue(*metadataTimeout, "METADATA_TIMEOUT", "5s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Intake.BatchCap < 1 {
		return fmt.Errorf("invalid batch cap: %d (must be at least 1)", c.Intake.BatchCap)
	}
	if c.Intake.BinScoreCap <= 0 {
		return fmt.Errorf("invalid bin score cap: %v (must be positive)", c.Intake.BinScoreCap)
	}
	if c.Intake.ReviewThreshold <= 0 || c.Intake.ReviewThreshold > 1 {
		return fmt.Errorf("invalid review threshold: %v (must be in (0,1])", c.Intake.ReviewThreshold)
	}
	if c.Intake.CounterRetries < 1 {
		return fmt.Errorf("invalid counter retries: %d (must be at least 1)", c.Intake.CounterRetries)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute, defaulting to
// ~/StoryLoop/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "StoryLoop", "data")

	expanded, err := expandPath(c.Store.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves a duration setting from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(strings.ReplaceAll(envKey, "_", " ")), raw, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
