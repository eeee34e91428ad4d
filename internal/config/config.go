// Package config loads the service configuration from an optional YAML file
// with environment variable overrides. The loaded Config is immutable and
// passed down explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// StaticDir serves the web UI when non-empty.
	StaticDir string `yaml:"static_dir"`

	Detector DetectorConfig `yaml:"detector"`
	Enhancer EnhancerConfig `yaml:"enhancer"`
}

// DetectorConfig tunes keypoint detection.
type DetectorConfig struct {
	MinVisibility   float64 `yaml:"min_visibility"`
	ModelComplexity int     `yaml:"model_complexity"`
}

// EnhancerConfig controls the optional Gemini enhancement stage.
type EnhancerConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Addr:   ":8080",
		DBPath: "sizely.db",
		Detector: DetectorConfig{
			MinVisibility:   0.5,
			ModelComplexity: 1,
		},
		Enhancer: EnhancerConfig{
			Enabled:        false,
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 15,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty the file must exist), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables on the loaded values.
func (c *Config) applyEnv() {
	c.Addr = getEnv("SIZELY_ADDR", c.Addr)
	c.DBPath = getEnv("SIZELY_DB_PATH", c.DBPath)
	c.StaticDir = getEnv("SIZELY_STATIC_DIR", c.StaticDir)

	c.Enhancer.APIKey = getEnv("GEMINI_API_KEY", c.Enhancer.APIKey)
	c.Enhancer.Model = getEnv("GEMINI_MODEL", c.Enhancer.Model)
	if v := strings.TrimSpace(os.Getenv("SIZELY_ENHANCER_ENABLED")); v != "" {
		c.Enhancer.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("SIZELY_MIN_VISIBILITY")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Detector.MinVisibility = f
		}
	}
}

// getEnv returns the environment value for key, or fallback when unset.
func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
