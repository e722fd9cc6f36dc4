// Package config loads the sooth runtime configuration from YAML, with
// SOOTH_* environment variables taking precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sooth configuration.
type Config struct {
	// Corpus ingestion
	Corpus CorpusConfig `yaml:"corpus"`

	// Sentence generation
	Babble BabbleConfig `yaml:"babble"`

	// Corpus directory watching
	Watch WatchConfig `yaml:"watch"`

	// Category file logging
	Logging LoggingConfig `yaml:"logging"`
}

// CorpusConfig configures where training text comes from.
type CorpusConfig struct {
	Dir         string   `yaml:"dir"`
	Extensions  []string `yaml:"extensions"`
	Parallelism int      `yaml:"parallelism"`
}

// BabbleConfig configures reply and babble generation.
type BabbleConfig struct {
	MaxWords   int   `yaml:"max_words"`
	Candidates int   `yaml:"candidates"`
	Seed       int64 `yaml:"seed"` // 0 seeds from the clock
}

// WatchConfig configures live retraining on corpus changes.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"` // master toggle; false = no log files
	Level      string          `yaml:"level"`      // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"` // per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Everything is off when debug_mode is off; otherwise categories default
// to enabled unless explicitly disabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:         "corpus",
			Extensions:  []string{".txt"},
			Parallelism: 4,
		},
		Babble: BabbleConfig{
			MaxWords:   32,
			Candidates: 10,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file is not an
// error: defaults apply, then environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SOOTH_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("SOOTH_CORPUS_DIR"); dir != "" {
		c.Corpus.Dir = dir
	}
	if exts := os.Getenv("SOOTH_CORPUS_EXTENSIONS"); exts != "" {
		var parsed []string
		for _, e := range strings.Split(exts, ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			parsed = append(parsed, strings.ToLower(e))
		}
		if len(parsed) > 0 {
			c.Corpus.Extensions = parsed
		}
	}
	if par := os.Getenv("SOOTH_CORPUS_PARALLELISM"); par != "" {
		if n, err := strconv.Atoi(par); err == nil && n > 0 {
			c.Corpus.Parallelism = n
		}
	}

	if words := os.Getenv("SOOTH_BABBLE_MAX_WORDS"); words != "" {
		if n, err := strconv.Atoi(words); err == nil && n > 0 {
			c.Babble.MaxWords = n
		}
	}
	if cands := os.Getenv("SOOTH_BABBLE_CANDIDATES"); cands != "" {
		if n, err := strconv.Atoi(cands); err == nil && n > 0 {
			c.Babble.Candidates = n
		}
	}
	if seed := os.Getenv("SOOTH_BABBLE_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Babble.Seed = n
		}
	}

	if watch := os.Getenv("SOOTH_WATCH"); watch != "" {
		if b, err := strconv.ParseBool(watch); err == nil {
			c.Watch.Enabled = b
		}
	}
	if debounce := os.Getenv("SOOTH_WATCH_DEBOUNCE"); debounce != "" {
		c.Watch.Debounce = debounce
	}

	if debug := os.Getenv("SOOTH_DEBUG"); debug != "" {
		if b, err := strconv.ParseBool(debug); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if level := os.Getenv("SOOTH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// DebounceDuration returns the watch debounce as a duration.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// ValidLogLevels lists all supported log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Corpus.Dir == "" {
		return fmt.Errorf("corpus dir not configured")
	}
	for _, ext := range c.Corpus.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("corpus extension %q must start with a dot", ext)
		}
	}
	if c.Corpus.Parallelism < 0 {
		return fmt.Errorf("corpus parallelism must not be negative")
	}
	if c.Babble.MaxWords <= 0 {
		return fmt.Errorf("babble max_words must be positive")
	}
	if c.Babble.Candidates <= 0 {
		return fmt.Errorf("babble candidates must be positive")
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch debounce: %w", err)
		}
	}
	if c.Logging.Level != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if c.Logging.Level == l {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
		}
	}
	return nil
}
