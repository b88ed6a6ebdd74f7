// Package config provides configuration loading and validation for langtrends.
//
// Values are resolved from, in increasing priority: built-in defaults, a YAML
// config file, LANGTRENDS_* environment variables (with GIT_DIR as a fallback
// for the repository) and command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrNegativeInterval   = errors.New("min interval days must not be negative")
	ErrNegativeMaxCommits = errors.New("max commits must not be negative")
	ErrNegativeCacheSize  = errors.New("cache size must not be negative")
	ErrInvalidSize        = errors.New("invalid chart size, want WIDTHxHEIGHT")
	ErrInvalidStyle       = errors.New("invalid chart style")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be between 0 and 1")
)

// Config holds all configuration for a langtrends invocation.
type Config struct {
	// Repo is the repository path. Empty means the working directory.
	Repo      string          `mapstructure:"repo"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AnalysisConfig controls commit selection and counting.
type AnalysisConfig struct {
	FirstCommit     string `mapstructure:"first_commit"`
	MinIntervalDays int    `mapstructure:"min_interval_days"`
	MaxCommits      int    `mapstructure:"max_commits"`
	AllParents      bool   `mapstructure:"all_parents"`
	Relative        bool   `mapstructure:"relative"`
	NoCache         bool   `mapstructure:"no_cache"`
	// CacheSize bounds the line cache to this many blobs. Zero is unbounded.
	CacheSize int `mapstructure:"cache_size"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Path      string `mapstructure:"path"`
	Style     string `mapstructure:"style"`
	Size      string `mapstructure:"size"`
	Progress  bool   `mapstructure:"progress"`
	Benchmark bool   `mapstructure:"benchmark"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OTel export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	Environment  string  `mapstructure:"environment"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// FlagKeys maps command line flag names to configuration keys. Flags missing
// from the flag set passed to LoadConfig are skipped.
var FlagKeys = map[string]string{
	"repo":              "repo",
	"first-commit":      "analysis.first_commit",
	"min-interval-days": "analysis.min_interval_days",
	"max-commits":       "analysis.max_commits",
	"all-parents":       "analysis.all_parents",
	"relative":          "analysis.relative",
	"no-cache":          "analysis.no_cache",
	"cache-size":        "analysis.cache_size",
	"output":            "output.path",
	"style":             "output.style",
	"size":              "output.size",
	"benchmark":         "output.benchmark",
	"log-level":         "logging.level",
	"log-json":          "logging.json",
	"otlp-endpoint":     "telemetry.otlp_endpoint",
	"otlp-insecure":     "telemetry.otlp_insecure",
	"metrics-file":      "telemetry.metrics_file",
	"environment":       "telemetry.environment",
	"debug-trace":       "telemetry.debug_trace",
	"sample-ratio":      "telemetry.sample_ratio",
}

// SearchPaths are the directories searched for .langtrends.yaml when no
// explicit config path is given.
func SearchPaths() []string {
	paths := []string{"."}

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".config", "langtrends"))
	}

	return paths
}

// LoadConfig loads configuration from defaults, an optional config file, the
// environment and flags. An explicit configPath must exist; otherwise a
// missing file in SearchPaths is not an error.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	return load(configPath, SearchPaths(), flags)
}

func load(configPath string, searchPaths []string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")

		for _, dir := range searchPaths {
			viperCfg.AddConfigPath(dir)
		}
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viperCfg.BindEnv("repo", EnvPrefix+"_REPO", envGitDir)
	if err != nil {
		return nil, fmt.Errorf("bind repository env: %w", err)
	}

	err = bindFlags(viperCfg, flags)
	if err != nil {
		return nil, err
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	applyNoProgress(&config, flags)

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func bindFlags(viperCfg *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}

	for name, key := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		err := viperCfg.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	return nil
}

// applyNoProgress maps the negative --no-progress flag onto output.progress.
func applyNoProgress(config *Config, flags *pflag.FlagSet) {
	if flags == nil {
		return
	}

	flag := flags.Lookup("no-progress")
	if flag == nil || !flag.Changed {
		return
	}

	noProgress, err := strconv.ParseBool(flag.Value.String())
	if err == nil && noProgress {
		config.Output.Progress = false
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("repo", "")

	viperCfg.SetDefault("analysis.first_commit", DefaultFirstCommit)
	viperCfg.SetDefault("analysis.min_interval_days", DefaultMinIntervalDays)
	viperCfg.SetDefault("analysis.max_commits", DefaultMaxCommits)
	viperCfg.SetDefault("analysis.all_parents", DefaultAllParents)
	viperCfg.SetDefault("analysis.relative", DefaultRelative)
	viperCfg.SetDefault("analysis.no_cache", DefaultNoCache)
	viperCfg.SetDefault("analysis.cache_size", DefaultCacheSize)

	viperCfg.SetDefault("output.path", DefaultOutputPath)
	viperCfg.SetDefault("output.style", DefaultStyle)
	viperCfg.SetDefault("output.size", DefaultSize)
	viperCfg.SetDefault("output.progress", DefaultProgress)
	viperCfg.SetDefault("output.benchmark", DefaultBenchmark)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_file", "")
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.debug_trace", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Analysis.MinIntervalDays < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeInterval, config.Analysis.MinIntervalDays)
	}

	if config.Analysis.MaxCommits < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeMaxCommits, config.Analysis.MaxCommits)
	}

	if config.Analysis.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCacheSize, config.Analysis.CacheSize)
	}

	if config.Output.Style != StyleDark && config.Output.Style != StyleLight {
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidStyle, config.Output.Style, StyleDark, StyleLight)
	}

	_, _, err := ParseSize(config.Output.Size)
	if err != nil {
		return err
	}

	_, err = ParseLogLevel(config.Logging.Level)
	if err != nil {
		return err
	}

	ratio := config.Telemetry.SampleRatio
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, ratio)
	}

	return nil
}

// ParseSize parses a WIDTHxHEIGHT chart size in pixels.
func ParseSize(size string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(size)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}

	width, err = strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}

	height, err = strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}

	return width, height, nil
}

// ParseLogLevel parses debug, info, warn or error (case insensitive).
func ParseLogLevel(level string) (slog.Level, error) {
	var lvl slog.Level

	err := lvl.UnmarshalText([]byte(level))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}

	return lvl, nil
}

// LoadDotEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")

	_, statErr := os.Stat(path)
	if errors.Is(statErr, os.ErrNotExist) {
		return nil
	}

	err := godotenv.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}
