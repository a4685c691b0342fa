package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "PAINPOINT_CONFIG"
	databaseEnv     = "PAINPOINT_DB"
	addrEnv         = "PAINPOINT_ADDR"
	tokenEnv        = "PAINPOINT_TOKEN"
	logLevelEnv     = "PAINPOINT_LOG_LEVEL"
	scheduleEnv     = "PAINPOINT_SCHEDULE"
	workersEnv      = "PAINPOINT_WORKERS"
)

// Config holds the settings shared by the CLI, the HTTP server and the
// scheduler.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Model     ModelConfig     `yaml:"model"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	// Path is the database file, or ":memory:".
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Token, when set, is required as a bearer token on every request
	// except the health check.
	Token string `yaml:"token"`
}

// AnalysisConfig tunes the batch analyzer.
type AnalysisConfig struct {
	Workers      int                 `yaml:"workers"`
	TopTopics    int                 `yaml:"top_topics"`
	KeywordLimit int                 `yaml:"keyword_limit"`
	LexiconPath  string              `yaml:"lexicon_path"`
	Products     []painpoint.Product `yaml:"products"`
}

// ModelConfig names the stored classifier artifact and its training
// parameters.
type ModelConfig struct {
	Name       string `yaml:"name"`
	MinSamples int    `yaml:"min_samples"`
	Seed       int64  `yaml:"seed"`
}

// SchedulerConfig defines when stored documents are re-analyzed.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cron"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.UTC
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Storage: StorageConfig{Path: "data/painpoint.db"},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
		Analysis: AnalysisConfig{
			Workers:      4,
			TopTopics:    painpoint.DefaultTopTopics,
			KeywordLimit: 10,
		},
		Model: ModelConfig{
			Name:       "sentiment",
			MinSamples: painpoint.DefaultClassifierConfig().MinSamples,
			Seed:       painpoint.DefaultClassifierConfig().Seed,
		},
		Scheduler: SchedulerConfig{
			CronExpression: "0 */6 * * *",
			Timezone:       defaultTimezone,
			location:       time.UTC,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path falls back to PAINPOINT_CONFIG; when
// that is unset too, only defaults and the environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.bindTimezone()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(databaseEnv); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(tokenEnv); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(scheduleEnv); v != "" {
		c.Scheduler.CronExpression = v
		c.Scheduler.Enabled = true
	}
	if v := os.Getenv(workersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a number", workersEnv, v)
		}
		c.Analysis.Workers = n
	}
	return nil
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("config: unknown timezone, reverting to default", "timezone", tz, "default", defaultTimezone)
		loc = time.UTC
	}
	c.Scheduler.location = loc
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	if c.Analysis.Workers < 1 {
		errs = append(errs, fmt.Errorf("analysis.workers must be at least 1, got %d", c.Analysis.Workers))
	}
	if c.Analysis.TopTopics < 0 {
		errs = append(errs, fmt.Errorf("analysis.top_topics must not be negative, got %d", c.Analysis.TopTopics))
	}
	if c.Model.Name == "" {
		errs = append(errs, errors.New("model.name is required"))
	}
	if c.Model.MinSamples < painpoint.MinTrainingSamples {
		errs = append(errs, fmt.Errorf("model.min_samples must be at least %d, got %d",
			painpoint.MinTrainingSamples, c.Model.MinSamples))
	}
	for i, p := range c.Analysis.Products {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("analysis.products[%d].name is required", i))
		}
	}
	if c.Scheduler.Enabled && c.Scheduler.CronExpression == "" {
		errs = append(errs, errors.New("scheduler.cron is required when the scheduler is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
