// Package config loads module settings from the environment
package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

// Config holds every tunable of the module
type Config struct {
	// DataDir holds Quests/, Rewards.json, Trackers.json and Texts.json
	DataDir    string `env:"BOUNTY_DATA_DIR" envDefault:"Data/SKSE/Plugins/Bounty Quests Redone - NG"`
	PluginFile string `env:"BOUNTY_PLUGIN_FILE" envDefault:"Bounty Quests Redone - NG.esl"`

	BindAttempts   int           `env:"BOUNTY_BIND_ATTEMPTS" envDefault:"5"`
	BindInterval   time.Duration `env:"BOUNTY_BIND_INTERVAL" envDefault:"250ms"`
	RebindAttempts int           `env:"BOUNTY_REBIND_ATTEMPTS" envDefault:"5"`
	RebindInterval time.Duration `env:"BOUNTY_REBIND_INTERVAL" envDefault:"250ms"`

	// ClearGlobalOnClaim also resets the tracker's host global when the
	// reward is granted, not only the in-memory counts
	ClearGlobalOnClaim bool `env:"BOUNTY_CLEAR_GLOBAL_ON_CLAIM" envDefault:"true"`

	LogLevel string `env:"BOUNTY_LOG_LEVEL" envDefault:"info"`

	// RedisAddr selects the redis save-slot store for the simulator; empty
	// keeps slots in memory
	RedisAddr string `env:"BOUNTY_REDIS_ADDR"`
}

// Load parses the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses an explicit environment, ignoring the process one
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with every default applied
func Default() *Config {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		// defaults are static and valid
		panic(err)
	}
	return cfg
}

// Validate checks value ranges
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("DataDir", c.DataDir, vb)
	errors.ValidateRequired("PluginFile", c.PluginFile, vb)
	errors.ValidatePositive("BindAttempts", c.BindAttempts, vb)
	errors.ValidatePositive("RebindAttempts", c.RebindAttempts, vb)

	errors.ValidateNotNegative("BindInterval", c.BindInterval, vb)
	errors.ValidateNotNegative("RebindInterval", c.RebindInterval, vb)
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("LogLevel", "unknown level %q", c.LogLevel)
	}

	return vb.Build()
}

// Level returns the slog level for LogLevel
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// PluginForms returns the plugin's fixed forms owned by PluginFile
func (c *Config) PluginForms() entities.PluginForms {
	forms := entities.DefaultPluginForms()
	forms.PluginFile = c.PluginFile
	return forms
}

// QuestsDir is the directory of quest definition files
func (c *Config) QuestsDir() string {
	return filepath.Join(c.DataDir, "Quests")
}

// DataFile returns the path of a top-level data file
func (c *Config) DataFile(name string) string {
	return filepath.Join(c.DataDir, name)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
