// Package config loads the safetynet configuration: an optional YAML file
// for policy extensions plus environment overrides. Everything is resolved
// once at startup into an immutable value; nothing re-reads the environment
// mid-analysis.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/AgentShepherd/safetynet/internal/logger"
)

var cfgLog = logger.New("config")

// envPrefix yields SAFETY_NET_STRICT, SAFETY_NET_LOG_LEVEL, SAFETY_NET_NO_COLOR.
const envPrefix = "safety_net"

// Config is the resolved safetynet configuration.
type Config struct {
	// Strict fails closed on unparsable input. Env-only
	// (SAFETY_NET_STRICT), by design: the host toggles it per session, not
	// per machine.
	Strict bool `yaml:"-"`

	LogLevel string      `yaml:"log_level"`
	NoColor  bool        `yaml:"no_color"`
	Rules    RulesConfig `yaml:"rules"`
}

// RulesConfig extends the built-in analysis policy.
type RulesConfig struct {
	// SensitiveDirs and SensitiveFiles are extra home-relative entries to
	// protect from file-reading commands.
	SensitiveDirs  []string `yaml:"sensitive_dirs"`
	SensitiveFiles []string `yaml:"sensitive_files"`
	// SafeDeletePrefixes are extra absolute prefixes treated as scratch
	// space for recursive-force deletes.
	SafeDeletePrefixes []string `yaml:"safe_delete_prefixes"`
}

// Truthy is a bool that accepts the 1/true/yes/on value set,
// case-insensitive, whitespace-trimmed. Anything else is false, never an
// error: a broken env var must not change the verdict path.
type Truthy bool

// Decode implements envconfig.Decoder.
func (t *Truthy) Decode(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		*t = true
	default:
		*t = false
	}
	return nil
}

type envOverrides struct {
	Strict   Truthy `envconfig:"STRICT"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	NoColor  Truthy `envconfig:"NO_COLOR"`
}

// DefaultConfigPath returns ~/.safetynet/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".safetynet", "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
	}
}

// Load reads the config file (missing file is fine) and applies environment
// overrides. Config problems degrade to defaults with a warning; they never
// abort the hook.
func Load(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeYAML(data, cfg); err != nil {
			cfgLog.Warn("config %s unusable, using defaults: %v", path, err)
			cfg = DefaultConfig()
		}
	case !os.IsNotExist(err):
		cfgLog.Warn("cannot read config %s: %v", path, err)
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		cfgLog.Warn("environment overrides ignored: %v", err)
	} else {
		cfg.Strict = bool(env.Strict)
		if env.LogLevel != "" {
			cfg.LogLevel = env.LogLevel
		}
		if env.NoColor {
			cfg.NoColor = true
		}
	}

	return cfg
}

// decodeYAML parses config data, warning on unknown fields (typos like
// "rulse:") but re-parsing leniently for forward compatibility.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}
	// An empty file yields EOF from the decoder; that just means defaults.
	if errors.Is(err, io.EOF) {
		return nil
	}
	if isUnknownFieldError(err) {
		cfgLog.Warn("config has unknown fields (ignored): %v", err)
		*cfg = *DefaultConfig()
		return yaml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("config parse error: %w", err)
}

// isUnknownFieldError returns true if the error comes from
// yaml.Decoder.KnownFields(true) rejecting an unrecognized key.
func isUnknownFieldError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found in type")
}

// Validate checks the fields that have constrained values.
func (c *Config) Validate() error {
	var errs []string
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("log_level: %v", err))
	}
	for _, p := range c.Rules.SafeDeletePrefixes {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Sprintf("rules.safe_delete_prefixes: %q is not absolute", p))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.New("config validation failed: " + strings.Join(errs, "; "))
}
