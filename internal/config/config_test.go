package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTruthyDecode(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{" true ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"banana", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var tr Truthy
			if err := tr.Decode(tt.value); err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.value, err)
			}
			if bool(tr) != tt.want {
				t.Errorf("Decode(%q) = %v, want %v", tt.value, tr, tt.want)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
		}
		if cfg.Strict || cfg.NoColor {
			t.Errorf("unexpected non-default flags: %+v", cfg)
		}
	})

	t.Run("empty file uses defaults", func(t *testing.T) {
		cfg := Load(writeConfig(t, ""))
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
		}
	})

	t.Run("full file", func(t *testing.T) {
		cfg := Load(writeConfig(t, `
log_level: debug
no_color: true
rules:
  sensitive_dirs:
    - .aws
  sensitive_files:
    - .netrc
  safe_delete_prefixes:
    - /scratch/
`))
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if !cfg.NoColor {
			t.Error("NoColor = false, want true")
		}
		if len(cfg.Rules.SensitiveDirs) != 1 || cfg.Rules.SensitiveDirs[0] != ".aws" {
			t.Errorf("SensitiveDirs = %v", cfg.Rules.SensitiveDirs)
		}
		if len(cfg.Rules.SensitiveFiles) != 1 || cfg.Rules.SensitiveFiles[0] != ".netrc" {
			t.Errorf("SensitiveFiles = %v", cfg.Rules.SensitiveFiles)
		}
		if len(cfg.Rules.SafeDeletePrefixes) != 1 || cfg.Rules.SafeDeletePrefixes[0] != "/scratch/" {
			t.Errorf("SafeDeletePrefixes = %v", cfg.Rules.SafeDeletePrefixes)
		}
	})

	t.Run("unknown fields tolerated", func(t *testing.T) {
		cfg := Load(writeConfig(t, "log_level: info\nfuture_option: 7\n"))
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
	})

	t.Run("garbage falls back to defaults", func(t *testing.T) {
		cfg := Load(writeConfig(t, "log_level: [unclosed\n"))
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SAFETY_NET_STRICT", "1")
		t.Setenv("SAFETY_NET_LOG_LEVEL", "error")
		t.Setenv("SAFETY_NET_NO_COLOR", "yes")

		cfg := Load(writeConfig(t, "log_level: debug\n"))
		if !cfg.Strict {
			t.Error("Strict = false, want true")
		}
		if cfg.LogLevel != "error" {
			t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
		}
		if !cfg.NoColor {
			t.Error("NoColor = false, want true")
		}
	})

	t.Run("strict off by default", func(t *testing.T) {
		t.Setenv("SAFETY_NET_STRICT", "")
		cfg := Load(writeConfig(t, ""))
		if cfg.Strict {
			t.Error("Strict = true, want false")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *DefaultConfig(), false},
		{"valid extras", Config{LogLevel: "debug", Rules: RulesConfig{SafeDeletePrefixes: []string{"/scratch/"}}}, false},
		{"bad log level", Config{LogLevel: "loud"}, true},
		{"relative prefix", Config{LogLevel: "warn", Rules: RulesConfig{SafeDeletePrefixes: []string{"scratch"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
