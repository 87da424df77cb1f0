package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/lipsync/logger"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Whisper       struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"whisper"`
	WhisperX struct {
		BatchSize int    `mapstructure:"batch_size"`
		Device    string `mapstructure:"device"`
	} `mapstructure:"whisperx"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServiceConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != "lipsync" || cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %q, want debug in development", cfg.Logging.Level)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("production keeps info logging", func(t *testing.T) {
		cfg := ServiceConfig{Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug || cfg.Logging.Level != "info" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"missing name", ServiceConfig{Environment: "production", Logging: logger.Config{Level: "info", Format: "json", Output: "stdout"}}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "x", Environment: "qa"}, "config.environment must be one of"},
		{"bad logging", ServiceConfig{Name: "x", Environment: "staging", Logging: logger.Config{Level: "loud", Format: "json", Output: "stdout"}}, "config.logging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", `
name: lipsync-test
environment: staging
whisper:
  url: http://whisper:8387
whisperx:
  batch_size: 4
  device: cpu
`)
	envPath := writeFile(t, dir, ".env", "LIPSYNC_WHISPERX_DEVICE=cuda\n")
	t.Setenv("LIPSYNC_WHISPERX_BATCH_SIZE", "32")
	t.Cleanup(func() { os.Unsetenv("LIPSYNC_WHISPERX_DEVICE") })

	var cfg testConfig
	if err := LoadConfig("lipsync", &cfg, WithConfigFile(configPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "lipsync-test" || cfg.Environment != "staging" {
		t.Errorf("base = %+v", cfg.ServiceConfig)
	}
	if cfg.Whisper.URL != "http://whisper:8387" {
		t.Errorf("whisper.url = %q", cfg.Whisper.URL)
	}
	if cfg.WhisperX.BatchSize != 32 {
		t.Errorf("whisperx.batch_size = %d, want env override 32", cfg.WhisperX.BatchSize)
	}
	if cfg.WhisperX.Device != "cuda" {
		t.Errorf("whisperx.device = %q, want .env override cuda", cfg.WhisperX.Device)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("lipsync", &cfg, WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f fakeFS) Exists(path string) bool { return f.files[path] }
func (f fakeFS) LoadEnv(string) error    { return nil }

func TestLoadConfig_NothingFound(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("lipsync", &cfg, WithFileSystem(fakeFS{})); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "" {
		t.Errorf("Name = %q, want empty before defaults", cfg.Name)
	}
}

func TestFirstExisting(t *testing.T) {
	fs := fakeFS{files: map[string]bool{"./config.yml": true, "./config/config.yml": true}}
	if got := firstExisting(fs, configSearchPaths("lipsync")); got != "./config/config.yml" {
		t.Errorf("firstExisting = %q", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("WHISPERX_BATCH_SIZE")
	for _, want := range []string{"whisperx.batch_size", "whisperx_batch_size", "whisperx.batch.size"} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if got := envKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("envKeyVariants(NAME) = %v", got)
	}
}
