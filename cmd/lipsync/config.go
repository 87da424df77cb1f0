package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kbukum/lipsync/aligner"
	"github.com/kbukum/lipsync/alignment"
	"github.com/kbukum/lipsync/alignment/whisperx"
	"github.com/kbukum/lipsync/config"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/observability"
	"github.com/kbukum/lipsync/provider"
	"github.com/kbukum/lipsync/server"
	"github.com/kbukum/lipsync/transcription"
	"github.com/kbukum/lipsync/transcription/whisper"
	"github.com/kbukum/lipsync/version"
)

// AppConfig is the full lipsync configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline  aligner.Config       `yaml:"pipeline" mapstructure:"pipeline"`
	Providers ProvidersConfig      `yaml:"providers" mapstructure:"providers"`
	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ProvidersConfig lists the backends to initialize, keyed by provider name,
// with each backend's settings passed to its factory.
type ProvidersConfig struct {
	Transcription map[string]map[string]any `yaml:"transcription" mapstructure:"transcription"`
	Alignment     map[string]map[string]any `yaml:"alignment" mapstructure:"alignment"`
}

// ApplyDefaults fills unset fields of every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Version == "" {
		c.Version = version.Get().String()
	}
	c.Pipeline.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()

	if len(c.Providers.Transcription) == 0 {
		c.Providers.Transcription = map[string]map[string]any{whisperx.ProviderName: {}}
	}
	if len(c.Providers.Alignment) == 0 {
		c.Providers.Alignment = map[string]map[string]any{whisperx.ProviderName: {}}
	}
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	return errors.Join(
		c.ServiceConfig.Validate(),
		c.Pipeline.Validate(),
		c.Server.Validate(),
		c.Telemetry.Validate(),
	)
}

// loadConfig reads config.yml, .env and LIPSYNC_* overrides. path may be
// empty to use the default search paths.
func loadConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig("lipsync", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging)
	return cfg, nil
}

// buildManagers registers every known backend factory and initializes the
// configured ones. A pinned backend becomes its manager's default.
func buildManagers(cfg *AppConfig) (*provider.Manager[transcription.Provider], *provider.Manager[alignment.Provider], error) {
	transcribers := transcription.NewManager()
	transcribers.Register(whisper.ProviderName, whisper.Factory())
	transcribers.Register(whisperx.ProviderName, whisperx.TranscriptionFactory())

	aligners := alignment.NewManager(nil)
	aligners.Register(whisperx.ProviderName, whisperx.AlignmentFactory())

	for _, name := range sortedKeys(cfg.Providers.Transcription) {
		if err := transcribers.Initialize(name, cfg.Providers.Transcription[name]); err != nil {
			return nil, nil, fmt.Errorf("transcription: %w", err)
		}
	}
	for _, name := range sortedKeys(cfg.Providers.Alignment) {
		if err := aligners.Initialize(name, cfg.Providers.Alignment[name]); err != nil {
			return nil, nil, fmt.Errorf("alignment: %w", err)
		}
	}

	if name := cfg.Pipeline.Transcriber; name != "" {
		if err := transcribers.SetDefault(name); err != nil {
			return nil, nil, fmt.Errorf("pipeline.transcriber: %w", err)
		}
	}
	if name := cfg.Pipeline.Aligner; name != "" {
		if err := aligners.SetDefault(name); err != nil {
			return nil, nil, fmt.Errorf("pipeline.aligner: %w", err)
		}
	}
	return transcribers, aligners, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
