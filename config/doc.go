// Package config loads service configuration from a YAML file, an optional
// .env file and LIPSYNC_* environment variables, in that order of precedence
// from lowest to highest.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Whisper whisper.Config `yaml:"whisper" mapstructure:"whisper"`
//	}
//
//	var cfg AppConfig
//	err := config.LoadConfig("lipsync", &cfg)
//
// LIPSYNC_WHISPER_URL overrides whisper.url; nested keys are separated by
// underscores and every split of the remaining name is tried.
package config
