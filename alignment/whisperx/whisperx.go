// Package whisperx runs WhisperX as a subprocess. One Provider serves as both
// a transcription.Provider and an alignment.Provider, and can do both in a
// single pass.
package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/lipsync/alignment"
	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/process"
	"github.com/kbukum/lipsync/provider"
	"github.com/kbukum/lipsync/transcription"
)

const (
	// ProviderName is the registered name for the WhisperX provider.
	ProviderName = "whisperx"

	modeFull  = "full"
	modeAlign = "align"
)

var (
	_ transcription.Provider = (*Provider)(nil)
	_ alignment.Combined     = (*Provider)(nil)
)

// Config holds configuration for the WhisperX provider.
type Config struct {
	// Python is the interpreter with whisperx installed.
	Python      string `yaml:"python" mapstructure:"python"`
	Model       string `yaml:"model" mapstructure:"model"`
	Language    string `yaml:"language" mapstructure:"language"`
	Device      string `yaml:"device" mapstructure:"device"`
	ComputeType string `yaml:"compute_type" mapstructure:"compute_type"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
	// WorkDir holds per-run scratch files. Defaults to the system temp dir.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// KeepFiles leaves scratch files in place for inspection.
	KeepFiles bool `yaml:"keep_files" mapstructure:"keep_files"`

	Process process.Config `yaml:"process" mapstructure:"process"`
}

func (c *Config) applyDefaults() {
	if c.Python == "" {
		c.Python = "python3"
	}
	if c.Model == "" {
		c.Model = "base"
	}
	if c.Device == "" {
		c.Device = "cpu"
	}
	if c.ComputeType == "" {
		c.ComputeType = "float32"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	if c.Process.Name == "" {
		c.Process.Name = ProviderName
	}
	if c.Process.Timeout == 0 {
		c.Process.Timeout = 30 * time.Minute
	}
	if c.Process.GracePeriod == 0 {
		c.Process.GracePeriod = 10 * time.Second
	}
}

// Provider runs the WhisperX runner script.
type Provider struct {
	cfg    Config
	runner *process.Runner
	log    *logger.Logger
}

// NewProvider creates a WhisperX provider.
func NewProvider(cfg Config) *Provider {
	cfg.applyDefaults()
	return &Provider{
		cfg:    cfg,
		runner: process.NewRunner(cfg.Process),
		log:    logger.Get(ProviderName),
	}
}

// TranscriptionFactory builds WhisperX transcription providers from a
// generic config map.
func TranscriptionFactory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		c, err := configFromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewProvider(c), nil
	}
}

// AlignmentFactory builds WhisperX alignment providers from a generic config
// map.
func AlignmentFactory() provider.Factory[alignment.Provider] {
	return func(cfg map[string]any) (alignment.Provider, error) {
		c, err := configFromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewProvider(c), nil
	}
}

func configFromMap(m map[string]any) (Config, error) {
	var c Config
	str := func(key string, dst *string) {
		if v, ok := m[key].(string); ok {
			*dst = v
		}
	}
	str("python", &c.Python)
	str("model", &c.Model)
	str("language", &c.Language)
	str("device", &c.Device)
	str("compute_type", &c.ComputeType)
	str("work_dir", &c.WorkDir)
	if v, ok := m["keep_files"].(bool); ok {
		c.KeepFiles = v
	}
	switch v := m["batch_size"].(type) {
	case int:
		c.BatchSize = v
	case float64:
		c.BatchSize = int(v)
	}
	switch v := m["timeout"].(type) {
	case time.Duration:
		c.Process.Timeout = v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("whisperx: invalid timeout %q: %w", v, err)
		}
		c.Process.Timeout = d
	}
	return c, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the interpreter can import whisperx.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := process.Run(ctx, process.Command{
		Binary: p.cfg.Python,
		Args:   []string{"-c", "import whisperx"},
	})
	return err == nil
}

// Transcribe runs the full pipeline and returns the coarse segments.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	doc, err := p.run(ctx, runArgs{mode: modeFull, audio: req.AudioPath, language: req.Language, model: req.Model})
	if err != nil {
		return nil, err
	}
	return doc.Transcription(), nil
}

// Align aligns the given segments against the audio.
func (p *Provider) Align(ctx context.Context, req alignment.Request) (*alignment.Response, error) {
	lang := req.Language
	if lang == "" {
		lang = p.cfg.Language
	}
	if lang == "" {
		return nil, apperrors.InvalidInput("language", "alignment needs a language")
	}
	segments, index := speechSegments(req.Segments)
	if len(segments) == 0 {
		return &alignment.Response{Language: lang, Units: []alignment.Unit{}}, nil
	}

	doc, err := p.run(ctx, runArgs{
		mode:       modeAlign,
		audio:      req.AudioPath,
		language:   lang,
		segments:   segments,
		characters: req.Characters,
	})
	if err != nil {
		return nil, err
	}
	resp := doc.Alignment()
	if resp.Language == "" {
		resp.Language = lang
	}
	for i := range resp.Units {
		u := &resp.Units[i]
		if u.Segment != nil && *u.Segment < len(index) {
			*u.Segment = index[*u.Segment]
		} else {
			u.Segment = nil
		}
	}
	return resp, nil
}

// speechSegments drops segments with nothing to align and returns the
// original index of each kept segment.
func speechSegments(in []transcription.Segment) ([]transcription.Segment, []int) {
	out := make([]transcription.Segment, 0, len(in))
	index := make([]int, 0, len(in))
	for i, s := range in {
		if s.Silence || strings.TrimSpace(s.Text) == "" || s.End <= s.Start {
			continue
		}
		out = append(out, s)
		index = append(index, i)
	}
	return out, index
}

// TranscribeAndAlign transcribes and aligns in one WhisperX run.
func (p *Provider) TranscribeAndAlign(ctx context.Context, req transcription.Request, characters bool) (*transcription.Response, *alignment.Response, error) {
	doc, err := p.run(ctx, runArgs{
		mode:       modeFull,
		audio:      req.AudioPath,
		language:   req.Language,
		model:      req.Model,
		characters: characters,
	})
	if err != nil {
		return nil, nil, err
	}
	return doc.Transcription(), doc.Alignment(), nil
}

type runArgs struct {
	mode       string
	audio      string
	language   string
	model      string
	segments   []transcription.Segment
	characters bool
}

// run writes the script and inputs into a scratch directory, executes it and
// decodes the document it writes.
func (p *Provider) run(ctx context.Context, a runArgs) (*Document, error) {
	if _, err := os.Stat(a.audio); err != nil {
		return nil, apperrors.NotFound("audio file", a.audio).WithCause(err)
	}

	dir, err := os.MkdirTemp(p.cfg.WorkDir, "whisperx-*")
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("whisperx: scratch dir: %w", err))
	}
	if p.cfg.KeepFiles {
		p.log.Info("keeping scratch files", logger.Fields("dir", dir))
	} else {
		defer os.RemoveAll(dir)
	}

	script := filepath.Join(dir, "run_whisperx.py")
	if err := os.WriteFile(script, []byte(runnerScript), 0o600); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("whisperx: write script: %w", err))
	}
	output := filepath.Join(dir, "result.json")

	args, err := p.buildArgs(dir, script, output, a)
	if err != nil {
		return nil, err
	}

	log := p.log.WithFields(logger.Fields(logger.FieldAudio, a.audio, "mode", a.mode))
	log.Info("running whisperx")
	result, err := p.runner.Run(ctx, process.Command{Binary: p.cfg.Python, Args: args})
	if err != nil {
		return nil, err
	}
	log.Info("whisperx finished", logger.DurationFields("whisperx", result.Duration))

	f, err := os.Open(output)
	if err != nil {
		return nil, apperrors.ExternalServiceError(ProviderName, fmt.Errorf("no output document: %w", err))
	}
	defer f.Close()
	return DecodeDocument(f)
}

func (p *Provider) buildArgs(dir, script, output string, a runArgs) ([]string, error) {
	model := p.cfg.Model
	if a.model != "" {
		model = a.model
	}
	args := []string{
		script, a.audio,
		"--output", output,
		"--mode", a.mode,
		"--model", model,
		"--device", p.cfg.Device,
		"--compute-type", p.cfg.ComputeType,
		"--batch-size", strconv.Itoa(p.cfg.BatchSize),
	}

	lang := p.cfg.Language
	if a.language != "" && a.language != "auto" {
		lang = a.language
	}
	if lang != "" {
		args = append(args, "--language", lang)
	}
	if a.characters {
		args = append(args, "--chars")
	}

	if a.mode == modeAlign {
		path := filepath.Join(dir, "segments.json")
		data, err := json.Marshal(a.segments)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("whisperx: encode segments: %w", err))
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("whisperx: write segments: %w", err))
		}
		args = append(args, "--segments", path)
	}
	return args, nil
}
