package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kbukum/lipsync/aligner"
	"github.com/kbukum/lipsync/alignment/whisperx"
	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/observability"
	"github.com/kbukum/lipsync/server"
	"github.com/kbukum/lipsync/timeline"
)

var errUsage = errors.New("invalid usage")

type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*s = append(*s, p)
		}
	}
	return nil
}

// outputFlags are shared by commands that write a result.
type outputFlags struct {
	format string
	out    string
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.format, "format", "json", "output format: json or yaml")
	fs.StringVar(&o.out, "out", "", "output file (default stdout)")
}

func (o *outputFlags) write(stdout io.Writer, v any) error {
	format, err := aligner.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.out == "" {
		return aligner.Encode(stdout, format, v)
	}
	f, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if err := aligner.Encode(f, format, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// parseFlags parses args. done is true when the command should stop,
// either because -h printed usage or because the flags were invalid.
func parseFlags(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return true, errUsage
	}
	return false, nil
}

// setup loads configuration and starts telemetry. The returned shutdown
// flushes exporters.
func setup(ctx context.Context, configPath string) (*AppConfig, *observability.Metrics, observability.ShutdownFunc, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	shutdown, err := observability.Init(ctx, cfg.Telemetry)
	if err != nil {
		return nil, nil, nil, err
	}
	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, nil, err
	}
	return cfg, metrics, shutdown, nil
}

func cmdAssemble(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "config file (default: search config.yml)")
		in         = fs.String("in", "-", "WhisperX result document, or - for stdin")
		raw        = fs.Bool("raw", false, "input is {language, duration, segments, units} instead of a WhisperX document")
		duration   = fs.Float64("duration", 0, "audio duration in seconds, overriding the document")
		chars      = fs.Bool("chars", false, "keep character-level timings")
		out        outputFlags
	)
	out.register(fs)
	if done, err := parseFlags(fs, args); done {
		return err
	}
	if *duration < 0 {
		return apperrors.InvalidInput("duration", "must not be negative")
	}

	cfg, metrics, shutdown, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	r := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return apperrors.NotFound("input file", *in).WithCause(err)
		}
		defer f.Close()
		r = f
	}

	input, err := readInput(r, *raw)
	if err != nil {
		return err
	}
	if *duration > 0 {
		input.Duration = *duration
	}

	svc := aligner.NewService(cfg.Pipeline, nil, nil, aligner.WithMetrics(metrics))
	res, err := svc.Assemble(ctx, input, *chars)
	if res == nil {
		return err
	}
	if werr := out.write(stdout, res); werr != nil {
		return werr
	}
	return err
}

func readInput(r io.Reader, raw bool) (timeline.Input, error) {
	if raw {
		var in timeline.Input
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return in, apperrors.Decode("timeline input", err)
		}
		return in, nil
	}
	doc, err := whisperx.DecodeDocument(r)
	if err != nil {
		return timeline.Input{}, err
	}
	return aligner.InputFromDocument(doc), nil
}

// batchEntry is one job in run output when more than one file is given.
type batchEntry struct {
	JobID  string               `json:"job_id" yaml:"job_id"`
	Audio  string               `json:"audio" yaml:"audio"`
	Result *aligner.Result      `json:"result,omitempty" yaml:"result,omitempty"`
	Error  *apperrors.ErrorBody `json:"error,omitempty" yaml:"error,omitempty"`
}

func cmdRun(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		audio      stringSlice
		configPath = fs.String("config", "", "config file (default: search config.yml)")
		language   = fs.String("language", "", "audio language, empty or auto to detect")
		model      = fs.String("model", "", "transcription model override")
		chars      = fs.Bool("chars", false, "keep character-level timings")
		out        outputFlags
	)
	fs.Var(&audio, "audio", "audio file to process; repeat or comma-separate for several")
	out.register(fs)
	if done, err := parseFlags(fs, args); done {
		return err
	}
	if len(audio) == 0 {
		return apperrors.MissingField("audio")
	}

	cfg, metrics, shutdown, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	transcribers, aligners, err := buildManagers(cfg)
	if err != nil {
		return err
	}
	svc := aligner.NewService(cfg.Pipeline, transcribers, aligners, aligner.WithMetrics(metrics))

	jobs := make([]aligner.Job, len(audio))
	for i, a := range audio {
		jobs[i] = aligner.Job{AudioPath: a, Language: *language, Model: *model, Characters: *chars}
	}

	if len(jobs) == 1 {
		res, err := svc.Process(ctx, jobs[0])
		if res == nil {
			return err
		}
		if werr := out.write(stdout, res); werr != nil {
			return werr
		}
		return err
	}

	items := svc.ProcessBatch(ctx, jobs)
	entries := make([]batchEntry, len(items))
	var errs []error
	for i, item := range items {
		entries[i] = batchEntry{JobID: item.Job.ID, Audio: item.Job.AudioPath, Result: item.Result}
		if item.Err != nil {
			appErr, ok := apperrors.AsAppError(item.Err)
			if !ok {
				appErr = apperrors.Internal(item.Err)
			}
			body := appErr.ToResponse().Error
			entries[i].Error = &body
			errs = append(errs, fmt.Errorf("%s: %w", item.Job.AudioPath, item.Err))
		}
	}
	if err := out.write(stdout, entries); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func cmdServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: search config.yml)")
	port := fs.Int("port", 0, "listen port, overriding server.port")
	if done, err := parseFlags(fs, args); done {
		return err
	}

	cfg, metrics, shutdown, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	transcribers, aligners, err := buildManagers(cfg)
	if err != nil {
		return err
	}
	svc := aligner.NewService(cfg.Pipeline, transcribers, aligners, aligner.WithMetrics(metrics))

	log := logger.GetGlobalLogger()
	srv := server.New(cfg.Server, log)
	server.NewHandlers(svc, cfg.Name, cfg.Version).Register(srv.Engine())
	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("lipsync ready", logger.Fields(
		"addr", srv.Addr(),
		"transcribers", transcribers.Available(),
		"aligners", aligners.Available(),
	))

	<-ctx.Done()
	return srv.Stop(context.WithoutCancel(ctx))
}
