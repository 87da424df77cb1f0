// Command lipsync builds word-timed transcripts for lip-sync animation.
//
// Usage:
//
//	lipsync assemble -in whisperx.json [-duration s] [-chars] [-format json|yaml] [-out f]
//	lipsync run -audio f [-audio g ...] [-language en] [-chars] [-format json|yaml] [-out f]
//	lipsync serve [-config config.yml]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitGated   = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "assemble":
		err = cmdAssemble(ctx, args[1:], stdin, stdout, stderr)
	case "run":
		err = cmdRun(ctx, args[1:], stdout, stderr)
	case "serve":
		err = cmdServe(ctx, args[1:], stderr)
	case "version":
		info := version.Get()
		fmt.Fprintf(stdout, "lipsync %s (%s)\n", info, info.GoVersion)
		return exitOK
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "lipsync: unknown command %q\n\n", args[0])
		usage(stderr)
		return exitUsage
	}

	if err != nil {
		fmt.Fprintf(stderr, "lipsync: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case err == errUsage:
		return exitUsage
	case apperrors.IsCode(err, apperrors.ErrCodeQualityGate):
		return exitGated
	case apperrors.IsCode(err, apperrors.ErrCodeInvalidInput),
		apperrors.IsCode(err, apperrors.ErrCodeMissingField):
		return exitUsage
	default:
		return exitFailure
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: lipsync <command> [flags]

Commands:
  assemble   assemble a transcript from a WhisperX document or raw inputs
  run        transcribe and align audio files with the configured backends
  serve      start the HTTP server
  version    print the version

Run "lipsync <command> -h" for command flags.
`)
}
