package process_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/lipsync/process"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		cmd        process.Command
		wantStdout string
		wantStderr string
		wantExit   int
		wantErr    bool
	}{
		{
			name:       "stdout",
			cmd:        process.Command{Binary: "echo", Args: []string{"aligned", "words"}},
			wantStdout: "aligned words",
		},
		{
			name:       "stdin",
			cmd:        process.Command{Binary: "cat", Stdin: strings.NewReader(`{"segments":[]}`)},
			wantStdout: `{"segments":[]}`,
		},
		{
			name:       "stderr",
			cmd:        process.Command{Binary: "sh", Args: []string{"-c", "echo loading model >&2"}},
			wantStderr: "loading model",
		},
		{
			name:       "env",
			cmd:        process.Command{Binary: "sh", Args: []string{"-c", "echo $LIPSYNC_DEVICE"}, Env: []string{"LIPSYNC_DEVICE=cuda"}},
			wantStdout: "cuda",
		},
		{
			name:     "exit code",
			cmd:      process.Command{Binary: "sh", Args: []string{"-c", "exit 3"}},
			wantExit: 3,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := process.Run(context.Background(), tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if result.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantExit)
			}
			if got := strings.TrimSpace(string(result.Stdout)); got != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", got, tt.wantStdout)
			}
			if got := strings.TrimSpace(string(result.Stderr)); got != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", got, tt.wantStderr)
			}
		})
	}
}

func TestRun_ContextEndsProcess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if !errors.Is(err, process.ErrKilled) {
		t.Fatalf("err = %v, want ErrKilled", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded in chain", err)
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to stop: %v", result.Duration)
	}
}

func TestRun_Errors(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{}); err == nil {
		t.Error("expected error for empty binary")
	}
	result, err := process.Run(context.Background(), process.Command{Binary: "/nonexistent/whisperx"})
	if err == nil {
		t.Error("expected error for missing binary")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil when the process never started", result)
	}
}

func TestResult_StderrTail(t *testing.T) {
	r := &process.Result{Stderr: []byte("progress 10%\nprogress 90%\n\nRuntimeError: CUDA out of memory\n")}
	if got := r.StderrTail(2); got != "progress 90%\nRuntimeError: CUDA out of memory" {
		t.Errorf("StderrTail(2) = %q", got)
	}
	var nilResult *process.Result
	if got := nilResult.StderrTail(3); got != "" {
		t.Errorf("nil StderrTail = %q", got)
	}
}
