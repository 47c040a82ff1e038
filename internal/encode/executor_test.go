package encode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"vid2anim/internal/config"
)

// mockFFmpeg writes a shell script standing in for ffmpeg. Each invocation
// appends its arguments to logFile before running the script body.
func mockFFmpeg(t *testing.T, body string) (tool, logFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script mock requires a unix shell")
	}
	dir := t.TempDir()
	tool = filepath.Join(dir, "ffmpeg")
	logFile = filepath.Join(dir, "invocations.log")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\n%s\n", logFile, body)
	if err := os.WriteFile(tool, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return tool, logFile
}

func invocations(t *testing.T, logFile string) []string {
	t.Helper()
	data, err := os.ReadFile(logFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func executorJob(t *testing.T) *Job {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("not really a video"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	return &Job{
		ID:         "0123456789abcdef",
		InputPath:  input,
		OutputPath: filepath.Join(dir, "clip.avif"),
		Format:     config.FormatAVIF,
		AVIF:       cfg.AVIF,
		WebP:       cfg.WebP,
	}
}

func TestRun_SuccessRunsBothPasses(t *testing.T) {
	tool, logFile := mockFFmpeg(t, "exit 0")
	job := executorJob(t)

	o := New(zaptest.NewLogger(t), tool, false)
	if err := o.Run(context.Background(), job); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	inv := invocations(t, logFile)
	if len(inv) != 2 {
		t.Fatalf("got %d ffmpeg invocations, want 2:\n%s", len(inv), strings.Join(inv, "\n"))
	}
	if !strings.Contains(inv[0], "-pass 1") || !strings.Contains(inv[0], "-f null") {
		t.Errorf("first invocation is not the analysis pass: %s", inv[0])
	}
	if !strings.Contains(inv[1], "-pass 2") || !strings.Contains(inv[1], job.OutputPath) {
		t.Errorf("second invocation is not the encode pass: %s", inv[1])
	}
}

func TestRun_Pass1FailureStopsBeforePass2(t *testing.T) {
	tool, logFile := mockFFmpeg(t, "echo 'boom: invalid data' >&2\nexit 1")
	job := executorJob(t)

	o := New(zaptest.NewLogger(t), tool, false)
	err := o.Run(context.Background(), job)

	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Run() = %v, want *EncodeError", err)
	}
	if ee.Pass != PassAnalysis {
		t.Errorf("Pass = %d, want %d", ee.Pass, PassAnalysis)
	}
	if !strings.Contains(ee.Stderr, "boom: invalid data") {
		t.Errorf("Stderr = %q, want captured diagnostic", ee.Stderr)
	}
	if got := invocations(t, logFile); len(got) != 1 {
		t.Errorf("got %d invocations after pass-1 failure, want 1", len(got))
	}
}

func TestRun_Pass2FailureRemovesOutput(t *testing.T) {
	// Succeed on pass 1; on pass 2 write a partial output and fail.
	body := `last=""
for a in "$@"; do last="$a"; done
case "$*" in
*"-pass 2"*) : > "$last"; echo 'encoder died' >&2; exit 1;;
*) exit 0;;
esac`
	tool, logFile := mockFFmpeg(t, body)
	job := executorJob(t)

	o := New(zaptest.NewLogger(t), tool, false)
	err := o.Run(context.Background(), job)

	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Run() = %v, want *EncodeError", err)
	}
	if ee.Pass != PassEncode {
		t.Errorf("Pass = %d, want %d", ee.Pass, PassEncode)
	}
	if got := invocations(t, logFile); len(got) != 2 {
		t.Errorf("got %d invocations, want 2", len(got))
	}
	if _, statErr := os.Stat(job.OutputPath); !os.IsNotExist(statErr) {
		t.Errorf("partial output %s should be removed after pass-2 failure", job.OutputPath)
	}
}

func TestRun_ShortJobID(t *testing.T) {
	tool, logFile := mockFFmpeg(t, "exit 0")
	job := executorJob(t)
	job.ID = "a1"

	o := New(zaptest.NewLogger(t), tool, false)
	if err := o.Run(context.Background(), job); err != nil {
		t.Fatalf("Run() with short job ID = %v, want nil", err)
	}
	if got := invocations(t, logFile); len(got) != 2 {
		t.Errorf("got %d invocations, want 2", len(got))
	}
}

func TestRun_InvalidParamsRejectedBeforeLaunch(t *testing.T) {
	tool, logFile := mockFFmpeg(t, "exit 0")
	job := executorJob(t)
	job.AVIF.CRF = 70

	o := New(zaptest.NewLogger(t), tool, false)
	err := o.Run(context.Background(), job)

	if !IsConfigError(err) {
		t.Fatalf("Run() = %v, want *ConfigError", err)
	}
	if got := invocations(t, logFile); len(got) != 0 {
		t.Errorf("ffmpeg was launched %d times with invalid parameters", len(got))
	}
}

func TestRun_MissingToolIsConfigError(t *testing.T) {
	job := executorJob(t)
	tool := filepath.Join(t.TempDir(), "no-such-ffmpeg")

	o := New(zaptest.NewLogger(t), tool, false)
	if err := o.Run(context.Background(), job); !IsConfigError(err) {
		t.Fatalf("Run() = %v, want *ConfigError", err)
	}
}

func TestRun_MissingInputIsConfigError(t *testing.T) {
	tool, logFile := mockFFmpeg(t, "exit 0")
	job := executorJob(t)
	job.InputPath = filepath.Join(t.TempDir(), "missing.mp4")

	o := New(zaptest.NewLogger(t), tool, false)
	if err := o.Run(context.Background(), job); !IsConfigError(err) {
		t.Fatalf("Run() = %v, want *ConfigError", err)
	}
	if got := invocations(t, logFile); len(got) != 0 {
		t.Errorf("ffmpeg was launched %d times with a missing input", len(got))
	}
}

func TestRun_CancelKillsChild(t *testing.T) {
	tool, _ := mockFFmpeg(t, "sleep 10")
	job := executorJob(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	o := New(zaptest.NewLogger(t), tool, false)
	err := o.Run(ctx, job)

	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Run() = %v, want *EncodeError after cancellation", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, child was not killed promptly", elapsed)
	}
}

func TestResolveTool(t *testing.T) {
	dir := t.TempDir()

	exe := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "not-executable")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"explicit executable", exe, exe, false},
		{"missing path", filepath.Join(dir, "nope"), "", true},
		{"directory", dir, "", true},
		{"not executable", plain, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if runtime.GOOS == "windows" && tt.name == "not executable" {
				t.Skip("permission bits are not meaningful on windows")
			}
			got, err := ResolveTool(tt.path)
			if tt.wantErr {
				if !IsConfigError(err) {
					t.Fatalf("ResolveTool(%q) err = %v, want *ConfigError", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveTool(%q) = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ResolveTool(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
