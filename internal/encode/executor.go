package encode

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Orchestrator runs two-pass conversions against a resolved ffmpeg binary.
// It holds no per-job state; one instance serves the whole application run.
type Orchestrator struct {
	log        *zap.Logger
	ffmpegPath string
	verbose    bool
}

// New returns an Orchestrator using the given ffmpeg path (may be a bare
// name resolved via PATH) and verbosity.
func New(log *zap.Logger, ffmpegPath string, verbose bool) *Orchestrator {
	return &Orchestrator{log: log, ffmpegPath: ffmpegPath, verbose: verbose}
}

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Run executes the analysis pass and then the encode pass for job. It fails
// with *ConfigError before launching anything when the tool path, input file,
// or parameters are invalid, and with *EncodeError when a pass exits
// non-zero; pass 2 is never attempted after a pass-1 failure.
//
// The pass statistics log is written to a per-job temp directory and removed
// afterwards; a partially written output file is removed on pass-2 failure.
func (o *Orchestrator) Run(ctx context.Context, job *Job) error {
	if err := job.validateParams(); err != nil {
		return err
	}
	tool, err := ResolveTool(o.ffmpegPath)
	if err != nil {
		return err
	}
	if err := checkInput(job.InputPath); err != nil {
		return err
	}

	passDir, err := os.MkdirTemp("", tempPattern(job.ID))
	if err != nil {
		return &ConfigError{Reason: "cannot create temp directory: " + err.Error()}
	}
	defer os.RemoveAll(passDir)
	passLog := filepath.Join(passDir, "ffmpeg2pass")

	for _, pass := range []int{PassAnalysis, PassEncode} {
		o.log.Info("starting ffmpeg pass",
			zap.String("job", job.ID),
			zap.Int("pass", pass),
			zap.String("input", job.InputPath),
		)

		args := BuildArgs(tool, job, pass, passLog, o.verbose)
		o.log.Debug("ffmpeg command", zap.String("job", job.ID), zap.Strings("args", args))

		res := o.execute(ctx, args)
		if res.Err != nil {
			if pass == PassEncode {
				os.Remove(job.OutputPath)
			}
			return &EncodeError{Pass: pass, Stderr: res.Stderr, Cause: res.Err}
		}
	}

	o.log.Info("conversion finished",
		zap.String("job", job.ID),
		zap.String("output", job.OutputPath),
	)
	return nil
}

// execute runs one ffmpeg invocation. Stderr is tee'd to the console in
// verbose mode (ffmpeg writes its progress there); otherwise it is captured
// silently for error reporting.
func (o *Orchestrator) execute(ctx context.Context, args []string) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if o.verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// tempPattern derives the pass-log directory prefix from the job ID. Only a
// short ID fragment is used; IDs of any length are accepted.
func tempPattern(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "vid2anim-" + id + "-"
}

// ResolveTool turns the configured ffmpeg path into a runnable binary path.
// A bare name is looked up on PATH; an explicit path must point at an
// existing executable regular file. Failures are *ConfigError.
func ResolveTool(path string) (string, error) {
	if path == "" {
		path = "ffmpeg"
	}
	if !strings.ContainsRune(path, os.PathSeparator) {
		found, err := exec.LookPath(path)
		if err != nil {
			return "", &ConfigError{Reason: "ffmpeg not found on PATH (set the path with --ffmpeg)"}
		}
		return found, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return "", &ConfigError{Reason: "ffmpeg not found at " + path}
	}
	if fi.IsDir() || !fi.Mode().IsRegular() {
		return "", &ConfigError{Reason: path + " is not an executable file"}
	}
	if fi.Mode().Perm()&0o111 == 0 {
		return "", &ConfigError{Reason: path + " is not executable"}
	}
	return path, nil
}

// checkInput verifies the source video exists and is a regular file.
func checkInput(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return &ConfigError{Reason: "input file not found: " + path}
	}
	if !fi.Mode().IsRegular() {
		return &ConfigError{Reason: "input is not a regular file: " + path}
	}
	return nil
}

// IsConfigError reports whether err is (or wraps) a job setup error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
