// Command vid2anim converts an MP4/MKV video into an animated AVIF or WebP
// file by driving ffmpeg through two-pass encoding.
//
// It loads stored settings, applies CLI overrides, validates configuration,
// and either runs encoder diagnostics (--check) or a single conversion.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"vid2anim/internal/check"
	"vid2anim/internal/config"
	"vid2anim/internal/display"
	"vid2anim/internal/encode"
	"vid2anim/internal/logging"
	"vid2anim/internal/probe"
	"vid2anim/internal/runner"
	"vid2anim/internal/settings"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once logging.New succeeds, all output
	// goes through the logger.
	cfg := config.DefaultConfig()
	cfg.SettingsFile = settings.DefaultPath()

	ov, err := config.ParseFlags(&cfg, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vid2anim: %v\n", err)
		return 1
	}

	// Stored settings sit between defaults and flags in precedence. A
	// broken settings file is only a warning; defaults still work.
	if err := settings.Load(cfg.SettingsFile, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vid2anim: %v (continuing with defaults)\n", err)
	}
	if err := config.ApplyOverrides(&cfg, ov); err != nil {
		fmt.Fprintf(os.Stderr, "vid2anim: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vid2anim: %v\n", err)
		return 1
	}

	log, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vid2anim: %v\n", err)
		return 1
	}
	defer log.Sync()

	// Phase 2: Logger available.
	display.PrintBanner()
	log.Info("vid2anim", zap.String("version", version), zap.String("commit", commit))

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	inputAbs, err := filepath.Abs(cfg.InputPath)
	if err == nil {
		cfg.InputPath = inputAbs
	}

	job := encode.NewJob(&cfg)
	log.Info("conversion",
		zap.String("input", filepath.Base(job.InputPath)),
		zap.String("output", job.OutputPath),
		zap.String("format", string(job.Format)),
	)
	logParams(log, &cfg)

	// Dry-run stops here: print the commands without probing the source,
	// checking dependencies, or launching anything. It must work on a
	// machine without ffmpeg.
	if cfg.DryRun {
		printDryRun(log, &cfg, &job)
		return 0
	}

	// Source stats are informational; a probe failure never blocks the run.
	if pr, perr := probe.Probe(context.Background(), cfg.FFmpegPath, job.InputPath); perr == nil {
		log.Info("source",
			zap.String("resolution", pr.Resolution()),
			zap.String("codec", pr.Codec),
			zap.Float64("duration_sec", pr.DurationSec),
			zap.String("bitrate", display.FormatBitrateLabel(pr.BitRate/1000)),
		)
	} else {
		log.Debug("probe failed", zap.Error(perr))
	}

	// Fail fast when ffmpeg or the active encoder is unusable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("dependency check failed", zap.Error(err))
		return 1
	}

	// Persist the last-used parameters before the (long) encode starts.
	cfg.LastVideoDir = filepath.Dir(job.InputPath)
	if err := settings.Save(cfg.SettingsFile, &cfg); err != nil {
		log.Warn("cannot save settings", zap.Error(err))
	}

	return convert(log, &cfg, job)
}

// convert runs the job on the background runner and waits for its result,
// cancelling the child process on SIGINT/SIGTERM.
func convert(log *zap.Logger, cfg *config.Config, job encode.Job) int {
	inSize := int64(0)
	if fi, err := os.Stat(job.InputPath); err == nil {
		inSize = fi.Size()
	}

	results := make(chan runner.Result, 1)
	enc := encode.New(log, cfg.FFmpegPath, cfg.Verbose)
	r := runner.New(log, enc, func(res runner.Result) { results <- res })

	if err := r.Start(context.Background(), job); err != nil {
		log.Error("cannot start conversion", zap.Error(err))
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			log.Warn("interrupt received, stopping ffmpeg")
			r.Cancel()
		case res := <-results:
			if res.Err != nil {
				reportFailure(log, res.Err)
				return 1
			}
			outSize := int64(0)
			if fi, err := os.Stat(res.OutputPath); err == nil {
				outSize = fi.Size()
			}
			log.Info("done",
				zap.String("output", res.OutputPath),
				zap.String("size", display.FormatSizeRatio(outSize, inSize)),
				zap.Duration("elapsed", res.Elapsed),
			)
			return 0
		}
	}
}

// reportFailure surfaces the error with its diagnostic text: the ffmpeg
// stderr tail for encode failures, the plain reason for setup errors.
func reportFailure(log *zap.Logger, err error) {
	var ee *encode.EncodeError
	if errors.As(err, &ee) {
		log.Error("encode failed", zap.Int("pass", ee.Pass), zap.Error(ee.Cause))
		if tail := ee.StderrTail(20); len(tail) > 0 {
			log.Error("last ffmpeg output:\n  " + strings.Join(tail, "\n  "))
		}
		return
	}
	log.Error("conversion failed", zap.Error(err))
}

// logParams logs the active format's parameter set, mirroring what gets
// saved to the settings file.
func logParams(log *zap.Logger, cfg *config.Config) {
	if cfg.Format == config.FormatWebP {
		log.Info("parameters",
			zap.Int("quality", cfg.WebP.Quality),
			zap.Int("compression_level", cfg.WebP.CompressionLevel),
			zap.Int("max_width", cfg.WebP.MaxWidth),
			zap.Float64("fps", cfg.WebP.FrameRate),
			zap.String("scale_filter", string(cfg.WebP.Filter)),
			zap.String("preset", string(cfg.WebP.Preset)),
		)
		return
	}
	log.Info("parameters",
		zap.Int("crf", cfg.AVIF.CRF),
		zap.Int("cpu_used", cfg.AVIF.CPUUsed),
		zap.Int("max_width", cfg.AVIF.MaxWidth),
		zap.Float64("fps", cfg.AVIF.FrameRate),
		zap.String("scale_filter", string(cfg.AVIF.Filter)),
	)
}

// printDryRun shows the exact commands both passes would run.
func printDryRun(log *zap.Logger, cfg *config.Config, job *encode.Job) {
	log.Info("dry run, nothing will be encoded")
	for _, line := range dryRunLines(cfg, job) {
		fmt.Println(line)
	}
}

// dryRunLines renders one command line per pass. The pass log prefix is a
// placeholder; a real run uses a per-job temp directory.
func dryRunLines(cfg *config.Config, job *encode.Job) []string {
	tool, err := encode.ResolveTool(cfg.FFmpegPath)
	if err != nil {
		// Show the commands anyway; dry-run must work without ffmpeg.
		tool = "ffmpeg"
	}
	lines := make([]string, 0, 2)
	for _, pass := range []int{encode.PassAnalysis, encode.PassEncode} {
		args := encode.BuildArgs(tool, job, pass, "ffmpeg2pass", cfg.Verbose)
		lines = append(lines, fmt.Sprintf("pass %d: %s", pass, strings.Join(args, " ")))
	}
	return lines
}
