// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for ffmpeg and the libaom-av1/libwebp encoders.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"vid2anim/internal/config"
	"vid2anim/internal/encode"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is
// missing.
var (
	ErrAV1EncodeFailed  = errors.New("libaom-av1 test encode failed (ffmpeg built without libaom?)")
	ErrWebPEncodeFailed = errors.New("libwebp test encode failed (ffmpeg built without libwebp?)")
)

// RunCheck runs the interactive --check flow: prints ffmpeg availability and
// version, then runs a tiny test encode for each animation encoder. This is
// informational only; it reports everything rather than stopping on the
// first failure. Returns false when anything failed.
func RunCheck(cfg *config.Config, log *zap.Logger) bool {
	log.Info("=== System Check ===")

	tool, err := encode.ResolveTool(cfg.FFmpegPath)
	if err != nil {
		log.Error("ffmpeg not found", zap.Error(err))
		return false
	}
	ok := checkVersion(tool, log)
	ok = checkEncoder(tool, "libaom-av1", libaomTestArgs(), log) && ok
	ok = checkEncoder(tool, "libwebp", libwebpTestArgs(), log) && ok
	return ok
}

// checkVersion logs the first line of `ffmpeg -version`.
func checkVersion(tool string, log *zap.Logger) bool {
	out, err := exec.Command(tool, "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed", zap.Error(err))
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info("ffmpeg available", zap.String("version", firstLine))
	return true
}

// checkEncoder runs a minimal test encode and logs the outcome.
func checkEncoder(tool, name string, args []string, log *zap.Logger) bool {
	if runSilent(tool, args...) {
		log.Info("encoder works", zap.String("encoder", name))
		return true
	}
	log.Error("encoder test failed", zap.String("encoder", name))
	return false
}

// CheckDeps is the pre-run validation: it verifies ffmpeg is runnable and
// that the encoder for the active format actually works, via a short lavfi
// test encode. Returns a *encode.ConfigError or sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	tool, err := encode.ResolveTool(cfg.FFmpegPath)
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatWebP {
		if !runSilent(tool, libwebpTestArgs()...) {
			return ErrWebPEncodeFailed
		}
		return nil
	}
	if !runSilent(tool, libaomTestArgs()...) {
		return ErrAV1EncodeFailed
	}
	return nil
}

// --- internal helpers ---

// libaomTestArgs returns ffmpeg arguments for a minimal libaom-av1 encode.
// cpu-used 8 keeps the test fast; libaom at default speed takes seconds even
// for a single black frame.
func libaomTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=0.1",
		"-c:v", "libaom-av1", "-cpu-used", "8",
		"-f", "null", "-",
	}
}

// libwebpTestArgs returns ffmpeg arguments for a minimal libwebp encode.
func libwebpTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=0.1",
		"-c:v", "libwebp",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
