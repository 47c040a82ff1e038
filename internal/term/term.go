// Package term resolves whether ANSI color output should be used. The
// logging and display packages both consult it, so the decision is made
// once during startup and held in package state.
package term

import (
	"os"
	"strings"

	"vid2anim/internal/config"
)

var colorEnabled bool

// Configure resolves the color mode. Call once during startup (from
// logging.New) before anything prints.
func Configure(mode config.ColorMode) {
	colorEnabled = resolve(mode)
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return colorEnabled }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
