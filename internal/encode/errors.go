package encode

import (
	"fmt"
	"strings"
)

// ConfigError reports a problem with the job setup: a missing or
// non-executable ffmpeg path, a missing input file, or an out-of-range
// parameter. No process has been launched when a ConfigError is returned.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// EncodeError reports a non-zero exit from one of the two ffmpeg passes,
// carrying the captured diagnostic output for display.
type EncodeError struct {
	Pass   int    // 1 (analysis) or 2 (final encode).
	Stderr string // Captured ffmpeg stderr.
	Cause  error  // The underlying exec error.
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("ffmpeg pass %d failed: %v", e.Pass, e.Cause)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// StderrTail returns the last n lines of the captured stderr, which is what
// the shell shows the user: ffmpeg buries the actual failure at the end.
func (e *EncodeError) StderrTail(n int) []string {
	s := strings.TrimSpace(e.Stderr)
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
