package encode

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vid2anim/internal/config"
)

// Job describes one conversion: a source video, a target file, and the
// parameter set for the chosen format. A Job is immutable for the duration
// of the run.
type Job struct {
	ID         string
	InputPath  string
	OutputPath string
	Format     config.Format
	AVIF       config.AVIFParams
	WebP       config.WebPParams
}

// NewJob builds a Job from cfg, assigning a fresh ID and deriving the output
// path from the input when none was given.
func NewJob(cfg *config.Config) Job {
	out := cfg.OutputPath
	if out == "" {
		out = DefaultOutputPath(cfg.InputPath, cfg.Format)
	}
	return Job{
		ID:         uuid.NewString(),
		InputPath:  cfg.InputPath,
		OutputPath: out,
		Format:     cfg.Format,
		AVIF:       cfg.AVIF,
		WebP:       cfg.WebP,
	}
}

// DefaultOutputPath swaps the input's extension for the format's one
// ("clip.mp4" becomes "clip.avif").
func DefaultOutputPath(input string, f config.Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + f.Ext()
}

// validateParams checks the active format's parameters against their
// documented ranges. Returns a *ConfigError so an out-of-range value is
// rejected before any process is launched.
func (j *Job) validateParams() error {
	var err error
	if j.Format == config.FormatWebP {
		err = j.WebP.Validate()
	} else {
		err = j.AVIF.Validate()
	}
	if err != nil {
		return &ConfigError{Reason: err.Error()}
	}
	return nil
}
