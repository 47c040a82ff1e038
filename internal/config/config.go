// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the stored defaults of the settings file, so a
// first run without a settings file behaves the same as a freshly saved one.
package config

import (
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// Format is the target animation format.
type Format string

const (
	FormatAVIF Format = "avif" // Animated AVIF via libaom-av1 (default).
	FormatWebP Format = "webp" // Animated WebP via libwebp.
)

// Encoder returns the ffmpeg video encoder name for the format.
func (f Format) Encoder() string {
	if f == FormatWebP {
		return "libwebp"
	}
	return "libaom-av1"
}

// Ext returns the output file extension, including the leading dot.
func (f Format) Ext() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".avif"
}

// ScaleFilter selects the ffmpeg scaling algorithm.
type ScaleFilter string

const (
	FilterLanczos  ScaleFilter = "lanczos" // Default.
	FilterBilinear ScaleFilter = "bilinear"
	FilterBicubic  ScaleFilter = "bicubic"
)

// Valid reports whether the filter is one of the supported algorithms.
func (s ScaleFilter) Valid() bool {
	switch s {
	case FilterLanczos, FilterBilinear, FilterBicubic:
		return true
	}
	return false
}

// WebPPreset is the libwebp tuning preset.
type WebPPreset string

// Presets accepted by libwebp's -preset option.
var webpPresets = map[WebPPreset]bool{
	"none": true, "default": true, "photo": true, "picture": true,
	"drawing": true, "icon": true, "text": true,
}

// Valid reports whether the preset is one libwebp accepts.
func (p WebPPreset) Valid() bool { return webpPresets[p] }

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// --- Parameter ranges ---

// Documented encoder parameter ranges. Values outside these ranges are
// rejected when entered directly and clamped when read back from a
// settings file.
const (
	CRFMin = 0
	CRFMax = 63

	CPUUsedMin = 0
	CPUUsedMax = 8

	QualityMin = 0
	QualityMax = 100

	CompressionMin = 0
	CompressionMax = 6
)

// Clamp returns v limited to the inclusive range [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AVIFParams are the encoder parameters for animated AVIF output.
type AVIFParams struct {
	CRF       int         // Constant rate factor, 0-63. Lower is higher quality.
	CPUUsed   int         // libaom speed/quality tradeoff, 0-8.
	MaxWidth  int         // Scale target width in pixels; height follows aspect ratio.
	FrameRate float64     // Output frames per second.
	Filter    ScaleFilter // Scaling algorithm.
}

// Validate rejects out-of-range values. Out-of-range direct input is a user
// error, not something to silently fix.
func (p AVIFParams) Validate() error {
	if p.CRF < CRFMin || p.CRF > CRFMax {
		return fmt.Errorf("crf must be %d-%d (got %d)", CRFMin, CRFMax, p.CRF)
	}
	if p.CPUUsed < CPUUsedMin || p.CPUUsed > CPUUsedMax {
		return fmt.Errorf("cpu-used must be %d-%d (got %d)", CPUUsedMin, CPUUsedMax, p.CPUUsed)
	}
	if p.MaxWidth <= 0 {
		return fmt.Errorf("max width must be positive (got %d)", p.MaxWidth)
	}
	if p.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive (got %g)", p.FrameRate)
	}
	if !p.Filter.Valid() {
		return fmt.Errorf("invalid scale filter %q (use 'lanczos', 'bilinear' or 'bicubic')", p.Filter)
	}
	return nil
}

// WebPParams are the encoder parameters for animated WebP output.
type WebPParams struct {
	Quality          int         // libwebp quality, 0-100. Higher is better.
	CompressionLevel int         // libwebp effort, 0-6. Higher is slower and smaller.
	MaxWidth         int         // Scale target width in pixels; height follows aspect ratio.
	FrameRate        float64     // Output frames per second.
	Filter           ScaleFilter // Scaling algorithm.
	Preset           WebPPreset  // libwebp tuning preset.
}

// Validate rejects out-of-range values.
func (p WebPParams) Validate() error {
	if p.Quality < QualityMin || p.Quality > QualityMax {
		return fmt.Errorf("quality must be %d-%d (got %d)", QualityMin, QualityMax, p.Quality)
	}
	if p.CompressionLevel < CompressionMin || p.CompressionLevel > CompressionMax {
		return fmt.Errorf("compression level must be %d-%d (got %d)", CompressionMin, CompressionMax, p.CompressionLevel)
	}
	if p.MaxWidth <= 0 {
		return fmt.Errorf("max width must be positive (got %d)", p.MaxWidth)
	}
	if p.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive (got %g)", p.FrameRate)
	}
	if !p.Filter.Valid() {
		return fmt.Errorf("invalid scale filter %q (use 'lanczos', 'bilinear' or 'bicubic')", p.Filter)
	}
	if !p.Preset.Valid() {
		return fmt.Errorf("invalid preset %q (use none, default, photo, picture, drawing, icon or text)", p.Preset)
	}
	return nil
}

// ClampAVIF coerces p into documented ranges, falling back to defaults for
// values that cannot be meaningfully clamped (zero width, zero frame rate,
// unknown filter). Used when reading a possibly hand-edited settings file:
// a stale value should never abort startup.
func ClampAVIF(p AVIFParams) AVIFParams {
	p.CRF = Clamp(p.CRF, CRFMin, CRFMax)
	p.CPUUsed = Clamp(p.CPUUsed, CPUUsedMin, CPUUsedMax)
	if p.MaxWidth <= 0 {
		p.MaxWidth = defaultMaxWidth
	}
	if p.FrameRate <= 0 {
		p.FrameRate = defaultAVIFFrameRate
	}
	if !p.Filter.Valid() {
		p.Filter = FilterLanczos
	}
	return p
}

// ClampWebP coerces p into documented ranges; see [ClampAVIF].
func ClampWebP(p WebPParams) WebPParams {
	p.Quality = Clamp(p.Quality, QualityMin, QualityMax)
	p.CompressionLevel = Clamp(p.CompressionLevel, CompressionMin, CompressionMax)
	if p.MaxWidth <= 0 {
		p.MaxWidth = defaultMaxWidth
	}
	if p.FrameRate <= 0 {
		p.FrameRate = defaultWebPFrameRate
	}
	if !p.Filter.Valid() {
		p.Filter = FilterLanczos
	}
	if !p.Preset.Valid() {
		p.Preset = "default"
	}
	return p
}

// Defaults shared by DefaultConfig and the clamp fallbacks.
const (
	defaultMaxWidth      = 720
	defaultAVIFFrameRate = 16
	defaultWebPFrameRate = 15
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid with stored values by the settings package, then mutated by
// flag overrides before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	FFmpegPath   string // Path to the ffmpeg executable; empty means look in PATH.
	InputPath    string // Source video (positional arg).
	OutputPath   string // Target file; empty derives from InputPath and Format.
	LastVideoDir string // Remembered across runs for the next file prompt.

	// Encoding.
	Format Format
	AVIF   AVIFParams
	WebP   WebPParams

	// Behavior flags.
	DryRun    bool // Print the two pass commands without running them.
	CheckOnly bool // Run diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.

	// Settings persistence.
	SettingsFile string // Path of the INI settings store.
}

// DefaultConfig returns a Config with the same defaults the settings file is
// seeded with on first save.
func DefaultConfig() Config {
	return Config{
		Format: FormatAVIF,
		AVIF: AVIFParams{
			CRF:       30,
			CPUUsed:   8,
			MaxWidth:  defaultMaxWidth,
			FrameRate: defaultAVIFFrameRate,
			Filter:    FilterLanczos,
		},
		WebP: WebPParams{
			Quality:          30,
			CompressionLevel: 6,
			MaxWidth:         defaultMaxWidth,
			FrameRate:        defaultWebPFrameRate,
			Filter:           FilterLanczos,
			Preset:           "default",
		},
		ColorMode: ColorAuto,
	}
}

// Validate checks enum fields and the active format's parameter ranges.
// When not in CheckOnly mode, an input path is required.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatAVIF, FormatWebP:
		// valid
	default:
		return fmt.Errorf("invalid format %q (use 'avif' or 'webp')", c.Format)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.Format == FormatAVIF {
		if err := c.AVIF.Validate(); err != nil {
			return err
		}
	} else {
		if err := c.WebP.Validate(); err != nil {
			return err
		}
	}

	if c.CheckOnly {
		return nil
	}
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("need an input video file")
	}
	return nil
}
