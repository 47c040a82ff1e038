package config

// This file implements CLI flag parsing and help text.
// Numeric encoder parameters are captured as strings and applied after Parse,
// so stored settings hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Overrides holds flag values that are applied on top of the loaded settings.
// Numeric fields stay as strings until [ApplyOverrides] so "flag not passed"
// is distinguishable from a legitimate zero.
type Overrides struct {
	crf         string
	cpuUsed     string
	quality     string
	compression string
	maxWidth    string
	frameRate   string
	scaleFilter string
	preset      string
	ffmpegPath  string
	format      string

	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// ParseFlags parses os.Args into cfg and returns the override set to apply
// after the settings file has been loaded. On --help or --version it prints
// and exits. On error it returns non-nil (e.g. unknown flag).
func ParseFlags(cfg *Config, version string) (*Overrides, error) {
	fs := flag.NewFlagSet("vid2anim", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var ov Overrides

	defineEncodingFlags(fs, &ov)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &ov)
	defineUtilityFlags(fs, cfg, &ov)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	if ov.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if ov.showVersion {
		fmt.Fprintln(os.Stdout, "vid2anim v"+version)
		os.Exit(0)
	}

	if ov.noColor {
		cfg.ColorMode = ColorNever
	} else if ov.forceColor {
		cfg.ColorMode = ColorAlways
	}

	if err := parsePositionalArgs(fs, cfg); err != nil {
		return nil, err
	}
	return &ov, nil
}

// defineEncodingFlags registers format, ffmpeg path, and parameter overrides.
func defineEncodingFlags(fs *flag.FlagSet, ov *Overrides) {
	fs.StringVar(&ov.format, "format", "", "Output format: avif | webp")
	fs.StringVar(&ov.format, "F", "", "Same as --format")
	fs.StringVar(&ov.ffmpegPath, "ffmpeg", "", "Path to the ffmpeg executable")
	fs.StringVar(&ov.crf, "crf", "", "AVIF constant rate factor (0-63)")
	fs.StringVar(&ov.cpuUsed, "cpu-used", "", "AVIF libaom speed (0-8)")
	fs.StringVar(&ov.quality, "quality", "", "WebP quality (0-100)")
	fs.StringVar(&ov.quality, "q", "", "Same as --quality")
	fs.StringVar(&ov.compression, "compression-level", "", "WebP compression effort (0-6)")
	fs.StringVar(&ov.maxWidth, "max-width", "", "Scale target width in pixels")
	fs.StringVar(&ov.maxWidth, "w", "", "Same as --max-width")
	fs.StringVar(&ov.frameRate, "fps", "", "Output frame rate")
	fs.StringVar(&ov.frameRate, "r", "", "Same as --fps")
	fs.StringVar(&ov.scaleFilter, "scale-filter", "", "Scaling algorithm: lanczos | bilinear | bicubic")
	fs.StringVar(&ov.preset, "preset", "", "WebP preset (none, default, photo, picture, drawing, icon, text)")
	fs.StringVar(&ov.preset, "p", "", "Same as --preset")
}

// defineBehaviorFlags registers output path, dry-run, and settings location.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputPath, "output", "", "Output file (default: input with .avif/.webp suffix)")
	fs.StringVar(&cfg.OutputPath, "o", "", "Same as --output")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print the two pass commands without encoding")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "Settings file location")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, ov *Overrides) {
	fs.BoolVar(&ov.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&ov.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (includes ffmpeg progress)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run ffmpeg/encoder diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, ov *Overrides) {
	fs.BoolVar(&ov.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&ov.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&ov.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&ov.showHelp, "h", false, "Same as --help")
}

// parsePositionalArgs sets InputPath from the single positional arg when not
// in CheckOnly mode. The input is optional here; Validate rejects its absence
// after the settings file had a chance to fill in defaults.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if len(args) > 1 {
		return fmt.Errorf("expected a single input video, got %d arguments", len(args))
	}
	if len(args) == 1 {
		cfg.InputPath = args[0]
	}
	return nil
}

// ApplyOverrides copies flag-supplied values into cfg on top of the loaded
// settings. Precedence: flag > settings file > defaults. Parse errors on the
// numeric flags are reported with the flag name.
func ApplyOverrides(cfg *Config, ov *Overrides) error {
	if ov.ffmpegPath != "" {
		cfg.FFmpegPath = ov.ffmpegPath
	}
	if ov.format != "" {
		switch strings.ToLower(ov.format) {
		case "avif":
			cfg.Format = FormatAVIF
		case "webp":
			cfg.Format = FormatWebP
		default:
			return fmt.Errorf("invalid format %q (use 'avif' or 'webp')", ov.format)
		}
	}

	if err := applyInt(ov.crf, "crf", &cfg.AVIF.CRF); err != nil {
		return err
	}
	if err := applyInt(ov.cpuUsed, "cpu-used", &cfg.AVIF.CPUUsed); err != nil {
		return err
	}
	if err := applyInt(ov.quality, "quality", &cfg.WebP.Quality); err != nil {
		return err
	}
	if err := applyInt(ov.compression, "compression-level", &cfg.WebP.CompressionLevel); err != nil {
		return err
	}
	if err := applyInt(ov.maxWidth, "max-width", &cfg.AVIF.MaxWidth, &cfg.WebP.MaxWidth); err != nil {
		return err
	}
	if err := applyFloat(ov.frameRate, "fps", &cfg.AVIF.FrameRate, &cfg.WebP.FrameRate); err != nil {
		return err
	}
	if ov.scaleFilter != "" {
		f := ScaleFilter(strings.ToLower(ov.scaleFilter))
		if !f.Valid() {
			return fmt.Errorf("invalid scale filter %q (use 'lanczos', 'bilinear' or 'bicubic')", ov.scaleFilter)
		}
		cfg.AVIF.Filter = f
		cfg.WebP.Filter = f
	}
	if ov.preset != "" {
		p := WebPPreset(strings.ToLower(ov.preset))
		if !p.Valid() {
			return fmt.Errorf("invalid preset %q", ov.preset)
		}
		cfg.WebP.Preset = p
	}
	return nil
}

// applyInt parses s as an integer and stores it in every destination.
// Empty s means the flag was not passed; destinations are left alone.
func applyInt(s, name string, dsts ...*int) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	for _, d := range dsts {
		*d = n
	}
	return nil
}

// applyFloat parses s as a number and stores it in every destination.
func applyFloat(s, name string, dsts ...*float64) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("%s must be a number (got %q)", name, s)
	}
	for _, d := range dsts {
		*d = v
	}
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vid2anim v" + version + " - animated AVIF/WebP converter (two-pass ffmpeg)"},
		{"", ""},
		{"  vid2anim [OPTIONS] <input video>", ""},
		{"", ""},
		{"Encoding", ""},
		{"  -F, --format <avif|webp>", "Output format (default: avif)"},
		{"  --ffmpeg <path>", "ffmpeg executable (default: stored path or $PATH)"},
		{"  --crf <0-63>", "AVIF quality; lower is better (default: 30)"},
		{"  --cpu-used <0-8>", "AVIF speed/quality tradeoff (default: 8)"},
		{"  -q, --quality <0-100>", "WebP quality; higher is better (default: 30)"},
		{"  --compression-level <0-6>", "WebP effort (default: 6)"},
		{"  -w, --max-width <px>", "Scale width; height keeps aspect (default: 720)"},
		{"  -r, --fps <rate>", "Output frame rate (default: 16 avif / 15 webp)"},
		{"  --scale-filter <name>", "lanczos | bilinear | bicubic (default: lanczos)"},
		{"  -p, --preset <name>", "WebP preset (default: default)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -o, --output <path>", "Output file (default: input with new suffix)"},
		{"  -d, --dry-run", "Print both pass commands; do not encode"},
		{"  --settings <path>", "Settings file location"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Diagnostics (ffmpeg, libaom-av1, libwebp)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
