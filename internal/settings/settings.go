// Package settings persists encoder parameters and the ffmpeg path across
// runs in a flat INI file. A missing file is not an error: loading it leaves
// the defaults untouched, and the first save creates it.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"

	"vid2anim/internal/config"
)

// section is the single INI section all keys live under.
const section = "Settings"

// DefaultPath returns the per-user settings file location, falling back to
// the working directory when the user config dir cannot be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "vid2anim.ini"
	}
	return filepath.Join(dir, "vid2anim", "settings.ini")
}

// Load reads the settings file at path into cfg. Values are parsed
// individually so one bad key never discards the rest, and numeric values
// are clamped into their documented ranges afterwards: a hand-edited file
// must not abort startup. A missing file leaves cfg at its defaults.
func Load(path string, cfg *config.Config) error {
	f, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("read settings %q: %w", path, err)
	}
	sec := f.Section(section)

	cfg.FFmpegPath = sec.Key("ffmpeg_path").MustString(cfg.FFmpegPath)
	cfg.LastVideoDir = sec.Key("last_video_dir").MustString(cfg.LastVideoDir)

	switch sec.Key("format").MustString(string(cfg.Format)) {
	case string(config.FormatWebP):
		cfg.Format = config.FormatWebP
	default:
		cfg.Format = config.FormatAVIF
	}

	cfg.AVIF.CRF = sec.Key("crf").MustInt(cfg.AVIF.CRF)
	cfg.AVIF.CPUUsed = sec.Key("cpu_used").MustInt(cfg.AVIF.CPUUsed)
	cfg.AVIF.MaxWidth = sec.Key("max_width_avif").MustInt(cfg.AVIF.MaxWidth)
	cfg.AVIF.FrameRate = sec.Key("frame_rate_avif").MustFloat64(cfg.AVIF.FrameRate)
	cfg.AVIF.Filter = config.ScaleFilter(sec.Key("scale_filter_avif").MustString(string(cfg.AVIF.Filter)))

	cfg.WebP.Quality = sec.Key("quality_webp").MustInt(cfg.WebP.Quality)
	cfg.WebP.CompressionLevel = sec.Key("compression_level").MustInt(cfg.WebP.CompressionLevel)
	cfg.WebP.MaxWidth = sec.Key("max_width_webp").MustInt(cfg.WebP.MaxWidth)
	cfg.WebP.FrameRate = sec.Key("frame_rate_webp").MustFloat64(cfg.WebP.FrameRate)
	cfg.WebP.Filter = config.ScaleFilter(sec.Key("scale_filter_webp").MustString(string(cfg.WebP.Filter)))
	cfg.WebP.Preset = config.WebPPreset(sec.Key("preset_webp").MustString(string(cfg.WebP.Preset)))

	cfg.AVIF = config.ClampAVIF(cfg.AVIF)
	cfg.WebP = config.ClampWebP(cfg.WebP)
	return nil
}

// Save writes the persistent subset of cfg to the settings file at path,
// creating the parent directory if needed. Transient fields (input/output
// paths, behavior flags) are deliberately not stored.
func Save(path string, cfg *config.Config) error {
	f := ini.Empty()
	sec := f.Section(section)

	sec.Key("ffmpeg_path").SetValue(cfg.FFmpegPath)
	sec.Key("last_video_dir").SetValue(cfg.LastVideoDir)
	sec.Key("format").SetValue(string(cfg.Format))

	sec.Key("crf").SetValue(strconv.Itoa(cfg.AVIF.CRF))
	sec.Key("cpu_used").SetValue(strconv.Itoa(cfg.AVIF.CPUUsed))
	sec.Key("max_width_avif").SetValue(strconv.Itoa(cfg.AVIF.MaxWidth))
	sec.Key("frame_rate_avif").SetValue(formatRate(cfg.AVIF.FrameRate))
	sec.Key("scale_filter_avif").SetValue(string(cfg.AVIF.Filter))

	sec.Key("quality_webp").SetValue(strconv.Itoa(cfg.WebP.Quality))
	sec.Key("compression_level").SetValue(strconv.Itoa(cfg.WebP.CompressionLevel))
	sec.Key("max_width_webp").SetValue(strconv.Itoa(cfg.WebP.MaxWidth))
	sec.Key("frame_rate_webp").SetValue(formatRate(cfg.WebP.FrameRate))
	sec.Key("scale_filter_webp").SetValue(string(cfg.WebP.Filter))
	sec.Key("preset_webp").SetValue(string(cfg.WebP.Preset))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory %q: %w", dir, err)
		}
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("write settings %q: %w", path, err)
	}
	return nil
}

// formatRate renders a frame rate without trailing zeros ("16", "23.976").
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
