package settings

import (
	"os"
	"path/filepath"
	"testing"

	"vid2anim/internal/config"
)

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	want := cfg

	path := filepath.Join(t.TempDir(), "does-not-exist.ini")
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	if cfg != want {
		t.Errorf("Load changed config despite missing file:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")

	saved := config.DefaultConfig()
	saved.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
	saved.LastVideoDir = "/videos"
	saved.Format = config.FormatWebP
	saved.AVIF.CRF = 22
	saved.AVIF.CPUUsed = 4
	saved.AVIF.MaxWidth = 1280
	saved.AVIF.FrameRate = 23.976
	saved.AVIF.Filter = config.FilterBicubic
	saved.WebP.Quality = 80
	saved.WebP.CompressionLevel = 4
	saved.WebP.MaxWidth = 640
	saved.WebP.FrameRate = 12
	saved.WebP.Filter = config.FilterBilinear
	saved.WebP.Preset = "picture"

	if err := Save(path, &saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := config.DefaultConfig()
	if err := Load(path, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.FFmpegPath != saved.FFmpegPath {
		t.Errorf("FFmpegPath = %q, want %q", loaded.FFmpegPath, saved.FFmpegPath)
	}
	if loaded.LastVideoDir != saved.LastVideoDir {
		t.Errorf("LastVideoDir = %q, want %q", loaded.LastVideoDir, saved.LastVideoDir)
	}
	if loaded.Format != saved.Format {
		t.Errorf("Format = %q, want %q", loaded.Format, saved.Format)
	}
	if loaded.AVIF != saved.AVIF {
		t.Errorf("AVIF params = %+v, want %+v", loaded.AVIF, saved.AVIF)
	}
	if loaded.WebP != saved.WebP {
		t.Errorf("WebP params = %+v, want %+v", loaded.WebP, saved.WebP)
	}
}

func TestLoad_ClampsOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	// A hand-edited file with values outside their documented ranges.
	content := `[Settings]
format = avif
crf = 99
cpu_used = -2
max_width_avif = 0
frame_rate_avif = -5
scale_filter_avif = nearest
quality_webp = 250
compression_level = 42
preset_webp = turbo
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AVIF.CRF != config.CRFMax {
		t.Errorf("CRF = %d, want clamped %d", cfg.AVIF.CRF, config.CRFMax)
	}
	if cfg.AVIF.CPUUsed != config.CPUUsedMin {
		t.Errorf("CPUUsed = %d, want clamped %d", cfg.AVIF.CPUUsed, config.CPUUsedMin)
	}
	if cfg.AVIF.MaxWidth != 720 {
		t.Errorf("MaxWidth = %d, want fallback 720", cfg.AVIF.MaxWidth)
	}
	if cfg.AVIF.FrameRate != 16 {
		t.Errorf("FrameRate = %g, want fallback 16", cfg.AVIF.FrameRate)
	}
	if cfg.AVIF.Filter != config.FilterLanczos {
		t.Errorf("Filter = %q, want fallback lanczos", cfg.AVIF.Filter)
	}
	if cfg.WebP.Quality != config.QualityMax {
		t.Errorf("Quality = %d, want clamped %d", cfg.WebP.Quality, config.QualityMax)
	}
	if cfg.WebP.CompressionLevel != config.CompressionMax {
		t.Errorf("CompressionLevel = %d, want clamped %d", cfg.WebP.CompressionLevel, config.CompressionMax)
	}
	if cfg.WebP.Preset != "default" {
		t.Errorf("Preset = %q, want fallback default", cfg.WebP.Preset)
	}

	// Clamped values must always pass validation.
	if err := cfg.AVIF.Validate(); err != nil {
		t.Errorf("loaded AVIF params should validate: %v", err)
	}
	if err := cfg.WebP.Validate(); err != nil {
		t.Errorf("loaded WebP params should validate: %v", err)
	}
}

func TestLoad_UnknownFormatFallsBackToAVIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := os.WriteFile(path, []byte("[Settings]\nformat = gif\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != config.FormatAVIF {
		t.Errorf("Format = %q, want avif fallback", cfg.Format)
	}
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.ini")
	cfg := config.DefaultConfig()

	if err := Save(path, &cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file not written: %v", err)
	}
}
