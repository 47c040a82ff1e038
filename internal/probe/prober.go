// Package probe reads basic source video properties via a single ffprobe
// JSON call. The result is informational only; a probe failure never stops
// a conversion.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
)

// Result holds the subset of stream/format data worth showing before an
// encode: what the source is, how big, and how fast.
type Result struct {
	Codec       string
	Width       int
	Height      int
	DurationSec float64
	BitRate     int64  // bits per second; 0 when unknown
	FrameRate   string // raw avg_frame_rate, e.g. "24000/1001"
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (r *Result) Resolution() string {
	if r.Width <= 0 || r.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Probe runs ffprobe against path and returns the parsed result.
// ffmpegPath locates a sibling ffprobe next to an explicitly configured
// ffmpeg binary; otherwise PATH is used.
func Probe(ctx context.Context, ffmpegPath, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, proberPath(ffmpegPath),
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// proberPath prefers an ffprobe that lives next to the configured ffmpeg,
// so a portable ffmpeg install does not silently mix with a system ffprobe.
func proberPath(ffmpegPath string) string {
	name := "ffprobe"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if dir := filepath.Dir(ffmpegPath); ffmpegPath != "" && dir != "." {
		sibling := filepath.Join(dir, name)
		if _, err := os.Stat(sibling); err == nil {
			return sibling
		}
	}
	return "ffprobe"
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	r := &Result{}
	r.DurationSec, _ = strconv.ParseFloat(raw.Format.Duration, 64)
	r.BitRate, _ = strconv.ParseInt(raw.Format.BitRate, 10, 64)

	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" {
			continue
		}
		r.Codec = s.CodecName
		r.Width = s.Width
		r.Height = s.Height
		r.FrameRate = s.AvgFrameRate
		break
	}
	if r.Codec == "" {
		return nil, fmt.Errorf("no video stream found")
	}
	return r, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
}
