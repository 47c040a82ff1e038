package encode

import (
	"fmt"
	"runtime"
	"strconv"

	"vid2anim/internal/config"
)

// Pass numbers for the two-pass encode.
const (
	PassAnalysis = 1 // Collects rate statistics; output is discarded.
	PassEncode   = 2 // Produces the final file using the pass-1 statistics.
)

// BuildArgs constructs the complete ffmpeg argument slice for one pass.
// Both passes share the same scale/frame-rate filters and encoder flags so
// the statistics collected in pass 1 match what pass 2 encodes; only the
// pass number and the output destination differ.
//
// passLog is the -passlogfile prefix; ffmpeg appends "-0.log" to it. It must
// point somewhere writable (the executor uses a per-job temp directory).
func BuildArgs(ffmpegPath string, job *Job, pass int, passLog string, verbose bool) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, ffmpegPath, "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error.
	if verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input ---
	args = append(args, "-i", job.InputPath)

	// --- Scale and frame-rate filters (shared by both passes) ---
	width, rate, filter := scaleSettings(job)
	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:-2:flags=%s", width, filter),
		"-r", formatRate(rate),
	)

	// --- Encoder flags ---
	args = appendEncoderFlags(args, job)

	// --- Pass control ---
	args = append(args,
		"-pass", strconv.Itoa(pass),
		"-passlogfile", passLog,
	)

	// --- Output ---
	if pass == PassAnalysis {
		args = append(args, "-f", "null", nullTarget())
	} else {
		args = append(args, "-loop", "0", job.OutputPath)
	}

	return args
}

// appendEncoderFlags adds the format-specific codec arguments.
func appendEncoderFlags(args []string, job *Job) []string {
	switch job.Format {
	case config.FormatWebP:
		args = append(args,
			"-c:v", "libwebp",
			"-quality", strconv.Itoa(job.WebP.Quality),
			"-compression_level", strconv.Itoa(job.WebP.CompressionLevel),
		)
		if job.WebP.Preset != "none" {
			args = append(args, "-preset", string(job.WebP.Preset))
		}
	default: // AVIF
		args = append(args,
			"-c:v", "libaom-av1",
			"-crf", strconv.Itoa(job.AVIF.CRF),
			"-b:v", "0", // CRF mode; no bitrate target.
			"-cpu-used", strconv.Itoa(job.AVIF.CPUUsed),
			"-pix_fmt", "yuv420p",
		)
	}
	return args
}

// scaleSettings returns the width/rate/filter for the job's active format.
func scaleSettings(job *Job) (width int, rate float64, filter config.ScaleFilter) {
	if job.Format == config.FormatWebP {
		return job.WebP.MaxWidth, job.WebP.FrameRate, job.WebP.Filter
	}
	return job.AVIF.MaxWidth, job.AVIF.FrameRate, job.AVIF.Filter
}

// formatRate renders a frame rate without trailing zeros ("16", "23.976").
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// nullTarget is the discard destination for the analysis pass. The null
// muxer does not write anything, but ffmpeg still requires an output name.
func nullTarget() string {
	if runtime.GOOS == "windows" {
		return "NUL"
	}
	return "/dev/null"
}
