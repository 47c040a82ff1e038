// Package encode builds and executes the two sequential ffmpeg invocations
// that produce an animated AVIF or WebP file.
//
// Pass 1 analyzes the source and writes rate statistics to a temp-dir
// pass log while the video output goes to the platform null device; pass 2
// reads the statistics and writes the final file. Both passes share the same
// scale/frame-rate filters and encoder flags.
//
// Split into job.go, builder.go, executor.go, errors.go.
package encode
