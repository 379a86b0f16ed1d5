package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrToolUnavailable means ffmpeg or ffprobe is not installed. Fatal
// for the run; the message carries remediation guidance.
var ErrToolUnavailable = errors.New("ffmpeg/ffprobe not found, install FFmpeg from https://ffmpeg.org/download.html")

// AudioDuration returns the duration of a media file in seconds using
// ffprobe.
func AudioDuration(ctx context.Context, path string) (float64, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return 0, ErrToolUnavailable
	}

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("reading duration of %s: %v: %s", path, err, strings.TrimSpace(string(out)))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output for %s: %q", path, strings.TrimSpace(string(out)))
	}
	if duration < 0 {
		return 0, fmt.Errorf("negative duration %f for %s", duration, path)
	}

	return duration, nil
}

// CheckTools verifies that both ffmpeg and ffprobe are on PATH.
func CheckTools() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrToolUnavailable
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrToolUnavailable
	}
	return nil
}

// BestH264Encoder picks a hardware encoder when ffmpeg advertises one.
// Priority: VideoToolbox (macOS), NVENC (NVIDIA), then software x264.
func BestH264Encoder(ctx context.Context) string {
	candidates := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, enc := range candidates {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// CheckFilterSupport reports whether the installed ffmpeg build carries
// the named filter (drawtext needs libfreetype, not every build has it).
func CheckFilterSupport(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-filters")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), " "+name+" ")
}
