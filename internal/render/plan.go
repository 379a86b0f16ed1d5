package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivlev/slidecast/internal/timeline"
)

// Settings holds the encoding parameters for one render.
type Settings struct {
	Width          int
	Height         int
	FPS            int
	BGColor        string
	TransitionType string // xfade transition name, e.g. "fade"
	VideoEncoder   string
	Quality        int
	SampleRate     int

	IntroDuration float64
	OutroDuration float64
	Title         string
	Copyright     string
	DrawText      bool   // requires an ffmpeg build with drawtext
	QRPath        string // optional overlay image for the outro
}

// Step is one encoder invocation. Steps run strictly in order; each
// one's output is an input of a later one.
type Step struct {
	Name string
	Args []string
}

// Plan is the full ordered instruction list for the render backend.
type Plan struct {
	Steps   []Step
	WorkDir string
	Output  string
}

// TransitionOffsets returns the xfade offset for every crossfade,
// relative to the slideshow start. Offsets accumulate the same way the
// schedule positions do, so both emitters derive identical timing.
func TransitionOffsets(sched *timeline.Schedule) []float64 {
	n := sched.Transitions()
	if n == 0 {
		return nil
	}

	offsets := make([]float64, n)
	offset := 0.0
	for i := 1; i <= n; i++ {
		offset += sched.Placements[i-1].Duration - sched.Timing.TransitionDuration
		offsets[i-1] = offset
	}
	return offsets
}

// BuildPlan maps a schedule onto ffmpeg invocations: one segment per
// placement, slideshow assembly (xfade graph or concat), solid-color
// intro/outro bumpers and the final audio mux trimmed to the audio
// duration. Pure; nothing touches the filesystem until the executor
// runs the plan.
func BuildPlan(sched *timeline.Schedule, photos []string, audioPath string, audioDuration float64, s Settings, workDir, output string) (*Plan, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos to render")
	}

	plan := &Plan{WorkDir: workDir, Output: output}

	segments := make([]string, len(sched.Placements))
	for i, pl := range sched.Placements {
		seg := filepath.Join(workDir, fmt.Sprintf("seg_%03d.mp4", i))
		segments[i] = seg

		args := []string{
			"-y",
			"-loop", "1",
			"-i", photos[pl.PhotoIndex],
			"-t", formatSeconds(pl.Duration),
			"-vf", aspectFilter(s),
			"-r", fmt.Sprintf("%d", s.FPS),
			"-pix_fmt", "yuv420p",
			"-c:v", s.VideoEncoder,
		}
		args = append(args, qualityArgs(s.VideoEncoder, s.Quality)...)
		args = append(args, seg)

		plan.Steps = append(plan.Steps, Step{
			Name: fmt.Sprintf("segment %d/%d", i+1, len(sched.Placements)),
			Args: args,
		})
	}

	slideshow := ""
	switch {
	case len(segments) == 0:
		// Intro + outro consumed the whole audio. Nothing to assemble.
	case len(segments) == 1:
		slideshow = segments[0]
	case sched.Mode == timeline.ModeOverlapping && sched.Timing.TransitionDuration > 0:
		slideshow = filepath.Join(workDir, "slideshow.mp4")
		plan.Steps = append(plan.Steps, xfadeStep(sched, segments, slideshow, s))
	default:
		slideshow = filepath.Join(workDir, "slideshow.mp4")
		plan.Steps = append(plan.Steps, concatStep("slideshow", segments, slideshow, s))
	}

	var parts []string
	if s.IntroDuration > 0 {
		intro := filepath.Join(workDir, "intro.mp4")
		plan.Steps = append(plan.Steps, bumperStep("intro", s.IntroDuration, s, "", intro))
		parts = append(parts, intro)
	}
	if slideshow != "" {
		parts = append(parts, slideshow)
	}
	if s.OutroDuration > 0 {
		outro := filepath.Join(workDir, "outro.mp4")
		plan.Steps = append(plan.Steps, bumperStep("outro", s.OutroDuration, s, s.QRPath, outro))
		parts = append(parts, outro)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("nothing to render: empty schedule and zero-length bumpers")
	}

	assembled := parts[0]
	if len(parts) > 1 {
		assembled = filepath.Join(workDir, "assembled.mp4")
		plan.Steps = append(plan.Steps, concatStep("assemble", parts, assembled, s))
	}

	muxArgs := []string{
		"-y",
		"-i", assembled,
		"-i", audioPath,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-ar", fmt.Sprintf("%d", s.SampleRate),
		"-t", formatSeconds(audioDuration),
		"-shortest",
		output,
	}
	plan.Steps = append(plan.Steps, Step{Name: "mux", Args: muxArgs})

	return plan, nil
}

// xfadeStep chains every segment pair through an xfade filter. Offsets
// accumulate declared duration minus transition, mirroring the overlap
// the scheduler produced.
func xfadeStep(sched *timeline.Schedule, segments []string, out string, s Settings) Step {
	args := []string{"-y"}
	for _, seg := range segments {
		args = append(args, "-i", seg)
	}

	offsets := TransitionOffsets(sched)

	var graph strings.Builder
	last := "[0:v]"
	for i := 1; i < len(segments); i++ {
		next := fmt.Sprintf("[%d:v]", i)
		label := fmt.Sprintf("[v%d]", i)
		fmt.Fprintf(&graph, "%s%sxfade=transition=%s:duration=%s:offset=%s%s;",
			last, next, s.TransitionType,
			formatSeconds(sched.Timing.TransitionDuration),
			formatSeconds(offsets[i-1]), label)
		last = label
	}

	args = append(args,
		"-filter_complex", strings.TrimSuffix(graph.String(), ";"),
		"-map", last,
		"-pix_fmt", "yuv420p",
		"-c:v", s.VideoEncoder,
	)
	args = append(args, qualityArgs(s.VideoEncoder, s.Quality)...)
	args = append(args, out)

	return Step{Name: "slideshow", Args: args}
}

func concatStep(name string, inputs []string, out string, s Settings) Step {
	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	var graph strings.Builder
	for i := range inputs {
		fmt.Fprintf(&graph, "[%d:v]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[vout]", len(inputs))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[vout]",
		"-pix_fmt", "yuv420p",
		"-c:v", s.VideoEncoder,
	)
	args = append(args, qualityArgs(s.VideoEncoder, s.Quality)...)
	args = append(args, out)

	return Step{Name: name, Args: args}
}

// bumperStep renders a solid-color title screen, optionally with
// title/copyright text and an overlay image (the outro QR code).
func bumperStep(name string, duration float64, s Settings, overlay string, out string) Step {
	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s",
			s.BGColor, s.Width, s.Height, s.FPS, formatSeconds(duration)),
	}

	var filters []string
	if s.DrawText && s.Title != "" {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':x=(w-text_w)/2:y=(h-text_h)/2:fontsize=72:fontcolor=white",
			escapeText(s.Title)))
	}
	if s.DrawText && s.Copyright != "" {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':x=(w-text_w)/2:y=h-text_h-40:fontsize=28:fontcolor=white",
			escapeText(s.Copyright)))
	}

	if overlay != "" {
		args = append(args, "-i", overlay)
		graph := "[1:v]scale=256:256[qr];[0:v][qr]overlay=W-w-40:H-h-40[base]"
		label := "[base]"
		for i, f := range filters {
			next := fmt.Sprintf("[txt%d]", i)
			graph += fmt.Sprintf(";%s%s%s", label, f, next)
			label = next
		}
		args = append(args, "-filter_complex", graph, "-map", label)
	} else if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}

	args = append(args,
		"-t", formatSeconds(duration),
		"-pix_fmt", "yuv420p",
		"-c:v", s.VideoEncoder,
	)
	args = append(args, qualityArgs(s.VideoEncoder, s.Quality)...)
	args = append(args, out)

	return Step{Name: name, Args: args}
}

// qualityArgs adapts the quality knob to the active encoder. Hardware
// encoders don't take CRF.
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func aspectFilter(s Settings) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s",
		s.Width, s.Height, s.Width, s.Height, s.BGColor)
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

func escapeText(text string) string {
	replacer := strings.NewReplacer("'", "\\'", ":", "\\:", "%", "\\%")
	return replacer.Replace(text)
}
