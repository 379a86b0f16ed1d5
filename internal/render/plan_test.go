package render

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/ivlev/slidecast/internal/project"
	"github.com/ivlev/slidecast/internal/timeline"
)

const tolerance = 1e-6

func testSettings() Settings {
	return Settings{
		Width:          1920,
		Height:         1080,
		FPS:            30,
		BGColor:        "#000000",
		TransitionType: "fade",
		VideoEncoder:   "libx264",
		Quality:        23,
		SampleRate:     48000,
		IntroDuration:  180,
		OutroDuration:  60,
		Title:          "Demo",
		Copyright:      "© 2024",
	}
}

func buildTestSchedule(t *testing.T, mode timeline.Mode, count int) *timeline.Schedule {
	t.Helper()
	sched, err := timeline.Build(timeline.Request{
		TotalDuration:      600,
		IntroDuration:      180,
		OutroDuration:      60,
		PhotoDuration:      120,
		TransitionDuration: 2,
		PhotoCount:         count,
		Mode:               mode,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return sched
}

func testPhotos(n int) []string {
	photos := make([]string, n)
	for i := range photos {
		photos[i] = fmt.Sprintf("photos/img_%02d.png", i+1)
	}
	return photos
}

func stepNames(plan *Plan) []string {
	names := make([]string, len(plan.Steps))
	for i, s := range plan.Steps {
		names[i] = s.Name
	}
	return names
}

func findStep(t *testing.T, plan *Plan, name string) Step {
	t.Helper()
	for _, s := range plan.Steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("Plan has no step %q (steps: %v)", name, stepNames(plan))
	return Step{}
}

func TestTransitionOffsetsMatchPlacements(t *testing.T) {
	sched := buildTestSchedule(t, timeline.ModeOverlapping, 5)
	offsets := TransitionOffsets(sched)

	if len(offsets) != len(sched.Placements)-1 {
		t.Fatalf("Expected %d offsets, got %d", len(sched.Placements)-1, len(offsets))
	}

	// Each xfade fires exactly where the next placement starts,
	// relative to the slideshow window.
	for i, off := range offsets {
		want := sched.Placements[i+1].Position - sched.Window.Start
		if math.Abs(off-want) > tolerance {
			t.Errorf("Offset %d: got %f, want %f", i, off, want)
		}
	}
}

func TestEmittersAgreeOnTransitionTiming(t *testing.T) {
	sched := buildTestSchedule(t, timeline.ModeOverlapping, 5)

	proj, err := project.Emit(sched, "lecture.mp3", 600, testPhotos(5), nil, project.Meta{
		Width: 1920, Height: 1080, FPS: 30, SampleRate: 48000, Channels: 2, BGColor: "#000000",
	})
	if err != nil {
		t.Fatalf("project.Emit failed: %v", err)
	}

	offsets := TransitionOffsets(sched)
	if len(offsets) != len(proj.Transitions) {
		t.Fatalf("Emitters disagree on transition count: %d vs %d", len(offsets), len(proj.Transitions))
	}

	for i := range offsets {
		declarative := proj.Transitions[i].Position - sched.Window.Start
		if math.Abs(offsets[i]-declarative) > tolerance {
			t.Errorf("Transition %d: render offset %f, declarative %f", i, offsets[i], declarative)
		}
	}
}

func TestBuildPlanStepOrder(t *testing.T) {
	sched := buildTestSchedule(t, timeline.ModeOverlapping, 5)

	plan, err := BuildPlan(sched, testPhotos(5), "lecture.mp3", 600, testSettings(), "/tmp/work", "out.mp4")
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	names := stepNames(plan)
	t.Logf("Plan: %v", names)

	// Segments first, mux last.
	for i := 0; i < 5; i++ {
		want := fmt.Sprintf("segment %d/5", i+1)
		if names[i] != want {
			t.Errorf("Step %d: got %q, want %q", i, names[i], want)
		}
	}
	if names[len(names)-1] != "mux" {
		t.Errorf("Last step must be the audio mux, got %q", names[len(names)-1])
	}

	for _, want := range []string{"slideshow", "intro", "outro", "assemble"} {
		findStep(t, plan, want)
	}
}

func TestBuildPlanXfadeGraph(t *testing.T) {
	sched := buildTestSchedule(t, timeline.ModeOverlapping, 5)

	plan, err := BuildPlan(sched, testPhotos(5), "lecture.mp3", 600, testSettings(), "/tmp/work", "out.mp4")
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	slideshow := findStep(t, plan, "slideshow")
	joined := strings.Join(slideshow.Args, " ")

	if !strings.Contains(joined, "xfade=transition=fade") {
		t.Errorf("Overlapping mode must use xfade: %s", joined)
	}
	// 5 placements -> 4 crossfades.
	if n := strings.Count(joined, "xfade="); n != 4 {
		t.Errorf("Expected 4 xfade filters, got %d", n)
	}
}

func TestBuildPlanSequentialConcat(t *testing.T) {
	sched := buildTestSchedule(t, timeline.ModeSequential, 5)

	plan, err := BuildPlan(sched, testPhotos(5), "lecture.mp3", 600, testSettings(), "/tmp/work", "out.mp4")
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	slideshow := findStep(t, plan, "slideshow")
	joined := strings.Join(slideshow.Args, " ")

	if strings.Contains(joined, "xfade") {
		t.Errorf("Sequential mode must not use xfade: %s", joined)
	}
	if !strings.Contains(joined, "concat=n=5") {
		t.Errorf("Sequential mode must concat all segments: %s", joined)
	}
}

func TestBuildPlanMuxTrimsToAudio(t *testing.T) {
	sched := buildTestSchedule(t, timeline.ModeSequential, 3)

	plan, err := BuildPlan(sched, testPhotos(3), "lecture.mp3", 600, testSettings(), "/tmp/work", "out.mp4")
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	mux := findStep(t, plan, "mux")
	joined := strings.Join(mux.Args, " ")

	if !strings.Contains(joined, "-t 600.000000") {
		t.Errorf("Mux must trim to the audio duration: %s", joined)
	}
	if !strings.Contains(joined, "-shortest") {
		t.Errorf("Mux must not outrun the shorter stream: %s", joined)
	}
	if mux.Args[len(mux.Args)-1] != "out.mp4" {
		t.Errorf("Mux must produce the final output, got %s", mux.Args[len(mux.Args)-1])
	}
}

func TestBuildPlanEmptyWindow(t *testing.T) {
	sched, err := timeline.Build(timeline.Request{
		TotalDuration: 240,
		IntroDuration: 180,
		OutroDuration: 60,
		PhotoDuration: 10,
		PhotoCount:    3,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	plan, err := BuildPlan(sched, testPhotos(3), "lecture.mp3", 240, testSettings(), "/tmp/work", "out.mp4")
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	// Only bumpers, assembly and mux: no segments, no slideshow.
	for _, s := range plan.Steps {
		if strings.HasPrefix(s.Name, "segment") || s.Name == "slideshow" {
			t.Errorf("Empty window must not produce step %q", s.Name)
		}
	}
	findStep(t, plan, "intro")
	findStep(t, plan, "outro")
	findStep(t, plan, "mux")
}

func TestBumperQROverlay(t *testing.T) {
	s := testSettings()
	s.QRPath = "/tmp/work/qr.png"
	s.DrawText = true

	step := bumperStep("outro", 60, s, s.QRPath, "/tmp/work/outro.mp4")
	joined := strings.Join(step.Args, " ")

	if !strings.Contains(joined, "overlay=") {
		t.Errorf("Outro with QR must overlay it: %s", joined)
	}
	if !strings.Contains(joined, s.QRPath) {
		t.Errorf("QR image missing from inputs: %s", joined)
	}
}

func TestQualityArgsPerEncoder(t *testing.T) {
	cases := []struct {
		encoder string
		want    string
	}{
		{"libx264", "-crf"},
		{"h264_nvenc", "-cq"},
		{"h264_videotoolbox", "-b:v"},
	}

	for _, c := range cases {
		args := strings.Join(qualityArgs(c.encoder, 23), " ")
		if !strings.Contains(args, c.want) {
			t.Errorf("%s: expected %s in %q", c.encoder, c.want, args)
		}
	}
}
