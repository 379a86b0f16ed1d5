package timeline

import (
	"errors"
	"fmt"
)

// Mode selects how consecutive placements relate in time.
type Mode int

const (
	// ModeSequential lays placements back to back with no overlap.
	ModeSequential Mode = iota
	// ModeOverlapping extends every placement except the last by the
	// transition duration, so consecutive clips overlap by exactly that
	// amount. The overlap is where the crossfade happens.
	ModeOverlapping
)

func (m Mode) String() string {
	if m == ModeOverlapping {
		return "overlapping"
	}
	return "sequential"
}

// Request is the scheduling input: the audio duration, the intro/outro
// bumpers and the operator's requested per-photo and transition lengths.
type Request struct {
	TotalDuration      float64
	IntroDuration      float64
	OutroDuration      float64
	PhotoDuration      float64 // requested, may be shrunk by FitTiming
	TransitionDuration float64 // requested, may be shrunk by FitTiming
	PhotoCount         int
	Mode               Mode
	AutoShrink         bool // allow intro/outro rescaling when they crowd out the slideshow
}

// Window is the span available for photo placements: everything between
// the intro and the outro.
type Window struct {
	Start  float64
	Length float64
}

func (w Window) End() float64 {
	return w.Start + w.Length
}

// Timing holds the effective durations after fit-adjustment.
type Timing struct {
	PhotoDuration      float64
	TransitionDuration float64
}

// Placement is one scheduled on-screen appearance of a photo.
// Position is absolute within the overall timeline. Duration is the
// declared clip duration, which in overlapping mode includes the
// transition extension for every placement except the last.
type Placement struct {
	PhotoIndex int
	Position   float64
	Duration   float64
	Sequence   int
}

// Schedule is the complete scheduler output. It is computed once per
// run and consumed read-only by exactly one emitter.
type Schedule struct {
	Window     Window
	Timing     Timing
	Mode       Mode
	PhotoCount int
	Placements []Placement
}

// Transitions reports how many crossfades the schedule carries.
func (s *Schedule) Transitions() int {
	if s.Mode != ModeOverlapping || len(s.Placements) < 2 {
		return 0
	}
	return len(s.Placements) - 1
}

// ErrNoPhotos is returned when scheduling is attempted with an empty
// photo set.
var ErrNoPhotos = errors.New("no photos available")

// InfeasibleError reports that the intro and outro do not leave room
// for the slideshow, even after auto-shrink when it was enabled.
type InfeasibleError struct {
	Total   float64
	Intro   float64
	Outro   float64
	Deficit float64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("intro (%.1fs) + outro (%.1fs) exceeds total duration (%.1fs) by %.1fs",
		e.Intro, e.Outro, e.Total, e.Deficit)
}
