package timeline

import (
	"fmt"
	"math"
)

// timeEpsilon absorbs float residue when walking the window, so a
// schedule never gains a zero-length trailing placement.
const timeEpsilon = 1e-9

// FitTiming shrinks the requested durations until they fit the window.
// Every photo in the set gets shown at least once, and the transition
// never exceeds half the shortest clip it blends — including the
// clipped final clip — which keeps the overlap math in BuildSchedule
// valid.
func FitTiming(windowLength float64, photoCount int, requestedPhoto, requestedTransition float64) Timing {
	photo := requestedPhoto
	if photoCount > 0 && windowLength > 0 {
		maxPerPhoto := windowLength / float64(photoCount)
		if maxPerPhoto > 0 && maxPerPhoto < photo {
			photo = maxPerPhoto
		}
	}

	// The walk in BuildSchedule clips the last placement to whatever
	// remains of the window; a crossfade must fit inside that runt too.
	shortest := photo
	if photoCount > 1 && windowLength > 0 && photo > 0 {
		steps := math.Ceil((windowLength - timeEpsilon) / photo)
		if last := windowLength - (steps-1)*photo; last > timeEpsilon && last < shortest {
			shortest = last
		}
	}

	transition := requestedTransition
	if transition > shortest/2 {
		transition = shortest / 2
	}

	return Timing{PhotoDuration: photo, TransitionDuration: transition}
}

// BuildSchedule walks the window from start to end, placing photos
// round-robin. The last placement is clipped to fill the window
// exactly. A single photo produces one placement spanning the whole
// window and never gets transitions: there is nothing to fade into.
func BuildSchedule(win Window, photoCount int, timing Timing, mode Mode) ([]Placement, error) {
	if photoCount <= 0 {
		return nil, ErrNoPhotos
	}
	if win.Length <= 0 {
		// Intro + outro consumed the whole duration. Valid, just empty.
		return []Placement{}, nil
	}
	if timing.PhotoDuration <= 0 {
		return nil, fmt.Errorf("photo duration %.3fs is not positive for a %.1fs window", timing.PhotoDuration, win.Length)
	}

	if photoCount == 1 {
		return []Placement{{PhotoIndex: 0, Position: win.Start, Duration: win.Length, Sequence: 0}}, nil
	}

	maxSteps := int(math.Ceil(win.Length/timing.PhotoDuration)) + 1

	var placements []Placement
	current := win.Start
	for step := 0; current < win.End()-timeEpsilon; step++ {
		if step >= maxSteps {
			return nil, fmt.Errorf("schedule did not converge after %d steps (photo=%.3fs window=%.3fs)",
				maxSteps, timing.PhotoDuration, win.Length)
		}

		remaining := win.End() - current
		clip := timing.PhotoDuration
		if remaining < clip {
			clip = remaining
		}

		placements = append(placements, Placement{
			PhotoIndex: step % photoCount,
			Position:   current,
			Duration:   clip,
			Sequence:   step,
		})
		current += clip
	}

	if mode == ModeOverlapping && timing.TransitionDuration > 0 {
		// Extend every clip but the last so the next one starts inside
		// it. The scheduled positions stay untouched.
		for i := 0; i < len(placements)-1; i++ {
			placements[i].Duration += timing.TransitionDuration
		}
	}

	return placements, nil
}

// Build runs the full scheduling pass: bumper validation (with the
// auto-shrink policy when requested), fit-adjustment and placement.
// All errors are raised before any placement is computed.
func Build(req Request) (*Schedule, error) {
	if req.PhotoCount <= 0 {
		return nil, ErrNoPhotos
	}

	intro, outro := req.IntroDuration, req.OutroDuration
	if req.AutoShrink {
		intro, outro = ShrinkBumpers(req.TotalDuration, intro, outro)
	}

	windowLength := req.TotalDuration - intro - outro
	if windowLength < 0 {
		return nil, &InfeasibleError{
			Total:   req.TotalDuration,
			Intro:   intro,
			Outro:   outro,
			Deficit: -windowLength,
		}
	}

	win := Window{Start: intro, Length: windowLength}
	timing := FitTiming(windowLength, req.PhotoCount, req.PhotoDuration, req.TransitionDuration)

	mode := req.Mode
	if req.PhotoCount == 1 {
		mode = ModeSequential
	}

	placements, err := BuildSchedule(win, req.PhotoCount, timing, mode)
	if err != nil {
		return nil, err
	}

	return &Schedule{
		Window:     win,
		Timing:     timing,
		Mode:       mode,
		PhotoCount: req.PhotoCount,
		Placements: placements,
	}, nil
}
