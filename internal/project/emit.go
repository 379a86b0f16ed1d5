package project

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ivlev/slidecast/internal/catalog"
	"github.com/ivlev/slidecast/internal/timeline"
)

const (
	audioLayer = 1
	photoLayer = 2

	// fadeShape is the blend resource every crossfade references.
	fadeShape = "shapes/linear_fade.svg"
)

// Meta carries the export settings stamped into the project header.
type Meta struct {
	Width      int
	Height     int
	FPS        int
	SampleRate int
	Channels   int
	BGColor    string
}

// Emit maps a schedule onto the two-layer project model. The audio
// track spans the whole timeline on its own layer; photo placements
// share the layer above. Crossfade descriptors appear only for
// overlapping schedules, one per adjacent pair.
func Emit(sched *timeline.Schedule, audioPath string, audioDuration float64, photos []string, dims []catalog.Dimensions, meta Meta) (*Project, error) {
	if sched.PhotoCount != len(photos) {
		return nil, fmt.Errorf("schedule was built for %d photos, got %d", sched.PhotoCount, len(photos))
	}

	p := &Project{
		ID:         uuid.NewString(),
		Generator:  "slidecast",
		Width:      meta.Width,
		Height:     meta.Height,
		FPS:        Fraction{Num: meta.FPS, Den: 1},
		SampleRate: meta.SampleRate,
		Channels:   meta.Channels,
		BGColor:    meta.BGColor,
		Duration:   audioDuration,
	}

	audioID := uuid.NewString()
	p.Files = append(p.Files, File{ID: audioID, Path: audioPath, Media: "audio"})

	photoIDs := make([]string, len(photos))
	for i, photo := range photos {
		photoIDs[i] = uuid.NewString()
		f := File{ID: photoIDs[i], Path: photo, Media: "image"}
		if i < len(dims) {
			f.Width = dims[i].Width
			f.Height = dims[i].Height
		}
		p.Files = append(p.Files, f)
	}

	p.Clips = append(p.Clips, Clip{
		ID:       uuid.NewString(),
		FileID:   audioID,
		Layer:    audioLayer,
		Position: 0,
		Duration: audioDuration,
	})

	for _, pl := range sched.Placements {
		p.Clips = append(p.Clips, Clip{
			ID:       uuid.NewString(),
			FileID:   photoIDs[pl.PhotoIndex],
			Layer:    photoLayer,
			Position: pl.Position,
			Duration: pl.Duration,
		})
	}

	if n := sched.Transitions(); n > 0 {
		shapeID := uuid.NewString()
		p.Shapes = append(p.Shapes, Shape{ID: shapeID, Resource: fadeShape})

		// One descriptor per adjacent pair, sitting at the incoming
		// clip's start. Its span is exactly the scheduled overlap.
		for i := 1; i < len(sched.Placements); i++ {
			p.Transitions = append(p.Transitions, Transition{
				ID:       uuid.NewString(),
				ShapeID:  shapeID,
				Layer:    photoLayer,
				Position: sched.Placements[i].Position,
				Duration: sched.Timing.TransitionDuration,
			})
		}
	}

	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}
