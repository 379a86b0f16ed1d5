package project

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/slidecast/internal/timeline"
)

// SchedulePreview is a YAML dump of the computed schedule, for checking
// the timing before committing to a long render.
type SchedulePreview struct {
	Mode               string             `yaml:"mode"`
	WindowStart        float64            `yaml:"window_start"`
	WindowLength       float64            `yaml:"window_length"`
	PhotoDuration      float64            `yaml:"photo_duration"`
	TransitionDuration float64            `yaml:"transition_duration"`
	Placements         []PlacementPreview `yaml:"placements"`
}

type PlacementPreview struct {
	Sequence int     `yaml:"seq"`
	Photo    string  `yaml:"photo"`
	Start    float64 `yaml:"start"`
	End      float64 `yaml:"end"`
}

// WriteSchedulePreview writes the schedule as YAML.
func WriteSchedulePreview(sched *timeline.Schedule, photos []string, path string) error {
	preview := SchedulePreview{
		Mode:               sched.Mode.String(),
		WindowStart:        sched.Window.Start,
		WindowLength:       sched.Window.Length,
		PhotoDuration:      sched.Timing.PhotoDuration,
		TransitionDuration: sched.Timing.TransitionDuration,
	}

	for _, pl := range sched.Placements {
		photo := ""
		if pl.PhotoIndex < len(photos) {
			photo = filepath.Base(photos[pl.PhotoIndex])
		}
		preview.Placements = append(preview.Placements, PlacementPreview{
			Sequence: pl.Sequence,
			Photo:    photo,
			Start:    pl.Position,
			End:      pl.Position + pl.Duration,
		})
	}

	data, err := yaml.Marshal(&preview)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
