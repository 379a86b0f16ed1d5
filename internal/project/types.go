package project

import "fmt"

// Project is the editable, human-diffable description of one run: the
// audio track on its own layer, every photo placement on a shared
// layer above it, and one crossfade descriptor per adjacent pair.
type Project struct {
	ID         string   `json:"id"`
	Generator  string   `json:"generator"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	FPS        Fraction `json:"fps"`
	SampleRate int      `json:"sample_rate"`
	Channels   int      `json:"channels"`
	BGColor    string   `json:"bg_color"`
	Duration   float64  `json:"duration"`

	Files       []File       `json:"files"`
	Shapes      []Shape      `json:"shapes"`
	Clips       []Clip       `json:"clips"`
	Transitions []Transition `json:"transitions"`
}

// Fraction is a rational frame rate, e.g. 30/1.
type Fraction struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

// File is a declared source file. Every clip references one by id.
type File struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Media  string `json:"media"` // "audio" or "image"
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Shape is a blend-shape resource for transitions.
type Shape struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
}

// Clip is one placement of a source on a layer.
type Clip struct {
	ID       string  `json:"id"`
	FileID   string  `json:"file_id"`
	Layer    int     `json:"layer"`
	Position float64 `json:"position"` // absolute start on the timeline
	Duration float64 `json:"duration"`
}

// Transition is one crossfade between two adjacent photo clips. It sits
// exactly at the incoming clip's start and spans the overlap.
type Transition struct {
	ID       string  `json:"id"`
	ShapeID  string  `json:"shape_id"`
	Layer    int     `json:"layer"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// Check verifies internal consistency: every clip resolves to a
// declared file and every transition to a declared shape.
func (p *Project) Check() error {
	files := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		files[f.ID] = true
	}
	shapes := make(map[string]bool, len(p.Shapes))
	for _, s := range p.Shapes {
		shapes[s.ID] = true
	}

	for _, c := range p.Clips {
		if !files[c.FileID] {
			return fmt.Errorf("clip %s references undeclared file %s", c.ID, c.FileID)
		}
	}
	for _, t := range p.Transitions {
		if !shapes[t.ShapeID] {
			return fmt.Errorf("transition %s references undeclared shape %s", t.ID, t.ShapeID)
		}
	}
	return nil
}
