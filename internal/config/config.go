package config

import (
	"fmt"
	"regexp"
	"runtime"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config carries everything a run needs: inputs, the requested timing
// and the export settings.
type Config struct {
	AudioPath  string `koanf:"audio"`
	PhotosPath string `koanf:"photos"`

	OutputVideo   string `koanf:"output_video"`
	OutputProject string `koanf:"output_project"`
	DumpSchedule  string `koanf:"dump_schedule"`

	PhotoDuration  float64 `koanf:"photo_duration"`
	FadeDuration   float64 `koanf:"fade_duration"`
	TransitionType string  `koanf:"transition"`
	IntroDuration  float64 `koanf:"intro_duration"`
	OutroDuration  float64 `koanf:"outro_duration"`
	AutoShrink     bool    `koanf:"auto_shrink"`

	BGColor    string `koanf:"bg_color"`
	Width      int    `koanf:"width"`
	Height     int    `koanf:"height"`
	FPS        int    `koanf:"fps"`
	SampleRate int    `koanf:"sample_rate"`
	Channels   int    `koanf:"channels"`

	Title     string `koanf:"title"`
	Copyright string `koanf:"copyright"`
	QRLink    string `koanf:"qr_link"`

	VideoEncoder string `koanf:"video_encoder"`
	Quality      int    `koanf:"quality"`
	Workers      int    `koanf:"workers"`
	DPI          int    `koanf:"dpi"`
	Verbose      bool   `koanf:"verbose"`
}

// Default returns the YouTube-oriented defaults: 2 minutes per photo,
// 2 second crossfades, 3 minute intro, 1 minute outro, 1080p30.
func Default() Config {
	return Config{
		PhotoDuration:  120,
		FadeDuration:   2,
		TransitionType: "fade",
		IntroDuration:  180,
		OutroDuration:  60,
		BGColor:        "#000000",
		Width:          1920,
		Height:         1080,
		FPS:            30,
		SampleRate:     48000,
		Channels:       2,
		Title:          "Demo",
		Copyright:      "© 2024",
		Quality:        23,
		Workers:        runtime.NumCPU(),
		DPI:            150,
	}
}

// LoadFile merges a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return cfg, err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the fields the pipeline cannot sanity-check later.
func (c *Config) Validate() error {
	if !hexColorPattern.MatchString(c.BGColor) {
		return fmt.Errorf("invalid background color %q, expected hex triplet like #1a2b3c", c.BGColor)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", c.FPS)
	}
	if c.PhotoDuration <= 0 {
		return fmt.Errorf("photo duration must be positive, got %f", c.PhotoDuration)
	}
	if c.FadeDuration < 0 {
		return fmt.Errorf("fade duration must not be negative, got %f", c.FadeDuration)
	}
	if c.IntroDuration < 0 || c.OutroDuration < 0 {
		return fmt.Errorf("intro/outro durations must not be negative, got %f/%f", c.IntroDuration, c.OutroDuration)
	}
	return nil
}
