package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
}

func TestValidateColor(t *testing.T) {
	cases := []struct {
		color string
		ok    bool
	}{
		{"#000000", true},
		{"#c7958b", true},
		{"#FFFFFF", true},
		{"ffffff", false},
		{"#fff", false},
		{"#gggggg", false},
		{"", false},
	}

	for _, c := range cases {
		cfg := Default()
		cfg.BGColor = c.color
		err := cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("Color %q should be valid: %v", c.color, err)
		}
		if !c.ok && err == nil {
			t.Errorf("Color %q should be rejected", c.color)
		}
	}
}

func TestValidateDurations(t *testing.T) {
	cfg := Default()
	cfg.PhotoDuration = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Zero photo duration should be rejected")
	}

	cfg = Default()
	cfg.FadeDuration = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Negative fade duration should be rejected")
	}

	cfg = Default()
	cfg.IntroDuration = -5
	if err := cfg.Validate(); err == nil {
		t.Error("Negative intro duration should be rejected")
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidecast.yaml")
	content := "photo_duration: 90\nbg_color: \"#c7958b\"\ntitle: Lecture 12\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.PhotoDuration != 90 {
		t.Errorf("photo_duration: got %f, want 90", cfg.PhotoDuration)
	}
	if cfg.BGColor != "#c7958b" {
		t.Errorf("bg_color: got %s", cfg.BGColor)
	}
	if cfg.Title != "Lecture 12" {
		t.Errorf("title: got %s", cfg.Title)
	}
	// Untouched keys keep their defaults.
	if cfg.FadeDuration != 2 {
		t.Errorf("fade_duration default lost: got %f", cfg.FadeDuration)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("resolution default lost: got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}
