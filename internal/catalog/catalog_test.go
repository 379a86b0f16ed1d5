package catalog

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("Encoding %s: %v", path, err)
	}
}

func TestFolderSourceSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()

	writeTestPNG(t, filepath.Join(dir, "photo_02.png"), 4, 4)
	writeTestPNG(t, filepath.Join(dir, "photo_01.png"), 4, 4)
	writeTestPNG(t, filepath.Join(dir, "photo_10.png"), 4, 4)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644)
	os.WriteFile(filepath.Join(dir, "track.mp3"), []byte("skip me"), 0644)

	src, err := NewFolderSource(dir)
	if err != nil {
		t.Fatalf("NewFolderSource failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 3 {
		t.Fatalf("Expected 3 photos, got %d", src.Count())
	}

	want := []string{"photo_01.png", "photo_02.png", "photo_10.png"}
	for i, p := range src.Photos() {
		if filepath.Base(p) != want[i] {
			t.Errorf("Photo %d: got %s, want %s", i, filepath.Base(p), want[i])
		}
	}
}

func TestFolderSourceEmpty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "readme.md"), []byte("no images here"), 0644)

	_, err := NewFolderSource(dir)
	if !errors.Is(err, ErrNoPhotos) {
		t.Fatalf("Expected ErrNoPhotos, got %v", err)
	}
}

func TestFolderSourceMissing(t *testing.T) {
	_, err := NewFolderSource(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Expected error for missing folder")
	}
	t.Logf("Got expected error: %v", err)
}

func TestProbeDimensions(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "a.png"), 640, 480)
	writeTestPNG(t, filepath.Join(dir, "b.png"), 1920, 1080)

	src, err := NewFolderSource(dir)
	if err != nil {
		t.Fatalf("NewFolderSource failed: %v", err)
	}

	dims, err := ProbeDimensions(context.Background(), src.Photos(), 4)
	if err != nil {
		t.Fatalf("ProbeDimensions failed: %v", err)
	}

	if dims[0].Width != 640 || dims[0].Height != 480 {
		t.Errorf("a.png: got %dx%d", dims[0].Width, dims[0].Height)
	}
	if dims[1].Width != 1920 || dims[1].Height != 1080 {
		t.Errorf("b.png: got %dx%d", dims[1].Width, dims[1].Height)
	}
}

func TestProbeDimensionsBadFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.png")
	os.WriteFile(bad, []byte("not a png"), 0644)

	_, err := ProbeDimensions(context.Background(), []string{bad}, 1)
	if err == nil {
		t.Fatal("Expected decode error")
	}
}
