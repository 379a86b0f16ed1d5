package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source yields the ordered photo set for a slideshow. Order is stable:
// sorted by file name, so re-running a project gives the same sequence.
type Source interface {
	Photos() []string
	Count() int
	Close() error
}

// ErrNoPhotos is returned when a folder contains no recognized images.
var ErrNoPhotos = errors.New("no photos found")

var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
}

// FolderSource reads a directory of image files.
type FolderSource struct {
	photos []string
}

func NewFolderSource(dir string) (*FolderSource, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("photos folder not found: %s", dir)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("photos path is not a folder: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading photos folder: %w", err)
	}

	var photos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if validExtensions[ext] {
			photos = append(photos, filepath.Join(dir, entry.Name()))
		}
	}

	if len(photos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPhotos, dir)
	}

	sort.Strings(photos)
	return &FolderSource{photos: photos}, nil
}

func (s *FolderSource) Photos() []string {
	return s.photos
}

func (s *FolderSource) Count() int {
	return len(s.photos)
}

func (s *FolderSource) Close() error {
	return nil
}
