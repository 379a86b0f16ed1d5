package catalog

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// PDFSource treats each page of a PDF (an exported slide deck) as one
// photo. Pages are rasterized once into exportDir and the slideshow
// then works off the resulting PNGs like any other folder.
type PDFSource struct {
	photos []string
}

func NewPDFSource(path string, exportDir string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: PDF %s has no pages", ErrNoPhotos, path)
	}

	photos := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("rasterizing page %d: %w", i+1, err)
		}

		out := filepath.Join(exportDir, fmt.Sprintf("page_%04d.png", i+1))
		f, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing page %d: %w", i+1, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		photos = append(photos, out)
	}

	return &PDFSource{photos: photos}, nil
}

func (s *PDFSource) Photos() []string {
	return s.photos
}

func (s *PDFSource) Count() int {
	return len(s.photos)
}

func (s *PDFSource) Close() error {
	return nil
}
