package catalog

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/sync/errgroup"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Dimensions is the pixel size of a photo, used for project metadata.
type Dimensions struct {
	Width  int
	Height int
}

// ProbeDimensions reads the header of every photo concurrently.
// Results keep the input order.
func ProbeDimensions(ctx context.Context, photos []string, workers int) ([]Dimensions, error) {
	if workers < 1 {
		workers = 1
	}

	dims := make([]Dimensions, len(photos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range photos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := probeOne(path)
			if err != nil {
				return err
			}
			dims[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dims, nil
}

func probeOne(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
