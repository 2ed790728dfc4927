// Package background decodes the reference raster a site plan is drawn over
// and places it on the viewport.
package background

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/render"
	"github.com/mdi/siteplan/internal/typeid"
)

var ErrUnreadable = errors.New("background: unreadable image")

// Image is a decoded background. It is safe for concurrent use; renders
// may run outside the session lock.
type Image struct {
	ID     string
	Name   string
	src    image.Image
	width  int
	height int

	mu     sync.Mutex
	scaled map[image.Point]image.Image
}

// Decode reads a PNG, JPEG or GIF.
func Decode(r io.Reader, name string) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, name, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty image", ErrUnreadable, name)
	}
	return &Image{
		ID:     typeid.NewBackgroundID(),
		Name:   name,
		src:    img,
		width:  b.Dx(),
		height: b.Dy(),
		scaled: make(map[image.Point]image.Image),
	}, nil
}

// Load decodes the image file at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Size returns the intrinsic pixel dimensions.
func (img *Image) Size() (int, int) {
	return img.width, img.height
}

// Source returns the decoded raster at intrinsic size.
func (img *Image) Source() image.Image {
	return img.src
}

// FitScale is the largest scale at which the whole image fits the viewport.
func (img *Image) FitScale(viewW, viewH float64) float64 {
	if viewW <= 0 || viewH <= 0 {
		return 1
	}
	return min(viewW/float64(img.width), viewH/float64(img.height))
}

// Placement centers the fitted image in the viewport.
func (img *Image) Placement(viewW, viewH float64) render.BackgroundPlacement {
	scale := img.FitScale(viewW, viewH)
	w := float64(img.width) * scale
	h := float64(img.height) * scale
	return render.BackgroundPlacement{
		ID:     img.ID,
		Offset: geom.Pt((viewW-w)/2, (viewH-h)/2),
		Width:  w,
		Height: h,
		Scale:  scale,
	}
}

// Scaled returns the image resampled to w x h, cached per size.
func (img *Image) Scaled(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if w == img.width && h == img.height {
		return img.src
	}

	key := image.Pt(w, h)
	img.mu.Lock()
	defer img.mu.Unlock()
	if cached, ok := img.scaled[key]; ok {
		return cached
	}
	out := imaging.Resize(img.src, w, h, imaging.Lanczos)
	img.scaled[key] = out
	return out
}
