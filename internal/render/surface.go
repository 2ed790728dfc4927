// Package render compiles a session snapshot into an ordered sequence of 2D
// drawing primitives against an abstract Surface.
package render

import (
	"image/color"

	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/shape"
)

// Align is horizontal text alignment relative to the anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

func (a Align) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// TextStyle describes how FillText places a label.
type TextStyle struct {
	Size  float64
	Bold  bool
	Align Align
}

// Surface is the drawing target. Transform calls compose with the current
// transform as in Canvas2D. Stroke, Fill and FillStroke consume the current
// path.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Circle(cx, cy, r float64)

	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	SetLineWidth(w float64)

	Stroke()
	Fill()
	FillStroke()
	FillRect(x, y, w, h float64)
	FillText(text string, x, y float64, style TextStyle)
}

// ImageSurface is implemented by surfaces that can paint the background.
type ImageSurface interface {
	DrawBackground(p BackgroundPlacement)
}

// BackgroundPlacement is where the background raster lands on the viewport.
type BackgroundPlacement struct {
	ID     string     `json:"id"`
	Offset geom.Point `json:"offset"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Scale  float64    `json:"scale"`
}

// Scene is a read-only snapshot of everything needed to draw one frame.
type Scene struct {
	Width  float64
	Height float64

	Shapes   []*shape.Shape
	ActiveID string

	// Scale is the render scale: pixels per unit when calibrated, else 1.
	Scale    float64
	ScaleSet bool

	// Markers are calibration points picked so far.
	Markers []geom.Point

	Background *BackgroundPlacement

	LengthUnit string
	AreaUnit   string
}
