// Package export composes the site plan into a static PNG: background,
// shapes with their annotations, and a title block with the coverage
// summary and a legend.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/llgcode/draw2d/draw2dkit"

	"github.com/mdi/siteplan/internal/background"
	"github.com/mdi/siteplan/internal/compliance"
	"github.com/mdi/siteplan/internal/render"
	"github.com/mdi/siteplan/internal/shape"
)

var ErrEmptyViewport = errors.New("export: viewport has no area")

var (
	panelFill   = color.RGBA{R: 0xf7, G: 0xf7, B: 0xf7, A: 0xff}
	panelBorder = color.RGBA{A: 0xff}
)

// Panel is the title block rectangle in viewport pixels.
type Panel struct {
	X, Y, Width, Height float64
}

// DefaultPanel fits the summary lines and a six-entry legend.
var DefaultPanel = Panel{X: 16, Y: 16, Width: 260, Height: 290}

// Snapshot is everything needed to compose one export. It must not share
// mutable state with a live session.
type Snapshot struct {
	Scene      render.Scene
	Background *background.Image
	Summary    compliance.Summary
}

// Composer renders snapshots to raster images.
type Composer struct {
	FirmName string
	AreaUnit string
	Panel    Panel
}

// NewComposer returns a composer using DefaultPanel.
func NewComposer(firmName, areaUnit string) *Composer {
	if areaUnit == "" {
		areaUnit = "SF"
	}
	return &Composer{
		FirmName: firmName,
		AreaUnit: areaUnit,
		Panel:    DefaultPanel,
	}
}

// Compose draws the snapshot onto a new image the size of the viewport.
func (c *Composer) Compose(snap Snapshot) (*image.RGBA, error) {
	w, h := int(snap.Scene.Width), int(snap.Scene.Height)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyViewport
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s := newRasterSurface(dst, snap.Background)

	// The background may not cover the viewport; start from white.
	s.SetFillColor(color.White)
	s.FillRect(0, 0, float64(w), float64(h))

	scene := snap.Scene
	if snap.Background == nil {
		scene.Background = nil
	}
	render.Draw(s, scene)

	c.drawTitleBlock(s, snap.Summary)
	return dst, nil
}

// WritePNG composes the snapshot and encodes it as PNG.
func (c *Composer) WritePNG(w io.Writer, snap Snapshot) error {
	img, err := c.Compose(snap)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (c *Composer) drawTitleBlock(s *rasterSurface, sum compliance.Summary) {
	p := c.Panel

	s.Save()
	defer s.Restore()
	s.Translate(p.X, p.Y)

	s.SetFillColor(panelFill)
	s.SetStrokeColor(panelBorder)
	s.SetLineWidth(4)
	s.BeginPath()
	draw2dkit.RoundedRectangle(s.gc, 0, 0, p.Width, p.Height, 12, 12)
	s.FillStroke()

	s.SetFillColor(color.Black)
	s.FillText(c.FirmName, 16, 32, render.TextStyle{Size: 16, Bold: true})

	lines := SummaryLines(sum, c.AreaUnit)
	y := 56.0
	for i, line := range lines {
		s.FillText(line, 16, y, render.TextStyle{Size: 13})
		if i == 0 {
			y += 22
		} else {
			y += 18
		}
	}

	legendY := 160.0
	for _, cat := range shape.Categories() {
		s.SetFillColor(cat.Color())
		s.FillRect(16, legendY-12, 16, 16)

		s.SetStrokeColor(color.Black)
		s.SetLineWidth(1)
		s.BeginPath()
		draw2dkit.Rectangle(s.gc, 16, legendY-12, 32, legendY+4)
		s.Stroke()

		s.SetFillColor(color.Black)
		s.FillText(cat.Label(), 40, legendY, render.TextStyle{Size: 13})
		legendY += 20
	}
}

// SummaryLines is the text of the title block summary.
func SummaryLines(sum compliance.Summary, areaUnit string) []string {
	return []string{
		"Impervious Summary",
		"Site Area: " + sum.SiteAreaText() + " " + areaUnit,
		"Impervious Area: " + sum.ImperviousAreaText() + " " + areaUnit,
		"Impervious %: " + sum.PercentText(),
		"Status: " + string(sum.Status),
	}
}
