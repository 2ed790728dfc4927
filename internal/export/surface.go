package export

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mdi/siteplan/internal/background"
	"github.com/mdi/siteplan/internal/render"
)

// rasterSurface is a render.Surface backed by a draw2d graphic context.
// Text is drawn with a fixed bitmap face at the transformed anchor; it is
// not rotated with the shape.
type rasterSurface struct {
	dst  *image.RGBA
	gc   *draw2dimg.GraphicContext
	bg   *background.Image
	face font.Face

	fill  color.Color
	fills []color.Color
}

var _ render.Surface = (*rasterSurface)(nil)
var _ render.ImageSurface = (*rasterSurface)(nil)

func newRasterSurface(dst *image.RGBA, bg *background.Image) *rasterSurface {
	return &rasterSurface{
		dst:  dst,
		gc:   draw2dimg.NewGraphicContext(dst),
		bg:   bg,
		face: basicfont.Face7x13,
		fill: color.Black,
	}
}

func (s *rasterSurface) Save() {
	s.gc.Save()
	s.fills = append(s.fills, s.fill)
}

func (s *rasterSurface) Restore() {
	s.gc.Restore()
	if n := len(s.fills); n > 0 {
		s.fill = s.fills[n-1]
		s.fills = s.fills[:n-1]
	}
}

func (s *rasterSurface) Translate(x, y float64) { s.gc.Translate(x, y) }
func (s *rasterSurface) Rotate(radians float64) { s.gc.Rotate(radians) }

func (s *rasterSurface) BeginPath()          { s.gc.BeginPath() }
func (s *rasterSurface) MoveTo(x, y float64) { s.gc.MoveTo(x, y) }
func (s *rasterSurface) LineTo(x, y float64) { s.gc.LineTo(x, y) }
func (s *rasterSurface) ClosePath()          { s.gc.Close() }

func (s *rasterSurface) Circle(cx, cy, r float64) {
	draw2dkit.Circle(s.gc, cx, cy, r)
}

func (s *rasterSurface) SetStrokeColor(c color.Color) { s.gc.SetStrokeColor(c) }

func (s *rasterSurface) SetFillColor(c color.Color) {
	s.fill = c
	s.gc.SetFillColor(c)
}

func (s *rasterSurface) SetLineWidth(w float64) { s.gc.SetLineWidth(w) }

func (s *rasterSurface) Stroke()     { s.gc.Stroke() }
func (s *rasterSurface) Fill()       { s.gc.Fill() }
func (s *rasterSurface) FillStroke() { s.gc.FillStroke() }

func (s *rasterSurface) FillRect(x, y, w, h float64) {
	s.gc.BeginPath()
	draw2dkit.Rectangle(s.gc, x, y, x+w, y+h)
	s.gc.Fill()
}

func (s *rasterSurface) FillText(text string, x, y float64, style render.TextStyle) {
	tx, ty := s.gc.GetMatrixTransform().TransformPoint(x, y)

	d := &font.Drawer{
		Dst:  s.dst,
		Src:  image.NewUniform(s.fill),
		Face: s.face,
	}
	if style.Align == render.AlignCenter {
		tx -= float64(d.MeasureString(text).Round()) / 2
	}
	d.Dot = fixed.P(int(tx+0.5), int(ty+0.5))
	d.DrawString(text)

	if style.Bold {
		d.Dot = fixed.P(int(tx+0.5)+1, int(ty+0.5))
		d.DrawString(text)
	}
}

func (s *rasterSurface) DrawBackground(p render.BackgroundPlacement) {
	if s.bg == nil {
		return
	}
	w, h := int(p.Width+0.5), int(p.Height+0.5)
	x, y := int(p.Offset.X+0.5), int(p.Offset.Y+0.5)
	src := s.bg.Scaled(w, h)
	draw.Draw(s.dst, image.Rect(x, y, x+w, y+h), src, src.Bounds().Min, draw.Over)
}
