package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/shape"
)

var (
	white        = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black        = color.RGBA{A: 0xff}
	activeHandle = color.RGBA{R: 0xff, G: 0xff, B: 0xcc, A: 0xff}
	markerColor  = color.RGBA{R: 0xe0, G: 0x10, B: 0x10, A: 0xff}
)

const (
	handleRadius = 6.0
	markerRadius = 4.0

	// Shapes smaller than this in either screen dimension get their area
	// label above the origin instead of centered.
	labelFitPx = 80.0
)

// Draw paints a full frame in painter's order: background, then per shape
// outline, handles, area label and (when calibrated) edge dimensions, then
// calibration markers.
func Draw(s Surface, sc Scene) {
	if sc.Background != nil {
		if is, ok := s.(ImageSurface); ok {
			is.DrawBackground(*sc.Background)
		} else {
			clearViewport(s, sc)
		}
	} else {
		clearViewport(s, sc)
	}

	scale := sc.Scale
	if scale <= 0 {
		scale = 1
	}

	for _, sh := range sc.Shapes {
		if len(sh.Vertices) == 0 {
			continue
		}
		active := sh.ID == sc.ActiveID
		drawOutline(s, sh, scale, active)
		drawHandles(s, sh, scale, active)
		drawAreaLabel(s, sh, scale, unitOr(sc.AreaUnit, "SF"))
		if sc.ScaleSet {
			drawDimensions(s, sh, scale, unitOr(sc.LengthUnit, "ft"))
		}
	}

	drawMarkers(s, sc.Markers)
}

func clearViewport(s Surface, sc Scene) {
	s.SetFillColor(white)
	s.FillRect(0, 0, sc.Width, sc.Height)
}

func unitOr(u, def string) string {
	if u == "" {
		return def
	}
	return u
}

func place(s Surface, sh *shape.Shape) {
	s.Translate(sh.Origin.X, sh.Origin.Y)
	s.Rotate(geom.Radians(sh.Rotation))
}

func drawOutline(s Surface, sh *shape.Shape, scale float64, active bool) {
	s.Save()
	defer s.Restore()
	place(s, sh)

	s.BeginPath()
	s.MoveTo(sh.Vertices[0].X*scale, sh.Vertices[0].Y*scale)
	for _, v := range sh.Vertices[1:] {
		s.LineTo(v.X*scale, v.Y*scale)
	}
	s.ClosePath()

	s.SetStrokeColor(sh.Category.Color())
	if active {
		s.SetLineWidth(3)
	} else {
		s.SetLineWidth(2)
	}
	s.Stroke()
}

func drawHandles(s Surface, sh *shape.Shape, scale float64, active bool) {
	s.Save()
	defer s.Restore()
	place(s, sh)

	if active {
		s.SetFillColor(activeHandle)
	} else {
		s.SetFillColor(white)
	}
	s.SetStrokeColor(black)
	s.SetLineWidth(1.5)

	for _, v := range sh.Vertices {
		s.BeginPath()
		s.Circle(v.X*scale, v.Y*scale, handleRadius)
		s.FillStroke()
	}
}

// AreaLabel is the area annotation for a shape, e.g. "240 SF".
func AreaLabel(sh *shape.Shape, unit string) string {
	return fmt.Sprintf("%d %s", int64(math.Round(sh.Area())), unit)
}

func drawAreaLabel(s Surface, sh *shape.Shape, scale float64, unit string) {
	b := sh.Bounds()
	fits := b.Width()*scale > labelFitPx && b.Height()*scale > labelFitPx

	s.Save()
	defer s.Restore()
	place(s, sh)

	s.SetFillColor(black)
	style := TextStyle{Size: 14, Align: AlignCenter}
	if fits {
		c := b.Center().Scale(scale)
		s.FillText(AreaLabel(sh, unit), c.X, c.Y, style)
	} else {
		s.FillText(AreaLabel(sh, unit), 0, -10, style)
	}
}

// DimensionLabels returns one "N ft" label per edge i -> i+1.
func DimensionLabels(sh *shape.Shape, unit string) []string {
	lengths := sh.EdgeLengths()
	out := make([]string, len(lengths))
	for i, l := range lengths {
		out[i] = fmt.Sprintf("%d %s", int64(math.Round(l)), unit)
	}
	return out
}

func drawDimensions(s Surface, sh *shape.Shape, scale float64, unit string) {
	s.Save()
	defer s.Restore()
	place(s, sh)

	s.SetFillColor(black)
	s.SetStrokeColor(black)
	s.SetLineWidth(1)

	labels := DimensionLabels(sh, unit)
	n := len(sh.Vertices)
	for i := range sh.Vertices {
		mid := sh.Vertices[i].Add(sh.Vertices[(i+1)%n]).Scale(0.5 * scale)
		s.FillText(labels[i], mid.X, mid.Y-4, TextStyle{Size: 12})
	}
}

func drawMarkers(s Surface, markers []geom.Point) {
	if len(markers) == 0 {
		return
	}
	s.Save()
	defer s.Restore()
	s.SetFillColor(markerColor)
	for _, m := range markers {
		s.BeginPath()
		s.Circle(m.X, m.Y, markerRadius)
		s.Fill()
	}
}
