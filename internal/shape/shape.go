// Package shape holds the polygon entity and the collection that owns all
// shapes of a session along with the active selection.
package shape

import (
	"math"

	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/typeid"
)

// Defaults applied by NewRectangle when an input is missing or invalid.
const (
	DefaultLength   = 20.0
	DefaultWidth    = 12.0
	DefaultRotation = 0.0
)

// Shape is a polygon placed in world space by Origin and Rotation.
//
// Vertices are stored in the local, unrotated, unit-scaled frame. Scale and
// rotation are never baked into them.
type Shape struct {
	ID       string       `json:"id"`
	Category Category     `json:"category"`
	Origin   geom.Point   `json:"origin"`
	Rotation float64      `json:"rotation"`
	Vertices []geom.Point `json:"vertices"`
}

// NewRectangle builds a length x width rectangle anchored at origin with
// vertices (0,0) -> (L,0) -> (L,W) -> (0,W).
func NewRectangle(category Category, length, width, rotation float64, origin geom.Point) *Shape {
	if !positiveFinite(length) {
		length = DefaultLength
	}
	if !positiveFinite(width) {
		width = DefaultWidth
	}
	if math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		rotation = DefaultRotation
	}

	return &Shape{
		ID:       typeid.NewShapeID(),
		Category: category,
		Origin:   origin,
		Rotation: rotation,
		Vertices: []geom.Point{
			{X: 0, Y: 0},
			{X: length, Y: 0},
			{X: length, Y: width},
			{X: 0, Y: width},
		},
	}
}

func positiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Area is the polygon area in square real-world units.
func (s *Shape) Area() float64 {
	return geom.PolygonArea(s.Vertices)
}

// Bounds is the local-frame bounding box of the vertices.
func (s *Shape) Bounds() geom.Bounds {
	return geom.BoundingBox(s.Vertices)
}

// ScaledVertices returns the vertices multiplied by pixelsPerUnit, still in
// the shape's rotated frame.
func (s *Shape) ScaledVertices(pixelsPerUnit float64) []geom.Point {
	return geom.ScaleVertices(s.Vertices, pixelsPerUnit)
}

// WorldVertices returns the derived screen positions of the vertices.
func (s *Shape) WorldVertices(pixelsPerUnit float64) []geom.Point {
	m := geom.Placement(s.Origin, s.Rotation, pixelsPerUnit)
	out := make([]geom.Point, len(s.Vertices))
	for i, v := range s.Vertices {
		out[i] = m.Apply(v)
	}
	return out
}

// EdgeLengths returns the length of each edge i -> i+1 (cyclic) in local units.
func (s *Shape) EdgeLengths() []float64 {
	n := len(s.Vertices)
	out := make([]float64, n)
	for i := range s.Vertices {
		out[i] = s.Vertices[i].Distance(s.Vertices[(i+1)%n])
	}
	return out
}

// Clone returns a deep copy.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Vertices = append([]geom.Point(nil), s.Vertices...)
	return &c
}
