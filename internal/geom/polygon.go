package geom

import "math"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) * 0.5, Y: (b.MinY + b.MaxY) * 0.5}
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// PolygonArea returns the unsigned shoelace area of the polygon.
// Fewer than three vertices yields 0.
func PolygonArea(vertices []Point) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
	}
	return math.Abs(sum) / 2
}

// BoundingBox returns the extrema of vertices. Callers must not pass an
// empty slice; the result would be the inverted infinite box.
func BoundingBox(vertices []Point) Bounds {
	b := Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
	for _, p := range vertices {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// PointInPolygon tests p against the polygon with the even-odd rule.
// p and vertices must be in the same space. Points exactly on an edge may
// go either way.
func PointInPolygon(p Point, vertices []Point) bool {
	inside := false
	n := len(vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		// The straddle check excludes horizontal edges before dividing.
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// ScaleVertices returns a copy of vertices multiplied by factor.
func ScaleVertices(vertices []Point, factor float64) []Point {
	out := make([]Point, len(vertices))
	for i, v := range vertices {
		out[i] = v.Scale(factor)
	}
	return out
}

// WorldToLocal maps a world point into a shape's rotated-but-unscaled frame:
// translate by -origin, then rotate by -rotation.
func WorldToLocal(world, origin Point, rotationDegrees float64) Point {
	return world.Sub(origin).Rotate(-rotationDegrees)
}

// LocalToWorld is the inverse placement for a local vertex: scale by
// pixelsPerUnit, rotate by rotation, then translate by origin.
func LocalToWorld(local, origin Point, rotationDegrees, pixelsPerUnit float64) Point {
	return local.Scale(pixelsPerUnit).Rotate(rotationDegrees).Add(origin)
}
