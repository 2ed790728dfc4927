package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rect(l, w float64) []Point {
	return []Point{{0, 0}, {l, 0}, {l, w}, {0, w}}
}

func TestPolygonArea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vertices []Point
		want     float64
	}{
		{"rectangle", rect(20, 12), 240},
		{"clockwise rectangle", []Point{{0, 0}, {0, 12}, {20, 12}, {20, 0}}, 240},
		{"triangle", []Point{{0, 0}, {10, 0}, {0, 10}}, 50},
		{"empty", nil, 0},
		{"two points", []Point{{0, 0}, {5, 5}}, 0},
		{"duplicate points", []Point{{1, 1}, {1, 1}, {1, 1}}, 0},
		{"L shape", []Point{{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4}}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PolygonArea(tt.vertices))
		})
	}
}

func TestPolygonArea_RotationInvariant(t *testing.T) {
	t.Parallel()

	base := rect(33, 17)
	for _, deg := range []float64{0, 15, 45, 90, 133.7, 270, -60} {
		rotated := make([]Point, len(base))
		for i, p := range base {
			rotated[i] = LocalToWorld(p, Pt(400, 300), deg, 2.5)
		}
		// World area is scaled by ppu^2.
		assert.InDelta(t, 33*17*2.5*2.5, PolygonArea(rotated), 1e-6, "rotation %v", deg)
	}
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	b := BoundingBox([]Point{{3, -1}, {-2, 4}, {5, 2}})
	assert.Equal(t, Bounds{MinX: -2, MinY: -1, MaxX: 5, MaxY: 4}, b)
	assert.Equal(t, 7.0, b.Width())
	assert.Equal(t, 5.0, b.Height())
	assert.Equal(t, Pt(1.5, 1.5), b.Center())

	empty := BoundingBox(nil)
	assert.True(t, math.IsInf(empty.MinX, 1))
	assert.True(t, math.IsInf(empty.MaxX, -1))
}

func TestPointInPolygon(t *testing.T) {
	t.Parallel()

	square := rect(10, 10)
	assert.True(t, PointInPolygon(BoundingBox(square).Center(), square))
	assert.True(t, PointInPolygon(Pt(0.5, 9.5), square))
	assert.False(t, PointInPolygon(Pt(100, 100), square))
	assert.False(t, PointInPolygon(Pt(-0.1, 5), square))
	assert.False(t, PointInPolygon(Pt(5, 11), square))

	concave := []Point{{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4}}
	assert.True(t, PointInPolygon(Pt(0.5, 3), concave))
	assert.False(t, PointInPolygon(Pt(3, 3), concave))

	// Degenerate polygons must not divide by zero.
	flat := []Point{{0, 5}, {10, 5}, {20, 5}}
	assert.False(t, PointInPolygon(Pt(5, 5), flat))
	assert.False(t, PointInPolygon(Pt(5, 5), nil))
}

func TestWorldToLocal(t *testing.T) {
	t.Parallel()

	origin := Pt(100, 50)

	local := WorldToLocal(Pt(110, 60), origin, 0)
	assert.Equal(t, Pt(10, 10), local)

	// A point 10px to the right of a shape rotated by 90 degrees lies on the
	// shape's negative local y axis.
	local = WorldToLocal(Pt(110, 50), origin, 90)
	assert.InDelta(t, 0, local.X, 1e-9)
	assert.InDelta(t, -10, local.Y, 1e-9)
}

func TestLocalToWorld_RoundTrip(t *testing.T) {
	t.Parallel()

	origin := Pt(640, 400)
	for _, deg := range []float64{0, 30, 90, 181, -45} {
		local := Pt(7, 3)
		world := LocalToWorld(local, origin, deg, 4)
		back := WorldToLocal(world, origin, deg).Div(4)
		assert.InDelta(t, local.X, back.X, 1e-9)
		assert.InDelta(t, local.Y, back.Y, 1e-9)
	}
}

func TestScaleVertices(t *testing.T) {
	t.Parallel()

	in := rect(2, 3)
	out := ScaleVertices(in, 10)
	assert.Equal(t, rect(20, 30), out)
	assert.Equal(t, rect(2, 3), in, "input must not be mutated")
}
