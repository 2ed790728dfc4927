package shape

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdi/siteplan/internal/geom"
)

func TestNewRectangle(t *testing.T) {
	t.Parallel()

	s := NewRectangle(CategoryDriveway, 30, 10, 15, geom.Pt(640, 400))

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, CategoryDriveway, s.Category)
	assert.Equal(t, geom.Pt(640, 400), s.Origin)
	assert.Equal(t, 15.0, s.Rotation)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 10}, {X: 0, Y: 10}}, s.Vertices)
	assert.Equal(t, 300.0, s.Area())
}

func TestNewRectangle_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		length, width, r float64
	}{
		{"zero", 0, 0, 0},
		{"negative", -5, -1, 0},
		{"nan", math.NaN(), math.NaN(), math.NaN()},
		{"inf", math.Inf(1), math.Inf(-1), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewRectangle(CategoryBuilding, tt.length, tt.width, tt.r, geom.Point{})
			assert.Equal(t, geom.Pt(DefaultLength, DefaultWidth), s.Vertices[2])
			assert.Equal(t, DefaultRotation, s.Rotation)
		})
	}
}

func TestShape_AreaIgnoresPlacement(t *testing.T) {
	t.Parallel()

	s := NewRectangle(CategorySite, 40, 25, 0, geom.Point{})
	want := s.Area()

	s.Rotation = 73
	s.Origin = geom.Pt(-300, 999)
	assert.Equal(t, want, s.Area())
	assert.Equal(t, 1000.0, want)
}

func TestShape_WorldVertices(t *testing.T) {
	t.Parallel()

	s := NewRectangle(CategoryPatio, 10, 5, 90, geom.Pt(100, 100))
	world := s.WorldVertices(2)

	require.Len(t, world, 4)
	assert.InDelta(t, 100, world[0].X, 1e-9)
	assert.InDelta(t, 100, world[0].Y, 1e-9)
	assert.InDelta(t, 100, world[1].X, 1e-9)
	assert.InDelta(t, 120, world[1].Y, 1e-9)
	assert.InDelta(t, 90, world[2].X, 1e-9)
	assert.InDelta(t, 120, world[2].Y, 1e-9)
}

func TestShape_EdgeLengths(t *testing.T) {
	t.Parallel()

	s := NewRectangle(CategoryBuilding, 20, 12, 0, geom.Point{})
	assert.Equal(t, []float64{20, 12, 20, 12}, s.EdgeLengths())
}

func TestShape_Clone(t *testing.T) {
	t.Parallel()

	s := NewRectangle(CategoryBuilding, 20, 12, 0, geom.Point{})
	c := s.Clone()
	c.Vertices[0] = geom.Pt(99, 99)
	assert.Equal(t, geom.Pt(0, 0), s.Vertices[0])
}

func TestShape_JSON(t *testing.T) {
	t.Parallel()

	s := NewRectangle(CategoryPervious, 1, 1, 0, geom.Point{})
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"pervious"`)

	var back Shape
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, CategoryPervious, back.Category)
}

func TestCategory_Table(t *testing.T) {
	t.Parallel()

	want := map[Category]struct {
		name  string
		hex   string
		class Class
	}{
		CategorySite:       {"site", "#0070c0", ClassSite},
		CategoryBuilding:   {"building", "#c00000", ClassImpervious},
		CategoryDriveway:   {"driveway", "#808080", ClassImpervious},
		CategoryPatio:      {"patio", "#c09040", ClassImpervious},
		CategoryImpervious: {"impervious", "#aa5500", ClassImpervious},
		CategoryPervious:   {"pervious", "#00a000", ClassIgnored},
	}

	require.Len(t, Categories(), len(want))
	for _, c := range Categories() {
		w := want[c]
		assert.Equal(t, w.name, c.String())
		assert.Equal(t, w.hex, c.Hex())
		assert.Equal(t, w.class, c.Class())

		parsed, ok := ParseCategory(w.name)
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
}

func TestCategory_Unknown(t *testing.T) {
	t.Parallel()

	_, ok := ParseCategory("garage")
	assert.False(t, ok)

	bogus := Category(42)
	assert.Equal(t, DefaultColor, bogus.Hex())
	assert.Equal(t, ClassIgnored, bogus.Class())
	r, g, b, _ := bogus.Color().RGBA()
	assert.Zero(t, r+g+b)

	_, err := json.Marshal(bogus)
	assert.Error(t, err)
}

func TestCategory_Color(t *testing.T) {
	t.Parallel()

	r, g, b, a := CategoryBuilding.Color().RGBA()
	assert.Equal(t, uint32(0xc0), r>>8)
	assert.Zero(t, g>>8)
	assert.Zero(t, b>>8)
	assert.Equal(t, uint32(0xff), a>>8)
}
