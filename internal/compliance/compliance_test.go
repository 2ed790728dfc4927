package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/shape"
)

func rect(c shape.Category, l, w float64) *shape.Shape {
	return shape.NewRectangle(c, l, w, 0, geom.Point{})
}

func TestCompute(t *testing.T) {
	t.Parallel()

	// Site 1000, impervious 200+150+60+40 = 450, pervious ignored.
	shapes := []*shape.Shape{
		rect(shape.CategorySite, 40, 25),
		rect(shape.CategoryBuilding, 20, 10),
		rect(shape.CategoryDriveway, 15, 10),
		rect(shape.CategoryPatio, 6, 10),
		rect(shape.CategoryImpervious, 4, 10),
		rect(shape.CategoryPervious, 30, 30),
	}

	tests := []struct {
		name       string
		maxAllowed float64
		want       Status
	}{
		{"exceeds", 40, StatusExceeds},
		{"ok", 50, StatusOK},
		{"boundary below", 44.99, StatusExceeds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Compute(shapes, tt.maxAllowed)
			assert.Equal(t, 1000.0, got.SiteArea)
			assert.Equal(t, 450.0, got.ImperviousArea)
			assert.InDelta(t, 45.0, got.CoveragePercent, 1e-12)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.maxAllowed, got.MaxAllowedPercent)
		})
	}
}

func TestCompute_InclusiveBoundary(t *testing.T) {
	t.Parallel()

	shapes := []*shape.Shape{
		rect(shape.CategorySite, 100, 10),
		rect(shape.CategoryBuilding, 50, 10),
	}
	got := Compute(shapes, 50)
	assert.Equal(t, 50.0, got.CoveragePercent)
	assert.Equal(t, StatusOK, got.Status)
}

func TestCompute_NoSite(t *testing.T) {
	t.Parallel()

	got := Compute([]*shape.Shape{rect(shape.CategoryBuilding, 20, 12)}, DefaultMaxAllowedPercent)
	assert.Zero(t, got.SiteArea)
	assert.Equal(t, 240.0, got.ImperviousArea)
	assert.Zero(t, got.CoveragePercent)
	assert.Equal(t, StatusOK, got.Status)

	empty := Compute(nil, DefaultMaxAllowedPercent)
	assert.Zero(t, empty.CoveragePercent)
}

func TestCompute_MultipleSites(t *testing.T) {
	t.Parallel()

	shapes := []*shape.Shape{
		rect(shape.CategorySite, 10, 10),
		rect(shape.CategorySite, 10, 10),
		rect(shape.CategoryPatio, 10, 5),
	}
	got := Compute(shapes, 40)
	assert.Equal(t, 200.0, got.SiteArea)
	assert.Equal(t, 25.0, got.CoveragePercent)
}

func TestCompute_RotationDoesNotChangeArea(t *testing.T) {
	t.Parallel()

	site := rect(shape.CategorySite, 40, 25)
	before := Compute([]*shape.Shape{site}, 40).SiteArea
	site.Rotation = 33
	assert.Equal(t, before, Compute([]*shape.Shape{site}, 40).SiteArea)
}

func TestSummary_Text(t *testing.T) {
	t.Parallel()

	s := Summary{SiteArea: 999.6, ImperviousArea: 449.4, CoveragePercent: 44.96}
	assert.Equal(t, "1000", s.SiteAreaText())
	assert.Equal(t, "449", s.ImperviousAreaText())
	assert.Equal(t, "45.0%", s.PercentText())
}
