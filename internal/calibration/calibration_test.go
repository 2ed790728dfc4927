package calibration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdi/siteplan/internal/geom"
)

func calibrate(t *testing.T, c *Calibrator, a, b geom.Point, real float64) error {
	t.Helper()
	c.BeginPicking()
	need, err := c.RegisterPoint(a)
	require.NoError(t, err)
	require.False(t, need)
	need, err = c.RegisterPoint(b)
	require.NoError(t, err)
	require.True(t, need)
	return c.CompleteCalibration(real)
}

func TestCalibrator_Initial(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Equal(t, 1.0, c.PixelsPerUnit())
	assert.Equal(t, 1.0, c.RenderScale())
	assert.False(t, c.IsSet())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "not set", c.Status("ft"))
}

func TestCalibrator_Success(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, calibrate(t, c, geom.Pt(0, 0), geom.Pt(300, 400), 50))

	assert.Equal(t, 10.0, c.PixelsPerUnit())
	assert.Equal(t, 10.0, c.RenderScale())
	assert.True(t, c.IsSet())
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.PendingPoints())
	assert.Equal(t, "10.00 px/ft", c.Status("ft"))
}

func TestCalibrator_FailureKeepsRatioButUnsets(t *testing.T) {
	t.Parallel()

	for _, bad := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		c := New()
		require.NoError(t, calibrate(t, c, geom.Pt(0, 0), geom.Pt(100, 0), 4))
		require.Equal(t, 25.0, c.PixelsPerUnit())

		err := calibrate(t, c, geom.Pt(0, 0), geom.Pt(10, 0), bad)
		assert.ErrorIs(t, err, ErrInvalidDistance)
		assert.Equal(t, 25.0, c.PixelsPerUnit(), "ratio retained for %v", bad)
		assert.False(t, c.IsSet())
		assert.Equal(t, 1.0, c.RenderScale())
		assert.Equal(t, StateIdle, c.State())
	}
}

func TestCalibrator_RegisterPointOutsidePicking(t *testing.T) {
	t.Parallel()

	c := New()
	_, err := c.RegisterPoint(geom.Pt(1, 1))
	assert.ErrorIs(t, err, ErrNotPicking)

	c.BeginPicking()
	_, _ = c.RegisterPoint(geom.Pt(0, 0))
	_, _ = c.RegisterPoint(geom.Pt(1, 0))
	_, err = c.RegisterPoint(geom.Pt(2, 0))
	assert.ErrorIs(t, err, ErrNotPicking, "awaiting distance accepts no more points")
}

func TestCalibrator_CompleteWithoutMeasurement(t *testing.T) {
	t.Parallel()

	c := New()
	assert.ErrorIs(t, c.CompleteCalibration(10), ErrNoMeasurement)

	c.BeginPicking()
	_, _ = c.RegisterPoint(geom.Pt(0, 0))
	assert.ErrorIs(t, c.CompleteCalibration(10), ErrNoMeasurement)
	assert.Equal(t, StatePicking, c.State())
	assert.False(t, c.IsSet())
}

func TestCalibrator_RestartDiscardsPartialSession(t *testing.T) {
	t.Parallel()

	c := New()
	c.BeginPicking()
	_, _ = c.RegisterPoint(geom.Pt(5, 5))
	assert.Len(t, c.PendingPoints(), 1)
	assert.Equal(t, "picking...", c.Status("ft"))

	c.BeginPicking()
	assert.Empty(t, c.PendingPoints())

	need, err := c.RegisterPoint(geom.Pt(0, 0))
	require.NoError(t, err)
	assert.False(t, need, "first point of the new session")
}

func TestCalibrator_Cancel(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, calibrate(t, c, geom.Pt(0, 0), geom.Pt(0, 60), 3))
	c.BeginPicking()
	_, _ = c.RegisterPoint(geom.Pt(0, 0))
	c.Cancel()

	assert.Equal(t, StateIdle, c.State())
	assert.True(t, c.IsSet())
	assert.Equal(t, 20.0, c.PixelsPerUnit())
}

func TestCalibrator_CoincidentPointsGiveZeroRatio(t *testing.T) {
	t.Parallel()

	c := New()
	p := geom.Pt(42, 17)
	require.NoError(t, calibrate(t, c, p, p, 20))

	assert.True(t, c.IsSet())
	assert.Equal(t, 0.0, c.PixelsPerUnit())
	assert.Equal(t, 0.0, c.RenderScale())
	assert.Equal(t, "0.00 px/ft", c.Status("ft"))

	// Recalibrating with distinct points recovers.
	require.NoError(t, calibrate(t, c, geom.Pt(0, 0), geom.Pt(0, 40), 20))
	assert.Equal(t, 2.0, c.PixelsPerUnit())
}
