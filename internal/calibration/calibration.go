// Package calibration implements the two-click scale protocol that turns a
// measured pixel distance into a pixels-per-unit ratio.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/mdi/siteplan/internal/geom"
)

// SuggestedDistance is the default value offered when asking for the
// real-world distance between the two picked points.
const SuggestedDistance = 20.0

var (
	ErrNotPicking      = errors.New("calibration: not picking points")
	ErrNoMeasurement   = errors.New("calibration: no measurement awaiting a distance")
	ErrInvalidDistance = errors.New("calibration: invalid distance")
)

// State is the calibrator's protocol phase.
type State int

const (
	StateIdle State = iota
	StatePicking
	StateAwaitingDistance
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePicking:
		return "picking"
	case StateAwaitingDistance:
		return "awaitingDistance"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Calibrator owns the session's scale ratio and the point buffer of any
// calibration in progress. The zero value is not usable; call New.
type Calibrator struct {
	pixelsPerUnit float64
	isSet         bool

	state     State
	points    []geom.Point
	pixelDist float64
}

// New returns an unset calibrator with an implicit 1:1 ratio.
func New() *Calibrator {
	return &Calibrator{pixelsPerUnit: 1}
}

// PixelsPerUnit is the stored ratio. It stays at its last value after a
// failed calibration even though IsSet turns false.
func (c *Calibrator) PixelsPerUnit() float64 {
	return c.pixelsPerUnit
}

// IsSet reports whether the last calibration attempt succeeded.
func (c *Calibrator) IsSet() bool {
	return c.isSet
}

// RenderScale is the ratio to draw with: the stored ratio when set, else 1.
func (c *Calibrator) RenderScale() float64 {
	if c.isSet {
		return c.pixelsPerUnit
	}
	return 1
}

// State returns the protocol phase.
func (c *Calibrator) State() State {
	return c.state
}

// Picking reports whether pointer input should be routed to RegisterPoint.
func (c *Calibrator) Picking() bool {
	return c.state == StatePicking
}

// PendingPoints returns a copy of the buffered points for marker rendering.
func (c *Calibrator) PendingPoints() []geom.Point {
	return append([]geom.Point(nil), c.points...)
}

// PixelDistance is the measured distance once both points are in.
func (c *Calibrator) PixelDistance() float64 {
	return c.pixelDist
}

// BeginPicking opens a new session, discarding any unfinished one.
func (c *Calibrator) BeginPicking() {
	c.state = StatePicking
	c.points = c.points[:0]
	c.pixelDist = 0
}

// RegisterPoint buffers a picked point. After the second point it returns
// true: the caller must then obtain a real distance and call
// CompleteCalibration.
func (c *Calibrator) RegisterPoint(p geom.Point) (bool, error) {
	if c.state != StatePicking {
		return false, ErrNotPicking
	}
	c.points = append(c.points, p)
	if len(c.points) < 2 {
		return false, nil
	}
	c.pixelDist = c.points[0].Distance(c.points[1])
	c.state = StateAwaitingDistance
	return true, nil
}

// CompleteCalibration applies the real-world distance between the picked
// points. A finite positive distance sets the ratio; anything else marks the
// scale as not set, keeps the old ratio and returns ErrInvalidDistance.
// Either way the calibrator returns to idle.
func (c *Calibrator) CompleteCalibration(realDistance float64) error {
	if c.state != StateAwaitingDistance {
		return ErrNoMeasurement
	}
	defer c.reset()

	if math.IsNaN(realDistance) || math.IsInf(realDistance, 0) || realDistance <= 0 {
		c.isSet = false
		return fmt.Errorf("%w: %v", ErrInvalidDistance, realDistance)
	}
	c.pixelsPerUnit = c.pixelDist / realDistance
	c.isSet = true
	return nil
}

// Cancel abandons a session in progress without touching the ratio.
func (c *Calibrator) Cancel() {
	c.reset()
}

func (c *Calibrator) reset() {
	c.state = StateIdle
	c.points = c.points[:0]
	c.pixelDist = 0
}

// Status is the short display text for the scale readout.
func (c *Calibrator) Status(unit string) string {
	switch {
	case c.state == StatePicking:
		return "picking..."
	case c.isSet:
		return fmt.Sprintf("%.2f px/%s", c.pixelsPerUnit, unit)
	default:
		return "not set"
	}
}
