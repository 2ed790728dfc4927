// Package interaction turns pointer input into selection changes and
// geometry edits. It has no rendering or UI toolkit dependency.
package interaction

import (
	"github.com/mdi/siteplan/internal/calibration"
	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/shape"
)

// DefaultPickRadius is the vertex grab distance in screen pixels.
const DefaultPickRadius = 10.0

// Outcome describes what a pointer-down did.
type Outcome int

const (
	// OutcomeNone means the event was swallowed (e.g. a distance prompt is open).
	OutcomeNone Outcome = iota
	// OutcomeCalibrationPoint means the first calibration point was buffered.
	OutcomeCalibrationPoint
	// OutcomeCalibrationMeasured means both points are in and a real
	// distance must now be supplied.
	OutcomeCalibrationMeasured
	// OutcomeSelected means a shape was hit and a drag session started.
	OutcomeSelected
	// OutcomeCleared means nothing was hit and the selection was cleared.
	OutcomeCleared
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCalibrationPoint:
		return "calibrationPoint"
	case OutcomeCalibrationMeasured:
		return "calibrationMeasured"
	case OutcomeSelected:
		return "selected"
	case OutcomeCleared:
		return "cleared"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Controller routes pointer events to the calibrator or to hit testing and
// dragging over the shape collection. It holds at most one drag session.
type Controller struct {
	shapes     *shape.Collection
	scale      *calibration.Calibrator
	pickRadius float64

	drag *DragSession
}

// NewController wires a controller to a session's shapes and calibrator.
// A non-positive pickRadius uses DefaultPickRadius.
func NewController(shapes *shape.Collection, scale *calibration.Calibrator, pickRadius float64) *Controller {
	if pickRadius <= 0 {
		pickRadius = DefaultPickRadius
	}
	return &Controller{
		shapes:     shapes,
		scale:      scale,
		pickRadius: pickRadius,
	}
}

// Drag returns a copy of the open drag session, if any.
func (c *Controller) Drag() (DragSession, bool) {
	if c.drag == nil {
		return DragSession{}, false
	}
	return *c.drag, true
}

// PointerDown handles a press at world point p.
func (c *Controller) PointerDown(p geom.Point) Outcome {
	switch c.scale.State() {
	case calibration.StatePicking:
		need, err := c.scale.RegisterPoint(p)
		if err != nil {
			return OutcomeNone
		}
		if need {
			return OutcomeCalibrationMeasured
		}
		return OutcomeCalibrationPoint
	case calibration.StateAwaitingDistance:
		return OutcomeNone
	}

	// A press always starts from a clean slate, even if a pointer-up was lost.
	c.drag = nil

	ppu := c.scale.PixelsPerUnit()
	for _, s := range c.shapes.TopMostFirst() {
		if !HitShape(s, p, ppu) {
			continue
		}
		c.shapes.SetActive(s.ID)

		if i := HitVertex(s, p, ppu, c.pickRadius); i >= 0 {
			c.drag = &DragSession{
				ShapeID:        s.ID,
				Mode:           ModeMoveVertex,
				VertexIndex:    i,
				StartPointer:   p,
				OriginalOrigin: s.Origin,
				OriginalVertex: s.Vertices[i],
			}
		} else {
			c.drag = &DragSession{
				ShapeID:        s.ID,
				Mode:           ModeMoveOrigin,
				VertexIndex:    -1,
				StartPointer:   p,
				OriginalOrigin: s.Origin,
			}
		}
		return OutcomeSelected
	}

	c.shapes.ClearActive()
	return OutcomeCleared
}

// PointerMove applies the open drag session to the pointer at p. It reports
// whether geometry changed.
func (c *Controller) PointerMove(p geom.Point) bool {
	if c.drag == nil {
		return false
	}
	s, ok := c.shapes.Get(c.drag.ShapeID)
	if !ok {
		// The shape was removed mid-drag.
		c.drag = nil
		return false
	}

	switch c.drag.Mode {
	case ModeMoveVertex:
		// Rotation is not un-applied here: the vertex follows the pointer
		// as if the local frame were unrotated about the origin.
		local := p.Sub(s.Origin).Div(c.scale.PixelsPerUnit())
		return c.shapes.SetVertex(s.ID, c.drag.VertexIndex, local)
	case ModeMoveOrigin:
		return c.shapes.SetOrigin(s.ID, c.drag.OriginalOrigin.Add(p.Sub(c.drag.StartPointer)))
	}
	return false
}

// PointerUp ends any drag session.
func (c *Controller) PointerUp() {
	c.drag = nil
}

// HitShape reports whether world point p falls inside s at the given scale.
func HitShape(s *shape.Shape, p geom.Point, pixelsPerUnit float64) bool {
	local := geom.WorldToLocal(p, s.Origin, s.Rotation)
	return geom.PointInPolygon(local, s.ScaledVertices(pixelsPerUnit))
}

// HitVertex returns the index of the first vertex of s within radius screen
// pixels of p, or -1.
func HitVertex(s *shape.Shape, p geom.Point, pixelsPerUnit, radius float64) int {
	local := geom.WorldToLocal(p, s.Origin, s.Rotation)
	for i, v := range s.ScaledVertices(pixelsPerUnit) {
		if local.Distance(v) < radius {
			return i
		}
	}
	return -1
}
