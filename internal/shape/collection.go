package shape

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mdi/siteplan/internal/geom"
)

var ErrDuplicateID = errors.New("duplicate shape id")

// Collection is the single source of truth for a session's shapes.
// Shapes are kept in creation order, which is also paint order.
//
// At most one shape is active and the active id always references a shape
// in the collection.
type Collection struct {
	shapes []*Shape
	active string
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends s. Ids must be unique.
func (c *Collection) Add(s *Shape) error {
	if c.index(s.ID) >= 0 {
		return fmt.Errorf("add shape %s: %w", s.ID, ErrDuplicateID)
	}
	c.shapes = append(c.shapes, s)
	return nil
}

// Remove deletes the shape with the given id. Removing the active shape
// clears the selection. It reports whether a shape was removed.
func (c *Collection) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.shapes = slices.Delete(c.shapes, i, i+1)
	if c.active == id {
		c.active = ""
	}
	return true
}

// Get returns the shape with the given id.
func (c *Collection) Get(id string) (*Shape, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}
	return c.shapes[i], true
}

// Len returns the number of shapes.
func (c *Collection) Len() int {
	return len(c.shapes)
}

// All returns the shapes in paint order. The slice is a copy; the shapes
// are shared.
func (c *Collection) All() []*Shape {
	return slices.Clone(c.shapes)
}

// TopMostFirst returns the shapes in hit-test order, last painted first.
func (c *Collection) TopMostFirst() []*Shape {
	out := slices.Clone(c.shapes)
	slices.Reverse(out)
	return out
}

// Snapshot returns deep copies of all shapes in paint order.
func (c *Collection) Snapshot() []*Shape {
	out := make([]*Shape, len(c.shapes))
	for i, s := range c.shapes {
		out[i] = s.Clone()
	}
	return out
}

// --- Selection ---

// ActiveID returns the active shape id, or "" when nothing is selected.
func (c *Collection) ActiveID() string {
	return c.active
}

// Active returns the active shape.
func (c *Collection) Active() (*Shape, bool) {
	if c.active == "" {
		return nil, false
	}
	return c.Get(c.active)
}

// SetActive selects the shape with the given id, deselecting any other.
// Unknown ids leave the selection unchanged and return false.
func (c *Collection) SetActive(id string) bool {
	if c.index(id) < 0 {
		return false
	}
	c.active = id
	return true
}

// ClearActive drops the selection.
func (c *Collection) ClearActive() {
	c.active = ""
}

// --- Mutation ---

// SetRotation sets the rotation in degrees. It returns false if id is unknown.
func (c *Collection) SetRotation(id string, degrees float64) bool {
	s, ok := c.Get(id)
	if !ok {
		return false
	}
	s.Rotation = degrees
	return true
}

// SetOrigin moves the shape's anchor.
func (c *Collection) SetOrigin(id string, p geom.Point) bool {
	s, ok := c.Get(id)
	if !ok {
		return false
	}
	s.Origin = p
	return true
}

// SetVertex replaces vertex index with a local-frame point.
// An index out of range is a caller bug and panics.
func (c *Collection) SetVertex(id string, index int, local geom.Point) bool {
	s, ok := c.Get(id)
	if !ok {
		return false
	}
	if index < 0 || index >= len(s.Vertices) {
		panic(fmt.Sprintf("shape: vertex index %d out of range [0,%d) for %s", index, len(s.Vertices), id))
	}
	s.Vertices[index] = local
	return true
}

// SetCategory re-categorizes a shape.
func (c *Collection) SetCategory(id string, category Category) bool {
	s, ok := c.Get(id)
	if !ok {
		return false
	}
	s.Category = category
	return true
}

func (c *Collection) index(id string) int {
	return slices.IndexFunc(c.shapes, func(s *Shape) bool { return s.ID == id })
}
