package interaction

import "github.com/mdi/siteplan/internal/geom"

// Mode selects what a drag session edits.
type Mode int

const (
	ModeMoveOrigin Mode = iota
	ModeMoveVertex
)

func (m Mode) String() string {
	if m == ModeMoveVertex {
		return "move-vertex"
	}
	return "move-origin"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DragSession records an in-progress pointer edit. It lives from
// pointer-down to pointer-up.
type DragSession struct {
	ShapeID     string `json:"shapeId"`
	Mode        Mode   `json:"mode"`
	VertexIndex int    `json:"vertexIndex"`

	StartPointer   geom.Point `json:"startPointer"`
	OriginalOrigin geom.Point `json:"originalOrigin"`
	OriginalVertex geom.Point `json:"originalVertex"`
}
