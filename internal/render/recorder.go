package render

import (
	"encoding/json"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mdi/siteplan/internal/geom"
)

// Command is one drawing operation for a Canvas2D frontend. Transforms are
// fully resolved so the frontend can call setTransform and draw.
type Command struct {
	Op        string        `json:"op"` // "rect", "path", "text", "image"
	Transform []float64     `json:"transform,omitempty"`
	Path      []PathCommand `json:"path,omitempty"`
	Fill      string        `json:"fill,omitempty"`
	Stroke    string        `json:"stroke,omitempty"`
	LineWidth float64       `json:"lineWidth,omitempty"`

	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Text  string  `json:"text,omitempty"`
	Size  float64 `json:"size,omitempty"`
	Bold  bool    `json:"bold,omitempty"`
	Align string  `json:"align,omitempty"`

	BackgroundID string `json:"backgroundId,omitempty"`
}

// PathCommand is a path segment in Canvas2D terms: ["M", x, y], ["L", x, y],
// ["A", cx, cy, r] for a full circle, ["Z"].
type PathCommand []interface{}

type recorderState struct {
	transform geom.Matrix2D
	fill      string
	stroke    string
	lineWidth float64
}

// Recorder is a Surface that records Commands instead of drawing.
type Recorder struct {
	state    recorderState
	stack    []recorderState
	path     []PathCommand
	commands []Command
}

// NewRecorder returns an empty recorder with an identity transform.
func NewRecorder() *Recorder {
	return &Recorder{
		state: recorderState{
			transform: geom.Identity(),
			fill:      "#000000",
			stroke:    "#000000",
			lineWidth: 1,
		},
	}
}

// Commands returns the recorded operations in paint order.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// JSON encodes the recorded commands.
func (r *Recorder) JSON() (string, error) {
	if len(r.commands) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(r.commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(x, y float64) {
	r.state.transform = r.state.transform.Multiply(geom.Translation(x, y))
}

func (r *Recorder) Rotate(radians float64) {
	r.state.transform = r.state.transform.Multiply(geom.Rotation(radians))
}

func (r *Recorder) BeginPath() { r.path = nil }

func (r *Recorder) MoveTo(x, y float64) { r.path = append(r.path, PathCommand{"M", x, y}) }

func (r *Recorder) LineTo(x, y float64) { r.path = append(r.path, PathCommand{"L", x, y}) }

func (r *Recorder) ClosePath() { r.path = append(r.path, PathCommand{"Z"}) }

func (r *Recorder) Circle(cx, cy, radius float64) {
	r.path = append(r.path, PathCommand{"A", cx, cy, radius})
}

func (r *Recorder) SetStrokeColor(c color.Color) { r.state.stroke = hex(c) }

func (r *Recorder) SetFillColor(c color.Color) { r.state.fill = hex(c) }

func (r *Recorder) SetLineWidth(w float64) { r.state.lineWidth = w }

func (r *Recorder) Stroke() { r.emitPath(false, true) }

func (r *Recorder) Fill() { r.emitPath(true, false) }

func (r *Recorder) FillStroke() { r.emitPath(true, true) }

func (r *Recorder) emitPath(fill, stroke bool) {
	if len(r.path) == 0 {
		return
	}
	cmd := Command{
		Op:        "path",
		Transform: r.state.transform.ToSlice(),
		Path:      r.path,
	}
	if fill {
		cmd.Fill = r.state.fill
	}
	if stroke {
		cmd.Stroke = r.state.stroke
		cmd.LineWidth = r.state.lineWidth
	}
	r.commands = append(r.commands, cmd)
	r.path = nil
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.commands = append(r.commands, Command{
		Op:        "rect",
		Transform: r.state.transform.ToSlice(),
		Fill:      r.state.fill,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
	})
}

func (r *Recorder) FillText(text string, x, y float64, style TextStyle) {
	r.commands = append(r.commands, Command{
		Op:        "text",
		Transform: r.state.transform.ToSlice(),
		Fill:      r.state.fill,
		X:         x,
		Y:         y,
		Text:      text,
		Size:      style.Size,
		Bold:      style.Bold,
		Align:     style.Align.String(),
	})
}

// DrawBackground records an image op; the frontend resolves the raster
// from BackgroundID.
func (r *Recorder) DrawBackground(p BackgroundPlacement) {
	r.commands = append(r.commands, Command{
		Op:           "image",
		Transform:    r.state.transform.ToSlice(),
		X:            p.Offset.X,
		Y:            p.Offset.Y,
		Width:        p.Width,
		Height:       p.Height,
		BackgroundID: p.ID,
	})
}

func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}
