// Package engine is the session object: it owns the shapes, the scale
// calibration, the interaction controller and the viewport, and exposes
// commands (mutations) and queries (snapshots) over them.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mdi/siteplan/internal/background"
	"github.com/mdi/siteplan/internal/calibration"
	"github.com/mdi/siteplan/internal/compliance"
	"github.com/mdi/siteplan/internal/geom"
	"github.com/mdi/siteplan/internal/interaction"
	"github.com/mdi/siteplan/internal/render"
	"github.com/mdi/siteplan/internal/shape"
)

// Options configures a new engine. Zero values fall back to defaults.
type Options struct {
	ViewportWidth        float64
	ViewportHeight       float64
	MaxImperviousPercent float64
	PickRadius           float64
	LengthUnit           string
	AreaUnit             string
}

// Engine is a single site-plan editing session. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	shapes *shape.Collection
	scale  *calibration.Calibrator
	ctrl   *interaction.Controller

	width  float64
	height float64

	maxImpervious float64
	background    *background.Image

	lengthUnit string
	areaUnit   string
}

// NewEngine creates an empty session.
func NewEngine(opts Options) *Engine {
	shapes := shape.NewCollection()
	scale := calibration.New()

	e := &Engine{
		shapes:        shapes,
		scale:         scale,
		ctrl:          interaction.NewController(shapes, scale, opts.PickRadius),
		width:         opts.ViewportWidth,
		height:        opts.ViewportHeight,
		maxImpervious: opts.MaxImperviousPercent,
		lengthUnit:    opts.LengthUnit,
		areaUnit:      opts.AreaUnit,
	}
	if e.width <= 0 {
		e.width = 1280
	}
	if e.height <= 0 {
		e.height = 800
	}
	if !validMax(e.maxImpervious) {
		e.maxImpervious = compliance.DefaultMaxAllowedPercent
	}
	if e.lengthUnit == "" {
		e.lengthUnit = "ft"
	}
	if e.areaUnit == "" {
		e.areaUnit = "SF"
	}
	return e
}

// --- Commands ---

// Resize sets the viewport size. Non-positive sizes are ignored.
func (e *Engine) Resize(width, height float64) {
	if width > 0 && height > 0 {
		e.width = width
		e.height = height
	}
}

// AddShape creates a shape at the viewport center and makes it active.
func (e *Engine) AddShape(in ShapeInput) (*shape.Shape, error) {
	center := geom.Pt(e.width*0.5, e.height*0.5)
	s := shape.NewRectangle(in.Category, in.Length, in.Width, in.Rotation, center)
	if err := e.shapes.Add(s); err != nil {
		return nil, err
	}
	e.shapes.SetActive(s.ID)
	return s, nil
}

// DeleteActive removes the active shape, if any.
func (e *Engine) DeleteActive() bool {
	id := e.shapes.ActiveID()
	if id == "" {
		return false
	}
	return e.shapes.Remove(id)
}

// RemoveShape removes a shape by id.
func (e *Engine) RemoveShape(id string) bool {
	return e.shapes.Remove(id)
}

// SetActiveRotation sets the active shape's rotation. With no active shape
// nothing happens.
func (e *Engine) SetActiveRotation(degrees float64) bool {
	id := e.shapes.ActiveID()
	if id == "" {
		return false
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		degrees = 0
	}
	return e.shapes.SetRotation(id, degrees)
}

// PointerDown forwards a press to the interaction controller.
func (e *Engine) PointerDown(x, y float64) interaction.Outcome {
	return e.ctrl.PointerDown(geom.Pt(x, y))
}

// PointerMove forwards a move; it reports whether geometry changed.
func (e *Engine) PointerMove(x, y float64) bool {
	return e.ctrl.PointerMove(geom.Pt(x, y))
}

// PointerUp ends any drag.
func (e *Engine) PointerUp() {
	e.ctrl.PointerUp()
}

// BeginCalibration starts picking two scale points.
func (e *Engine) BeginCalibration() {
	e.ctrl.PointerUp()
	e.scale.BeginPicking()
}

// CancelCalibration abandons a calibration in progress.
func (e *Engine) CancelCalibration() {
	e.scale.Cancel()
}

// CompleteCalibration supplies the real distance between the picked points.
func (e *Engine) CompleteCalibration(realDistance float64) error {
	return e.scale.CompleteCalibration(realDistance)
}

// DistancePrompt asks the user for the real-world distance between the two
// calibration points. ok is false when the input was cancelled or could not
// be parsed.
type DistancePrompt interface {
	PromptDistance(suggested float64) (distance float64, ok bool)
}

// ResolveCalibration completes a pending measurement by asking prompt.
// It returns calibration.ErrNoMeasurement if none is pending.
func (e *Engine) ResolveCalibration(prompt DistancePrompt) error {
	if e.scale.State() != calibration.StateAwaitingDistance {
		return calibration.ErrNoMeasurement
	}
	d, ok := prompt.PromptDistance(calibration.SuggestedDistance)
	if !ok {
		d = math.NaN()
	}
	return e.scale.CompleteCalibration(d)
}

// SetMaxImpervious sets the coverage threshold. Invalid values fall back to
// the default.
func (e *Engine) SetMaxImpervious(percent float64) {
	if !validMax(percent) {
		percent = compliance.DefaultMaxAllowedPercent
	}
	e.maxImpervious = percent
}

func validMax(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0
}

// SetBackground replaces the background image.
func (e *Engine) SetBackground(bg *background.Image) {
	e.background = bg
}

// ClearBackground removes the background image.
func (e *Engine) ClearBackground() {
	e.background = nil
}

// --- Queries ---

// Shapes returns the live shapes in paint order.
func (e *Engine) Shapes() []*shape.Shape {
	return e.shapes.All()
}

// Shape returns a shape by id.
func (e *Engine) Shape(id string) (*shape.Shape, bool) {
	return e.shapes.Get(id)
}

// ActiveID returns the selected shape id or "".
func (e *Engine) ActiveID() string {
	return e.shapes.ActiveID()
}

// Calibrator exposes read access to the scale state.
func (e *Engine) Calibrator() *calibration.Calibrator {
	return e.scale
}

// Drag returns the open drag session, if any.
func (e *Engine) Drag() (interaction.DragSession, bool) {
	return e.ctrl.Drag()
}

// Background returns the current background image, or nil.
func (e *Engine) Background() *background.Image {
	return e.background
}

// Viewport returns the viewport size.
func (e *Engine) Viewport() (float64, float64) {
	return e.width, e.height
}

// MaxImpervious returns the coverage threshold in percent.
func (e *Engine) MaxImpervious() float64 {
	return e.maxImpervious
}

// Summary recomputes the coverage report.
func (e *Engine) Summary() compliance.Summary {
	return compliance.Compute(e.shapes.All(), e.maxImpervious)
}

// Scene returns a detached snapshot for rendering. It shares nothing
// mutable with the engine.
func (e *Engine) Scene() render.Scene {
	sc := render.Scene{
		Width:      e.width,
		Height:     e.height,
		Shapes:     e.shapes.Snapshot(),
		ActiveID:   e.shapes.ActiveID(),
		Scale:      e.scale.RenderScale(),
		ScaleSet:   e.scale.IsSet(),
		Markers:    e.scale.PendingPoints(),
		LengthUnit: e.lengthUnit,
		AreaUnit:   e.areaUnit,
	}
	if e.background != nil {
		p := e.background.Placement(e.width, e.height)
		sc.Background = &p
	}
	return sc
}

// Render draws the current scene to the given surface.
func (e *Engine) Render(s render.Surface) {
	render.Draw(s, e.Scene())
}

// RenderJSON returns the frame as JSON draw commands.
func (e *Engine) RenderJSON() (string, error) {
	rec := render.NewRecorder()
	e.Render(rec)
	out, err := rec.JSON()
	if err != nil {
		return "", fmt.Errorf("encode draw commands: %w", err)
	}
	return out, nil
}

// RotationControl is the state of the rotation input, which follows the
// active shape.
type RotationControl struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

// State is the UI-facing session state.
type State struct {
	ActiveID      string                      `json:"activeId,omitempty"`
	ShapeCount    int                         `json:"shapeCount"`
	Rotation      RotationControl             `json:"rotation"`
	Calibration   calibration.State           `json:"calibration"`
	ScaleSet      bool                        `json:"scaleSet"`
	PixelsPerUnit float64                     `json:"pixelsPerUnit"`
	ScaleText     string                      `json:"scaleText"`
	Drag          *interaction.DragSession    `json:"drag,omitempty"`
	Background    *render.BackgroundPlacement `json:"background,omitempty"`
	Summary       compliance.Summary          `json:"summary"`
}

// State returns the current UI state.
func (e *Engine) State() State {
	st := State{
		ActiveID:      e.shapes.ActiveID(),
		ShapeCount:    e.shapes.Len(),
		Calibration:   e.scale.State(),
		ScaleSet:      e.scale.IsSet(),
		PixelsPerUnit: e.scale.PixelsPerUnit(),
		ScaleText:     e.scale.Status(e.lengthUnit),
		Summary:       e.Summary(),
	}
	if active, ok := e.shapes.Active(); ok {
		st.Rotation = RotationControl{Enabled: true, Value: active.Rotation}
	}
	if d, ok := e.ctrl.Drag(); ok {
		st.Drag = &d
	}
	if e.background != nil {
		p := e.background.Placement(e.width, e.height)
		st.Background = &p
	}
	return st
}

// StateJSON returns State encoded as JSON.
func (e *Engine) StateJSON() (string, error) {
	data, err := json.Marshal(e.State())
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}

// IsCalibrationFailure reports whether err came from a rejected distance.
func IsCalibrationFailure(err error) bool {
	return errors.Is(err, calibration.ErrInvalidDistance)
}
