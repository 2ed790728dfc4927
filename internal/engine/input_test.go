package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdi/siteplan/internal/interaction"
	"github.com/mdi/siteplan/internal/shape"
)

func TestDispatchAddAndRotate(t *testing.T) {
	t.Parallel()

	e := NewEngine(Options{})
	res, err := e.Dispatch(Event{Type: EventAction, Action: ActionAddShape, Shape: &FormInput{Category: "site"}})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.NotEmpty(t, res.CreatedID)

	s, ok := e.Shape(res.CreatedID)
	require.True(t, ok)
	assert.Equal(t, shape.CategorySite, s.Category)

	res, err = e.Dispatch(Event{Type: EventFieldChanged, Field: FieldRotation, Value: "30"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 30.0, s.Rotation)

	_, err = e.Dispatch(Event{Type: EventFieldChanged, Field: FieldRotation, Value: "bad"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Rotation)

	_, err = e.Dispatch(Event{Type: EventFieldChanged, Field: FieldRotation, Value: "45"})
	require.NoError(t, err)
	_, err = e.Dispatch(Event{Type: EventFieldChanged, Field: FieldRotation, Value: "Infinity"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Rotation)

	state, err := e.StateJSON()
	require.NoError(t, err)
	assert.Contains(t, state, `"shapeCount":1`)
}

func TestDispatchAddWithoutForm(t *testing.T) {
	t.Parallel()

	e := NewEngine(Options{})
	res, err := e.Dispatch(Event{Type: EventAction, Action: ActionAddShape})
	require.NoError(t, err)

	s, ok := e.Shape(res.CreatedID)
	require.True(t, ok)
	assert.Equal(t, shape.CategoryBuilding, s.Category)
	assert.Equal(t, 240.0, s.Area())
}

func TestDispatchPointerSequence(t *testing.T) {
	t.Parallel()

	e := NewEngine(Options{})
	s, err := e.AddShape(ShapeInput{})
	require.NoError(t, err)

	res, err := e.Dispatch(Event{Type: EventPointerDown, X: 650, Y: 406})
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeSelected, res.Outcome)
	assert.True(t, res.Changed)

	res, err = e.Dispatch(Event{Type: EventPointerMove, X: 651, Y: 407})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.InDelta(t, 641, s.Origin.X, 1e-9)
	assert.InDelta(t, 401, s.Origin.Y, 1e-9)

	res, err = e.Dispatch(Event{Type: EventPointerUp})
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestDispatchCalibration(t *testing.T) {
	t.Parallel()

	e := NewEngine(Options{})
	_, err := e.Dispatch(Event{Type: EventAction, Action: ActionBeginCalibration})
	require.NoError(t, err)

	res, err := e.Dispatch(Event{Type: EventPointerDown, X: 10, Y: 10})
	require.NoError(t, err)
	assert.False(t, res.NeedsDistance)

	res, err = e.Dispatch(Event{Type: EventPointerDown, X: 10, Y: 30})
	require.NoError(t, err)
	assert.True(t, res.NeedsDistance)

	require.NoError(t, e.CompleteCalibration(4))
	assert.Equal(t, 5.0, e.Calibrator().PixelsPerUnit())
}

func TestDispatchMaxImpervious(t *testing.T) {
	t.Parallel()

	e := NewEngine(Options{})
	_, err := e.Dispatch(Event{Type: EventFieldChanged, Field: FieldMaxImpervious, Value: "25"})
	require.NoError(t, err)
	assert.Equal(t, 25.0, e.MaxImpervious())

	_, err = e.Dispatch(Event{Type: EventFieldChanged, Field: FieldMaxImpervious, Value: "0"})
	require.NoError(t, err)
	assert.Equal(t, 40.0, e.MaxImpervious())
}

func TestDispatchRejectsUnknown(t *testing.T) {
	t.Parallel()

	e := NewEngine(Options{})
	_, err := e.Dispatch(Event{Type: "pointer.wheel"})
	assert.Error(t, err)
	_, err = e.Dispatch(Event{Type: EventAction, Action: "undo"})
	assert.Error(t, err)
	_, err = e.Dispatch(Event{Type: EventFieldChanged, Field: "color"})
	assert.Error(t, err)
}

func TestEventDecode(t *testing.T) {
	t.Parallel()

	var ev Event
	raw := `{"type":"action","action":"add-shape","shape":{"category":"patio","length":"10","width":"5","rotation":""}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	assert.Equal(t, EventAction, ev.Type)
	require.NotNil(t, ev.Shape)
	assert.Equal(t, ShapeInput{Category: shape.CategoryPatio, Length: 10, Width: 5}, ev.Shape.Parse())
}
