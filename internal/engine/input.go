package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mdi/siteplan/internal/compliance"
	"github.com/mdi/siteplan/internal/interaction"
	"github.com/mdi/siteplan/internal/shape"
)

// EventType names an input event.
type EventType string

const (
	EventPointerDown  EventType = "pointer.down"
	EventPointerMove  EventType = "pointer.move"
	EventPointerUp    EventType = "pointer.up"
	EventFieldChanged EventType = "field.changed"
	EventAction       EventType = "action"
)

// Field names accepted by field.changed.
const (
	FieldRotation      = "rotation"
	FieldMaxImpervious = "maxImpervious"
)

// Actions accepted by action events.
const (
	ActionAddShape          = "add-shape"
	ActionDeleteActive      = "delete-active"
	ActionBeginCalibration  = "begin-calibration"
	ActionCancelCalibration = "cancel-calibration"
)

// Event is a toolkit-independent input event.
type Event struct {
	Type EventType `json:"type"`

	// Pointer position in viewport pixels.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// field.changed
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`

	// action
	Action string     `json:"action,omitempty"`
	Shape  *FormInput `json:"shape,omitempty"`
}

// Result says what an event did, so the caller knows whether to redraw
// and whether to prompt for a calibration distance.
type Result struct {
	Changed       bool                `json:"changed"`
	Outcome       interaction.Outcome `json:"outcome,omitempty"`
	NeedsDistance bool                `json:"needsDistance,omitempty"`
	CreatedID     string              `json:"createdId,omitempty"`
}

// Dispatch applies one input event.
func (e *Engine) Dispatch(ev Event) (Result, error) {
	switch ev.Type {
	case EventPointerDown:
		out := e.PointerDown(ev.X, ev.Y)
		return Result{
			Changed:       out != interaction.OutcomeNone,
			Outcome:       out,
			NeedsDistance: out == interaction.OutcomeCalibrationMeasured,
		}, nil

	case EventPointerMove:
		return Result{Changed: e.PointerMove(ev.X, ev.Y)}, nil

	case EventPointerUp:
		e.PointerUp()
		return Result{}, nil

	case EventFieldChanged:
		switch ev.Field {
		case FieldRotation:
			return Result{Changed: e.SetActiveRotation(ParseRotation(ev.Value))}, nil
		case FieldMaxImpervious:
			e.SetMaxImpervious(ParseMaxImpervious(ev.Value))
			return Result{Changed: true}, nil
		}
		return Result{}, fmt.Errorf("unknown field %q", ev.Field)

	case EventAction:
		switch ev.Action {
		case ActionAddShape:
			var form FormInput
			if ev.Shape != nil {
				form = *ev.Shape
			}
			s, err := e.AddShape(form.Parse())
			if err != nil {
				return Result{}, err
			}
			return Result{Changed: true, CreatedID: s.ID}, nil
		case ActionDeleteActive:
			return Result{Changed: e.DeleteActive()}, nil
		case ActionBeginCalibration:
			e.BeginCalibration()
			return Result{Changed: true}, nil
		case ActionCancelCalibration:
			e.CancelCalibration()
			return Result{Changed: true}, nil
		}
		return Result{}, fmt.Errorf("unknown action %q", ev.Action)
	}
	return Result{}, fmt.Errorf("unknown event type %q", ev.Type)
}

// ShapeInput is a validated request to create a shape.
type ShapeInput struct {
	Category shape.Category
	Length   float64
	Width    float64
	Rotation float64
}

// FormInput is the raw text of the shape property fields.
type FormInput struct {
	Category string `json:"category"`
	Length   string `json:"length"`
	Width    string `json:"width"`
	Rotation string `json:"rotation"`
}

// Parse converts form text to a ShapeInput. Missing or invalid values fall
// back to defaults: building, 20 x 12, rotation 0.
func (f FormInput) Parse() ShapeInput {
	cat, ok := shape.ParseCategory(strings.TrimSpace(f.Category))
	if !ok {
		cat = shape.CategoryBuilding
	}
	return ShapeInput{
		Category: cat,
		Length:   parseFloatOr(f.Length, shape.DefaultLength),
		Width:    parseFloatOr(f.Width, shape.DefaultWidth),
		Rotation: ParseRotation(f.Rotation),
	}
}

// ParseRotation reads the rotation field; anything unparsable is 0.
func ParseRotation(s string) float64 {
	return parseFloatOr(s, 0)
}

// ParseMaxImpervious reads the threshold field. Unparsable input and 0 both
// give the default.
func ParseMaxImpervious(s string) float64 {
	v := parseFloatOr(s, compliance.DefaultMaxAllowedPercent)
	if v == 0 {
		return compliance.DefaultMaxAllowedPercent
	}
	return v
}

// ParseDistance reads a calibration distance. ok is false for input with no
// finite leading number; range checks are left to the calibrator.
func ParseDistance(s string) (float64, bool) {
	return parseLeadingFloat(s)
}

// numericPrefix matches the leading decimal number of a form value, so
// "12.5 ft" reads as 12.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func parseLeadingFloat(s string) (float64, bool) {
	m := numericPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}

func parseFloatOr(s string, def float64) float64 {
	if v, ok := parseLeadingFloat(s); ok {
		return v
	}
	return def
}
