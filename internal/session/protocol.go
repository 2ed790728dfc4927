package session

import (
	"encoding/json"
	"fmt"

	"github.com/mdi/siteplan/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypeInput               = "input"
	TypeCalibrationComplete = "calibration.complete"

	// Server -> client
	TypeWelcome            = "welcome"
	TypeFrame              = "frame"
	TypeCalibrationRequest = "calibration.request"
	TypeCalibrationFailed  = "calibration.failed"
	TypeError              = "error"
)

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

// FramePayload carries everything a client needs to repaint: the draw
// commands plus the panel state and compliance summary.
type FramePayload struct {
	Commands json.RawMessage `json:"commands"`
	State    engine.State    `json:"state"`
}

type CalibrationRequestPayload struct {
	Suggested float64 `json:"suggested"`
	PixelDist float64 `json:"pixelDistance"`
}

// CalibrationCompletePayload holds the raw text the user typed. An empty
// value means the prompt was cancelled.
type CalibrationCompletePayload struct {
	Distance string `json:"distance"`
}

type CalibrationFailedPayload struct {
	Reason    string `json:"reason"`
	ScaleText string `json:"scaleText"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(msgType string, payload interface{}) (*Message, error) {
	msg := &Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// mustMessage is newMessage for payloads made only of strings and finite
// numbers.
func mustMessage(msgType string, payload interface{}) *Message {
	msg, err := newMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

func errorMessage(text string) *Message {
	return mustMessage(TypeError, ErrorPayload{Message: text})
}
