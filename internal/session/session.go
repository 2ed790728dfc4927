package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/mdi/siteplan/internal/background"
	"github.com/mdi/siteplan/internal/calibration"
	"github.com/mdi/siteplan/internal/engine"
	"github.com/mdi/siteplan/internal/export"
)

var ErrNotFound = errors.New("session not found")

// Session wraps one engine. mu serializes every mutation and guards the
// connected clients.
type Session struct {
	ID string

	mu      sync.Mutex
	engine  *engine.Engine
	clients map[string]*Client
}

func newSession(id string, opts engine.Options) *Session {
	return &Session{
		ID:      id,
		engine:  engine.NewEngine(opts),
		clients: make(map[string]*Client),
	}
}

// State returns the current panel state.
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// ExportSnapshot copies what an export needs. The render itself happens
// after the lock is released.
func (s *Session) ExportSnapshot() export.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.Snapshot{
		Scene:      s.engine.Scene(),
		Background: s.engine.Background(),
		Summary:    s.engine.Summary(),
	}
}

// SetBackground swaps the background image and repaints every client.
func (s *Session) SetBackground(bg *background.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetBackground(bg)
	s.broadcastLocked(s.frameLocked())
}

// ClearBackground removes the background image and repaints every client.
func (s *Session) ClearBackground() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.ClearBackground()
	s.broadcastLocked(s.frameLocked())
}

// Dispatch applies an input event on behalf of sender, which may be nil
// for non-websocket callers.
func (s *Session) Dispatch(sender *Client, ev engine.Event) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Dispatch(ev)
	if err != nil {
		return res, err
	}
	if res.NeedsDistance && sender != nil {
		msg, err := newMessage(TypeCalibrationRequest, CalibrationRequestPayload{
			Suggested: calibration.SuggestedDistance,
			PixelDist: s.engine.Calibrator().PixelDistance(),
		})
		if err != nil {
			slog.Error("encode calibration request", "error", err, "session", s.ID)
			msg = errorMessage("calibration request could not be encoded")
		}
		sender.Send(msg)
	}
	if res.Changed {
		s.broadcastLocked(s.frameLocked())
	}
	return res, nil
}

// CompleteCalibration resolves a pending measurement from prompt text.
func (s *Session) CompleteCalibration(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, _ := engine.ParseDistance(text)
	err := s.engine.CompleteCalibration(d)
	switch {
	case err == nil:
	case engine.IsCalibrationFailure(err):
		s.broadcastLocked(mustMessage(TypeCalibrationFailed, CalibrationFailedPayload{
			Reason:    err.Error(),
			ScaleText: s.engine.State().ScaleText,
		}))
	default:
		return err
	}
	s.broadcastLocked(s.frameLocked())
	return nil
}

func (s *Session) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeInput:
		var ev engine.Event
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			slog.Warn("invalid input payload", "error", err, "session", s.ID)
			sender.Send(errorMessage("invalid input payload"))
			return
		}
		if _, err := s.Dispatch(sender, ev); err != nil {
			sender.Send(errorMessage(err.Error()))
		}

	case TypeCalibrationComplete:
		var p CalibrationCompletePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			sender.Send(errorMessage("invalid calibration payload"))
			return
		}
		if err := s.CompleteCalibration(p.Distance); err != nil {
			sender.Send(errorMessage(err.Error()))
		}

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(errorMessage("unknown message type"))
	}
}

func (s *Session) addClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c.ClientID] = c
	c.Send(mustMessage(TypeWelcome, WelcomePayload{SessionID: s.ID, ClientID: c.ClientID}))
	c.Send(s.frameLocked())
}

func (s *Session) removeClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.ClientID]; !ok {
		return
	}
	delete(s.clients, c.ClientID)
	close(c.send)
}

// ClientCount returns the number of connected websocket clients.
func (s *Session) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Session) frameLocked() *Message {
	commands, err := s.engine.RenderJSON()
	if err != nil {
		slog.Error("render frame", "error", err, "session", s.ID)
		return errorMessage("frame could not be rendered")
	}
	msg, err := newMessage(TypeFrame, FramePayload{
		Commands: json.RawMessage(commands),
		State:    s.engine.State(),
	})
	if err != nil {
		slog.Error("encode frame", "error", err, "session", s.ID)
		return errorMessage("frame could not be encoded")
	}
	msg.SessionID = s.ID
	return msg
}

func (s *Session) broadcastLocked(msg *Message) {
	for _, c := range s.clients {
		c.Send(msg)
	}
}
