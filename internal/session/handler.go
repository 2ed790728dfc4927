package session

import (
	"encoding/json"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mdi/siteplan/internal/background"
	"github.com/mdi/siteplan/internal/engine"
	"github.com/mdi/siteplan/internal/render"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler serves the session REST and websocket endpoints.
type Handler struct {
	manager        *Manager
	hub            *Hub
	assetDir       string
	originPatterns []string
}

// NewHandler creates a handler. Uploaded backgrounds are kept in assetDir
// as PNG; an empty assetDir keeps them in memory only.
func NewHandler(manager *Manager, hub *Hub, assetDir string, allowedOrigins []string) *Handler {
	if assetDir != "" {
		if err := os.MkdirAll(assetDir, 0755); err != nil {
			slog.Error("create asset dir", "error", err, "dir", assetDir)
		}
	}

	// websocket.AcceptOptions matches host patterns, not full origins.
	patterns := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		patterns = append(patterns, o)
	}

	return &Handler{
		manager:        manager,
		hub:            hub,
		assetDir:       assetDir,
		originPatterns: patterns,
	}
}

type sessionResponse struct {
	ID    string       `json:"id"`
	State engine.State `json:"state"`
}

// BackgroundResponse is returned from the upload endpoint.
type BackgroundResponse struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Width     int                        `json:"width"`
	Height    int                        `json:"height"`
	Placement render.BackgroundPlacement `json:"placement"`
}

// Create handles POST /api/sessions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s := h.manager.Create()
	slog.Info("session created", "session", s.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: s.ID, State: s.State()})
}

// Get handles GET /api/sessions/{sessionId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: s.ID, State: s.State()})
}

// Summary handles GET /api/sessions/{sessionId}/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Summary)
}

// Input handles POST /api/sessions/{sessionId}/input, applying one event
// without a websocket connection.
func (h *Handler) Input(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var ev engine.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := s.Dispatch(nil, ev)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UploadBackground handles POST /api/sessions/{sessionId}/background
// (multipart form with a "file" field).
func (h *Handler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	bg, err := background.Decode(file, header.Filename)
	if err != nil {
		// The previous background, if any, stays in place.
		slog.Warn("background rejected", "error", err, "session", s.ID)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read image"})
		return
	}

	if err := h.store(bg); err != nil {
		slog.Error("store background", "error", err, "background", bg.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
		return
	}

	s.SetBackground(bg)

	width, height := bg.Size()
	st := s.State()
	resp := BackgroundResponse{
		ID:     bg.ID,
		Name:   bg.Name,
		Width:  width,
		Height: height,
	}
	if st.Background != nil {
		resp.Placement = *st.Background
	}

	slog.Info("background loaded", "session", s.ID, "background", bg.ID, "width", width, "height", height)
	writeJSON(w, http.StatusOK, resp)
}

// DeleteBackground handles DELETE /api/sessions/{sessionId}/background.
func (h *Handler) DeleteBackground(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.ClearBackground()
	w.WriteHeader(http.StatusNoContent)
}

// WebSocket handles GET /ws/sessions/{sessionId}.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, s, uuid.New().String())
	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.manager.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		} else {
			slog.Error("lookup session", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return nil, false
	}
	return s, true
}

func (h *Handler) store(bg *background.Image) error {
	if h.assetDir == "" {
		return nil
	}
	path := filepath.Join(h.assetDir, bg.ID+".png")
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, bg.Source()); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// preflight answers a bare OPTIONS request when no CORS middleware did.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.WriteHeader(http.StatusNoContent)
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Routes registers the session endpoints on r. Each route also accepts
// OPTIONS so CORS preflights match a route and reach the middleware.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/api/sessions", h.Create).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}", h.Get).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}/summary", h.Summary).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}/input", h.Input).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}/background", h.UploadBackground).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}/background", h.DeleteBackground).Methods("DELETE")
	r.HandleFunc("/ws/sessions/{sessionId}", h.WebSocket)
}
