package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mdi/siteplan/internal/typeid"
)

// SnapshotSource hands out export snapshots by session id.
type SnapshotSource interface {
	ExportSnapshot(sessionID string) (Snapshot, bool)
}

type Handler struct {
	source   SnapshotSource
	composer *Composer
	filename string
}

func NewHandler(source SnapshotSource, composer *Composer, filename string) *Handler {
	if filename == "" {
		filename = "site-plan.png"
	}
	return &Handler{source: source, composer: composer, filename: sanitizeFilename(filename)}
}

// ExportPNG handles GET /api/sessions/{sessionId}/export.png.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	snap, ok := h.source.ExportSnapshot(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	exportID := typeid.NewExportID()
	slog.Info("export started", "export", exportID, "session", sessionID, "shapes", len(snap.Scene.Shapes))

	var buf bytes.Buffer
	if err := h.composer.WritePNG(&buf, snap); err != nil {
		if errors.Is(err, ErrEmptyViewport) {
			http.Error(w, "viewport has no area", http.StatusConflict)
			return
		}
		slog.Error("compose export", "export", exportID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "export", exportID, "size", buf.Len())
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '-'
	}, name)
}
