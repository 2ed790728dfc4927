package session

import (
	"fmt"
	"sync"

	"github.com/mdi/siteplan/internal/engine"
	"github.com/mdi/siteplan/internal/export"
	"github.com/mdi/siteplan/internal/typeid"
)

// Manager owns every live session. Sessions live in memory only.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     engine.Options
}

func NewManager(opts engine.Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create starts an empty session.
func (m *Manager) Create() *Session {
	s := newSession(typeid.NewSessionID(), m.opts)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	if err := typeid.Validate(id, typeid.PrefixSession); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExportSnapshot implements export.SnapshotSource.
func (m *Manager) ExportSnapshot(id string) (export.Snapshot, bool) {
	s, err := m.Get(id)
	if err != nil {
		return export.Snapshot{}, false
	}
	return s.ExportSnapshot(), true
}
