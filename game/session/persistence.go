package session

import (
	"time"

	"github.com/wricardo/pcb-editor/game/editor"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. Undo history is
// not kept: a restored session starts with an empty history.
type PersistedSessionData struct {
	ID             string                   `json:"id"`
	PresetID       string                   `json:"preset_id"`
	CreatedAt      time.Time                `json:"created_at"`
	LastAccessedAt time.Time                `json:"last_accessed_at"`
	Board          string                   `json:"board"` // pcbfile text form
	Position       pcb.Vector               `json:"position"`
	CellSize       float64                  `json:"cell_size"`
	UndoCapacity   int                      `json:"undo_capacity"`
	Operations     []service.OperationEntry `json:"operations"`
}

// newPersistedData copies everything but the board out of a session
func newPersistedData(session *service.Session) PersistedSessionData {
	ed := session.Editor
	return PersistedSessionData{
		ID:             session.ID,
		PresetID:       session.PresetID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessed(),
		Position:       ed.Position(),
		CellSize:       ed.CellSize(),
		UndoCapacity:   ed.History().Capacity(),
		Operations:     session.Operations,
	}
}

// session rebuilds a live session around a decoded board
func (d PersistedSessionData) session(board *pcb.Board, registry *pcb.Registry) *service.Session {
	session := &service.Session{
		ID:       d.ID,
		PresetID: d.PresetID,
		Editor: editor.New(board, d.Position, editor.Options{
			CellSize:     d.CellSize,
			UndoCapacity: d.UndoCapacity,
			Registry:     registry,
		}),
		Operations: d.Operations,
		CreatedAt:  d.CreatedAt,
	}
	session.SetLastAccessed(d.LastAccessedAt)
	return session
}
