package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/editor"
	"github.com/wricardo/pcb-editor/game/pcb"
)

// BoardService defines all board editing operations
type BoardService interface {
	// Session Management
	CreateSession(ctx context.Context, presetID string) (*SessionInfo, error)
	ImportSession(ctx context.Context, data string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board State
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)
	Export(ctx context.Context, sessionID string) (*ExportResult, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Reshape
	PreviewReshape(ctx context.Context, sessionID string, rect Rect) (*ReshapePreview, error)
	Extend(ctx context.Context, sessionID string, rect Rect) (*OperationResult, error)
	Erase(ctx context.Context, sessionID string, rect Rect) (*OperationResult, error)

	// Etching
	PreviewEtch(ctx context.Context, sessionID string, from, to pcb.Coord) (*EtchPreview, error)
	Etch(ctx context.Context, sessionID string, from, to pcb.Coord) (*OperationResult, error)
	Unetch(ctx context.Context, sessionID string, from, to pcb.Coord) (*OperationResult, error)

	// Parts and locks
	Place(ctx context.Context, sessionID, part string, configuration int, at pcb.Coord) (*OperationResult, error)
	RemovePart(ctx context.Context, sessionID string, at pcb.Coord) (*OperationResult, error)
	SetLocked(ctx context.Context, sessionID string, at pcb.Coord, locked bool) (*OperationResult, error)

	// History
	Undo(ctx context.Context, sessionID string) (*OperationResult, error)
	Redo(ctx context.Context, sessionID string) (*OperationResult, error)

	// Configuration
	ListPresets(ctx context.Context) ([]*config.PresetInfo, error)
	LoadPreset(ctx context.Context, presetID string) (*config.Preset, error)
	ListParts(ctx context.Context) ([]*pcb.PartDefinition, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, presetID string, preset *config.Preset) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// PresetManager handles board preset loading
type PresetManager interface {
	LoadPreset(name string) (*config.Preset, error)
	ListPresets() ([]*config.PresetInfo, error)
	GetDefault() *config.Preset
	Registry() *pcb.Registry
}

// Session represents an active editing session
type Session struct {
	ID             string
	PresetID       string
	Editor         *editor.Editor
	Operations     []OperationEntry
	CreatedAt      time.Time

	// unix nanoseconds; read paths touch it under a shared lock
	lastAccessed atomic.Int64
}

// Touch marks the session as accessed now
func (s *Session) Touch() {
	s.lastAccessed.Store(time.Now().UnixNano())
}

// LastAccessed returns when the session was last accessed
func (s *Session) LastAccessed() time.Time {
	return time.Unix(0, s.lastAccessed.Load())
}

// SetLastAccessed overwrites the access time, as when a stored session is
// restored
func (s *Session) SetLastAccessed(t time.Time) {
	s.lastAccessed.Store(t.UnixNano())
}

// Record appends an entry to the operation log, numbering it
func (s *Session) Record(entry OperationEntry) {
	entry.Seq = 1
	if n := len(s.Operations); n > 0 {
		entry.Seq = s.Operations[n-1].Seq + 1
	}
	s.Operations = append(s.Operations, entry)
}
