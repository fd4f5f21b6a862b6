package session

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
	"github.com/wricardo/pcb-editor/game/service"
)

// schema.sql creates the sessions table. Boards are stored in the
// compressed binary form, operation logs as JSON.
//
//go:embed schema.sql
var schemaSQL string

// SQLitePersistence implements SessionPersistence on a SQLite database
type SQLitePersistence struct {
	db       *sql.DB
	registry *pcb.Registry
	logger   *zap.Logger
}

// NewSQLitePersistence opens (or creates) the database at path
func NewSQLitePersistence(path string, registry *pcb.Registry, logger *zap.Logger) (*SQLitePersistence, error) {
	if registry == nil {
		registry = pcb.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session schema: %w", err)
	}

	logger.Info("initialized session database", zap.String("path", path))
	return &SQLitePersistence{db: db, registry: registry, logger: logger}, nil
}

// Close closes the database
func (sp *SQLitePersistence) Close() error {
	return sp.db.Close()
}

// Save inserts or replaces a session row
func (sp *SQLitePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data := newPersistedData(session)
	board, err := pcbfile.Pack(session.Editor.Board())
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}
	operations, err := json.Marshal(data.Operations)
	if err != nil {
		return fmt.Errorf("failed to marshal operations: %w", err)
	}

	query := `
		INSERT INTO sessions (id, preset_id, created_at, last_accessed_at, board,
			position_x, position_y, cell_size, undo_capacity, operations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			preset_id = excluded.preset_id,
			last_accessed_at = excluded.last_accessed_at,
			board = excluded.board,
			position_x = excluded.position_x,
			position_y = excluded.position_y,
			cell_size = excluded.cell_size,
			undo_capacity = excluded.undo_capacity,
			operations = excluded.operations
	`
	_, err = sp.db.Exec(query,
		strings.ToLower(data.ID), data.PresetID,
		data.CreatedAt.UnixNano(), data.LastAccessedAt.UnixNano(),
		board, data.Position.X, data.Position.Y,
		data.CellSize, data.UndoCapacity, string(operations),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %v", data.ID, err)
	}
	return nil
}

// Load reads a session row and decodes its board
func (sp *SQLitePersistence) Load(id string) (*service.Session, error) {
	query := `
		SELECT id, preset_id, created_at, last_accessed_at, board,
			position_x, position_y, cell_size, undo_capacity, operations
		FROM sessions WHERE id = ?
	`

	var (
		data              PersistedSessionData
		created, accessed int64
		board             []byte
		operations        string
	)
	err := sp.db.QueryRow(query, strings.ToLower(id)).Scan(
		&data.ID, &data.PresetID, &created, &accessed, &board,
		&data.Position.X, &data.Position.Y, &data.CellSize, &data.UndoCapacity, &operations,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %v", id, err)
	}

	data.CreatedAt = time.Unix(0, created)
	data.LastAccessedAt = time.Unix(0, accessed)
	if err := json.Unmarshal([]byte(operations), &data.Operations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal operations of %s: %w", id, err)
	}

	decoded, err := pcbfile.Unpack(board, sp.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode board of %s: %w", id, err)
	}
	return data.session(decoded, sp.registry), nil
}

// Delete removes a session row
func (sp *SQLitePersistence) Delete(id string) error {
	result, err := sp.db.Exec(`DELETE FROM sessions WHERE id = ?`, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %v", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs, oldest first
func (sp *SQLitePersistence) ListAll() ([]string, error) {
	rows, err := sp.db.Query(`SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a session row exists
func (sp *SQLitePersistence) Exists(id string) bool {
	var one int
	err := sp.db.QueryRow(`SELECT 1 FROM sessions WHERE id = ?`, strings.ToLower(id)).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		sp.logger.Warn("session lookup failed", zap.String("session", id), zap.Error(err))
	}
	return err == nil
}
