package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/editor"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotExtendable   = errors.New("extend must start on a cell the board can grow into")
	ErrNotErasable     = errors.New("erase must start on an unlocked point")
	ErrUnreachable     = errors.New("path crosses an empty cell")
	ErrNothingEtched   = errors.New("no connection to change")
)

// ImportedPreset is the preset id recorded for sessions created from a board file
const ImportedPreset = "imported"

// boardServiceImpl implements the BoardService interface
type boardServiceImpl struct {
	sessions SessionManager
	presets  PresetManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewBoardService creates a new board service instance
func NewBoardService(sessions SessionManager, presets PresetManager, logger *zap.Logger) BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &boardServiceImpl{
		sessions: sessions,
		presets:  presets,
		logger:   logger,
	}
}

func newSessionInfo(sess *Session) *SessionInfo {
	hist := sess.Editor.History()
	return &SessionInfo{
		ID:             sess.ID,
		PresetID:       sess.PresetID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		Board:          NewBoardView(sess.Editor),
		CanUndo:        hist.CanUndo(),
		CanRedo:        hist.CanRedo(),
		Operations:     len(sess.Operations),
	}
}

// CreateSession creates a new session from a preset, or the default preset
// when presetID is empty
func (s *boardServiceImpl) CreateSession(ctx context.Context, presetID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset := s.presets.GetDefault()
	if presetID == "" {
		presetID = config.DefaultPreset
	} else {
		var err error
		preset, err = s.presets.LoadPreset(presetID)
		if errors.Is(err, config.ErrPresetNotFound) {
			// Provide helpful error message with available options
			if infos, listErr := s.presets.ListPresets(); listErr == nil && len(infos) > 0 {
				ids := make([]string, 0, len(infos))
				for _, info := range infos {
					ids = append(ids, info.PresetID)
				}
				return nil, fmt.Errorf("%w: '%s'. Available presets: %v", config.ErrPresetNotFound, presetID, ids)
			}
			return nil, fmt.Errorf("%w: '%s'. Use /api/presets to list available presets", config.ErrPresetNotFound, presetID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load preset %s: %w", presetID, err)
		}
	}

	sess, err := s.sessions.Create("", presetID, preset)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created", zap.String("session", sess.ID), zap.String("preset", presetID))
	return newSessionInfo(sess), nil
}

// ImportSession creates a session holding a board decoded from its text form
func (s *boardServiceImpl) ImportSession(ctx context.Context, data string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := pcbfile.Unmarshal(data, s.presets.Registry())
	if err != nil {
		return nil, fmt.Errorf("failed to import board: %w", err)
	}

	sess, err := s.sessions.Create("", ImportedPreset, s.presets.GetDefault())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := sess.Editor.Replace(board, pcb.Vector{}); err != nil {
		return nil, fmt.Errorf("failed to install imported board: %w", err)
	}
	sess.Record(OperationEntry{
		Operation: "import",
		Applied:   true,
		Width:     board.Width(),
		Height:    board.Height(),
		Timestamp: time.Now(),
	})

	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn("failed to persist imported session", zap.String("session", sess.ID), zap.Error(err))
	}

	s.logger.Info("session imported", zap.String("session", sess.ID),
		zap.Int("width", board.Width()), zap.Int("height", board.Height()))
	return newSessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *boardServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *boardServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *boardServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// GetBoard returns the rendering projection of a session's board
func (s *boardServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return NewBoardView(sess.Editor), nil
}

// Export encodes a session's board in its text form
func (s *boardServiceImpl) Export(ctx context.Context, sessionID string) (*ExportResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	board := sess.Editor.Board()
	data, err := pcbfile.Marshal(board)
	if err != nil {
		return nil, fmt.Errorf("failed to export board: %w", err)
	}
	return &ExportResult{
		SessionID: sess.ID,
		Data:      data,
		Width:     board.Width(),
		Height:    board.Height(),
	}, nil
}

// GetHistory returns a page of the session's operation log
func (s *boardServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	log := sess.Operations
	total := len(log)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	operations := []OperationEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			operations = append(operations, log[i])
		}
	} else if start < total {
		operations = append(operations, log[start:end]...)
	}

	return &HistoryResponse{
		Operations:      operations,
		TotalOperations: total,
		Page:            opts.Page,
		PageSize:        opts.Limit,
		TotalPages:      totalPages,
		HasNext:         opts.Page < totalPages,
		HasPrevious:     opts.Page > 1,
	}, nil
}

// PreviewReshape reports what a reshape over rect would select without
// applying it. The drag it opens holds the editor, hence the write lock.
func (s *boardServiceImpl) PreviewReshape(ctx context.Context, sessionID string, rect Rect) (*ReshapePreview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	preview := &ReshapePreview{Candidates: []pcb.Coord{}}
	drag, err := sess.Editor.BeginReshape(rect.From)
	if err != nil {
		preview.Reason = err.Error()
		return preview, nil
	}
	defer drag.Cancel()

	drag.Move(rect.To)
	preview.Mode = drag.Mode().String()
	if err := drag.Err(); err != nil {
		preview.Reason = err.Error()
	}
	preview.Candidates = append(preview.Candidates, drag.Candidates()...)
	if tl, br, ok := drag.Bounds(); ok {
		preview.TopLeft, preview.BottomRight = &tl, &br
	}
	return preview, nil
}

// Extend grows the board over the extendable cells of rect
func (s *boardServiceImpl) Extend(ctx context.Context, sessionID string, rect Rect) (*OperationResult, error) {
	return s.reshape(sessionID, "extend", editor.ModeExtend, ErrNotExtendable, rect)
}

// Erase removes the unlocked points of rect
func (s *boardServiceImpl) Erase(ctx context.Context, sessionID string, rect Rect) (*OperationResult, error) {
	return s.reshape(sessionID, "erase", editor.ModeErase, ErrNotErasable, rect)
}

func (s *boardServiceImpl) reshape(sessionID, op string, mode editor.ReshapeMode, wrongMode error, rect Rect) (*OperationResult, error) {
	detail := fmt.Sprintf("%s-%s", rect.From, rect.To)
	return s.mutate(sessionID, op, detail, func(ed *editor.Editor, res *OperationResult) error {
		drag, err := ed.BeginReshape(rect.From)
		if err != nil {
			if errors.Is(err, editor.ErrNotEditable) {
				return wrongMode
			}
			return err
		}
		if drag.Mode() != mode {
			drag.Cancel()
			return wrongMode
		}

		drag.Move(rect.To)
		result, err := drag.Commit()
		if err != nil {
			return err
		}

		switch mode {
		case editor.ModeExtend:
			res.Added = result.Extend.Added
			if shift := result.Extend.Shift; shift != (pcb.Coord{}) {
				res.Shift = &shift
			}
		case editor.ModeErase:
			res.Erased = result.Erase.Erased
		}
		return nil
	})
}

// PreviewEtch plans the path between two points without etching it
func (s *boardServiceImpl) PreviewEtch(ctx context.Context, sessionID string, from, to pcb.Coord) (*EtchPreview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	preview := &EtchPreview{Cells: []pcb.Coord{}}
	path, ok := pcb.PlanEtch(sess.Editor.Board().Grid(), from, to)
	if !ok {
		return preview, nil
	}
	preview.Reachable = true
	preview.Links = path.Links()
	for _, entry := range path.Entries {
		preview.Cells = append(preview.Cells, pcb.Coord{X: entry.X, Y: entry.Y})
	}
	return preview, nil
}

// Etch connects two points along the planned path
func (s *boardServiceImpl) Etch(ctx context.Context, sessionID string, from, to pcb.Coord) (*OperationResult, error) {
	return s.etch(sessionID, "etch", false, from, to)
}

// Unetch removes the connections along the planned path
func (s *boardServiceImpl) Unetch(ctx context.Context, sessionID string, from, to pcb.Coord) (*OperationResult, error) {
	return s.etch(sessionID, "unetch", true, from, to)
}

func (s *boardServiceImpl) etch(sessionID, op string, erase bool, from, to pcb.Coord) (*OperationResult, error) {
	detail := fmt.Sprintf("%s-%s", from, to)
	return s.mutate(sessionID, op, detail, func(ed *editor.Editor, res *OperationResult) error {
		drag, err := ed.BeginEtch(from, erase)
		if err != nil {
			return err
		}
		drag.Move(to)
		if drag.Path() == nil {
			drag.Cancel()
			return ErrUnreachable
		}

		changed, err := drag.Commit()
		if err != nil {
			return err
		}
		if !changed {
			return ErrNothingEtched
		}
		return nil
	})
}

// Place puts a part on the board
func (s *boardServiceImpl) Place(ctx context.Context, sessionID, part string, configuration int, at pcb.Coord) (*OperationResult, error) {
	detail := fmt.Sprintf("%s/%d at %s", part, configuration, at)
	return s.mutate(sessionID, "place", detail, func(ed *editor.Editor, res *OperationResult) error {
		fixture, err := ed.Place(part, configuration, at)
		if err != nil {
			return err
		}
		placed := newFixture(fixture)
		res.Fixture = &placed
		return nil
	})
}

// RemovePart takes the part covering a cell off the board
func (s *boardServiceImpl) RemovePart(ctx context.Context, sessionID string, at pcb.Coord) (*OperationResult, error) {
	return s.mutate(sessionID, "remove_part", at.String(), func(ed *editor.Editor, res *OperationResult) error {
		return ed.RemovePart(at)
	})
}

// SetLocked sets or clears the lock on a point
func (s *boardServiceImpl) SetLocked(ctx context.Context, sessionID string, at pcb.Coord, locked bool) (*OperationResult, error) {
	op := "unlock"
	if locked {
		op = "lock"
	}
	return s.mutate(sessionID, op, at.String(), func(ed *editor.Editor, res *OperationResult) error {
		return ed.SetLocked(at, locked)
	})
}

// Undo restores the board before the last applied edit
func (s *boardServiceImpl) Undo(ctx context.Context, sessionID string) (*OperationResult, error) {
	return s.mutate(sessionID, "undo", "", func(ed *editor.Editor, res *OperationResult) error {
		return ed.Undo()
	})
}

// Redo reapplies the last undone edit
func (s *boardServiceImpl) Redo(ctx context.Context, sessionID string) (*OperationResult, error) {
	return s.mutate(sessionID, "redo", "", func(ed *editor.Editor, res *OperationResult) error {
		return ed.Redo()
	})
}

// ListPresets returns available board presets
func (s *boardServiceImpl) ListPresets(ctx context.Context) ([]*config.PresetInfo, error) {
	return s.presets.ListPresets()
}

// LoadPreset loads a specific board preset
func (s *boardServiceImpl) LoadPreset(ctx context.Context, presetID string) (*config.Preset, error) {
	return s.presets.LoadPreset(presetID)
}

// ListParts returns the part definitions available for placement
func (s *boardServiceImpl) ListParts(ctx context.Context) ([]*pcb.PartDefinition, error) {
	return s.presets.Registry().List(), nil
}

// lookup resolves a session and marks it accessed. Callers hold s.mu.
func (s *boardServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Debug("failed to touch session", zap.String("session", sessionID), zap.Error(err))
	}
	return sess, nil
}

// mutate runs one editor operation under the write lock, records it in the
// operation log and persists the session. An error from apply is a
// rejection: it is reported on the result and the board is unchanged.
func (s *boardServiceImpl) mutate(sessionID, op, detail string, apply func(ed *editor.Editor, res *OperationResult) error) (*OperationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	res := &OperationResult{Operation: op}
	if err := apply(sess.Editor, res); err != nil {
		res.Reason = err.Error()
	} else {
		res.Applied = true
	}

	board := sess.Editor.Board()
	sess.Record(OperationEntry{
		Operation: op,
		Applied:   res.Applied,
		Reason:    res.Reason,
		Detail:    detail,
		Width:     board.Width(),
		Height:    board.Height(),
		Timestamp: time.Now(),
	})
	res.Board = NewBoardView(sess.Editor)

	// Auto-save session after every operation so the log survives restarts
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session", zap.String("session", sessionID),
			zap.String("operation", op), zap.Error(err))
	}

	s.logger.Debug("operation", zap.String("session", sessionID), zap.String("operation", op),
		zap.String("detail", detail), zap.Bool("applied", res.Applied), zap.String("reason", res.Reason))
	return res, nil
}
