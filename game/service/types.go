package service

import (
	"time"

	"github.com/wricardo/pcb-editor/game/pcb"
)

// SessionInfo provides information about an editing session
type SessionInfo struct {
	ID             string     `json:"id"`
	PresetID       string     `json:"preset_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	Board          *BoardView `json:"board"`
	CanUndo        bool       `json:"can_undo"`
	CanRedo        bool       `json:"can_redo"`
	Operations     int        `json:"operations"`
}

// Rect selects the cells spanned by two corners, in any order
type Rect struct {
	From pcb.Coord `json:"from"`
	To   pcb.Coord `json:"to"`
}

// OperationResult reports the outcome of a mutating call
type OperationResult struct {
	Operation string      `json:"operation"`
	Applied   bool        `json:"applied"`
	Reason    string      `json:"reason,omitempty"`
	Added     []pcb.Coord `json:"added,omitempty"`
	Erased    []pcb.Coord `json:"erased,omitempty"`
	Shift     *pcb.Coord  `json:"shift,omitempty"`
	Fixture   *Fixture    `json:"fixture,omitempty"`
	Board     *BoardView  `json:"board"`
}

// ReshapePreview describes what a reshape drag over a rectangle would do
type ReshapePreview struct {
	Mode        string      `json:"mode"`
	Candidates  []pcb.Coord `json:"candidates"`
	TopLeft     *pcb.Coord  `json:"top_left,omitempty"`
	BottomRight *pcb.Coord  `json:"bottom_right,omitempty"`
	Reason      string      `json:"reason,omitempty"`
}

// EtchPreview describes the path an etch drag would stage
type EtchPreview struct {
	Reachable bool        `json:"reachable"`
	Links     int         `json:"links"`
	Cells     []pcb.Coord `json:"cells"`
}

// BoardView is the read-only projection of a board used for rendering
type BoardView struct {
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Points        int               `json:"points"`
	Rows          []string          `json:"rows"`
	Cells         []Cell            `json:"cells"`
	Fixtures      []Fixture         `json:"fixtures"`
	Extendability pcb.Extendability `json:"extendability"`
	Position      pcb.Vector        `json:"position"`
	CellSize      float64           `json:"cell_size"`
}

// Cell is one occupied point of a BoardView
type Cell struct {
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Paths      []string `json:"paths,omitempty"`
	Locked     bool     `json:"locked,omitempty"`
	Connection bool     `json:"connection,omitempty"`
	Junction   bool     `json:"junction,omitempty"`
	Part       string   `json:"part,omitempty"`
}

// Fixture is a placed part in a BoardView
type Fixture struct {
	Part          string      `json:"part"`
	Configuration int         `json:"configuration"`
	X             int         `json:"x"`
	Y             int         `json:"y"`
	Cells         []pcb.Coord `json:"cells"`
	Pins          []pcb.Coord `json:"pins"`
}

// OperationEntry is one record of a session's operation log
type OperationEntry struct {
	Seq       int       `json:"seq"`
	Operation string    `json:"operation"`
	Applied   bool      `json:"applied"`
	Reason    string    `json:"reason,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryOptions configures operation log retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the operation log
type HistoryResponse struct {
	Operations      []OperationEntry `json:"operations"`
	TotalOperations int              `json:"total_operations"`
	Page            int              `json:"page"`
	PageSize        int              `json:"page_size"`
	TotalPages      int              `json:"total_pages"`
	HasNext         bool             `json:"has_next"`
	HasPrevious     bool             `json:"has_previous"`
}

// ExportResult carries a board in its portable text form
type ExportResult struct {
	SessionID string `json:"session_id"`
	Data      string `json:"data"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}
