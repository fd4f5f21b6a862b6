package editor

import (
	"errors"
	"fmt"

	"github.com/wricardo/pcb-editor/game/history"
	"github.com/wricardo/pcb-editor/game/pcb"
)

// DefaultCellSize is the world size of one grid cell in metres
const DefaultCellSize = 0.1

var (
	ErrBusy           = errors.New("another edit is in progress")
	ErrNotEditable    = errors.New("cell cannot be edited")
	ErrDragClosed     = errors.New("drag already finished")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrAlreadyApplied = errors.New("point already in that state")
)

// Options configure a new editor
type Options struct {
	CellSize     float64
	UndoCapacity int
	Registry     *pcb.Registry
}

// Editor is the single owner of a board being edited
type Editor struct {
	board    *pcb.Board
	position pcb.Vector
	cellSize float64
	history  *history.Stack
	registry *pcb.Registry
	active   drag
}

type drag interface {
	close()
}

// New creates an editor for board anchored at position
func New(board *pcb.Board, position pcb.Vector, opts Options) *Editor {
	if board == nil {
		board = pcb.NewDefaultBoard()
	}
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.Registry == nil {
		opts.Registry = pcb.DefaultRegistry()
	}
	return &Editor{
		board:    board,
		position: position,
		cellSize: opts.CellSize,
		history:  history.New(opts.UndoCapacity),
		registry: opts.Registry,
	}
}

// Board returns the board being edited. Callers must not mutate it.
func (e *Editor) Board() *pcb.Board {
	return e.board
}

// Position returns the world anchor of the board's top left cell
func (e *Editor) Position() pcb.Vector {
	return e.position
}

// CellSize returns the world size of a cell
func (e *Editor) CellSize() float64 {
	return e.cellSize
}

// Registry returns the parts available for placement
func (e *Editor) Registry() *pcb.Registry {
	return e.registry
}

// History returns the undo history
func (e *Editor) History() *history.Stack {
	return e.history
}

// Busy reports whether a drag is active
func (e *Editor) Busy() bool {
	return e.active != nil
}

// Replace swaps in another board and drops the undo history
func (e *Editor) Replace(board *pcb.Board, position pcb.Vector) error {
	if e.active != nil {
		return ErrBusy
	}
	e.board = board
	e.position = position
	e.history.Clear()
	return nil
}

func (e *Editor) snapshot() history.Snapshot {
	return history.Snapshot{Board: e.board.Clone(), Position: e.position}
}

func (e *Editor) restore(s history.Snapshot) {
	e.board = s.Board
	e.position = s.Position
}

func (e *Editor) begin(d drag) error {
	if e.active != nil {
		return ErrBusy
	}
	e.active = d
	return nil
}

func (e *Editor) end(d drag) {
	if e.active == d {
		e.active = nil
	}
}

// moveCells translates the anchor by a number of cells
func (e *Editor) moveCells(dx, dy int) {
	e.position = e.position.Add(pcb.Vector{X: float64(dx) * e.cellSize, Y: float64(dy) * e.cellSize})
}

// Undo restores the state before the last mutation
func (e *Editor) Undo() error {
	if e.active != nil {
		return ErrBusy
	}
	prev, ok := e.history.Undo(history.Snapshot{Board: e.board, Position: e.position})
	if !ok {
		return ErrNothingToUndo
	}
	e.restore(prev)
	return nil
}

// Redo reapplies the last undone mutation
func (e *Editor) Redo() error {
	if e.active != nil {
		return ErrBusy
	}
	next, ok := e.history.Redo(history.Snapshot{Board: e.board, Position: e.position})
	if !ok {
		return ErrNothingToRedo
	}
	e.restore(next)
	return nil
}

// Place puts a part on the board with its anchor at the given cell
func (e *Editor) Place(name string, configuration int, at pcb.Coord) (*pcb.Fixture, error) {
	if e.active != nil {
		return nil, ErrBusy
	}
	def, err := e.registry.ByName(name)
	if err != nil {
		return nil, err
	}
	part, err := pcb.NewPart(def, configuration)
	if err != nil {
		return nil, err
	}
	if !e.board.Fits(part.Configuration(), at.X, at.Y) {
		return nil, fmt.Errorf("%w: %s at %s", pcb.ErrDoesNotFit, name, at)
	}

	e.history.Push(e.snapshot())
	return e.board.Place(part, at.X, at.Y)
}

// RemovePart takes the part covering the given cell off the board
func (e *Editor) RemovePart(at pcb.Coord) error {
	if e.active != nil {
		return ErrBusy
	}
	fixture := e.board.FixtureAt(at.X, at.Y)
	if fixture == nil {
		return fmt.Errorf("%w: %s", pcb.ErrNoPart, at)
	}

	snapshot := e.snapshot()
	if err := e.board.RemoveFixture(fixture); err != nil {
		return err
	}
	e.history.Push(snapshot)
	return nil
}

// SetLocked sets the lock flag of a point
func (e *Editor) SetLocked(at pcb.Coord, locked bool) error {
	if e.active != nil {
		return ErrBusy
	}
	point := e.board.Get(at.X, at.Y)
	if point == nil {
		return fmt.Errorf("lock %s: %w", at, pcb.ErrNotOccupied)
	}
	if point.Locked == locked {
		return ErrAlreadyApplied
	}

	e.history.Push(e.snapshot())
	point.Locked = locked
	return nil
}
