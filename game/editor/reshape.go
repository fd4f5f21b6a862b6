package editor

import "github.com/wricardo/pcb-editor/game/pcb"

// ReshapeMode tells whether a reshape drag grows or shrinks the board
type ReshapeMode int

const (
	ModeExtend ReshapeMode = iota
	ModeErase
)

func (m ReshapeMode) String() string {
	if m == ModeErase {
		return "erase"
	}
	return "extend"
}

// ReshapeResult describes a committed reshape
type ReshapeResult struct {
	Mode     ReshapeMode
	Extend   pcb.ExtendReport
	Erase    pcb.EraseReport
	Position pcb.Vector
}

// ReshapeDrag selects a rectangle of cells to add or remove
type ReshapeDrag struct {
	editor     *Editor
	mode       ReshapeMode
	start      pcb.Coord
	cursor     pcb.Coord
	candidates []pcb.Coord
	rejected   error
	closed     bool
}

// BeginReshape starts a reshape drag at the cursor. Starting on a cell the
// board may grow into extends, starting on an unlocked point erases.
func (e *Editor) BeginReshape(cursor pcb.Coord) (*ReshapeDrag, error) {
	d := &ReshapeDrag{editor: e, start: cursor}

	switch point := e.board.Get(cursor.X, cursor.Y); {
	case e.board.IsExtendable(cursor.X, cursor.Y):
		d.mode = ModeExtend
	case point != nil && !point.Locked:
		d.mode = ModeErase
	default:
		return nil, ErrNotEditable
	}

	if err := e.begin(d); err != nil {
		return nil, err
	}
	d.Move(cursor)
	return d, nil
}

// Mode returns whether the drag extends or erases
func (d *ReshapeDrag) Mode() ReshapeMode {
	return d.mode
}

// Move updates the drag rectangle to span from the start cell to cursor
func (d *ReshapeDrag) Move(cursor pcb.Coord) {
	if d.closed {
		return
	}
	d.cursor = cursor
	d.candidates = nil
	d.rejected = nil

	board := d.editor.board
	left, right := min(d.start.X, cursor.X), max(d.start.X, cursor.X)
	top, bottom := min(d.start.Y, cursor.Y), max(d.start.Y, cursor.Y)

	// Nothing outside one cell around the board can be added or removed
	left, right = max(left, -1), min(right, board.Width())
	top, bottom = max(top, -1), min(bottom, board.Height())

	var selected []pcb.Coord
	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			switch d.mode {
			case ModeExtend:
				if board.IsExtendable(x, y) {
					selected = append(selected, pcb.Coord{X: x, Y: y})
				}
			case ModeErase:
				if point := board.Get(x, y); point != nil && !point.Locked {
					selected = append(selected, pcb.Coord{X: x, Y: y})
				}
			}
		}
	}

	if d.mode == ModeExtend {
		d.candidates = selected
		return
	}

	plan, err := pcb.PlanErase(board, selected)
	if err != nil {
		d.rejected = err
		return
	}
	d.candidates = plan
}

// Candidates returns the cells the drag would add or remove
func (d *ReshapeDrag) Candidates() []pcb.Coord {
	return d.candidates
}

// Err returns why the current selection cannot be applied, if it cannot
func (d *ReshapeDrag) Err() error {
	return d.rejected
}

// Bounds returns the corners of the rectangle enclosing the candidates.
// The last result is false when there are none.
func (d *ReshapeDrag) Bounds() (topLeft, bottomRight pcb.Coord, ok bool) {
	if len(d.candidates) == 0 {
		return pcb.Coord{}, pcb.Coord{}, false
	}
	topLeft, bottomRight = d.candidates[0], d.candidates[0]
	for _, c := range d.candidates[1:] {
		topLeft.X = min(topLeft.X, c.X)
		topLeft.Y = min(topLeft.Y, c.Y)
		bottomRight.X = max(bottomRight.X, c.X)
		bottomRight.Y = max(bottomRight.Y, c.Y)
	}
	return topLeft, bottomRight, true
}

// Commit applies the drag and ends it. A rejected selection leaves the
// board unchanged and returns the rejection.
func (d *ReshapeDrag) Commit() (ReshapeResult, error) {
	if d.closed {
		return ReshapeResult{}, ErrDragClosed
	}
	d.close()

	e := d.editor
	result := ReshapeResult{Mode: d.mode}
	if d.rejected != nil {
		return result, d.rejected
	}

	snapshot := e.snapshot()
	switch d.mode {
	case ModeExtend:
		report, err := pcb.Extend(e.board, d.candidates)
		if err != nil {
			return result, err
		}
		e.moveCells(-report.Shift.X, -report.Shift.Y)
		result.Extend = report
	case ModeErase:
		report, err := pcb.Erase(e.board, d.candidates)
		if err != nil {
			return result, err
		}
		e.moveCells(report.Pack.Left, report.Pack.Top)
		result.Erase = report
	}
	e.history.Push(snapshot)

	result.Position = e.position
	return result, nil
}

// Cancel ends the drag without changing the board
func (d *ReshapeDrag) Cancel() {
	d.close()
}

func (d *ReshapeDrag) close() {
	d.closed = true
	d.editor.end(d)
}
