package editor

import "github.com/wricardo/pcb-editor/game/pcb"

// EtchDrag stages a connection from its start point to the cursor
type EtchDrag struct {
	editor *Editor
	start  pcb.Coord
	erase  bool
	path   *pcb.EtchPath
	closed bool
}

// BeginEtch starts etching from the point under the cursor. With erase set
// the drag removes connections along the path instead.
func (e *Editor) BeginEtch(cursor pcb.Coord, erase bool) (*EtchDrag, error) {
	if e.board.Get(cursor.X, cursor.Y) == nil {
		return nil, ErrNotEditable
	}

	d := &EtchDrag{editor: e, start: cursor, erase: erase}
	if err := e.begin(d); err != nil {
		return nil, err
	}
	d.Move(cursor)
	return d, nil
}

// Move replans the path towards the cursor. Paths that cross an empty cell
// are dropped.
func (d *EtchDrag) Move(cursor pcb.Coord) {
	if d.closed {
		return
	}
	d.path = nil
	if path, ok := pcb.PlanEtch(d.editor.board.Grid(), d.start, cursor); ok {
		d.path = path
	}
}

// Path returns the staged path, or nil when the cursor cannot be reached
func (d *EtchDrag) Path() *pcb.EtchPath {
	return d.path
}

// Commit applies the staged path and ends the drag. It reports whether the
// board changed.
func (d *EtchDrag) Commit() (bool, error) {
	if d.closed {
		return false, ErrDragClosed
	}
	d.close()

	if d.path == nil || d.path.Links() == 0 {
		return false, nil
	}

	e := d.editor
	snapshot := e.snapshot()
	if d.erase {
		if d.path.Erase(e.board.Grid()) == 0 {
			return false, nil
		}
	} else {
		d.path.Commit(e.board.Grid())
	}
	e.history.Push(snapshot)
	return true, nil
}

// Cancel ends the drag without changing the board
func (d *EtchDrag) Cancel() {
	d.close()
}

func (d *EtchDrag) close() {
	d.closed = true
	d.editor.end(d)
}
