// Package editor owns a board while it is being edited.
//
// An Editor holds the board, its anchor position in the world, the undo
// history and the part registry. Every mutation goes through the editor so
// that a snapshot is recorded first and the anchor stays put when the grid
// grows or shrinks on its left and top sides.
//
// Drag style operations are handed out as drag objects. Only one drag may be
// active at a time; while it is, other mutations fail with ErrBusy. A drag
// stages its changes and touches the board only on Commit. Cancel discards
// it.
//
//	ed := editor.New(pcb.NewDefaultBoard(), pcb.Vector{}, editor.Options{})
//	drag, err := ed.BeginReshape(pcb.Coord{X: 2, Y: 0})
//	if err != nil {
//		return err
//	}
//	drag.Move(pcb.Coord{X: 2, Y: 1})
//	result, err := drag.Commit()
//
// The editor is not safe for concurrent use.
package editor
