// Package pcb provides the circuit board grid engine.
//
// The pcb package implements:
//   - The sparse point grid that represents a buildable board
//   - Per-point state: etched connection directions, lock flag, occupying part
//   - Structural editing: extending and erasing regions without splitting the board
//   - Etching cursor drags into mutually linked connection directions
//   - Part definitions and placement on the board
//
// Core Types:
//
// Grid is the sparse rectangular container of points. Board wraps a Grid with
// its extendability flags and the parts placed on it. Point holds the state of
// a single cell, and Paths the set of directions etched onto it.
//
// Usage:
//
//	board := pcb.NewDefaultBoard()
//
//	// Grow the board to the left; the grid shifts right by one cell
//	report, err := pcb.Extend(board, []pcb.Coord{{X: -1, Y: 0}})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Connect two points
//	if path, ok := pcb.PlanEtch(board.Grid(), pcb.Coord{X: 0, Y: 0}, pcb.Coord{X: 2, Y: 1}); ok {
//		path.Commit(board.Grid())
//	}
//
// Integrity:
//
// A board always holds at least one point and always forms a single
// 4-connected piece. Erase refuses selections that would empty the board or
// strand a locked point, and sweeps smaller unlocked fragments away together
// with the selection.
//
// The engine is single-threaded and synchronous; callers serialize access.
package pcb
