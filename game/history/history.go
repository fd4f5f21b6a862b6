// Package history keeps bounded undo and redo stacks of board snapshots.
package history

import "github.com/wricardo/pcb-editor/game/pcb"

// DefaultCapacity is the number of undo steps kept when none is configured
const DefaultCapacity = 64

// Snapshot is a board together with its world anchor
type Snapshot struct {
	Board    *pcb.Board
	Position pcb.Vector
}

// Stack holds undo and redo snapshots. Once the undo side exceeds its
// capacity the oldest snapshot is dropped.
type Stack struct {
	capacity int
	undo     []Snapshot
	redo     []Snapshot
}

// New creates a stack; a capacity below one uses DefaultCapacity
func New(capacity int) *Stack {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Stack{capacity: capacity}
}

// Capacity returns the maximum number of undo steps
func (s *Stack) Capacity() int {
	return s.capacity
}

// Push records the state before a mutation and clears the redo side.
// The snapshot must not be mutated afterwards.
func (s *Stack) Push(snapshot Snapshot) {
	s.undo = append(s.undo, snapshot)
	if len(s.undo) > s.capacity {
		s.undo = s.undo[len(s.undo)-s.capacity:]
	}
	s.redo = nil
}

// Undo returns the previous state and saves current for Redo
func (s *Stack) Undo(current Snapshot) (Snapshot, bool) {
	if len(s.undo) == 0 {
		return Snapshot{}, false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return prev, true
}

// Redo returns the state undone last and saves current for Undo
func (s *Stack) Redo(current Snapshot) (Snapshot, bool) {
	if len(s.redo) == 0 {
		return Snapshot{}, false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, current)
	return next, true
}

// CanUndo reports whether an undo step is available
func (s *Stack) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether a redo step is available
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}

// Depth returns the number of undo and redo steps held
func (s *Stack) Depth() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

// Clear drops every snapshot
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}
