package pcb

// EtchEntry is one point of a staged etch path and the paths it gains
type EtchEntry struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Paths Paths `json:"-"`
}

// EtchPath is a staged connection between two points.
// Nothing changes on the grid until the path is committed or erased.
type EtchPath struct {
	Entries []EtchEntry
}

// PlanEtch builds the path from one point to another by stepping one cell
// towards the target on each axis at a time. It returns false when either
// end or any cell on the way is not a point.
func PlanEtch(grid *Grid, from, to Coord) (*EtchPath, bool) {
	if grid.Get(from.X, from.Y) == nil || grid.Get(to.X, to.Y) == nil {
		return nil, false
	}

	path := &EtchPath{Entries: []EtchEntry{{X: from.X, Y: from.Y}}}
	at := from

	for at != to {
		next := Coord{X: at.X + step(at.X, to.X), Y: at.Y + step(at.Y, to.Y)}
		if grid.Get(next.X, next.Y) == nil {
			return nil, false
		}

		// Direction pointing back from the new point to the previous one
		back, _ := DirectionOf(at.X-next.X, at.Y-next.Y)
		path.Entries[len(path.Entries)-1].Paths.Etch(back.Opposite())
		entry := EtchEntry{X: next.X, Y: next.Y}
		entry.Paths.Etch(back)
		path.Entries = append(path.Entries, entry)

		at = next
	}

	return path, true
}

func step(from, to int) int {
	switch {
	case from < to:
		return 1
	case from > to:
		return -1
	default:
		return 0
	}
}

// Links returns the number of connections in the path
func (p *EtchPath) Links() int {
	if len(p.Entries) == 0 {
		return 0
	}
	return len(p.Entries) - 1
}

// Commit merges the staged paths into the grid. Existing paths are kept.
func (p *EtchPath) Commit(grid *Grid) {
	for _, e := range p.Entries {
		if point := grid.Get(e.X, e.Y); point != nil {
			point.Paths.Flatten(e.Paths)
		}
	}
}

// Erase removes the staged links from the grid. Links with a locked point
// on either end are left in place. It returns the number of links removed.
func (p *EtchPath) Erase(grid *Grid) int {
	removed := 0
	for i := 1; i < len(p.Entries); i++ {
		prev, next := p.Entries[i-1], p.Entries[i]
		a, b := grid.Get(prev.X, prev.Y), grid.Get(next.X, next.Y)
		if a == nil || b == nil || a.Locked || b.Locked {
			continue
		}

		d, ok := DirectionOf(next.X-prev.X, next.Y-prev.Y)
		if !ok || !a.Paths.Has(d) {
			continue
		}
		a.Paths.Clear(d)
		b.Paths.Clear(d.Opposite())
		removed++
	}
	return removed
}
