package pcb

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToExtend = errors.New("no extendable cells selected")
	ErrNothingToErase  = errors.New("no erasable points selected")
	ErrEraseAll        = errors.New("erase would remove every point")
	ErrOrphansLocked   = errors.New("erase would cut off locked points")
)

// ExtendReport tells how far the grid moved to make room for new points.
// Callers keep the board in place by moving its anchor by -Shift cells.
type ExtendReport struct {
	Added []Coord `json:"added"`
	Shift Coord   `json:"shift"`
}

// EraseReport lists the erased points in pre-pack coordinates and the trim
// applied afterwards. Callers move the anchor by +Left, +Top cells.
type EraseReport struct {
	Erased []Coord    `json:"erased"`
	Pack   PackReport `json:"pack"`
}

// Extend adds points at the candidate coordinates, which may be negative.
// Candidates that are not extendable on the board are ignored.
func Extend(board *Board, candidates []Coord) (ExtendReport, error) {
	grid := board.Grid()

	var positives, negatives []Coord
	seen := make(map[Coord]bool, len(candidates))
	minX, minY := 0, 0

	for _, c := range candidates {
		if seen[c] || !board.IsExtendable(c.X, c.Y) {
			continue
		}
		seen[c] = true

		if c.X < 0 || c.Y < 0 {
			minX = min(minX, c.X)
			minY = min(minY, c.Y)
			negatives = append(negatives, c)
			continue
		}
		positives = append(positives, c)
	}

	if len(positives) == 0 && len(negatives) == 0 {
		return ExtendReport{}, ErrNothingToExtend
	}

	// Positive cells go first: shifting would invalidate their coordinates.
	for _, c := range positives {
		grid.Extend(c.X, c.Y)
	}

	report := ExtendReport{Shift: Coord{X: -minX, Y: -minY}}
	board.Shift(report.Shift.X, report.Shift.Y)

	for _, c := range positives {
		report.Added = append(report.Added, c.Add(report.Shift.X, report.Shift.Y))
	}
	for _, c := range negatives {
		at := c.Add(report.Shift.X, report.Shift.Y)
		grid.Extend(at.X, at.Y)
		report.Added = append(report.Added, at)
	}

	return report, nil
}

// PlanErase returns the points that erasing the candidates would remove.
// Locked and absent candidates are dropped. When the removal would split the
// board, the largest remaining piece is kept and every other piece is added
// to the plan; the plan is rejected if one of those pieces is locked.
func PlanErase(board *Board, candidates []Coord) ([]Coord, error) {
	grid := board.Grid()

	selected := make(map[Coord]bool, len(candidates))
	var plan []Coord
	for _, c := range candidates {
		point := grid.Get(c.X, c.Y)
		if point == nil || point.Locked || selected[c] {
			continue
		}
		selected[c] = true
		plan = append(plan, c)
	}

	if len(plan) == 0 {
		return nil, ErrNothingToErase
	}
	if len(plan) == grid.PointCount() {
		return nil, ErrEraseAll
	}

	groups := Partition(grid, func(x, y int, _ *Point) bool {
		return !selected[Coord{X: x, Y: y}]
	})
	if len(groups) <= 1 {
		return plan, nil
	}

	keep := Largest(groups)
	for i, g := range groups {
		if i == keep {
			continue
		}
		if g.Locked {
			return nil, fmt.Errorf("%w: %d point group at %s", ErrOrphansLocked, g.Size(), g.Points[0])
		}
		plan = append(plan, g.Points...)
	}

	return plan, nil
}

// Erase removes the candidates from the board following PlanErase. Parts
// touching an erased point are removed, paths leading into erased points
// are cleared and the grid is packed. The board is untouched on error.
func Erase(board *Board, candidates []Coord) (EraseReport, error) {
	plan, err := PlanErase(board, candidates)
	if err != nil {
		return EraseReport{}, err
	}

	grid := board.Grid()
	for _, c := range plan {
		if fixture := board.FixtureAt(c.X, c.Y); fixture != nil {
			if err := board.RemoveFixture(fixture); err != nil {
				return EraseReport{}, err
			}
		}
	}

	for _, c := range plan {
		if err := grid.Erase(c.X, c.Y); err != nil {
			return EraseReport{}, fmt.Errorf("erase point: %w", err)
		}
	}

	for _, c := range plan {
		for d := Direction(0); d < DirectionCount; d++ {
			dx, dy := d.Delta()
			if neighbor := grid.Get(c.X+dx, c.Y+dy); neighbor != nil {
				neighbor.Paths.Clear(d.Opposite())
			}
		}
	}

	return EraseReport{Erased: plan, Pack: board.Pack()}, nil
}
