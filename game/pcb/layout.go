package pcb

import (
	"fmt"
	"strings"
)

// Layout runes
const (
	LayoutPoint  = '#'
	LayoutLocked = 'L'
	LayoutEmpty  = '.'
)

// BoardFromLayout builds a board from text rows where '#' is a point, 'L' a
// locked point and '.' or ' ' an empty cell. The result is packed.
func BoardFromLayout(rows []string) (*Board, error) {
	board := NewBoard()
	grid := board.Grid()

	for y, row := range rows {
		for x, r := range []rune(row) {
			switch r {
			case LayoutPoint:
				grid.Extend(x, y)
			case LayoutLocked:
				grid.Extend(x, y).Locked = true
			case LayoutEmpty, ' ':
			default:
				return nil, fmt.Errorf("invalid layout rune %q at %s", r, Coord{X: x, Y: y})
			}
		}
	}

	if grid.PointCount() == 0 {
		return nil, fmt.Errorf("layout has no points")
	}
	board.Pack()
	return board, nil
}

// Layout renders the board as text rows. Points holding a part are drawn
// with 'P'.
func (b *Board) Layout() []string {
	rows := make([]string, b.Height())
	for y := range rows {
		var sb strings.Builder
		for x := 0; x < b.Width(); x++ {
			point := b.Get(x, y)
			switch {
			case point == nil:
				sb.WriteRune(LayoutEmpty)
			case point.Part != nil:
				sb.WriteRune('P')
			case point.Locked:
				sb.WriteRune(LayoutLocked)
			default:
				sb.WriteRune(LayoutPoint)
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// Vector is a world-space position in metres
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two vectors
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}
