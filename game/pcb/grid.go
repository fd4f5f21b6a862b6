package pcb

import (
	"errors"
	"fmt"
)

const (
	// DefaultWidth is the width of a freshly initialized board
	DefaultWidth = 2
	// DefaultHeight is the height of a freshly initialized board
	DefaultHeight = 2
)

var (
	ErrNotOccupied = errors.New("cell is not occupied")
	ErrLastPoint   = errors.New("cannot erase the last point of a board")
)

// Coord is a grid coordinate
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate offset by (dx, dy)
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// String formats the coordinate as (x,y)
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// PackReport tells how many rows and columns were trimmed from each side
type PackReport struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// IsZero reports whether nothing was trimmed
func (r PackReport) IsZero() bool {
	return r == PackReport{}
}

// Grid is a sparse rectangular container of points.
// Rows may be shorter than the width; missing cells are absent.
type Grid struct {
	rows       [][]*Point
	width      int
	pointCount int
}

// NewGrid creates an empty grid
func NewGrid() *Grid {
	return &Grid{}
}

// NewDefaultGrid creates a grid filled with the default footprint
func NewDefaultGrid() *Grid {
	g := NewGrid()
	for y := 0; y < DefaultHeight; y++ {
		for x := 0; x < DefaultWidth; x++ {
			g.Extend(x, y)
		}
	}
	return g
}

// Get returns the point at (x, y), or nil if no point is placed there.
// Coordinates outside the stored rows and columns are simply absent.
func (g *Grid) Get(x, y int) *Point {
	if x < 0 || y < 0 || y >= len(g.rows) || x >= len(g.rows[y]) {
		return nil
	}
	return g.rows[y][x]
}

// Contains reports whether a point exists at (x, y)
func (g *Grid) Contains(x, y int) bool {
	return g.Get(x, y) != nil
}

// Width returns the width of the grid in points
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of stored rows
func (g *Grid) Height() int {
	return len(g.rows)
}

// PointCount returns the number of points in the grid
func (g *Grid) PointCount() int {
	return g.pointCount
}

// Extend creates a fresh point at (x, y) and returns it.
// The grid cannot hold negative coordinates; shift before extending there.
// An existing point at (x, y) is replaced and its state is lost.
func (g *Grid) Extend(x, y int) *Point {
	for len(g.rows) <= y {
		g.rows = append(g.rows, nil)
	}
	for len(g.rows[y]) <= x {
		g.rows[y] = append(g.rows[y], nil)
	}

	point := &Point{}
	g.rows[y][x] = point

	if x >= g.width {
		g.width = x + 1
	}
	g.pointCount++

	return point
}

// Erase removes the point at (x, y). Pack afterwards to trim empty borders.
func (g *Grid) Erase(x, y int) error {
	if g.Get(x, y) == nil {
		return fmt.Errorf("erase %s: %w", Coord{X: x, Y: y}, ErrNotOccupied)
	}
	if g.pointCount == 1 {
		return ErrLastPoint
	}

	g.rows[y][x] = nil
	g.pointCount--
	return nil
}

// Shift inserts dx empty columns on the left of every row and dy empty rows
// on top. Both offsets must be non-negative.
func (g *Grid) Shift(dx, dy int) {
	if dx < 0 || dy < 0 {
		panic(fmt.Sprintf("pcb: negative shift (%d, %d)", dx, dy))
	}

	if dx > 0 {
		for y, row := range g.rows {
			if len(row) == 0 {
				continue
			}
			shifted := make([]*Point, dx+len(row))
			copy(shifted[dx:], row)
			g.rows[y] = shifted
		}
		g.width += dx
	}

	if dy > 0 {
		g.rows = append(make([][]*Point, dy), g.rows...)
	}
}

// Pack removes empty rows and columns from the sides.
// Use this after erasing points.
func (g *Grid) Pack() PackReport {
	if g.pointCount == 0 {
		return PackReport{}
	}

	return PackReport{
		Top:    g.trimRowsTop(),
		Bottom: g.trimRowsBottom(),
		Left:   g.trimColumnsLeft(),
		Right:  g.trimColumnsRight(),
	}
}

func (g *Grid) rowEmpty(y int) bool {
	for _, point := range g.rows[y] {
		if point != nil {
			return false
		}
	}
	return true
}

func (g *Grid) trimRowsTop() int {
	trimmed := 0
	for trimmed < len(g.rows) && g.rowEmpty(trimmed) {
		trimmed++
	}
	g.rows = g.rows[trimmed:]
	return trimmed
}

func (g *Grid) trimRowsBottom() int {
	height := len(g.rows)
	for len(g.rows) > 0 && g.rowEmpty(len(g.rows)-1) {
		g.rows = g.rows[:len(g.rows)-1]
	}
	return height - len(g.rows)
}

func (g *Grid) columnEmpty(x int) bool {
	for y := range g.rows {
		if g.Get(x, y) != nil {
			return false
		}
	}
	return true
}

func (g *Grid) trimColumnsLeft() int {
	trimmed := 0
	for trimmed < g.width && g.columnEmpty(trimmed) {
		trimmed++
	}
	if trimmed == 0 {
		return 0
	}

	for y, row := range g.rows {
		if len(row) <= trimmed {
			g.rows[y] = nil
			continue
		}
		g.rows[y] = row[trimmed:]
	}
	g.width -= trimmed
	return trimmed
}

func (g *Grid) trimColumnsRight() int {
	width := g.width
	detected := 0

	for y, row := range g.rows {
		column := len(row)
		for column > 0 && row[column-1] == nil {
			column--
		}
		g.rows[y] = row[:column]

		if column > detected {
			detected = column
		}
	}

	g.width = detected
	return width - detected
}

// Each calls f for every point in raster order
func (g *Grid) Each(f func(x, y int, p *Point)) {
	for y, row := range g.rows {
		for x, point := range row {
			if point != nil {
				f(x, y, point)
			}
		}
	}
}

// Coords returns the coordinates of every point in raster order
func (g *Grid) Coords() []Coord {
	coords := make([]Coord, 0, g.pointCount)
	g.Each(func(x, y int, _ *Point) {
		coords = append(coords, Coord{X: x, Y: y})
	})
	return coords
}

// IsExtendable reports whether a point could be added at (x, y): the cell
// is empty and at least one of its four neighbors is occupied.
func (g *Grid) IsExtendable(x, y int) bool {
	if g.Get(x, y) != nil {
		return false
	}
	for _, d := range Cardinals {
		dx, dy := d.Delta()
		if g.Get(x+dx, y+dy) != nil {
			return true
		}
	}
	return false
}

// Copy returns a grid with the same points and paths.
// Lock flags and parts are not carried over.
func (g *Grid) Copy() *Grid {
	c := NewGrid()
	g.Each(func(x, y int, p *Point) {
		c.Extend(x, y).Paths = p.Paths
	})
	return c
}
