package pcb

import "fmt"

// Extendability states on which sides the editable region of a board may
// still grow. The flags are advisory; the grid does not enforce them.
type Extendability struct {
	Left  bool `json:"left" yaml:"left"`
	Up    bool `json:"up" yaml:"up"`
	Right bool `json:"right" yaml:"right"`
	Down  bool `json:"down" yaml:"down"`
}

// AllSides returns extendability with every side open
func AllSides() Extendability {
	return Extendability{Left: true, Up: true, Right: true, Down: true}
}

// Board is a grid together with its extendability and placed parts
type Board struct {
	grid          *Grid
	Extendability Extendability
	fixtures      []*Fixture
}

// NewBoard creates an empty board that may grow in every direction
func NewBoard() *Board {
	return &Board{grid: NewGrid(), Extendability: AllSides()}
}

// NewDefaultBoard creates a board with the default footprint
func NewDefaultBoard() *Board {
	return &Board{grid: NewDefaultGrid(), Extendability: AllSides()}
}

// NewBoardFromGrid wraps an existing grid
func NewBoardFromGrid(g *Grid, ext Extendability) *Board {
	return &Board{grid: g, Extendability: ext}
}

// Grid returns the board's point grid
func (b *Board) Grid() *Grid {
	return b.grid
}

// Get returns the point at (x, y), or nil
func (b *Board) Get(x, y int) *Point {
	return b.grid.Get(x, y)
}

// Width returns the board width in points
func (b *Board) Width() int {
	return b.grid.Width()
}

// Height returns the board height in points
func (b *Board) Height() int {
	return b.grid.Height()
}

// PointCount returns the number of points on the board
func (b *Board) PointCount() int {
	return b.grid.PointCount()
}

// CanGrow reports whether a point at (x, y) would stay within the sides the
// board may still grow towards.
func (b *Board) CanGrow(x, y int) bool {
	if x < 0 && !b.Extendability.Left {
		return false
	}
	if y < 0 && !b.Extendability.Up {
		return false
	}
	if x >= b.Width() && !b.Extendability.Right {
		return false
	}
	if y >= b.Height() && !b.Extendability.Down {
		return false
	}
	return true
}

// IsExtendable reports whether a point can be added at (x, y)
func (b *Board) IsExtendable(x, y int) bool {
	return b.grid.IsExtendable(x, y) && b.CanGrow(x, y)
}

// Fixtures returns the parts placed on the board in placement order
func (b *Board) Fixtures() []*Fixture {
	return b.fixtures
}

// Fits reports whether a configuration anchored at (x, y) lands entirely on
// existing points that are not occupied by another part.
func (b *Board) Fits(cfg *PartConfiguration, x, y int) bool {
	for _, o := range cfg.Footprint {
		point := b.grid.Get(x+o.X, y+o.Y)
		if point == nil || point.Part != nil {
			return false
		}
	}
	return true
}

// Place puts a part on the board with its anchor at (x, y)
func (b *Board) Place(part *Part, x, y int) (*Fixture, error) {
	if !b.Fits(part.Configuration(), x, y) {
		return nil, fmt.Errorf("%w: %s at %s", ErrDoesNotFit, part.Definition.Name, Coord{X: x, Y: y})
	}

	fixture := &Fixture{Part: part, X: x, Y: y}
	for _, c := range fixture.Cells() {
		b.grid.Get(c.X, c.Y).Part = part
	}
	for _, c := range fixture.Pins() {
		b.grid.Get(c.X, c.Y).Paths.SetConnection(true)
	}
	b.fixtures = append(b.fixtures, fixture)

	return fixture, nil
}

// FixtureAt returns the fixture covering (x, y), or nil
func (b *Board) FixtureAt(x, y int) *Fixture {
	point := b.grid.Get(x, y)
	if point == nil || point.Part == nil {
		return nil
	}
	for _, f := range b.fixtures {
		if f.Part == point.Part {
			return f
		}
	}
	return nil
}

// RemoveFixture takes a part off the board and clears its pin connections
func (b *Board) RemoveFixture(fixture *Fixture) error {
	index := -1
	for i, f := range b.fixtures {
		if f == fixture {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrNoPart
	}

	for _, c := range fixture.Cells() {
		if point := b.grid.Get(c.X, c.Y); point != nil && point.Part == fixture.Part {
			point.Part = nil
		}
	}
	for _, c := range fixture.Pins() {
		if point := b.grid.Get(c.X, c.Y); point != nil {
			point.Paths.SetConnection(false)
		}
	}
	b.fixtures = append(b.fixtures[:index], b.fixtures[index+1:]...)

	return nil
}

// translateFixtures moves fixture anchors after the grid was shifted or packed
func (b *Board) translateFixtures(dx, dy int) {
	for _, f := range b.fixtures {
		f.X += dx
		f.Y += dy
	}
}

// Clone returns an independent board with identical points, paths, locks,
// parts and extendability.
func (b *Board) Clone() *Board {
	c := &Board{grid: NewGrid(), Extendability: b.Extendability}
	b.grid.Each(func(x, y int, p *Point) {
		point := c.grid.Extend(x, y)
		point.Paths = p.Paths
		point.Locked = p.Locked
	})
	for _, f := range b.fixtures {
		part := &Part{Definition: f.Part.Definition, ConfigurationIndex: f.Part.ConfigurationIndex}
		fixture := &Fixture{Part: part, X: f.X, Y: f.Y}
		for _, cell := range fixture.Cells() {
			if point := c.grid.Get(cell.X, cell.Y); point != nil {
				point.Part = part
			}
		}
		c.fixtures = append(c.fixtures, fixture)
	}
	return c
}

// Shift moves the grid and its fixtures right by dx and down by dy
func (b *Board) Shift(dx, dy int) {
	b.grid.Shift(dx, dy)
	b.translateFixtures(dx, dy)
}

// Pack trims empty borders and keeps fixture anchors aligned with the grid
func (b *Board) Pack() PackReport {
	report := b.grid.Pack()
	b.translateFixtures(-report.Left, -report.Top)
	return report
}
