package pcb

import "fmt"

// Direction is a compass offset index in the range [0, 7]
type Direction uint8

const (
	East Direction = iota
	NorthEast
	North
	NorthWest
	West
	SouthWest
	South
	SouthEast

	// DirectionCount is the number of compass directions
	DirectionCount = 8
)

var directionDeltas = [DirectionCount]Coord{
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
}

var directionNames = [DirectionCount]string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}

// Cardinals lists the four directions used for grid adjacency
var Cardinals = [4]Direction{East, North, West, South}

// Delta returns the X and Y offset to the neighbor in this direction
func (d Direction) Delta() (dx, dy int) {
	delta := directionDeltas[d%DirectionCount]
	return delta.X, delta.Y
}

// Opposite returns the direction pointing back
func (d Direction) Opposite() Direction {
	return (d + 4) % DirectionCount
}

// Valid reports whether d is one of the eight compass directions
func (d Direction) Valid() bool {
	return d < DirectionCount
}

// String returns the compass abbreviation of the direction
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// DirectionOf returns the direction of a unit offset.
// The second result is false when (dx, dy) is not a neighbor offset.
func DirectionOf(dx, dy int) (Direction, bool) {
	for d, delta := range directionDeltas {
		if delta.X == dx && delta.Y == dy {
			return Direction(d), true
		}
	}
	return 0, false
}

// ParseDirection parses a compass abbreviation such as "NE"
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
