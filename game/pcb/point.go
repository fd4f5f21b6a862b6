package pcb

import "math/bits"

// ConnectionBit is the wire position of the terminal flag in a path bitmask
const ConnectionBit = 8

// Paths is the set of directions etched onto a point, plus a flag marking
// the point as a terminal (a pin connection) regardless of its geometry.
type Paths struct {
	dirs       uint8
	connection bool
}

// PathsFromBits builds Paths from a bitmask where bits 0-7 are directions
// and bit 8 is the connection flag.
func PathsFromBits(mask uint16) Paths {
	return Paths{
		dirs:       uint8(mask & 0xFF),
		connection: mask&(1<<ConnectionBit) != 0,
	}
}

// PathsOf returns Paths with the given directions etched
func PathsOf(directions ...Direction) Paths {
	var p Paths
	for _, d := range directions {
		p.Etch(d)
	}
	return p
}

// Bits returns the bitmask form of the paths
func (p Paths) Bits() uint16 {
	mask := uint16(p.dirs)
	if p.connection {
		mask |= 1 << ConnectionBit
	}
	return mask
}

// Has reports whether a direction is etched
func (p Paths) Has(d Direction) bool {
	return p.dirs&(1<<(d%DirectionCount)) != 0
}

// Etch adds a direction
func (p *Paths) Etch(d Direction) {
	p.dirs |= 1 << (d % DirectionCount)
}

// Clear removes a direction
func (p *Paths) Clear(d Direction) {
	p.dirs &^= 1 << (d % DirectionCount)
}

// Count returns the number of etched directions, ignoring the connection flag
func (p Paths) Count() int {
	return bits.OnesCount8(p.dirs)
}

// HasPaths reports whether any direction is etched
func (p Paths) HasPaths() bool {
	return p.dirs != 0
}

// Connection reports whether the terminal flag is set
func (p Paths) Connection() bool {
	return p.connection
}

// SetConnection sets or clears the terminal flag
func (p *Paths) SetConnection(connection bool) {
	p.connection = connection
}

// Directions lists the etched directions in ascending order
func (p Paths) Directions() []Direction {
	var out []Direction
	for d := Direction(0); d < DirectionCount; d++ {
		if p.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Flatten merges the directions and connection flag of other into p
func (p *Paths) Flatten(other Paths) {
	p.dirs |= other.dirs
	p.connection = p.connection || other.connection
}

// Overlaps reports whether p and other share an etched direction
func (p Paths) Overlaps(other Paths) bool {
	return p.dirs&other.dirs != 0
}

// Contains reports whether every direction of other is etched on p
func (p Paths) Contains(other Paths) bool {
	return p.dirs&other.dirs == other.dirs
}

// Remove clears every direction etched on other
func (p *Paths) Remove(other Paths) {
	p.dirs &^= other.dirs
}

// Point is a single cell of a board
type Point struct {
	Paths  Paths
	Locked bool
	Part   *Part
}

// IsJunction reports whether the paths on this point form a junction or
// terminal: anything other than a simple two-way pass-through.
func (p *Point) IsJunction() bool {
	if p.Paths.Connection() {
		return true
	}
	count := p.Paths.Count()
	return count > 2 || count < 2
}

// WithConnected calls f for every etched direction with the offset to the
// connected neighbor and the direction pointing back from it.
func (p *Point) WithConnected(f func(dx, dy int, from Direction)) {
	for d := Direction(0); d < DirectionCount; d++ {
		if !p.Paths.Has(d) {
			continue
		}
		dx, dy := d.Delta()
		f(dx, dy, d.Opposite())
	}
}
