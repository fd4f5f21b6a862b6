package pcb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDirection(t *testing.T) {
	t.Run("opposites", func(t *testing.T) {
		for d := Direction(0); d < DirectionCount; d++ {
			dx, dy := d.Delta()
			ox, oy := d.Opposite().Delta()
			if dx != -ox || dy != -oy {
				t.Errorf("%s opposite %s has delta (%d,%d), want (%d,%d)", d, d.Opposite(), ox, oy, -dx, -dy)
			}
			if d.Opposite().Opposite() != d {
				t.Errorf("double opposite of %s is %s", d, d.Opposite().Opposite())
			}
		}
	})

	t.Run("glossary codes", func(t *testing.T) {
		tests := []struct {
			d      Direction
			dx, dy int
		}{
			{East, 1, 0},
			{NorthEast, 1, -1},
			{North, 0, -1},
			{NorthWest, -1, -1},
			{West, -1, 0},
			{SouthWest, -1, 1},
			{South, 0, 1},
			{SouthEast, 1, 1},
		}
		for i, tt := range tests {
			if int(tt.d) != i {
				t.Errorf("%s has code %d, want %d", tt.d, tt.d, i)
			}
			dx, dy := tt.d.Delta()
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("%s delta = (%d,%d), want (%d,%d)", tt.d, dx, dy, tt.dx, tt.dy)
			}
			got, ok := DirectionOf(tt.dx, tt.dy)
			if !ok || got != tt.d {
				t.Errorf("DirectionOf(%d,%d) = %s, %v", tt.dx, tt.dy, got, ok)
			}
		}
	})

	t.Run("non neighbor offsets", func(t *testing.T) {
		for _, delta := range []Coord{{0, 0}, {2, 0}, {1, -2}} {
			if _, ok := DirectionOf(delta.X, delta.Y); ok {
				t.Errorf("DirectionOf%v should not be a direction", delta)
			}
		}
	})

	t.Run("parse", func(t *testing.T) {
		d, err := ParseDirection("SW")
		if err != nil || d != SouthWest {
			t.Errorf("ParseDirection(SW) = %s, %v", d, err)
		}
		if _, err := ParseDirection("UP"); err == nil {
			t.Error("expected error for unknown direction")
		}
	})
}

func TestPaths(t *testing.T) {
	t.Run("bits round trip", func(t *testing.T) {
		for _, mask := range []uint16{0, 1, 0x81, 0xFF, 0x100, 0x1FF, 0x142} {
			if got := PathsFromBits(mask).Bits(); got != mask {
				t.Errorf("PathsFromBits(%#x).Bits() = %#x", mask, got)
			}
		}
	})

	t.Run("etch and clear", func(t *testing.T) {
		var p Paths
		p.Etch(North)
		p.Etch(SouthEast)
		if !p.Has(North) || !p.Has(SouthEast) || p.Has(East) {
			t.Errorf("unexpected directions %v", p.Directions())
		}
		p.Clear(North)
		if diff := cmp.Diff([]Direction{SouthEast}, p.Directions()); diff != "" {
			t.Errorf("directions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("connection is not a direction", func(t *testing.T) {
		var p Paths
		p.SetConnection(true)
		if p.HasPaths() || p.Count() != 0 {
			t.Error("connection flag counted as a path")
		}
		if p.Bits() != 1<<ConnectionBit {
			t.Errorf("Bits() = %#x", p.Bits())
		}
	})

	t.Run("set operations", func(t *testing.T) {
		a := PathsOf(East, West)
		b := PathsOf(West, North)

		if !a.Overlaps(b) {
			t.Error("expected overlap on W")
		}
		if a.Contains(b) {
			t.Error("a should not contain b")
		}

		merged := a
		merged.Flatten(b)
		if !merged.Contains(a) || !merged.Contains(b) || merged.Count() != 3 {
			t.Errorf("flatten gave %v", merged.Directions())
		}

		merged.Remove(b)
		if merged != PathsOf(East) {
			t.Errorf("remove gave %v", merged.Directions())
		}
	})
}

func TestPointIsJunction(t *testing.T) {
	tests := []struct {
		name  string
		paths Paths
		want  bool
	}{
		{"no paths", PathsOf(), true},
		{"endpoint", PathsOf(East), true},
		{"pass through", PathsOf(East, West), false},
		{"bend", PathsOf(North, SouthEast), false},
		{"branch", PathsOf(East, West, North), true},
		{"pass through with terminal", PathsFromBits(0x111), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Point{Paths: tt.paths}
			if got := p.IsJunction(); got != tt.want {
				t.Errorf("IsJunction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointWithConnected(t *testing.T) {
	p := &Point{Paths: PathsOf(East, South)}

	type link struct {
		dx, dy int
		from   Direction
	}
	var got []link
	p.WithConnected(func(dx, dy int, from Direction) {
		got = append(got, link{dx, dy, from})
	})

	want := []link{{1, 0, West}, {0, 1, North}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(link{})); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}
