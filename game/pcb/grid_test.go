package pcb

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustLayout(t *testing.T, rows ...string) *Board {
	t.Helper()
	board, err := BoardFromLayout(rows)
	if err != nil {
		t.Fatalf("BoardFromLayout(%q) failed: %v", rows, err)
	}
	return board
}

// scanCount counts points by visiting every stored cell, independent of the
// grid's own bookkeeping.
func scanCount(g *Grid) int {
	count := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) != nil {
				count++
			}
		}
	}
	return count
}

func TestGridGet(t *testing.T) {
	g := NewDefaultGrid()

	for _, c := range []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {100, 100}} {
		if g.Get(c.X, c.Y) != nil {
			t.Errorf("Get%v should be absent", c)
		}
	}
	if g.Get(1, 1) == nil {
		t.Error("Get(1,1) should be a point")
	}
}

func TestGridExtend(t *testing.T) {
	g := NewGrid()
	g.Extend(3, 2)

	if g.Width() != 4 || g.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", g.Width(), g.Height())
	}
	if g.PointCount() != 1 {
		t.Errorf("PointCount() = %d, want 1", g.PointCount())
	}
	if g.Get(0, 0) != nil || g.Get(3, 1) != nil {
		t.Error("padding cells should be absent")
	}

	t.Run("extending an occupied cell overwrites it", func(t *testing.T) {
		g.Get(3, 2).Paths.Etch(North)
		g.Get(3, 2).Locked = true

		fresh := g.Extend(3, 2)
		if fresh.Paths.HasPaths() || fresh.Locked {
			t.Error("expected a fresh point")
		}
		// The count no longer matches the cells; editor flows never do this.
		if g.PointCount() == scanCount(g) {
			t.Error("expected overwrite to desync the point count")
		}
	})
}

func TestGridErase(t *testing.T) {
	g := NewDefaultGrid()

	if err := g.Erase(1, 1); err != nil {
		t.Fatalf("Erase(1,1) failed: %v", err)
	}
	if g.PointCount() != 3 {
		t.Errorf("PointCount() = %d, want 3", g.PointCount())
	}

	if err := g.Erase(1, 1); !errors.Is(err, ErrNotOccupied) {
		t.Errorf("erasing an empty cell: got %v, want ErrNotOccupied", err)
	}

	g.Erase(0, 0)
	g.Erase(1, 0)
	if err := g.Erase(0, 1); !errors.Is(err, ErrLastPoint) {
		t.Errorf("erasing the last point: got %v, want ErrLastPoint", err)
	}
	if g.PointCount() != 1 {
		t.Errorf("PointCount() = %d, want 1", g.PointCount())
	}
}

func TestGridShift(t *testing.T) {
	g := NewDefaultGrid()
	g.Get(0, 0).Paths.Etch(East)

	g.Shift(2, 1)

	if g.Width() != 4 || g.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", g.Width(), g.Height())
	}
	if p := g.Get(2, 1); p == nil || !p.Paths.Has(East) {
		t.Error("point (0,0) should have moved to (2,1)")
	}
	if g.PointCount() != 4 || scanCount(g) != 4 {
		t.Errorf("point count changed by shift")
	}

	t.Run("negative shift panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		g.Shift(-1, 0)
	})
}

func TestGridPack(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(g *Grid)
		report PackReport
		width  int
		height int
	}{
		{
			name:   "nothing to trim",
			setup:  func(g *Grid) {},
			report: PackReport{},
			width:  2,
			height: 2,
		},
		{
			name:   "left column removed",
			setup:  func(g *Grid) { g.Erase(0, 0); g.Erase(0, 1) },
			report: PackReport{Left: 1},
			width:  1,
			height: 2,
		},
		{
			name:   "bottom row removed",
			setup:  func(g *Grid) { g.Erase(0, 1); g.Erase(1, 1) },
			report: PackReport{Bottom: 1},
			width:  2,
			height: 1,
		},
		{
			name:   "shifted margins",
			setup:  func(g *Grid) { g.Shift(3, 2) },
			report: PackReport{Top: 2, Left: 3},
			width:  2,
			height: 2,
		},
		{
			name: "ragged right edge",
			setup: func(g *Grid) {
				g.Extend(4, 0)
				g.Erase(4, 0)
			},
			report: PackReport{Right: 3},
			width:  2,
			height: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDefaultGrid()
			tt.setup(g)
			count := g.PointCount()

			report := g.Pack()
			if diff := cmp.Diff(tt.report, report); diff != "" {
				t.Errorf("pack report mismatch (-want +got):\n%s", diff)
			}
			if g.Width() != tt.width || g.Height() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", g.Width(), g.Height(), tt.width, tt.height)
			}
			if g.PointCount() != count || scanCount(g) != count {
				t.Errorf("pack changed the point count")
			}
			if again := g.Pack(); !again.IsZero() {
				t.Errorf("second pack trimmed %+v", again)
			}
		})
	}
}

func TestGridCopy(t *testing.T) {
	board := mustLayout(t,
		"#L",
		".#",
	)
	g := board.Grid()
	g.Get(0, 0).Paths.Etch(East)
	g.Get(1, 0).Paths.Etch(West)

	c := g.Copy()
	if diff := cmp.Diff(g.Coords(), c.Coords()); diff != "" {
		t.Errorf("coords mismatch (-want +got):\n%s", diff)
	}
	if !c.Get(1, 0).Paths.Has(West) {
		t.Error("paths should be copied")
	}
	if c.Get(1, 0).Locked {
		t.Error("locks should not be copied")
	}

	c.Get(0, 0).Paths.Etch(South)
	if g.Get(0, 0).Paths.Has(South) {
		t.Error("copy shares points with the original")
	}
}

func TestGridIsExtendable(t *testing.T) {
	g := NewDefaultGrid()

	tests := []struct {
		at   Coord
		want bool
	}{
		{Coord{-1, 0}, true},
		{Coord{0, -1}, true},
		{Coord{2, 1}, true},
		{Coord{1, 2}, true},
		{Coord{-1, -1}, false},
		{Coord{2, 2}, false},
		{Coord{0, 0}, false},
	}
	for _, tt := range tests {
		if got := g.IsExtendable(tt.at.X, tt.at.Y); got != tt.want {
			t.Errorf("IsExtendable%v = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestGridPointCountInvariant(t *testing.T) {
	board := NewDefaultBoard()
	steps := []func() error{
		func() error { _, err := Extend(board, []Coord{{-1, 0}, {-1, 1}}); return err },
		func() error { _, err := Extend(board, []Coord{{0, 2}, {1, 2}, {2, 2}}); return err },
		func() error { _, err := Erase(board, []Coord{{1, 0}, {1, 1}, {1, 2}}); return err },
		func() error { _, err := Extend(board, []Coord{{0, -1}}); return err },
		func() error { _, err := Erase(board, []Coord{{0, 0}}); return err },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if got := scanCount(board.Grid()); got != board.PointCount() {
			t.Fatalf("step %d: PointCount() = %d, scan found %d", i, board.PointCount(), got)
		}
	}
}
