package pcb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPartition(t *testing.T) {
	t.Run("single piece", func(t *testing.T) {
		board := mustLayout(t,
			"###",
			"#.#",
			"###",
		)
		groups := Partition(board.Grid(), nil)
		if len(groups) != 1 || groups[0].Size() != 8 {
			t.Fatalf("expected one group of 8, got %+v", groups)
		}
	})

	t.Run("diagonal neighbors are separate", func(t *testing.T) {
		board := mustLayout(t,
			"#.",
			".#",
		)
		groups := Partition(board.Grid(), nil)
		want := []PointGroup{
			{Points: []Coord{{0, 0}}},
			{Points: []Coord{{1, 1}}},
		}
		if diff := cmp.Diff(want, groups); diff != "" {
			t.Errorf("groups mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("groups ordered by first raster point", func(t *testing.T) {
		// The U shape joins below the first row, after the second arm is seen
		board := mustLayout(t,
			"#.#.#",
			"#.#..",
			"###.L",
		)
		groups := Partition(board.Grid(), nil)
		if len(groups) != 3 {
			t.Fatalf("expected 3 groups, got %d", len(groups))
		}
		if groups[0].Points[0] != (Coord{0, 0}) || groups[0].Size() != 7 || groups[0].Locked {
			t.Errorf("unexpected first group %+v", groups[0])
		}
		if groups[1].Points[0] != (Coord{4, 0}) || groups[1].Size() != 1 || groups[1].Locked {
			t.Errorf("unexpected second group %+v", groups[1])
		}
		if groups[2].Points[0] != (Coord{4, 2}) || !groups[2].Locked {
			t.Errorf("unexpected third group %+v", groups[2])
		}
	})

	t.Run("filter excludes points", func(t *testing.T) {
		board := mustLayout(t, "#####")
		groups := Partition(board.Grid(), func(x, y int, _ *Point) bool { return x != 2 })

		want := []PointGroup{
			{Points: []Coord{{0, 0}, {1, 0}}},
			{Points: []Coord{{3, 0}, {4, 0}}},
		}
		if diff := cmp.Diff(want, groups); diff != "" {
			t.Errorf("groups mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLargest(t *testing.T) {
	groups := []PointGroup{
		{Points: make([]Coord, 2)},
		{Points: make([]Coord, 3)},
		{Points: make([]Coord, 3)},
	}
	if got := Largest(groups); got != 1 {
		t.Errorf("Largest() = %d, want 1", got)
	}
	if got := Largest(nil); got != -1 {
		t.Errorf("Largest(nil) = %d, want -1", got)
	}
}
