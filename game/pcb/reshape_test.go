package pcb

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtend(t *testing.T) {
	t.Run("into negative x shifts right", func(t *testing.T) {
		board := NewDefaultBoard()
		board.Get(0, 0).Paths.Etch(East)

		report, err := Extend(board, []Coord{{-1, 0}})
		if err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if report.Shift != (Coord{X: 1, Y: 0}) {
			t.Errorf("Shift = %v, want (1,0)", report.Shift)
		}
		if diff := cmp.Diff([]Coord{{0, 0}}, report.Added); diff != "" {
			t.Errorf("added mismatch (-want +got):\n%s", diff)
		}
		if board.Width() != 3 || board.PointCount() != 5 {
			t.Errorf("board is %d wide with %d points", board.Width(), board.PointCount())
		}
		if !board.Get(1, 0).Paths.Has(East) {
			t.Error("existing point did not move with the shift")
		}
	})

	t.Run("positive and negative together", func(t *testing.T) {
		board := NewDefaultBoard()

		report, err := Extend(board, []Coord{{2, 0}, {0, -1}, {-1, 1}})
		if err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if report.Shift != (Coord{X: 1, Y: 1}) {
			t.Errorf("Shift = %v, want (1,1)", report.Shift)
		}

		got := board.Layout()
		want := []string{
			".#..",
			".###",
			"###.",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("layout mismatch (-want +got):\n%s", diff)
		}
		if board.PointCount() != 7 {
			t.Errorf("PointCount() = %d, want 7", board.PointCount())
		}
	})

	t.Run("never overwrites points", func(t *testing.T) {
		board := NewDefaultBoard()
		board.Get(1, 1).Locked = true

		_, err := Extend(board, []Coord{{1, 1}, {2, 1}})
		if err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if !board.Get(1, 1).Locked {
			t.Error("occupied candidate was overwritten")
		}
		if scanCount(board.Grid()) != board.PointCount() {
			t.Error("point count out of sync")
		}
	})

	t.Run("nothing extendable", func(t *testing.T) {
		board := NewDefaultBoard()
		_, err := Extend(board, []Coord{{5, 5}, {0, 0}})
		if !errors.Is(err, ErrNothingToExtend) {
			t.Errorf("got %v, want ErrNothingToExtend", err)
		}
	})

	t.Run("extendability gates growth", func(t *testing.T) {
		board := NewDefaultBoard()
		board.Extendability = Extendability{Right: true}

		report, err := Extend(board, []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 2}})
		if err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if diff := cmp.Diff([]Coord{{2, 0}}, report.Added); diff != "" {
			t.Errorf("added mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fixtures move with the shift", func(t *testing.T) {
		board := NewDefaultBoard()
		part, _ := NewPart(mustDefinition(t, "button"), 0)
		fixture, err := board.Place(part, 1, 1)
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}

		if _, err := Extend(board, []Coord{{-1, 0}, {0, -1}}); err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if fixture.X != 2 || fixture.Y != 2 {
			t.Errorf("fixture at (%d,%d), want (2,2)", fixture.X, fixture.Y)
		}
		if board.Get(2, 2).Part != part {
			t.Error("part no longer on its cell")
		}
	})
}

func TestErase(t *testing.T) {
	t.Run("corner of the default board", func(t *testing.T) {
		board := NewDefaultBoard()

		report, err := Erase(board, []Coord{{1, 1}})
		if err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if board.PointCount() != 3 {
			t.Errorf("PointCount() = %d, want 3", board.PointCount())
		}
		if !report.Pack.IsZero() {
			t.Errorf("Pack = %+v, want zero", report.Pack)
		}
		if groups := Partition(board.Grid(), nil); len(groups) != 1 {
			t.Errorf("board split into %d groups", len(groups))
		}
	})

	t.Run("middle of a row keeps the first piece", func(t *testing.T) {
		board := mustLayout(t, "#####")
		board.Get(0, 0).Paths.Etch(East)
		board.Get(1, 0).Paths.Etch(West)

		report, err := Erase(board, []Coord{{2, 0}})
		if err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if diff := cmp.Diff([]Coord{{2, 0}, {3, 0}, {4, 0}}, report.Erased); diff != "" {
			t.Errorf("erased mismatch (-want +got):\n%s", diff)
		}
		if board.PointCount() != 2 || board.Width() != 2 {
			t.Errorf("board is %d wide with %d points", board.Width(), board.PointCount())
		}
		if report.Pack != (PackReport{Right: 3}) {
			t.Errorf("Pack = %+v", report.Pack)
		}
		if !board.Get(0, 0).Paths.Has(East) {
			t.Error("kept piece lost its paths")
		}
	})

	t.Run("larger piece wins", func(t *testing.T) {
		board := mustLayout(t, "##.##", "#####")

		report, err := Erase(board, []Coord{{1, 1}})
		if err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if len(report.Erased) != 4 {
			t.Errorf("erased %v", report.Erased)
		}
		if report.Pack != (PackReport{Left: 2}) {
			t.Errorf("Pack = %+v, want left trim of 2", report.Pack)
		}
		if diff := cmp.Diff([]string{".##", "###"}, board.Layout()); diff != "" {
			t.Errorf("layout mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("locked orphan rejects the erase", func(t *testing.T) {
		board := mustLayout(t, "###L")
		before := board.Layout()

		_, err := Erase(board, []Coord{{2, 0}})
		if !errors.Is(err, ErrOrphansLocked) {
			t.Fatalf("got %v, want ErrOrphansLocked", err)
		}
		if diff := cmp.Diff(before, board.Layout()); diff != "" {
			t.Errorf("board changed (-before +after):\n%s", diff)
		}
		if board.PointCount() != 4 {
			t.Errorf("PointCount() = %d, want 4", board.PointCount())
		}
	})

	t.Run("locked points survive the selection", func(t *testing.T) {
		board := mustLayout(t, "#L#")

		report, err := Erase(board, []Coord{{0, 0}, {1, 0}})
		if err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if diff := cmp.Diff([]Coord{{0, 0}}, report.Erased); diff != "" {
			t.Errorf("erased mismatch (-want +got):\n%s", diff)
		}
		if !board.Get(0, 0).Locked {
			t.Error("locked point should remain and move to the left edge")
		}
	})

	t.Run("everything", func(t *testing.T) {
		board := NewDefaultBoard()
		_, err := Erase(board, []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
		if !errors.Is(err, ErrEraseAll) {
			t.Errorf("got %v, want ErrEraseAll", err)
		}
		if board.PointCount() != 4 {
			t.Error("board changed after rejected erase")
		}
	})

	t.Run("last point", func(t *testing.T) {
		board := mustLayout(t, "#")
		if _, err := Erase(board, []Coord{{0, 0}}); !errors.Is(err, ErrEraseAll) {
			t.Errorf("got %v, want ErrEraseAll", err)
		}
	})

	t.Run("nothing selected", func(t *testing.T) {
		board := mustLayout(t, "#L")
		if _, err := Erase(board, []Coord{{1, 0}, {7, 7}}); !errors.Is(err, ErrNothingToErase) {
			t.Errorf("got %v, want ErrNothingToErase", err)
		}
	})

	t.Run("paths into erased points are cleared", func(t *testing.T) {
		board := mustLayout(t, "###")
		if path, ok := PlanEtch(board.Grid(), Coord{0, 0}, Coord{2, 0}); ok {
			path.Commit(board.Grid())
		}

		if _, err := Erase(board, []Coord{{2, 0}}); err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if board.Get(1, 0).Paths != PathsOf(West) {
			t.Errorf("(1,0) paths = %v, want [W]", board.Get(1, 0).Paths.Directions())
		}
	})

	t.Run("parts on erased points are removed", func(t *testing.T) {
		board := mustLayout(t, "####")
		part, _ := NewPart(mustDefinition(t, "led"), 0)
		if _, err := board.Place(part, 2, 0); err != nil {
			t.Fatalf("Place failed: %v", err)
		}

		if _, err := Erase(board, []Coord{{3, 0}}); err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if len(board.Fixtures()) != 0 {
			t.Errorf("fixtures left: %d", len(board.Fixtures()))
		}
		if p := board.Get(2, 0); p.Part != nil || p.Paths.Connection() {
			t.Error("part cell was not cleared")
		}
	})

	t.Run("fixtures follow the pack", func(t *testing.T) {
		board := mustLayout(t, "###")
		part, _ := NewPart(mustDefinition(t, "button"), 0)
		fixture, _ := board.Place(part, 2, 0)

		if _, err := Erase(board, []Coord{{0, 0}}); err != nil {
			t.Fatalf("Erase failed: %v", err)
		}
		if fixture.X != 1 {
			t.Errorf("fixture at x=%d, want 1", fixture.X)
		}
		if board.FixtureAt(1, 0) != fixture {
			t.Error("fixture not found at its new position")
		}
	})
}

func TestPlanErase(t *testing.T) {
	board := mustLayout(t, "#####")
	plan, err := PlanErase(board, []Coord{{2, 0}, {2, 0}})
	if err != nil {
		t.Fatalf("PlanErase failed: %v", err)
	}
	if len(plan) != 3 {
		t.Errorf("plan = %v, want 3 points", plan)
	}
	if board.PointCount() != 5 {
		t.Error("planning mutated the board")
	}
}
