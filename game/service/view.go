package service

import (
	"github.com/wricardo/pcb-editor/game/editor"
	"github.com/wricardo/pcb-editor/game/pcb"
)

// NewBoardView projects the editor's board for rendering
func NewBoardView(ed *editor.Editor) *BoardView {
	board := ed.Board()
	view := &BoardView{
		Width:         board.Width(),
		Height:        board.Height(),
		Points:        board.PointCount(),
		Rows:          board.Layout(),
		Cells:         []Cell{},
		Fixtures:      []Fixture{},
		Extendability: board.Extendability,
		Position:      ed.Position(),
		CellSize:      ed.CellSize(),
	}

	board.Grid().Each(func(x, y int, p *pcb.Point) {
		cell := Cell{
			X:          x,
			Y:          y,
			Locked:     p.Locked,
			Connection: p.Paths.Connection(),
			Junction:   p.IsJunction(),
		}
		for _, d := range p.Paths.Directions() {
			cell.Paths = append(cell.Paths, d.String())
		}
		if p.Part != nil {
			cell.Part = p.Part.Definition.Name
		}
		view.Cells = append(view.Cells, cell)
	})

	for _, f := range board.Fixtures() {
		view.Fixtures = append(view.Fixtures, newFixture(f))
	}
	return view
}

func newFixture(f *pcb.Fixture) Fixture {
	return Fixture{
		Part:          f.Part.Definition.Name,
		Configuration: f.Part.ConfigurationIndex,
		X:             f.X,
		Y:             f.Y,
		Cells:         f.Cells(),
		Pins:          f.Pins(),
	}
}
