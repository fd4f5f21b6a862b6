package pcbfile

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wricardo/pcb-editor/game/pcb"
)

const (
	headStartEmpty = 0x8000
	headWidthMask  = headStartEmpty - 1

	extendLeft  = 0x01
	extendUp    = 0x02
	extendRight = 0x04
	extendDown  = 0x08

	runMax = 0xFF

	bitChain  = 0x10
	bitPart   = 0x20
	bitLast   = 0x40
	bitLocked = 0x80

	skip = bitChain | bitLast

	// MaxWidth is the widest board the head can describe
	MaxWidth = headWidthMask
)

// backward lists the directions stored in the low nibble of a point byte.
// They point at neighbors that come earlier in raster order.
var backward = [4]pcb.Direction{pcb.NorthEast, pcb.North, pcb.NorthWest, pcb.West}

var (
	ErrCorrupt          = errors.New("corrupt board data")
	ErrTruncated        = fmt.Errorf("%w: unexpected end of data", ErrCorrupt)
	ErrRunOverflow      = fmt.Errorf("%w: run extends past the board", ErrCorrupt)
	ErrUnknownPart      = fmt.Errorf("%w: unknown part", ErrCorrupt)
	ErrBadConfiguration = fmt.Errorf("%w: bad part configuration", ErrCorrupt)
	ErrDanglingPath     = fmt.Errorf("%w: path leads off the board", ErrCorrupt)
	ErrPartPlacement    = fmt.Errorf("%w: part does not fit", ErrCorrupt)
	ErrEmptyBoard       = fmt.Errorf("%w: board has no points", ErrCorrupt)

	ErrTooWide = errors.New("board too wide to encode")
	ErrTooTall = errors.New("board too tall to encode")
)

// MaxRows is the tallest board Decode accepts. It stops inputs from
// allocating huge boards through long empty runs.
const MaxRows = 1 << 15

// Encode writes the board in its raw binary form
func Encode(board *pcb.Board) ([]byte, error) {
	width := board.Width()
	if width > MaxWidth {
		return nil, fmt.Errorf("%w: %d points", ErrTooWide, width)
	}
	if height := board.Height(); height > MaxRows {
		return nil, fmt.Errorf("%w: %d rows", ErrTooTall, height)
	}
	if board.PointCount() == 0 {
		return nil, ErrEmptyBoard
	}

	var buf bytes.Buffer

	head := uint16(width & headWidthMask)
	runEmpty := board.Get(0, 0) == nil
	if runEmpty {
		head |= headStartEmpty
	}
	buf.WriteByte(byte(head >> 8))
	buf.WriteByte(byte(head))
	buf.WriteByte(encodeExtendability(board.Extendability))

	e := encoder{buf: &buf, total: board.PointCount(), written: make(map[*pcb.Part]bool)}
	var run []cell

	for y := 0; y < board.Height(); y++ {
		for x := 0; x < width; x++ {
			point := board.Get(x, y)
			empty := point == nil

			if empty != runEmpty {
				if runEmpty {
					e.emptyRun(len(run))
				} else {
					e.pointRun(run)
				}
				runEmpty = empty
				run = run[:0]
			}
			run = append(run, cell{x: x, y: y, point: point})
		}
	}
	if !runEmpty {
		e.pointRun(run)
	}

	return buf.Bytes(), nil
}

type cell struct {
	x, y  int
	point *pcb.Point
}

type encoder struct {
	buf     *bytes.Buffer
	total   int
	count   int
	written map[*pcb.Part]bool
}

func (e *encoder) emptyRun(length int) {
	for length > runMax {
		e.buf.WriteByte(runMax)
		e.buf.WriteByte(skip)
		length -= runMax
	}
	e.buf.WriteByte(byte(length))
}

func (e *encoder) pointRun(run []cell) {
	for i, c := range run {
		var b byte
		if i < len(run)-1 {
			b |= bitChain
		}
		for bit, d := range backward {
			if c.point.Paths.Has(d) {
				b |= 1 << bit
			}
		}
		e.count++
		if e.count == e.total {
			b |= bitLast
		}
		if c.point.Locked {
			b |= bitLocked
		}

		part := c.point.Part
		if part == nil || e.written[part] {
			e.buf.WriteByte(b)
			continue
		}
		e.written[part] = true
		e.buf.WriteByte(b | bitPart)
		e.buf.WriteByte(part.Definition.ID)
		e.buf.WriteByte(byte(part.ConfigurationIndex))
	}
}

func encodeExtendability(ext pcb.Extendability) byte {
	var b byte
	if ext.Left {
		b |= extendLeft
	}
	if ext.Up {
		b |= extendUp
	}
	if ext.Right {
		b |= extendRight
	}
	if ext.Down {
		b |= extendDown
	}
	return b
}

func decodeExtendability(b byte) pcb.Extendability {
	return pcb.Extendability{
		Left:  b&extendLeft != 0,
		Up:    b&extendUp != 0,
		Right: b&extendRight != 0,
		Down:  b&extendDown != 0,
	}
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) next() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncated, r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

type pendingPart struct {
	id, configuration byte
	x, y              int
}

// Decode reads a board from its raw binary form. Parts are resolved against
// the registry.
func Decode(data []byte, registry *pcb.Registry) (*pcb.Board, error) {
	r := &reader{data: data}

	hi, err := r.next()
	if err != nil {
		return nil, err
	}
	lo, err := r.next()
	if err != nil {
		return nil, err
	}
	head := uint16(hi)<<8 | uint16(lo)
	width := int(head & headWidthMask)
	if width == 0 {
		return nil, ErrEmptyBoard
	}

	ext, err := r.next()
	if err != nil {
		return nil, err
	}

	board := pcb.NewBoardFromGrid(pcb.NewGrid(), decodeExtendability(ext))
	grid := board.Grid()

	var point byte = skip
	if head&headStartEmpty == 0 {
		if point, err = r.next(); err != nil {
			return nil, err
		}
	}

	x, y := 0, 0
	advance := func() {
		if x++; x == width {
			x = 0
			y++
		}
	}

	var parts []pendingPart
	for {
		if point == skip {
			length, err := r.next()
			if err != nil {
				return nil, err
			}
			for i := 0; i < int(length); i++ {
				advance()
			}
			if point, err = r.next(); err != nil {
				return nil, err
			}
			continue
		}

		if y >= MaxRows {
			return nil, fmt.Errorf("%w: row %d", ErrRunOverflow, y)
		}
		p := grid.Extend(x, y)
		for bit, d := range backward {
			if point&(1<<bit) == 0 {
				continue
			}
			dx, dy := d.Delta()
			neighbor := grid.Get(x+dx, y+dy)
			if neighbor == nil {
				return nil, fmt.Errorf("%w: %s from %s", ErrDanglingPath, d, pcb.Coord{X: x, Y: y})
			}
			p.Paths.Etch(d)
			neighbor.Paths.Etch(d.Opposite())
		}
		p.Locked = point&bitLocked != 0

		if point&bitPart != 0 {
			id, err := r.next()
			if err != nil {
				return nil, err
			}
			configuration, err := r.next()
			if err != nil {
				return nil, err
			}
			parts = append(parts, pendingPart{id: id, configuration: configuration, x: x, y: y})
		}

		advance()

		switch {
		case point&bitLast != 0:
			if err := placeParts(board, registry, parts); err != nil {
				return nil, err
			}
			return board, nil
		case point&bitChain != 0:
			if point, err = r.next(); err != nil {
				return nil, err
			}
		default:
			point = skip
		}
	}
}

func placeParts(board *pcb.Board, registry *pcb.Registry, parts []pendingPart) error {
	for _, pp := range parts {
		def, err := registry.ByID(pp.id)
		if err != nil {
			return fmt.Errorf("%w: id %d at %s", ErrUnknownPart, pp.id, pcb.Coord{X: pp.x, Y: pp.y})
		}
		part, err := pcb.NewPart(def, int(pp.configuration))
		if err != nil {
			return fmt.Errorf("%w: %s configuration %d", ErrBadConfiguration, def.Name, pp.configuration)
		}
		if _, err := board.Place(part, pp.x, pp.y); err != nil {
			return fmt.Errorf("%w: %s at %s", ErrPartPlacement, def.Name, pcb.Coord{X: pp.x, Y: pp.y})
		}
	}
	return nil
}
