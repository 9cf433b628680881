package universe

import (
	"strings"
	"unsafe"

	"bitlife/src/bitstore"
	"bitlife/src/random"
	"bitlife/src/shape"
)

/*
	Universe is the simulation engine: a toroidal grid of cells stored in a bit-dense buffer
	the next generation is calculated into a clone of the buffer which then replaces the current one,
	so neighbours are always counted against the previous generation
	the Universe is not safe for concurrent use, the Runner serializes all calls
*/
type Universe struct {
	width  uint32
	height uint32
	cells  *bitstore.Store
	src    random.Source
}

//Option configures the Universe on creation
type Option func(u *Universe)

//WithSource injects the random source used for seeding and shape transformations
func WithSource(src random.Source) Option {
	return func(u *Universe) {
		if src != nil {
			u.src = src
		}
	}
}

func newUniverse(width uint32, height uint32, opts []Option) *Universe {
	if width == 0 || height == 0 {
		panic("universe: width and height must be positive")
	}
	u := &Universe{width: width, height: height, src: random.Global}
	for _, o := range opts {
		o(u)
	}
	return u
}

//Empty creates the universe with all cells dead
func Empty(width uint32, height uint32, opts ...Option) *Universe {
	u := newUniverse(width, height, opts)
	u.cells = bitstore.Empty(u.size())
	return u
}

//Random creates the universe seeded with random bytes, every cell is alive with ~50% probability
func Random(width uint32, height uint32, opts ...Option) *Universe {
	u := newUniverse(width, height, opts)
	u.cells = bitstore.Random(u.size(), u.src)
	return u
}

func (u *Universe) size() int {
	return int(u.width) * int(u.height)
}

//Width returns the width of the universe in cells
func (u *Universe) Width() uint32 {
	return u.width
}

//Height returns the height of the universe in cells
func (u *Universe) Height() uint32 {
	return u.height
}

//CellBuffer returns the raw cell buffer, bit y*width+x (LSB first) is the cell x,y
//the slice must not be used after the next mutating call
func (u *Universe) CellBuffer() []byte {
	return u.cells.Bytes()
}

//CellBufferPointer returns the address of the raw cell buffer, same lifetime as CellBuffer
func (u *Universe) CellBufferPointer() unsafe.Pointer {
	return u.cells.Pointer()
}

//CellBufferLength returns the length of the raw cell buffer in bytes
func (u *Universe) CellBufferLength() uint32 {
	return uint32(u.cells.Len())
}

//Index returns the linear index of the cell, coordinates wrap around the edges
func (u *Universe) Index(x uint32, y uint32) int {
	return int(y%u.height)*int(u.width) + int(x%u.width)
}

//wrapIndex is Index for signed coordinates
func (u *Universe) wrapIndex(x int, y int) int {
	w, h := int(u.width), int(u.height)
	x = (x%w + w) % w
	y = (y%h + h) % h
	return y*w + x
}

//Alive reports whether the cell x,y is alive
func (u *Universe) Alive(x uint32, y uint32) bool {
	return u.cells.Get(u.Index(x, y))
}

//LiveNeighborCount returns the number of live cells in the Moore neighbourhood of x,y
//on a grid one cell wide or high the cell is its own neighbour along that axis
func (u *Universe) LiveNeighborCount(x uint32, y uint32) (count uint8) {
	for _, dy := range [3]uint32{u.height - 1, 0, 1} {
		for _, dx := range [3]uint32{u.width - 1, 0, 1} {
			//skip my position
			if dx == 0 && dy == 0 {
				continue
			}
			if u.cells.Get(u.Index(x+dx, y+dy)) {
				count++
			}
		}
	}
	return
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	return u.cells.Count(u.size())
}

//Tick advances the universe by one generation
func (u *Universe) Tick() {
	u.Advance()
}

//Advance advances the universe by one generation and reports whether any cell changed
func (u *Universe) Advance() (changed bool) {
	next := u.cells.Clone()
	for y := uint32(0); y < u.height; y++ {
		for x := uint32(0); x < u.width; x++ {
			idx := u.Index(x, y)
			alive := u.cells.Get(idx)
			nextState := nextCellState(alive, u.LiveNeighborCount(x, y))
			if nextState != alive {
				next.Set(idx, nextState)
				changed = true
			}
		}
	}
	u.cells = next
	return
}

//nextCellState applies Conway's rule to a cell with n live neighbours
func nextCellState(alive bool, n uint8) bool {
	switch {
	case alive && n < 2:
		return false
	case alive && n > 3:
		return false
	case !alive && n == 3:
		return true
	default:
		return alive
	}
}

//Place sets the cells at the given coordinates shifted by dx,dy to alive, existing live cells are kept
func (u *Universe) Place(cells []shape.Coord, dx int, dy int) {
	for _, c := range cells {
		u.cells.Set(u.wrapIndex(c.X+dx, c.Y+dy), true)
	}
}

//Toggle inverses the cell state at point x, y
func (u *Universe) Toggle(x uint32, y uint32) {
	u.flip(u.Index(x, y))
}

func (u *Universe) flip(idx int) {
	u.cells.Set(idx, !u.cells.Get(idx))
}

//SpawnAt places the transformed shape centered on x,y
func (u *Universe) SpawnAt(s shape.Shape, x int, y int, t shape.Transformation) {
	w, h := s.Bounds(t)
	u.Place(s.Transformed(t), x-w/2, y-h/2)
}

//SpawnShapeAt places a glider with a random transformation centered on x,y
func (u *Universe) SpawnShapeAt(x uint32, y uint32) {
	u.SpawnAt(shape.Glider, int(x), int(y), shape.RandomTransformation(u.src))
}

//Clear kills all cells, the buffer is kept
func (u *Universe) Clear() {
	u.cells.Reset()
}

//Reseed refills the existing buffer with random data
func (u *Universe) Reseed() {
	u.cells.Fill(u.src)
}

//Equal reports whether both universes have the same dimensions and live cells
func (u *Universe) Equal(o *Universe) bool {
	return u.width == o.width && u.height == o.height && u.cells.Equal(o.cells, u.size())
}

//String renders the universe as rows of 'X' (alive) and '-' (dead)
func (u *Universe) String() string {
	var b strings.Builder
	b.Grow(u.size() + int(u.height))
	for y := uint32(0); y < u.height; y++ {
		for x := uint32(0); x < u.width; x++ {
			if u.Alive(x, y) {
				b.WriteByte('X')
			} else {
				b.WriteByte('-')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
