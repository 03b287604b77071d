// Package terrain is the destructible felt of the table: a boolean cell grid
// with two derived render views (one baked surface, or one unit per cell).
package terrain

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/breakshot/common"
)

// Pocket is a circular zone whose cells never exist.
type Pocket struct {
	X, Y   float64
	Radius float64
}

// Layout describes the playing surface in world units.
type Layout struct {
	OriginX, OriginY float64
	Width, Height    float64
	CellSize         float64
	Pockets          []Pocket

	// RaggedInset is how many cells inside the radius the ragged edge
	// starts.
	RaggedInset int
	// Jitter scales the edge probability by a random factor in
	// [1-Jitter, 1+Jitter].
	Jitter float64
}

// DefaultLayout is a 640x320 table with six pockets.
func DefaultLayout() Layout {
	return Layout{
		OriginX:  80,
		OriginY:  80,
		Width:    640,
		Height:   320,
		CellSize: 8,
		Pockets: []Pocket{
			{X: 80, Y: 80, Radius: 18}, {X: 400, Y: 80, Radius: 16}, {X: 720, Y: 80, Radius: 18},
			{X: 80, Y: 400, Radius: 18}, {X: 400, Y: 400, Radius: 16}, {X: 720, Y: 400, Radius: 18},
		},
		RaggedInset: 3,
		Jitter:      0.3,
	}
}

// Mode selects which view is current.
type Mode uint8

const (
	ModeBulk Mode = iota
	ModeCell
)

func (m Mode) String() string {
	if m == ModeCell {
		return "cell"
	}
	return "bulk"
}

// Grid is the single source of truth for which cells exist. Destruction is
// monotonic: no operation sets a cell back to existing.
type Grid struct {
	layout     Layout
	rows, cols int
	exists     [][]bool
	pocket     [][]bool
	rng        *rand.Rand

	mode    Mode
	bulk    *bulkView
	cells   map[int]*Cell
	removed int
	version int
}

// New builds the grid for layout. A nil rng seeds a fresh PCG source.
func New(layout Layout, rng *rand.Rand) *Grid {
	if layout.CellSize <= 0 {
		layout.CellSize = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Grid{
		layout: layout,
		cols:   int(math.Ceil(layout.Width / layout.CellSize)),
		rows:   int(math.Ceil(layout.Height / layout.CellSize)),
		rng:    rng,
	}
	g.exists = make([][]bool, g.rows)
	g.pocket = make([][]bool, g.rows)
	for r := 0; r < g.rows; r++ {
		g.exists[r] = make([]bool, g.cols)
		g.pocket[r] = make([]bool, g.cols)
		for c := 0; c < g.cols; c++ {
			cx, cy := g.CellCenter(r, c)
			for _, p := range layout.Pockets {
				if common.Dist(cx, cy, p.X, p.Y) <= p.Radius {
					g.pocket[r][c] = true
					break
				}
			}
			g.exists[r][c] = !g.pocket[r][c]
		}
	}
	g.bulk = newBulkView(g)
	return g
}

func (g *Grid) Layout() Layout { return g.layout }
func (g *Grid) Rows() int      { return g.rows }
func (g *Grid) Cols() int      { return g.cols }
func (g *Grid) Mode() Mode     { return g.mode }

// CellAt maps a world position to a cell. ok is false outside the grid.
func (g *Grid) CellAt(x, y float64) (row, col int, ok bool) {
	col = int(math.Floor((x - g.layout.OriginX) / g.layout.CellSize))
	row = int(math.Floor((y - g.layout.OriginY) / g.layout.CellSize))
	return row, col, g.inRange(row, col)
}

// CellCenter returns the world centre of a cell.
func (g *Grid) CellCenter(row, col int) (float64, float64) {
	s := g.layout.CellSize
	return g.layout.OriginX + (float64(col)+0.5)*s, g.layout.OriginY + (float64(row)+0.5)*s
}

// Exists reports whether the cell is still present. Out of range is false.
func (g *Grid) Exists(row, col int) bool {
	return g.inRange(row, col) && g.exists[row][col]
}

// IsPocket reports whether the cell belongs to a pocket zone.
func (g *Grid) IsPocket(row, col int) bool {
	return g.inRange(row, col) && g.pocket[row][col]
}

// IsHole reports whether (x, y) lies over a missing cell of the surface.
// Positions off the grid are not holes.
func (g *Grid) IsHole(x, y float64) bool {
	row, col, ok := g.CellAt(x, y)
	return ok && !g.exists[row][col]
}

// ExistingCount returns the number of cells still present.
func (g *Grid) ExistingCount() int {
	n := 0
	for _, row := range g.exists {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Removed returns how many cells destruction has taken out, pockets excluded.
func (g *Grid) Removed() int { return g.removed }

// Version changes whenever a cell is removed or the mode switches, so
// renderers know when to re-upload a view.
func (g *Grid) Version() int { return g.version }

// Snapshot returns a copy of the existence grid.
func (g *Grid) Snapshot() [][]bool {
	out := make([][]bool, g.rows)
	for r := range g.exists {
		out[r] = append([]bool(nil), g.exists[r]...)
	}
	return out
}

// DestroyInRadius removes every cell whose centre is within radius.
func (g *Grid) DestroyInRadius(x, y, radius float64) int {
	n := 0
	g.eachInRadius(x, y, radius, func(row, col int, _ float64) {
		if g.destroy(row, col) {
			n++
		}
	})
	return n
}

// DestroyRagged removes every cell inside the inner radius and a random,
// thinning share of the band between the inner radius and radius.
func (g *Grid) DestroyRagged(x, y, radius float64) int {
	inner := radius - float64(g.layout.RaggedInset)*g.layout.CellSize
	if inner < 0 {
		inner = 0
	}
	n := 0
	g.eachInRadius(x, y, radius, func(row, col int, d float64) {
		if d > inner {
			if !g.rollEdge(d, inner, radius) {
				return
			}
		}
		if g.destroy(row, col) {
			n++
		}
	})
	return n
}

func (g *Grid) rollEdge(d, inner, outer float64) bool {
	if outer <= inner {
		return false
	}
	p := 1 - (d-inner)/(outer-inner)
	if j := g.layout.Jitter; j > 0 {
		p *= 1 + j*(2*g.rng.Float64()-1)
	}
	return g.rng.Float64() < p
}

// eachInRadius visits in-range cells whose centre lies within radius,
// passing the centre distance.
func (g *Grid) eachInRadius(x, y, radius float64, fn func(row, col int, d float64)) {
	if radius < 0 {
		return
	}
	r0, c0, _ := g.CellAt(x-radius, y-radius)
	r1, c1, _ := g.CellAt(x+radius, y+radius)
	r0, c0 = max(r0, 0), max(c0, 0)
	r1, c1 = min(r1, g.rows-1), min(c1, g.cols-1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cx, cy := g.CellCenter(row, col)
			if d := common.Dist(cx, cy, x, y); d <= radius {
				fn(row, col, d)
			}
		}
	}
}

func (g *Grid) destroy(row, col int) bool {
	if !g.Exists(row, col) {
		return false
	}
	g.exists[row][col] = false
	g.removed++
	g.version++
	delete(g.cells, g.index(row, col))
	g.bulk.dirty = true
	return true
}

func (g *Grid) inRange(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}
