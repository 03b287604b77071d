package terrain

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/colornames"
)

// Felt is the colour of an existing cell in both views.
var Felt = color.NRGBA{R: colornames.Darkgreen.R, G: colornames.Darkgreen.G, B: colornames.Darkgreen.B, A: 0xff}

// Cell is one individually addressable unit of the cell view.
type Cell struct {
	Row, Col int
	X, Y     float64
	Size     float64
}

// bulkView bakes exists into one pixel per cell. The renderer scales it by
// the cell size.
type bulkView struct {
	g     *Grid
	img   *image.NRGBA
	dirty bool
}

func newBulkView(g *Grid) *bulkView {
	return &bulkView{g: g, dirty: true}
}

func (b *bulkView) bake() *image.NRGBA {
	if b.img == nil {
		b.img = image.NewNRGBA(image.Rect(0, 0, b.g.cols, b.g.rows))
		b.dirty = true
	}
	if !b.dirty {
		return b.img
	}
	for row := 0; row < b.g.rows; row++ {
		for col := 0; col < b.g.cols; col++ {
			c := color.NRGBA{}
			if b.g.exists[row][col] {
				c = Felt
			}
			b.img.SetNRGBA(col, row, c)
		}
	}
	b.dirty = false
	return b.img
}

// SwitchToCellMode materializes one Cell per existing grid cell and drops
// the bulk surface. The position and radius of the triggering effect are
// accepted for callers that scope their display, every cell is
// materialized regardless. No-op when already in cell mode.
func (g *Grid) SwitchToCellMode(x, y, radius float64) {
	if g.mode == ModeCell {
		return
	}
	g.cells = make(map[int]*Cell, g.ExistingCount())
	s := g.layout.CellSize
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if !g.exists[row][col] {
				continue
			}
			g.cells[g.index(row, col)] = &Cell{
				Row:  row,
				Col:  col,
				X:    g.layout.OriginX + float64(col)*s,
				Y:    g.layout.OriginY + float64(row)*s,
				Size: s,
			}
		}
	}
	g.bulk.img = nil
	g.bulk.dirty = true
	g.mode = ModeCell
	g.version++
}

// SwitchToBulkMode rebakes the surface from the current grid, holes
// included, and drops the cell units.
func (g *Grid) SwitchToBulkMode() {
	if g.mode == ModeBulk {
		return
	}
	g.cells = nil
	g.mode = ModeBulk
	g.version++
	g.bulk.bake()
}

// Surface returns the baked bulk view, or nil in cell mode.
func (g *Grid) Surface() *image.NRGBA {
	if g.mode != ModeBulk {
		return nil
	}
	return g.bulk.bake()
}

// Cells returns the cell view in row-major order, or nil in bulk mode.
func (g *Grid) Cells() []*Cell {
	if g.mode != ModeCell {
		return nil
	}
	out := make([]*Cell, 0, len(g.cells))
	for _, c := range g.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return g.index(out[i].Row, out[i].Col) < g.index(out[j].Row, out[j].Col)
	})
	return out
}
