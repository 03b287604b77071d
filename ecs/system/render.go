package system

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
	"github.com/milk9111/breakshot/terrain"
	"golang.org/x/image/colornames"
)

var (
	cushionColor = colornames.Saddlebrown
	pocketColor  = colornames.Black
	hpBackColor  = color.RGBA{R: 40, G: 0, B: 0, A: 200}
	hpColor      = colornames.Limegreen
	aimColor     = color.RGBA{R: 255, G: 255, B: 255, A: 160}
)

// RenderSystem draws the felt, the balls and their health.
type RenderSystem struct {
	manager *combat.Manager
	grid    *terrain.Grid
	aim     *AimSystem

	felt        *ebiten.Image
	feltVersion int
	Cushion     float64
}

func NewRenderSystem(m *combat.Manager, grid *terrain.Grid, aim *AimSystem) *RenderSystem {
	return &RenderSystem{manager: m, grid: grid, aim: aim, feltVersion: -1, Cushion: 16}
}

// SetGrid swaps the table surface after a re-rack.
func (r *RenderSystem) SetGrid(grid *terrain.Grid) {
	r.grid = grid
	r.feltVersion = -1
	if r.felt != nil {
		r.felt.Deallocate()
		r.felt = nil
	}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	r.drawTable(screen)
	r.drawBalls(w, screen)
	r.drawEffects(w, screen)
	if x0, y0, x1, y1, ok := r.aim.Line(); ok {
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, aimColor, true)
	}
}

func (r *RenderSystem) drawTable(screen *ebiten.Image) {
	if r.grid == nil {
		return
	}
	l := r.grid.Layout()
	c := float32(r.Cushion)
	vector.FillRect(screen, float32(l.OriginX)-c, float32(l.OriginY)-c, float32(l.Width)+2*c, float32(l.Height)+2*c, cushionColor, false)
	vector.FillRect(screen, float32(l.OriginX), float32(l.OriginY), float32(l.Width), float32(l.Height), pocketColor, false)

	switch r.grid.Mode() {
	case terrain.ModeBulk:
		if r.felt == nil || r.feltVersion != r.grid.Version() {
			surface := r.grid.Surface()
			if surface == nil {
				return
			}
			if r.felt != nil {
				r.felt.Deallocate()
			}
			r.felt = ebiten.NewImageFromImage(surface)
			r.feltVersion = r.grid.Version()
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(l.CellSize, l.CellSize)
		op.GeoM.Translate(l.OriginX, l.OriginY)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(r.felt, op)
	case terrain.ModeCell:
		for _, cell := range r.grid.Cells() {
			vector.FillRect(screen, float32(cell.X), float32(cell.Y), float32(cell.Size), float32(cell.Size), terrain.Felt, false)
		}
	}
}

func (r *RenderSystem) drawBalls(w *ecs.World, screen *ebiten.Image) {
	entities := w.Query(component.BallComponent.Kind(), component.TransformComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		radius := 10.0
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Radius > 0 {
			radius = body.Radius
		}

		clr := color.Color(colornames.White)
		h, hok := ecs.Get(w, e, component.HealthComponent.Kind())
		if hok {
			if c, ok := h.Visual.(color.Color); ok {
				clr = c
			}
		}
		x, y, rad := float32(t.X), float32(t.Y), float32(radius)
		vector.FillCircle(screen, x, y, rad, clr, true)
		vector.StrokeCircle(screen, x, y, rad, 1, colornames.Black, true)

		if !hok || h.Max <= 0 {
			continue
		}
		frac := float32(h.Current / h.Max)
		barW := rad * 2
		vector.FillRect(screen, x-rad, y+rad+3, barW, 3, hpBackColor, false)
		vector.FillRect(screen, x-rad, y+rad+3, barW*frac, 3, hpColor, false)
	}
}

func (r *RenderSystem) drawEffects(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach2(w, component.EffectComponent.Kind(), component.TTLComponent.Kind(), func(_ ecs.Entity, fx *component.Effect, ttl *component.TTL) {
		p := ttl.Progress()
		clr := fade(fx.Color, 1-p)
		x, y := float32(fx.X), float32(fx.Y)
		if fx.Explode {
			vector.StrokeCircle(screen, x, y, float32(fx.Radius*p), 3, clr, true)
			return
		}
		const fragments = 6
		dist := common.Lerp(fx.Radius, 3*fx.Radius, p)
		size := float32(fx.Radius / 3)
		for i := 0; i < fragments; i++ {
			a := 2 * math.Pi * float64(i) / fragments
			fx0 := float32(fx.X+math.Cos(a)*dist) - size/2
			fy0 := float32(fx.Y+math.Sin(a)*dist) - size/2
			vector.FillRect(screen, fx0, fy0, size, size, clr, false)
		}
	})
}

// fade scales the alpha of c by a.
func fade(c color.Color, a float64) color.Color {
	if c == nil {
		c = color.White
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A) * a)
	return n
}
