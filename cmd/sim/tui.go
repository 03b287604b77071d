package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/terrain"
)

var (
	feltStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	ballStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	hurtStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// drawTable renders the felt at one column per cell and two cell rows per
// terminal row, then the live balls on top and a status line below.
func drawTable(screen tcell.Screen, grid *terrain.Grid, m *combat.Manager, status string) {
	screen.Clear()
	width, height := screen.Size()

	rows := (grid.Rows() + 1) / 2
	for y := 0; y < rows && y < height-1; y++ {
		for x := 0; x < grid.Cols() && x < width; x++ {
			top := grid.Exists(2*y, x)
			bottom := grid.Exists(2*y+1, x)
			var r rune
			switch {
			case top && bottom:
				r = '█'
			case top:
				r = '▀'
			case bottom:
				r = '▄'
			default:
				continue
			}
			screen.SetContent(x, y, r, nil, feltStyle)
		}
	}

	for _, e := range m.Live() {
		px, py, ok := m.Position(e)
		if !ok {
			continue
		}
		row, col, ok := grid.CellAt(px, py)
		if !ok || col >= width || row/2 >= height-1 {
			continue
		}
		kind, _ := m.KindOf(e)
		style := ballStyle
		if hp, _ := m.CurrentHP(e); hp < m.Config().StartingHP/2 {
			style = hurtStyle
		}
		screen.SetContent(col, row/2, ballRune(kind), nil, style)
	}

	for i, r := range status {
		if i >= width {
			break
		}
		screen.SetContent(i, height-1, r, nil, statusStyle)
	}
	screen.Show()
}

// ballRune is 'o' for the cue and the ball number in hex otherwise.
func ballRune(k combat.Kind) rune {
	if k.Primary() {
		return 'o'
	}
	return []rune(fmt.Sprintf("%x", int(k)))[0]
}

// watch runs the simulation live in the terminal until it finishes or the
// user quits with Esc, q or Ctrl-C.
func watch(opts options, speedup float64) (Report, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return Report{}, err
	}
	if err := screen.Init(); err != nil {
		return Report{}, err
	}
	defer screen.Fini()

	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC ||
					(key.Key() == tcell.KeyRune && key.Rune() == 'q') {
					close(quit)
					return
				}
			}
		}
	}()

	if speedup <= 0 {
		speedup = 1
	}
	pace := time.Duration(float64(frameTime) / speedup)
	return runWith(opts, func(s *simulation, shot int) bool {
		status := fmt.Sprintf("shot %d  targets %d  felt lost %d  [q quits]", shot, s.manager.TargetsRemaining(), s.grid.Removed())
		drawTable(screen, s.grid, s.manager, status)
		select {
		case <-quit:
			return false
		case <-time.After(pace):
			return true
		}
	})
}
