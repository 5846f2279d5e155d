//go:build !headless

package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/waveforge/wavesim"
)

// gameView implements ebiten.Game, receiving finished frames from the
// engine's render callback and blitting them every Draw the way
// EbitenOutput does in the teacher's video backend.
type gameView struct {
	engine *wavesim.Engine

	mu     sync.RWMutex
	rgb    []byte
	size   int
	window *ebiten.Image

	console *consoleHost
}

func newGameView(engine *wavesim.Engine, size int, console *consoleHost) *gameView {
	return &gameView{engine: engine, size: size, console: console}
}

func (g *gameView) onRender(rgb []byte) {
	g.mu.Lock()
	if cap(g.rgb) < len(rgb) {
		g.rgb = make([]byte, len(rgb))
	}
	g.rgb = g.rgb[:len(rgb)]
	copy(g.rgb, rgb)
	g.mu.Unlock()
}

func (g *gameView) Update() error {
	if g.console != nil {
		g.console.poll(g.engine)
	}
	return nil
}

func (g *gameView) Draw(screen *ebiten.Image) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := g.size
	if n == 0 || len(g.rgb) < n*n*3 {
		return
	}
	if g.window == nil {
		g.window = ebiten.NewImage(n, n)
	}

	rgba := make([]byte, n*n*4)
	for i := 0; i < n*n; i++ {
		rgba[i*4] = g.rgb[i*3]
		rgba[i*4+1] = g.rgb[i*3+1]
		rgba[i*4+2] = g.rgb[i*3+2]
		rgba[i*4+3] = 0xFF
	}
	g.window.WritePixels(rgba)
	screen.DrawImage(g.window, nil)
}

func (g *gameView) Layout(_, _ int) (int, int) {
	return g.size, g.size
}

func run(preset *Preset) error {
	var view *gameView

	var console *consoleHost
	console = newConsoleHost()

	engine := newEngine(preset, func(buf []byte) {
		view.onRender(buf)
	})
	defer engine.Dispose()

	view = newGameView(engine, preset.Size, console)

	if preset.Audio.Enabled {
		probe, err := startAudioProbe(engine, preset.Audio)
		if err != nil {
			fmt.Printf("wavesimview: audio probe disabled: %v\n", err)
		} else {
			defer probe.Close()
		}
	}

	console.Start(engine)
	defer console.Stop()

	engine.Start()

	ebiten.SetWindowSize(preset.Size*2, preset.Size*2)
	ebiten.SetWindowTitle("wavesimview")
	ebiten.SetWindowResizable(true)

	return ebiten.RunGame(view)
}
