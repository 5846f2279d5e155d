//go:build !headless

package main

import (
	"encoding/binary"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/waveforge/wavesim"
)

// heightProbe sonifies the grid by sampling Height at a fixed cell once per
// audio callback, implementing the io.Reader shape oto.NewPlayer expects.
type heightProbe struct {
	engine *wavesim.Engine
	x, y   int
}

func (h *heightProbe) Read(p []byte) (int, error) {
	size := h.engine.Describe().Size

	h.engine.Lock()
	height := h.engine.Array(wavesim.AttrHeight)
	var sample float32
	if h.x >= 0 && h.x < size && h.y >= 0 && h.y < size {
		idx := h.y*size + h.x
		if idx < len(height) {
			sample = float32(height[idx])
		}
	}
	h.engine.Unlock()

	bits := math.Float32bits(clampSample(sample))
	for i := 0; i+4 <= len(p); i += 4 {
		binary.LittleEndian.PutUint32(p[i:i+4], bits)
	}
	return len(p), nil
}

func clampSample(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// audioProbePlayer owns the oto context feeding a heightProbe.
type audioProbePlayer struct {
	ctx    *oto.Context
	player *oto.Player
}

func startAudioProbe(engine *wavesim.Engine, cfg AudioPreset) (*audioProbePlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	probe := &heightProbe{engine: engine, x: cfg.ProbeX, y: cfg.ProbeY}
	player := ctx.NewPlayer(probe)
	player.Play()

	return &audioProbePlayer{ctx: ctx, player: player}, nil
}

func (a *audioProbePlayer) Close() error {
	return a.player.Close()
}
