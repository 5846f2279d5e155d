package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/waveforge/wavesim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Preset is the on-disk configuration shape for the demo command: rate
// limits, absorber, render colors, the audio probe and a seed bank of
// oscillators, loaded from the embedded defaults and optionally overridden
// by a user-supplied YAML file.
type Preset struct {
	Size        int               `yaml:"size"`
	Workers     int               `yaml:"workers"`
	Rate        RatePreset        `yaml:"rate"`
	Absorber    AbsorberPreset    `yaml:"absorber"`
	Render      RenderPreset      `yaml:"render"`
	Audio       AudioPreset       `yaml:"audio"`
	Oscillators []OscillatorPreset `yaml:"oscillators"`
}

type RatePreset struct {
	IPS           float64 `yaml:"ips"`
	FPS           float64 `yaml:"fps"`
	Shifting      bool    `yaml:"shifting"`
	PowerSave     bool    `yaml:"power_save"`
	ThreadDelayMs int     `yaml:"thread_delay_ms"`
}

type AbsorberPreset struct {
	Enabled   bool    `yaml:"enabled"`
	Thickness int     `yaml:"thickness"`
	MaxLoss   float64 `yaml:"max_loss"`
	BaseLoss  float64 `yaml:"base_loss"`
}

type RenderPreset struct {
	ExtremeContrast     bool    `yaml:"extreme_contrast"`
	AmplitudeMultiplier float64 `yaml:"amplitude_multiplier"`
	MassMap             bool    `yaml:"mass_map"`
	MassMapRangeLow     float64 `yaml:"mass_map_range_low"`
	MassMapRangeHigh    float64 `yaml:"mass_map_range_high"`
	CrestColor          [3]byte `yaml:"crest_color"`
	TroughColor         [3]byte `yaml:"trough_color"`
	StaticColor         [3]byte `yaml:"static_color"`
}

type AudioPreset struct {
	Enabled    bool `yaml:"enabled"`
	ProbeX     int  `yaml:"probe_x"`
	ProbeY     int  `yaml:"probe_y"`
	SampleRate int  `yaml:"sample_rate"`
}

// OscillatorPreset seeds one of the engine's nine oscillator slots.
type OscillatorPreset struct {
	ID        int     `yaml:"id"`
	Active    bool    `yaml:"active"`
	Source    string  `yaml:"source"` // "point", "line", "moving_point"
	Period    int     `yaml:"period"`
	Phase     float64 `yaml:"phase"`
	Amplitude float64 `yaml:"amplitude"`
	MovePeriod int    `yaml:"move_period"`
	AnchorA   [2]float64 `yaml:"anchor_a"`
	AnchorB   [2]float64 `yaml:"anchor_b"`
}

// LoadPreset loads the embedded defaults, then merges an optional
// user-supplied override file on top (only fields present in the file are
// changed), mirroring pthm-soup/config's embed-then-merge loader.
func LoadPreset(path string) (*Preset, error) {
	p := &Preset{}
	if err := yaml.Unmarshal(defaultsYAML, p); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading preset file: %w", err)
		}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parsing preset file: %w", err)
		}
	}
	return p, nil
}

// Apply configures a freshly constructed Engine from the preset.
func (p *Preset) Apply(e *wavesim.Engine) {
	e.SetSize(p.Size)
	e.SetNumberOfThreads(p.Workers)

	e.SetIPS(p.Rate.IPS)
	e.SetFPS(p.Rate.FPS)
	e.SetShifting(p.Rate.Shifting)
	e.SetPowerSaveMode(p.Rate.PowerSave)
	e.SetThreadDelayMs(p.Rate.ThreadDelayMs)

	e.SetAbsorberEnabled(p.Absorber.Enabled)
	e.SetAbsorberThickness(p.Absorber.Thickness)
	e.SetAbsorberMaxLoss(p.Absorber.MaxLoss)
	e.SetLossRatio(p.Absorber.BaseLoss)

	e.SetExtremeContrastEnabled(p.Render.ExtremeContrast)
	e.SetAmplitudeMultiplier(p.Render.AmplitudeMultiplier)
	e.SetMassMap(p.Render.MassMap)
	e.SetMassMapRangeLow(p.Render.MassMapRangeLow)
	e.SetMassMapRangeHigh(p.Render.MassMapRangeHigh)
	e.SetCrestColor(colorOf(p.Render.CrestColor))
	e.SetTroughColor(colorOf(p.Render.TroughColor))
	e.SetStaticColor(colorOf(p.Render.StaticColor))

	for _, o := range p.Oscillators {
		if !wavesim.ValidOscillatorID(o.ID) {
			continue
		}
		e.SetOscillatorSource(o.ID, sourceKindOf(o.Source))
		e.SetOscillatorPeriod(o.ID, o.Period)
		e.SetOscillatorPhase(o.ID, o.Phase)
		e.SetOscillatorAmplitude(o.ID, o.Amplitude)
		if o.MovePeriod > 0 {
			e.SetOscillatorMovePeriod(o.ID, o.MovePeriod)
		}
		e.SetOscillatorAnchors(o.ID,
			wavesim.Point{X: o.AnchorA[0], Y: o.AnchorA[1]},
			wavesim.Point{X: o.AnchorB[0], Y: o.AnchorB[1]})
		e.SetOscillatorActive(o.ID, o.Active)
	}
}

func colorOf(rgb [3]byte) wavesim.Color {
	return wavesim.Color{R: rgb[0], G: rgb[1], B: rgb[2]}
}

func sourceKindOf(name string) wavesim.SourceKind {
	switch name {
	case "line":
		return wavesim.LineSource
	case "moving_point":
		return wavesim.MovingPointSource
	default:
		return wavesim.PointSource
	}
}
