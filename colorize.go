package wavesim

// Color is a 24-bit RGB triple.
type Color struct {
	R, G, B byte
}

// ------------------------------------------------------------------------------
// Render Constants
// ------------------------------------------------------------------------------
const (
	DefaultAmplitudeMultiplier = 20.0
	DefaultMassMapRangeLow     = 1.0
	DefaultMassMapRangeHigh    = 5.0

	massMapScale = 636 // 128*5 - 4, spec §4.6: c ranges over [0, 636)
)

var (
	DefaultCrestColor  = Color{255, 255, 255}
	DefaultTroughColor = Color{0, 0, 0}
	DefaultStaticColor = Color{255, 255, 0}
)

// RenderConfig is pure view-state: it never affects physics (spec §3).
type RenderConfig struct {
	CrestColor          Color
	TroughColor         Color
	StaticColor         Color
	ExtremeContrast     bool
	AmplitudeMultiplier float64
	MassMap             bool
	MassMapRangeLow     float64
	MassMapRangeHigh    float64
}

// DefaultRenderConfig returns the spec §6 default render configuration.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		CrestColor:          DefaultCrestColor,
		TroughColor:         DefaultTroughColor,
		StaticColor:         DefaultStaticColor,
		ExtremeContrast:     false,
		AmplitudeMultiplier: DefaultAmplitudeMultiplier,
		MassMap:             false,
		MassMapRangeLow:     DefaultMassMapRangeLow,
		MassMapRangeHigh:    DefaultMassMapRangeHigh,
	}
}

// calculateColors runs the paint phase over [first, first+count) of p,
// writing into p.RGB (spec §4.6). An invalid range is a no-op.
func calculateColors(p *Pool, cfg RenderConfig, first, count int) {
	if first < 0 || count < 0 || first+count > p.n {
		return
	}
	for i := first; i < first+count; i++ {
		var c Color
		switch {
		case cfg.MassMap:
			c = massMapColor(p.Mass[i], cfg.MassMapRangeLow, cfg.MassMapRangeHigh)
		case p.Fixity[i] != 0:
			c = cfg.StaticColor
		default:
			c = waveColor(p.Height[i], cfg)
		}
		p.RGB[3*i+0] = c.R
		p.RGB[3*i+1] = c.G
		p.RGB[3*i+2] = c.B
	}
}

func waveColor(v float64, cfg RenderConfig) Color {
	if cfg.ExtremeContrast {
		switch {
		case v > 0:
			return cfg.CrestColor
		case v < 0:
			return cfg.TroughColor
		default:
			return blendChannels(cfg.CrestColor, cfg.TroughColor, 0.5)
		}
	}
	scaled := v * cfg.AmplitudeMultiplier
	if scaled > 1 {
		scaled = 1
	} else if scaled < -1 {
		scaled = -1
	}
	t := (scaled + 1) / 2
	return blendChannels(cfg.CrestColor, cfg.TroughColor, t)
}

// blendChannels linearly interpolates crest*t + trough*(1-t) per channel.
func blendChannels(crest, trough Color, t float64) Color {
	mix := func(a, b byte) byte {
		v := float64(a)*t + float64(b)*(1-t)
		return clampByte(v)
	}
	return Color{mix(crest.R, trough.R), mix(crest.G, trough.G), mix(crest.B, trough.B)}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// massMapColor maps mass, clamped to [low, high], onto a six-band thermal
// palette (spec §4.6). An empty or inverted range paints black.
func massMapColor(mass, low, high float64) Color {
	rng := high - low
	if rng <= 0 {
		return Color{0, 0, 0}
	}
	m := mass
	if m < low {
		m = low
	} else if m > high {
		m = high
	}
	c := int((m - low) / rng * massMapScale)
	if c >= massMapScale {
		c = massMapScale - 1
	}
	if c < 0 {
		c = 0
	}

	switch {
	case c < 128:
		return Color{0, 0, byte(c)}
	case c < 256:
		return Color{byte(c & 127), 0, 127}
	case c < 384:
		return Color{byte(128 + c&127), byte(c & 127), byte(127 - c&127)}
	case c < 512:
		return Color{255, byte(128 + c&127), byte(c & 127)}
	default: // c < 640
		return Color{255, 255, byte(128 + c&127)}
	}
}
