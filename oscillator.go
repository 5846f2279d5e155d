package wavesim

import "math"

// ------------------------------------------------------------------------------
// Oscillator Constants
// ------------------------------------------------------------------------------
const (
	NumOscillators = 9 // nine programmable oscillator slots (spec §3)

	DefaultPeriod      = 30
	DefaultAmplitude   = 1.0
	DefaultMovePeriod  = 800
	DefaultPhaseDeg    = 0.0
	lineSampleStep     = 0.5 // line-source sampling step, in grid units (spec §4.4)
	minPeriod          = 1   // period < 1 is rejected (spec §8)
	minMovePeriod      = 1
)

// SourceKind selects how an Oscillator addresses the grid.
type SourceKind int

const (
	PointSource SourceKind = iota
	LineSource
	MovingPointSource
)

// Point is a grid-space anchor coordinate. Coordinates are float64 so
// anchors can be rescaled fractionally on resize and so MovingPointSource
// can interpolate between them.
type Point struct {
	X, Y float64
}

// Oscillator is a programmable source that overwrites height and zeroes
// velocity at one or more cells per step (spec §3, glossary).
type Oscillator struct {
	Active     bool
	Source     SourceKind
	Period     int // ticks per cycle, >= 1
	Phase      float64
	Amplitude  float64
	MovePeriod int // ticks per anchor-to-anchor sweep, >= 1
	AnchorA    Point
	AnchorB    Point

	indices []int // precomputed for Point/Line; always empty for Moving
}

// DefaultOscillator returns an inactive oscillator with spec §3/§6 defaults.
func DefaultOscillator() Oscillator {
	return Oscillator{
		Active:     false,
		Source:     PointSource,
		Period:     DefaultPeriod,
		Phase:      DefaultPhaseDeg,
		Amplitude:  DefaultAmplitude,
		MovePeriod: DefaultMovePeriod,
	}
}

// Indices returns the oscillator's precomputed index list (empty for
// MovingPointSource, whose live index is recomputed every tick).
func (o *Oscillator) Indices() []int { return o.indices }

// recomputeIndices rebuilds the precomputed index list for the current
// source kind and anchors, against a grid of the given size (spec §4.4).
// Point/Line sources replace indices wholesale (never mutated in place),
// so an in-flight phase holding the old slice continues to see a
// consistent, if stale, list.
func (o *Oscillator) recomputeIndices(size int) {
	switch o.Source {
	case PointSource:
		o.indices = pointSourceIndices(o.AnchorA, size)
	case LineSource:
		o.indices = lineSourceIndices(o.AnchorA, o.AnchorB, size)
	default: // MovingPointSource
		o.indices = nil
	}
}

func pointSourceIndices(a Point, size int) []int {
	x, y := int(math.Floor(a.X)), int(math.Floor(a.Y))
	if x < 0 || x >= size || y < 0 || y >= size {
		return nil
	}
	return []int{x + size*y}
}

// lineSourceIndices walks the segment A->B at 0.5-grid-unit steps, flooring
// each sample to a cell index. Duplicates are expected (spec §4.4, §8 S5).
// A zero-length segment yields no indices.
func lineSourceIndices(a, b Point, size int) []int {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	ux, uy := dx/length, dy/length
	steps := int(math.Floor(length / lineSampleStep))

	var out []int
	for k := 0; k <= steps; k++ {
		dist := float64(k) * lineSampleStep
		x := int(math.Floor(a.X + ux*dist))
		y := int(math.Floor(a.Y + uy*dist))
		if x >= 0 && x < size && y >= 0 && y < size {
			out = append(out, x+size*y)
		}
	}
	return out
}

// movingPointIndex computes the live index for a MovingPointSource at the
// given tick (spec §4.1, §4.4, §8 S6).
func movingPointIndex(o *Oscillator, size int, tick uint64) (int, bool) {
	period := o.MovePeriod
	if period < minMovePeriod {
		period = minMovePeriod
	}
	r := float64(tick%uint64(period)) / float64(period)
	x := int(math.Floor((1-r)*o.AnchorA.X + r*o.AnchorB.X))
	y := int(math.Floor((1-r)*o.AnchorA.Y + r*o.AnchorB.Y))
	if x < 0 || x >= size || y < 0 || y >= size {
		return 0, false
	}
	return x + size*y, true
}

// value returns the oscillator's height contribution at the given tick
// (spec §4.1): A*sin(phase*pi/180 + 2*pi*(tick mod period)/period).
func (o *Oscillator) value(tick uint64) float64 {
	period := o.Period
	if period < minPeriod {
		period = minPeriod
	}
	phaseRad := o.Phase * math.Pi / 180
	cyclePos := float64(tick%uint64(period)) / float64(period)
	return o.Amplitude * math.Sin(phaseRad+2*math.Pi*cyclePos)
}
