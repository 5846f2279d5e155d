package wavesim

import "math"

// orthos is N, S, E, W in that fixed order; diagonals reference them by
// index for their gating rule.
var orthos = [4]struct{ dx, dy int }{
	{0, -1}, // N
	{0, 1},  // S
	{1, 0},  // E
	{-1, 0}, // W
}

var diagonals = [4]struct {
	dx, dy       int
	gate1, gate2 int // indices into orthos
}{
	{1, -1, 0, 2},  // NE: gated by N, E
	{-1, -1, 0, 3}, // NW: gated by N, W
	{1, 1, 1, 2},   // SE: gated by S, E
	{-1, 1, 1, 3},  // SW: gated by S, W
}

// calculateForces runs the force phase over [first, first+count) of p
// (spec §4.1). Oscillator writes at the end are applied by every worker
// identically and are therefore race-free by idempotence (spec §4.1, §5).
// An invalid range is a no-op (spec §4.1 failure case, §7).
func calculateForces(p *Pool, oscillators []Oscillator, first, count int, tick uint64) {
	if first < 0 || count < 0 || first+count > p.n {
		return
	}
	size := p.size

	for i := first; i < first+count; i++ {
		if p.Fixity[i] != 0 {
			p.Height[i] = 0
			continue
		}

		x, y := i%size, i/size
		var sum float64
		var n int

		orthoNonStatic := [4]bool{}
		for k, o := range orthos {
			nx, ny := x+o.dx, y+o.dy
			if p.InBounds(nx, ny) {
				ni := p.Index(nx, ny)
				if p.Fixity[ni] == 0 {
					orthoNonStatic[k] = true
					sum += p.Height[ni]
					n++
				}
			}
		}
		for _, d := range diagonals {
			if !orthoNonStatic[d.gate1] || !orthoNonStatic[d.gate2] {
				continue
			}
			nx, ny := x+d.dx, y+d.dy
			if p.InBounds(nx, ny) {
				ni := p.Index(nx, ny)
				if p.Fixity[ni] == 0 {
					sum += p.Height[ni]
					n++
				}
			}
		}

		var hbar float64
		if n > 0 {
			hbar = sum / float64(n)
		}
		delta := p.Height[i] - hbar

		var a float64
		if n >= 1 {
			a = -delta / p.Mass[i]
		}
		a = clampAcceleration(a, delta)

		p.Velocity[i] += a

		loss := p.Loss[i]
		ke := 0.5 * p.Mass[i] * p.Velocity[i] * p.Velocity[i]
		p.Velocity[i] = signOf(p.Velocity[i]) * math.Sqrt(2*ke*(1-loss)/p.Mass[i])

		pe := 0.5 * delta * delta
		p.Height[i] = p.Height[i] + signOf(delta)*math.Sqrt(2*pe*(1-loss)) - delta
	}

	applyOscillators(p, oscillators, tick)
}

// clampAcceleration bounds a so that |a| <= 2|delta|, preserving sign
// (spec §4.1 step 4, §9 design note).
func clampAcceleration(a, delta float64) float64 {
	limit := 2 * math.Abs(delta)
	if math.Abs(a) > limit {
		return signOf(a) * limit
	}
	return a
}

// signOf returns -1, 0 or 1 matching math.Signbit semantics for non-zero
// values, and 0 for exactly zero (spec §4.1 steps 6-7 use sign(x)·sqrt(...),
// which must vanish when x is zero).
func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// applyOscillators writes every active oscillator's current value into its
// target cells (spec §4.1, §4.4). Every worker performs this identically
// over the whole grid, not just its own partition.
func applyOscillators(p *Pool, oscillators []Oscillator, tick uint64) {
	for oi := range oscillators {
		o := &oscillators[oi]
		if !o.Active {
			continue
		}
		v := o.value(tick)
		if o.Source == MovingPointSource {
			if idx, ok := movingPointIndex(o, p.size, tick); ok {
				p.Height[idx] = v
				p.Velocity[idx] = 0
			}
			continue
		}
		for _, idx := range o.indices {
			if idx < 0 || idx >= p.n {
				continue
			}
			p.Height[idx] = v
			p.Velocity[idx] = 0
		}
	}
}
