package wavesim

import "testing"

// TestFixedCellsForcedToZero covers spec §8 testable property 1.
func TestFixedCellsForcedToZero(t *testing.T) {
	p := NewPool(8)
	for _, i := range []int{0, 5, 10, 63} {
		p.Height[i] = 3.5
		p.Fixity[i] = 1
	}
	calculateForces(p, nil, 0, p.N(), 0)
	for _, i := range []int{0, 5, 10, 63} {
		if p.Height[i] != 0 {
			t.Fatalf("Height[%d] = %v after force phase, want 0 (fixity set)", i, p.Height[i])
		}
	}
}

// TestFullLossHoldsFlatSteady covers spec §8 testable property 2: with every
// oscillator inactive and loss[i]=1 everywhere, a flat (all-zero) grid stays
// all-zero after a step — full damping cannot manufacture energy.
func TestFullLossHoldsFlatSteady(t *testing.T) {
	p := NewPool(8)
	for i := range p.Loss {
		p.Loss[i] = 1
	}
	calculateForces(p, nil, 0, p.N(), 0)
	for i := range p.Height {
		if p.Height[i] != 0 {
			t.Fatalf("Height[%d] = %v after one step with loss=1, want 0", i, p.Height[i])
		}
		if p.Velocity[i] != 0 {
			t.Fatalf("Velocity[%d] = %v after one step with loss=1, want 0", i, p.Velocity[i])
		}
	}
}

// TestFullLossCollapsesVelocity shows the (1-loss) factor always drives
// velocity to zero in one step regardless of the pre-existing height field,
// independent of the neighbor-average read-order effects on height itself.
func TestFullLossCollapsesVelocity(t *testing.T) {
	p := NewPool(8)
	for i := range p.Loss {
		p.Loss[i] = 1
	}
	p.Height[p.Index(4, 4)] = 1
	calculateForces(p, nil, 0, p.N(), 0)
	for i, v := range p.Velocity {
		if v != 0 {
			t.Fatalf("Velocity[%d] = %v after one step with loss=1, want 0", i, v)
		}
	}
}

// TestPointImpulseSpreadsOutward covers spec §8 scenario S2: loss=0, no
// absorber, shifting disabled. "One step" is a force phase followed by a
// move phase (spec §4.8) — the force phase alone leaves height untouched
// when loss is zero (the potential-loss formula is an identity at
// loss=0); only the move phase applies the new velocity to height.
func TestPointImpulseSpreadsOutward(t *testing.T) {
	size := 32
	p := NewPool(size)
	c := p.Index(16, 16)
	p.Height[c] = 1.0

	var before float64
	for _, h := range p.Height {
		before += h
	}

	calculateForces(p, nil, 0, p.N(), 0)

	orthos := []int{p.Index(16, 15), p.Index(16, 17), p.Index(17, 16), p.Index(15, 16)}
	for _, idx := range orthos {
		if p.Velocity[idx] <= 0 {
			t.Fatalf("orthogonal neighbor %d velocity = %v, want > 0", idx, p.Velocity[idx])
		}
	}
	diags := []int{p.Index(17, 15), p.Index(15, 15), p.Index(17, 17), p.Index(15, 17)}
	for _, idx := range diags {
		if p.Velocity[idx] <= 0 {
			t.Fatalf("diagonal neighbor %d velocity = %v, want > 0", idx, p.Velocity[idx])
		}
	}

	moveParticles(p, 0, p.N())
	if p.Height[c] >= 1.0 {
		t.Fatalf("center height = %v after force+move, want < 1.0 (energy radiated out)", p.Height[c])
	}

	var after float64
	for _, h := range p.Height {
		after += h
	}
	const epsilon = 1e-6
	if diff := after - before; diff > epsilon || diff < -epsilon {
		t.Fatalf("sum height changed by %v, want within %v of conserved", diff, epsilon)
	}
}

func TestClampAccelerationPreservesSign(t *testing.T) {
	if got := clampAcceleration(10, 1); got != 2 {
		t.Fatalf("clampAcceleration(10, 1) = %v, want 2 (2*|delta|, sign preserved)", got)
	}
	if got := clampAcceleration(-10, 1); got != -2 {
		t.Fatalf("clampAcceleration(-10, 1) = %v, want -2", got)
	}
	if got := clampAcceleration(0.5, 1); got != 0.5 {
		t.Fatalf("clampAcceleration(0.5, 1) = %v, want 0.5 (within limit, unchanged)", got)
	}
}

func TestMoveParticlesAddsVelocity(t *testing.T) {
	p := NewPool(4)
	p.Height[0] = 1
	p.Velocity[0] = 0.5
	moveParticles(p, 0, p.N())
	if p.Height[0] != 1.5 {
		t.Fatalf("Height[0] = %v, want 1.5", p.Height[0])
	}
}

func TestMoveParticlesInvalidRangeIsNoOp(t *testing.T) {
	p := NewPool(4)
	p.Height[0] = 1
	p.Velocity[0] = 0.5
	moveParticles(p, 0, p.N()+1)
	if p.Height[0] != 1 {
		t.Fatalf("Height[0] = %v after invalid range, want unchanged 1", p.Height[0])
	}
}

func TestShiftToOriginRemovesMean(t *testing.T) {
	p := NewPool(4)
	for i := range p.Height {
		p.Height[i] = float64(i)
	}
	shiftToOrigin(p)
	var sum float64
	for _, h := range p.Height {
		sum += h
	}
	if sum > 1e-9 || sum < -1e-9 {
		t.Fatalf("sum of heights after shift = %v, want ~0", sum)
	}
}
