package wavesim

import "testing"

// TestLineSourceIndices reproduces spec §8 scenario S5 exactly.
func TestLineSourceIndices(t *testing.T) {
	size := 32
	got := lineSourceIndices(Point{10, 10}, Point{13, 10}, size)
	want := []int{
		10 + size*10, 10 + size*10,
		11 + size*10, 11 + size*10,
		12 + size*10, 12 + size*10,
		13 + size*10,
	}
	if len(got) != len(want) {
		t.Fatalf("len(indices) = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices[%d] = %d, want %d (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLineSourceZeroLengthIsEmpty(t *testing.T) {
	got := lineSourceIndices(Point{5, 5}, Point{5, 5}, 32)
	if len(got) != 0 {
		t.Fatalf("zero-length segment yielded %v, want empty", got)
	}
}

func TestPointSourceIndices(t *testing.T) {
	size := 32
	in := pointSourceIndices(Point{4, 7}, size)
	if len(in) != 1 || in[0] != 4+size*7 {
		t.Fatalf("pointSourceIndices in-bounds = %v, want [%d]", in, 4+size*7)
	}
	out := pointSourceIndices(Point{-1, 0}, size)
	if len(out) != 0 {
		t.Fatalf("pointSourceIndices out-of-bounds = %v, want empty", out)
	}
}

// TestMovingPointIndex reproduces spec §8 scenario S6 exactly.
func TestMovingPointIndex(t *testing.T) {
	size := 16
	o := &Oscillator{
		Source:     MovingPointSource,
		MovePeriod: 4,
		AnchorA:    Point{0, 0},
		AnchorB:    Point{float64(size - 1), float64(size - 1)},
	}
	want := []int{
		0,
		int(0.25*float64(size-1)) * (size + 1),
		int(0.5*float64(size-1)) * (size + 1),
		int(0.75*float64(size-1)) * (size + 1),
	}
	for tick := uint64(0); tick < 4; tick++ {
		idx, ok := movingPointIndex(o, size, tick)
		if !ok {
			t.Fatalf("tick %d: index out of bounds", tick)
		}
		if idx != want[tick] {
			t.Fatalf("tick %d: index = %d, want %d", tick, idx, want[tick])
		}
	}
}

func TestRecomputeIndicesIdempotent(t *testing.T) {
	o := Oscillator{Source: LineSource, AnchorA: Point{1, 1}, AnchorB: Point{9, 5}}
	o.recomputeIndices(32)
	first := append([]int(nil), o.indices...)
	o.recomputeIndices(32)
	second := o.indices
	if len(first) != len(second) {
		t.Fatalf("recompute changed length: %v -> %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("recompute changed indices at %d: %v -> %v", i, first, second)
		}
	}
}

func TestOscillatorValueAtZeroPhaseZeroTick(t *testing.T) {
	o := DefaultOscillator()
	if v := o.value(0); v != 0 {
		t.Fatalf("value at tick 0, phase 0 = %v, want 0", v)
	}
}
