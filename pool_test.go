package wavesim

import "testing"

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(16)
	if p.Size() != 16 || p.N() != 256 {
		t.Fatalf("size=%d n=%d, want 16/256", p.Size(), p.N())
	}
	for i, m := range p.Mass {
		if m != DefaultMass {
			t.Fatalf("Mass[%d] = %v, want default %v", i, m, DefaultMass)
		}
	}
	for i, f := range p.Fixity {
		if f != 0 {
			t.Fatalf("Fixity[%d] = %v, want 0", i, f)
		}
	}
	if len(p.RGB) != 3*p.N() {
		t.Fatalf("len(RGB) = %d, want %d", len(p.RGB), 3*p.N())
	}
}

func TestIndexAndInBounds(t *testing.T) {
	p := NewPool(10)
	if got := p.Index(3, 4); got != 43 {
		t.Fatalf("Index(3,4) = %d, want 43", got)
	}
	if !p.InBounds(9, 9) || p.InBounds(10, 0) || p.InBounds(-1, 0) {
		t.Fatalf("InBounds mismatch at edges")
	}
}

// TestResizeSameSizeIsIdentity covers spec §8 testable property 5.
func TestResizeSameSizeIsIdentity(t *testing.T) {
	p := NewPool(12)
	for i := range p.Mass {
		p.Mass[i] = float64(i) + 1
		p.Fixity[i] = float64(i % 2)
	}
	q := p.resized(12)
	for i := range p.Mass {
		if q.Mass[i] != p.Mass[i] {
			t.Fatalf("Mass[%d] changed on same-size resize: %v -> %v", i, p.Mass[i], q.Mass[i])
		}
		if q.Fixity[i] != p.Fixity[i] {
			t.Fatalf("Fixity[%d] changed on same-size resize: %v -> %v", i, p.Fixity[i], q.Fixity[i])
		}
	}
}

func TestResizeZerosHeightAndVelocity(t *testing.T) {
	p := NewPool(8)
	for i := range p.Height {
		p.Height[i] = 5
		p.Velocity[i] = 5
	}
	q := p.resized(16)
	for i, h := range q.Height {
		if h != 0 {
			t.Fatalf("Height[%d] = %v after resize, want 0", i, h)
		}
	}
	for i, v := range q.Velocity {
		if v != 0 {
			t.Fatalf("Velocity[%d] = %v after resize, want 0", i, v)
		}
	}
}

func TestResizeRescalesMassNearestNeighbour(t *testing.T) {
	p := NewPool(2)
	p.Mass[p.Index(0, 0)] = 10
	p.Mass[p.Index(1, 0)] = 20
	p.Mass[p.Index(0, 1)] = 30
	p.Mass[p.Index(1, 1)] = 40

	q := p.resized(4)
	// Each source quadrant should expand into a contiguous 2x2 block.
	if q.Mass[q.Index(0, 0)] != 10 || q.Mass[q.Index(3, 0)] != 20 {
		t.Fatalf("unexpected upscaled mass row 0: %v", q.Mass)
	}
	if q.Mass[q.Index(0, 3)] != 30 || q.Mass[q.Index(3, 3)] != 40 {
		t.Fatalf("unexpected upscaled mass row 3: %v", q.Mass)
	}
}

func TestWithLossSharesOtherArrays(t *testing.T) {
	p := NewPool(4)
	newLoss := make([]float64, p.N())
	for i := range newLoss {
		newLoss[i] = 0.5
	}
	q := p.withLoss(newLoss)
	if &q.Height[0] != &p.Height[0] {
		t.Fatalf("withLoss must share the Height backing array")
	}
	for i, l := range q.Loss {
		if l != 0.5 {
			t.Fatalf("Loss[%d] = %v, want 0.5", i, l)
		}
	}
}
