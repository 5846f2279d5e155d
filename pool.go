package wavesim

// ------------------------------------------------------------------------------
// Geometry and Default Constants
// ------------------------------------------------------------------------------
const (
	DefaultSize = 300 // default grid edge length (spec §3: Pool default N=300)
	MinSize     = 1   // smallest permitted grid edge length

	DefaultMass = 1.0 // mass[i] default per spec §3
)

// Pool holds the parallel grid arrays that make up one simulation state:
// height, velocity, mass, loss and fixity, plus the RGB bitmap the
// colorizer paints into. A Pool is treated as having immutable identity
// once published to a running Engine — geometry or loss changes build a new
// Pool (see resized and withLoss) rather than mutating arrays shared with an
// in-flight worker phase, so a worker holding a *Pool captured at the start
// of a barrier cycle never observes a torn resize or loss update mid-phase.
type Pool struct {
	size int // grid edge length
	n    int // size*size, length of the per-cell arrays

	Height   []float64
	Velocity []float64
	Mass     []float64
	Loss     []float64
	Fixity   []float64 // 0 = dynamic, non-zero = static (spec §3 invariant 4)
	RGB      []byte    // length 3*n, row-major R,G,B triples
}

// NewPool allocates a Pool of size*size cells with default mass (1.0),
// zero height/velocity/loss and zero (dynamic) fixity.
func NewPool(size int) *Pool {
	if size < MinSize {
		size = MinSize
	}
	n := size * size
	p := &Pool{
		size:     size,
		n:        n,
		Height:   make([]float64, n),
		Velocity: make([]float64, n),
		Mass:     make([]float64, n),
		Loss:     make([]float64, n),
		Fixity:   make([]float64, n),
		RGB:      make([]byte, 3*n),
	}
	for i := range p.Mass {
		p.Mass[i] = DefaultMass
	}
	return p
}

// Size returns the grid edge length.
func (p *Pool) Size() int { return p.size }

// N returns size*size, the number of cells.
func (p *Pool) N() int { return p.n }

// Index returns the flat array index for grid coordinate (x, y).
func (p *Pool) Index(x, y int) int { return x + p.size*y }

// InBounds reports whether (x, y) addresses a cell of this pool.
func (p *Pool) InBounds(x, y int) bool {
	return x >= 0 && x < p.size && y >= 0 && y < p.size
}

// resized returns a new Pool of edge length newSize, with mass and fixity
// nearest-neighbour rescaled from p and height/velocity/loss/RGB zeroed
// (loss is recomputed by the caller via the absorber builder afterwards, per
// spec §3: "zeros height/velocity; loss is recomputed"). Rescaling to the
// same size is the identity transform on mass and fixity (spec §8 property 5).
func (p *Pool) resized(newSize int) *Pool {
	if newSize < MinSize {
		newSize = MinSize
	}
	q := NewPool(newSize)
	if newSize == p.size {
		copy(q.Mass, p.Mass)
		copy(q.Fixity, p.Fixity)
		return q
	}
	for y := 0; y < newSize; y++ {
		srcY := nearestSourceIndex(y, newSize, p.size)
		for x := 0; x < newSize; x++ {
			srcX := nearestSourceIndex(x, newSize, p.size)
			dst := q.Index(x, y)
			src := p.Index(srcX, srcY)
			q.Mass[dst] = p.Mass[src]
			q.Fixity[dst] = p.Fixity[src]
		}
	}
	return q
}

// nearestSourceIndex maps coordinate i in a dimension of length newLen to
// the nearest corresponding coordinate in a dimension of length oldLen.
func nearestSourceIndex(i, newLen, oldLen int) int {
	src := (i * oldLen) / newLen
	if src >= oldLen {
		src = oldLen - 1
	}
	return src
}

// withLoss returns a shallow copy of p with Loss replaced by loss. Height,
// Velocity, Mass, Fixity and RGB are shared with p (same backing arrays),
// so in-flight workers holding the old *Pool keep seeing a consistent
// (if stale) loss field rather than a torn update.
func (p *Pool) withLoss(loss []float64) *Pool {
	q := *p
	q.Loss = loss
	return &q
}
