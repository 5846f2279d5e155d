package wavesim

// shiftToOrigin removes DC drift introduced by the stencil by subtracting
// the grid-mean height from every cell (spec §4.3). It runs single-threaded
// after a complete force+move cycle, never inside a worker partition.
func shiftToOrigin(p *Pool) {
	var sum float64
	for _, h := range p.Height {
		sum += h
	}
	s := -sum / float64(p.n)
	for i := range p.Height {
		p.Height[i] += s
	}
}
