package wavesim

// moveParticles runs the move phase over [first, first+count) of p
// (spec §4.2): height[i] += velocity[i]. An invalid range is a no-op.
func moveParticles(p *Pool, first, count int) {
	if first < 0 || count < 0 || first+count > p.n {
		return
	}
	for i := first; i < first+count; i++ {
		p.Height[i] += p.Velocity[i]
	}
}
