package wavesim

import (
	"io"
	"time"
)

// Attribute selects one of the five grid arrays exposed through the
// external data-access interface (spec §6).
type Attribute int

const (
	AttrHeight Attribute = iota
	AttrVelocity
	AttrMass
	AttrLoss
	AttrFixity
)

// Lock acquires the global mutex and marks the engine externally locked
// (spec §4.9, §6). While held, the conductor cannot begin a new phase,
// since every phase helper must acquire the same mutex before dispatching
// a mission. Lock is idempotent-safe: a second call from the same or
// another caller while already locked returns false without blocking or
// re-acquiring. Every successful Lock must be paired with exactly one
// Unlock.
func (e *Engine) Lock() bool {
	e.lockGate.Lock()
	if e.externalLocked {
		e.lockGate.Unlock()
		return false
	}
	e.externalLocked = true
	e.lockGate.Unlock()

	e.mu.Lock()
	return true
}

// Unlock releases a lock acquired by Lock. Calling it without a matching
// Lock is a no-op (spec §4.9: "access outside the locked interval is
// undefined" — this guards against the most common misuse without
// promising anything stronger).
func (e *Engine) Unlock() {
	e.lockGate.Lock()
	if !e.externalLocked {
		e.lockGate.Unlock()
		return
	}
	e.externalLocked = false
	e.lockGate.Unlock()

	e.mu.Unlock()
}

// Array returns a reference to the backing slice for attr. Must only be
// called while Lock is held; the returned slice aliases live engine state.
func (e *Engine) Array(attr Attribute) []float64 {
	switch attr {
	case AttrHeight:
		return e.pool.Height
	case AttrVelocity:
		return e.pool.Velocity
	case AttrMass:
		return e.pool.Mass
	case AttrLoss:
		return e.pool.Loss
	case AttrFixity:
		return e.pool.Fixity
	default:
		return nil
	}
}

// Start sets workNow, letting the conductor begin running phases (spec
// §6). It resets the rate-limiter epoch so a long gap between Stop and
// Start never presents as an enormous instantaneous backlog.
func (e *Engine) Start() {
	e.mu.Lock()
	e.workNow = true
	e.cycleStart = time.Now()
	e.calcDone = 0
	e.paintDone = 0
	e.mu.Unlock()
}

// Stop clears workNow; workers return to Pause at the next barrier
// (spec §6).
func (e *Engine) Stop() {
	e.mu.Lock()
	e.workNow = false
	e.mu.Unlock()
}

// Dispose marks the engine disposing, stops work, tears down the worker
// pool and joins the conductor goroutine (spec §6, §5 cancellation). The
// engine must not be used after Dispose returns.
func (e *Engine) Dispose() {
	e.mu.Lock()
	e.disposing = true
	e.workNow = false
	wp := e.wp
	e.mu.Unlock()

	wp.dispose()
	<-e.loopExited
}

// RenderFunc is invoked on the conductor goroutine after each completed
// paint phase with the finished RGB buffer (spec §5, §6). Implementations
// must return promptly and must not retain the slice past the call.
type RenderFunc func([]byte)

// SetRenderCallback replaces the function invoked after each paint phase.
func (e *Engine) SetRenderCallback(fn RenderFunc) {
	e.mu.Lock()
	e.onRender = fn
	e.mu.Unlock()
}

// SetLogOutput redirects the periodic throughput log (spec §6
// Observability). Defaults to os.Stderr.
func (e *Engine) SetLogOutput(w io.Writer) {
	e.logMu.Lock()
	e.logOut = w
	e.logMu.Unlock()
}

// ------------------------------------------------------------------------------
// Geometry
// ------------------------------------------------------------------------------

// SetSize resizes the grid (spec §3, §4.4, §6): mass/fixity are
// nearest-neighbour rescaled, height/velocity/RGB are zeroed, loss is
// rebuilt from the current absorber config, oscillator anchors are
// rescaled by the new/old size ratio and their indices recomputed, and
// the worker pool is rebuilt for the new cell count.
func (e *Engine) SetSize(size int) {
	if size < MinSize {
		size = MinSize
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	oldSize := e.pool.size
	e.pool = e.pool.resized(size)
	e.pool.Loss = buildLoss(e.pool.Size(), e.absorber)

	ratio := float64(size) / float64(oldSize)
	for i := range e.oscillators {
		o := &e.oscillators[i]
		o.AnchorA.X *= ratio
		o.AnchorA.Y *= ratio
		o.AnchorB.X *= ratio
		o.AnchorB.Y *= ratio
		o.recomputeIndices(e.pool.Size())
	}

	e.rebuildWorkerPoolLocked()
}

// SetNumberOfThreads sets the worker count, clamped to [1,32] (spec §6),
// and rebuilds the worker pool with freshly partitioned ranges.
func (e *Engine) SetNumberOfThreads(n int) {
	n = clampInt(n, MinWorkers, MaxWorkers)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.numWorkers = n
	e.rebuildWorkerPoolLocked()
}

// rebuildWorkerPoolLocked tears down the current worker pool and spawns a
// fresh one sized to the current grid and thread count. Must be called
// with e.mu held; it does not release e.mu, so no in-flight phase can be
// dispatched against either the old or the new pool while this runs.
func (e *Engine) rebuildWorkerPoolLocked() {
	old := e.wp
	e.wp = newWorkerPool(e.pool.N(), e.numWorkers)
	if old != nil {
		old.dispose()
	}
}

// ------------------------------------------------------------------------------
// Rates
// ------------------------------------------------------------------------------

func (e *Engine) SetIPS(ips float64) {
	e.mu.Lock()
	e.rate.IPS = clampNonNegative(ips)
	e.mu.Unlock()
}

func (e *Engine) SetFPS(fps float64) {
	e.mu.Lock()
	e.rate.FPS = clampNonNegative(fps)
	e.mu.Unlock()
}

func (e *Engine) SetThreadDelayMs(ms int) {
	e.mu.Lock()
	e.rate.ThreadDelayMs = clampInt(ms, 0, MaxThreadDelayMs)
	e.mu.Unlock()
}

// SetPerformanceLogIntervalMs clamps to non-negative only; see DESIGN.md
// for the open-question resolution (spec §9).
func (e *Engine) SetPerformanceLogIntervalMs(ms int) {
	e.mu.Lock()
	if ms < 0 {
		ms = 0
	}
	e.rate.PerformanceLogIntervalMs = ms
	e.mu.Unlock()
}

func (e *Engine) SetShifting(on bool) {
	e.mu.Lock()
	e.rate.Shifting = on
	e.mu.Unlock()
}

func (e *Engine) SetPowerSaveMode(on bool) {
	e.mu.Lock()
	e.rate.PowerSaveMode = on
	e.mu.Unlock()
}

func (e *Engine) SetRenderEnabled(on bool) {
	e.mu.Lock()
	e.renderEnabled = on
	e.mu.Unlock()
}

func (e *Engine) SetCalculationEnabled(on bool) {
	e.mu.Lock()
	e.calculationEnabled = on
	e.mu.Unlock()
}

// ------------------------------------------------------------------------------
// Loss / Absorber
// ------------------------------------------------------------------------------

// SetLossRatio sets the base (non-absorbed) loss and rebuilds loss[]
// (spec §6, §8 property 7).
func (e *Engine) SetLossRatio(baseLoss float64) {
	e.mu.Lock()
	e.absorber.BaseLoss = clampFloat(baseLoss, 0, 1)
	e.pool = e.pool.withLoss(buildLoss(e.pool.Size(), e.absorber))
	e.mu.Unlock()
}

func (e *Engine) SetAbsorberEnabled(on bool) {
	e.mu.Lock()
	e.absorber.Enabled = on
	e.pool = e.pool.withLoss(buildLoss(e.pool.Size(), e.absorber))
	e.mu.Unlock()
}

func (e *Engine) SetAbsorberThickness(t int) {
	e.mu.Lock()
	e.absorber.Thickness = clampThickness(t, e.pool.Size())
	e.pool = e.pool.withLoss(buildLoss(e.pool.Size(), e.absorber))
	e.mu.Unlock()
}

func (e *Engine) SetAbsorberMaxLoss(maxLoss float64) {
	e.mu.Lock()
	e.absorber.MaxLoss = clampFloat(maxLoss, 0, 1)
	e.pool = e.pool.withLoss(buildLoss(e.pool.Size(), e.absorber))
	e.mu.Unlock()
}

// ------------------------------------------------------------------------------
// Render config
// ------------------------------------------------------------------------------

func (e *Engine) SetCrestColor(c Color) {
	e.mu.Lock()
	e.render.CrestColor = c
	e.mu.Unlock()
}

func (e *Engine) SetTroughColor(c Color) {
	e.mu.Lock()
	e.render.TroughColor = c
	e.mu.Unlock()
}

func (e *Engine) SetStaticColor(c Color) {
	e.mu.Lock()
	e.render.StaticColor = c
	e.mu.Unlock()
}

func (e *Engine) SetExtremeContrastEnabled(on bool) {
	e.mu.Lock()
	e.render.ExtremeContrast = on
	e.mu.Unlock()
}

func (e *Engine) SetAmplitudeMultiplier(v float64) {
	e.mu.Lock()
	e.render.AmplitudeMultiplier = clampNonNegative(v)
	e.mu.Unlock()
}

func (e *Engine) SetMassMap(on bool) {
	e.mu.Lock()
	e.render.MassMap = on
	e.mu.Unlock()
}

// SetMassMapRangeLow clamps to non-negative only; see DESIGN.md for the
// open-question resolution (spec §9).
func (e *Engine) SetMassMapRangeLow(v float64) {
	e.mu.Lock()
	e.render.MassMapRangeLow = clampNonNegative(v)
	e.mu.Unlock()
}

func (e *Engine) SetMassMapRangeHigh(v float64) {
	e.mu.Lock()
	e.render.MassMapRangeHigh = clampNonNegative(v)
	e.mu.Unlock()
}

// ------------------------------------------------------------------------------
// Oscillators
// ------------------------------------------------------------------------------

// validOscillator reports whether id addresses an oscillator slot.
func validOscillator(id int) bool { return id >= 0 && id < NumOscillators }

// ValidOscillatorID reports whether id addresses one of the engine's
// oscillator slots (spec §3: NumOscillators=9). Exported so a host can
// validate ids from a config file before calling a setter.
func ValidOscillatorID(id int) bool { return validOscillator(id) }

func (e *Engine) SetOscillatorActive(id int, active bool) {
	if !validOscillator(id) {
		return
	}
	e.mu.Lock()
	e.oscillators[id].Active = active
	e.mu.Unlock()
}

func (e *Engine) SetOscillatorSource(id int, kind SourceKind) {
	if !validOscillator(id) {
		return
	}
	e.mu.Lock()
	o := &e.oscillators[id]
	o.Source = kind
	o.recomputeIndices(e.pool.Size())
	e.mu.Unlock()
}

func (e *Engine) SetOscillatorPeriod(id, period int) {
	if !validOscillator(id) {
		return
	}
	if period < minPeriod {
		return // period < 1 is rejected, spec §8
	}
	e.mu.Lock()
	e.oscillators[id].Period = period
	e.mu.Unlock()
}

func (e *Engine) SetOscillatorPhase(id int, degrees float64) {
	if !validOscillator(id) {
		return
	}
	e.mu.Lock()
	e.oscillators[id].Phase = degrees
	e.mu.Unlock()
}

func (e *Engine) SetOscillatorAmplitude(id int, amplitude float64) {
	if !validOscillator(id) {
		return
	}
	e.mu.Lock()
	e.oscillators[id].Amplitude = amplitude
	e.mu.Unlock()
}

func (e *Engine) SetOscillatorMovePeriod(id, movePeriod int) {
	if !validOscillator(id) {
		return
	}
	if movePeriod < minMovePeriod {
		return
	}
	e.mu.Lock()
	e.oscillators[id].MovePeriod = movePeriod
	e.mu.Unlock()
}

func (e *Engine) SetOscillatorAnchors(id int, a, b Point) {
	if !validOscillator(id) {
		return
	}
	e.mu.Lock()
	o := &e.oscillators[id]
	o.AnchorA, o.AnchorB = a, b
	o.recomputeIndices(e.pool.Size())
	e.mu.Unlock()
}

// Oscillator returns a copy of oscillator id's configuration. The zero
// value is returned for an out-of-range id (spec §7: getters return a
// sentinel on invalid ids).
func (e *Engine) Oscillator(id int) Oscillator {
	if !validOscillator(id) {
		return Oscillator{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.oscillators[id]
}

// Frame is a freshly-copied RGB buffer paired with the calc tick it was
// produced at, returned by Snapshot.
type Frame struct {
	RGB  []byte
	Tick uint64
}

// Snapshot copies the current RGB buffer without requiring the caller to
// hold Lock across a render callback. The copy is safe to retain; it never
// aliases engine state.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	rgb := make([]byte, len(e.pool.RGB))
	copy(rgb, e.pool.RGB)
	return Frame{RGB: rgb, Tick: e.tick}
}

// Status is a plain snapshot of the engine's current geometry and rate
// configuration, for a host to display without reaching into internals.
type Status struct {
	Size       int
	NumWorkers int
	Rate       RateConfig
	Absorber   AbsorberConfig
	Render     RenderConfig
	Running    bool
}

// Describe returns the engine's current configuration.
func (e *Engine) Describe() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Size:       e.pool.Size(),
		NumWorkers: e.numWorkers,
		Rate:       e.rate,
		Absorber:   e.absorber,
		Render:     e.render,
		Running:    e.workNow,
	}
}
