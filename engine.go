package wavesim

import (
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sync"
	"time"
)

// Engine is the main conductor (spec §4.8): it owns the Pool, the
// oscillators and the configuration, drives a worker pool through the
// force/move/shift/color barrier cycle, rate-limits iterations and paints
// independently, and delivers finished frames through a render callback.
//
// Engine's exported surface lives in control.go; this file holds the
// conductor loop and the phase helpers it calls.
type Engine struct {
	mu sync.Mutex

	pool        *Pool
	oscillators [NumOscillators]Oscillator
	absorber    AbsorberConfig
	render      RenderConfig
	rate        RateConfig

	numWorkers int
	wp         *workerPool

	calculationEnabled bool
	renderEnabled      bool

	workNow   bool
	disposing bool

	lockGate       sync.Mutex
	externalLocked bool

	onRender RenderFunc
	logOut   io.Writer
	logMu    sync.Mutex

	tick     uint64 // calcCounter, spec glossary
	calcDone uint64
	paintDone uint64

	cycleStart    time.Time
	lastLogTime   time.Time
	calcSinceLog  uint64
	paintSinceLog uint64

	loopExited chan struct{}
}

// NewEngine constructs an Engine with spec §6 defaults and starts its
// conductor goroutine (paused until Start is called). onRender is invoked
// on the conductor goroutine after each completed paint phase and must
// return promptly (spec §5, §6).
func NewEngine(onRender RenderFunc) *Engine {
	e := &Engine{
		pool:               NewPool(DefaultSize),
		absorber:           DefaultAbsorberConfig(),
		render:             DefaultRenderConfig(),
		rate:               DefaultRateConfig(),
		numWorkers:         DefaultWorkers,
		calculationEnabled: true,
		renderEnabled:      true,
		onRender:           onRender,
		logOut:             os.Stderr,
		loopExited:         make(chan struct{}),
	}
	for i := range e.oscillators {
		e.oscillators[i] = DefaultOscillator()
	}
	e.pool.Loss = buildLoss(e.pool.Size(), e.absorber)
	e.wp = newWorkerPool(e.pool.N(), e.numWorkers)
	e.cycleStart = time.Now()
	e.lastLogTime = e.cycleStart

	go e.conductorLoop()
	return e
}

// conductorLoop is the spec §4.8 outer iteration, run for the Engine's
// whole lifetime until disposing is observed.
func (e *Engine) conductorLoop() {
	defer close(e.loopExited)

	for {
		e.mu.Lock()
		if e.disposing {
			e.mu.Unlock()
			return
		}
		workNow := e.workNow
		e.mu.Unlock()

		if !workNow {
			e.sleepDelay()
			continue
		}

		e.runCycle()
	}
}

// runCycle implements one pass of the "while workNow" body of spec §4.8:
// catch-up calculation, catch-up paint, periodic logging, then a
// sleep/yield decision.
func (e *Engine) runCycle() {
	e.mu.Lock()
	if e.disposing {
		e.mu.Unlock()
		return
	}

	elapsed := time.Since(e.cycleStart).Seconds()
	ips := e.rate.IPS
	fps := e.rate.FPS
	calcEnabled := e.calculationEnabled
	renderEnabled := e.renderEnabled
	shifting := e.rate.Shifting
	powerSave := e.rate.PowerSaveMode
	threadDelay := e.rate.ThreadDelayMs

	calcNeeded := rateNeeded(ips, elapsed)
	paintNeeded := rateNeeded(fps, elapsed)
	calcBehind := calcNeeded > e.calcDone
	paintBehind := paintNeeded > e.paintDone
	e.mu.Unlock()

	if calcBehind && calcEnabled {
		e.forcePhase()
		e.movePhase()
		if shifting {
			e.shiftPhase()
		}

		e.mu.Lock()
		e.tick++
		e.calcDone++
		e.calcSinceLog++
		if ips > 0 && calcNeeded > e.calcDone {
			// Backlog grew while we were computing: catch up by one tick
			// at a time rather than spinning through the whole backlog.
			// An unbounded limiter (ips == 0) has no backlog to skip.
			e.calcDone = calcNeeded - 1
		}
		e.mu.Unlock()
	}

	if paintBehind && renderEnabled {
		frame := e.colorPhase()

		e.mu.Lock()
		e.paintDone++
		e.paintSinceLog++
		if fps > 0 && paintNeeded > e.paintDone {
			e.paintDone = paintNeeded - 1
		}
		e.mu.Unlock()

		if e.onRender != nil {
			e.onRender(frame)
		}
	}

	e.maybeLog()

	hurrying := (ips == 0 && fps == 0 && !powerSave) || calcBehind || paintBehind
	switch {
	case hurrying:
		runtime.Gosched()
	default:
		e.pause()
		if powerSave {
			time.Sleep(time.Duration(threadDelay) * time.Millisecond)
		} else {
			runtime.Gosched()
		}
	}
}

// rateNeeded computes floor(rate*elapsed). A rate of 0 is unbounded: it
// reports math.MaxUint64, which exceeds every done-count the caller
// compares it against, so an unbounded limiter never blocks progress
// (spec §4.8: "if IPS=0 treat as unbounded").
func rateNeeded(rate, elapsedSeconds float64) uint64 {
	if rate <= 0 {
		return math.MaxUint64
	}
	v := rate * elapsedSeconds
	if v < 0 {
		return 0
	}
	return uint64(math.Floor(v))
}

// forcePhase runs the CalculateForces mission over the whole grid.
func (e *Engine) forcePhase() {
	e.mu.Lock()
	in := phaseInput{pool: e.pool, oscillators: e.oscillatorSlice(), render: e.render, tick: e.tick}
	wp := e.wp
	e.mu.Unlock()
	wp.runMission(MissionCalculateForces, in)
}

// movePhase runs the MoveParticles mission over the whole grid.
func (e *Engine) movePhase() {
	e.mu.Lock()
	in := phaseInput{pool: e.pool}
	wp := e.wp
	e.mu.Unlock()
	wp.runMission(MissionMoveParticles, in)
}

// shiftPhase runs shift-to-origin single-threaded (spec §4.3).
func (e *Engine) shiftPhase() {
	e.mu.Lock()
	p := e.pool
	e.mu.Unlock()
	shiftToOrigin(p)
}

// colorPhase runs the CalculateColors mission and returns the finished
// RGB buffer to deliver to the render callback.
func (e *Engine) colorPhase() []byte {
	e.mu.Lock()
	in := phaseInput{pool: e.pool, render: e.render}
	wp := e.wp
	e.mu.Unlock()
	wp.runMission(MissionCalculateColors, in)
	return in.pool.RGB
}

// pause sends the Pause mission so workers release any held state and
// wait, then the conductor may sleep or yield (spec §4.7 step 4, §4.8).
func (e *Engine) pause() {
	e.mu.Lock()
	in := phaseInput{pool: e.pool}
	wp := e.wp
	e.mu.Unlock()
	wp.runMission(MissionPause, in)
}

func (e *Engine) sleepDelay() {
	e.mu.Lock()
	delay := e.rate.ThreadDelayMs
	e.mu.Unlock()
	time.Sleep(time.Duration(delay) * time.Millisecond)
}

// oscillatorSlice returns a snapshot copy of the oscillator array. Called
// with e.mu held.
func (e *Engine) oscillatorSlice() []Oscillator {
	out := make([]Oscillator, NumOscillators)
	copy(out, e.oscillators[:])
	return out
}

// maybeLog emits a throughput line when the configured interval has
// elapsed, guarded by its own mutex so logging never contends with the
// phase barrier (spec §5, §6).
func (e *Engine) maybeLog() {
	e.mu.Lock()
	interval := e.rate.PerformanceLogIntervalMs
	now := time.Now()
	due := interval > 0 && now.Sub(e.lastLogTime) >= time.Duration(interval)*time.Millisecond
	var calcN, paintN uint64
	if due {
		calcN, paintN = e.calcSinceLog, e.paintSinceLog
		e.calcSinceLog, e.paintSinceLog = 0, 0
		e.lastLogTime = now
	}
	e.mu.Unlock()

	if !due {
		return
	}
	e.logMu.Lock()
	fmt.Fprintf(e.logOut, "wavesim: %d iterations, %d paints in %dms\n", calcN, paintN, interval)
	e.logMu.Unlock()
}
