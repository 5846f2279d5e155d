package wavesim

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ------------------------------------------------------------------------------
// Barrier Timing Constants
// ------------------------------------------------------------------------------
const (
	startWaitTimeout = 1 * time.Second // spec §4.7 step 2, §5
	endWaitTimeout   = 3 * time.Second // spec §4.7 step 3, §5
)

// phaseInput is the immutable snapshot a worker captures under the pool
// mutex at the start of a barrier cycle: the *Pool pointer, the oscillator
// slots and the render config it must read for that phase. Capturing all
// three together under one lock means a worker never observes a torn mix
// of an old pool with a new oscillator set or vice versa.
type phaseInput struct {
	pool        *Pool
	oscillators []Oscillator
	render      RenderConfig
	tick        uint64
}

// worker runs one goroutine's share of every barrier cycle (spec §4.7).
type worker struct {
	id    int
	rng   WorkerRange
	pool  *workerPool

	doneMu   sync.Mutex
	doneCond *sync.Cond
	done     bool
}

// workerPool is the pool-wide barrier state shared by the conductor and
// every worker goroutine (spec §4.7, §5): one mutex/condition pair gates
// phase start, and per-worker mutex/condition pairs gate phase completion.
// Worker goroutines are started and joined through an errgroup.Group rather
// than a hand-rolled sync.WaitGroup plus channel-close bookkeeping.
type workerPool struct {
	mu        sync.Mutex
	startCond *sync.Cond

	mission   Mission
	input     phaseInput
	seq       uint64 // incremented each time a new mission is issued
	disposing bool

	workers []*worker
	eg      *errgroup.Group
	cancel  context.CancelFunc
}

// newWorkerPool spawns numWorkers goroutines, each owning a contiguous
// range of [0, n) computed by computeWorkerRanges (spec §4.7).
func newWorkerPool(n, numWorkers int) *workerPool {
	ranges := computeWorkerRanges(n, numWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	eg, _ := errgroup.WithContext(ctx)
	wp := &workerPool{mission: MissionPause, eg: eg, cancel: cancel}
	wp.startCond = sync.NewCond(&wp.mu)

	wp.workers = make([]*worker, numWorkers)
	for j := 0; j < numWorkers; j++ {
		w := &worker{id: j, rng: ranges[j], pool: wp}
		w.doneCond = sync.NewCond(&w.doneMu)
		wp.workers[j] = w
		wp.eg.Go(w.loop)
	}
	return wp
}

// runMission assigns mission to every worker with the given phase input,
// broadcasts the start condition, then waits for every worker to report
// done (spec §4.7 steps 1 and 3).
func (wp *workerPool) runMission(m Mission, in phaseInput) {
	wp.mu.Lock()
	wp.mission = m
	wp.input = in
	wp.seq++
	mySeq := wp.seq
	for _, w := range wp.workers {
		w.doneMu.Lock()
		w.done = false
		w.doneMu.Unlock()
	}
	wp.startCond.Broadcast()
	wp.mu.Unlock()

	for _, w := range wp.workers {
		w.waitDone(mySeq)
	}
}

// dispose signals every worker to exit (spec §4.7 step 2, §5 cancellation)
// and joins them through the errgroup.
func (wp *workerPool) dispose() {
	wp.mu.Lock()
	wp.disposing = true
	wp.mission = MissionDestroy
	wp.seq++
	wp.startCond.Broadcast()
	wp.mu.Unlock()
	wp.cancel()
	_ = wp.eg.Wait()
}

// waitDone blocks until the worker reports completion of the mission
// issued at seq, backstopped by a timed wait (spec §4.7 step 3, §5).
func (w *worker) waitDone(seq uint64) {
	w.doneMu.Lock()
	defer w.doneMu.Unlock()

	deadline := time.Now().Add(endWaitTimeout)
	for !w.done {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		timedWait(&w.doneMu, w.doneCond, remaining)
	}
}

// loop is the worker goroutine body (spec §4.7 step 2): wake on the start
// condition, read the mission, perform it on its own range, report done.
// It always returns nil; the errgroup.Group join exists for lifecycle
// bookkeeping, not error propagation (the core has no recoverable worker
// errors, spec §7).
func (w *worker) loop() error {
	lastSeq := uint64(0)
	for {
		w.pool.mu.Lock()
		for w.pool.seq == lastSeq {
			timedWait(&w.pool.mu, w.pool.startCond, startWaitTimeout)
		}
		mission := w.pool.mission
		in := w.pool.input
		lastSeq = w.pool.seq
		disposing := w.pool.disposing
		w.pool.mu.Unlock()

		if disposing || mission == MissionDestroy {
			return nil
		}
		if mission != MissionPause {
			w.perform(mission, in)
		}

		w.doneMu.Lock()
		w.done = true
		w.doneCond.Broadcast()
		w.doneMu.Unlock()
	}
}

// perform executes one mission over the worker's own index range.
func (w *worker) perform(m Mission, in phaseInput) {
	switch m {
	case MissionCalculateForces:
		calculateForces(in.pool, in.oscillators, w.rng.FirstIndex, w.rng.Count, in.tick)
	case MissionMoveParticles:
		moveParticles(in.pool, w.rng.FirstIndex, w.rng.Count)
	case MissionCalculateColors:
		calculateColors(in.pool, in.render, w.rng.FirstIndex, w.rng.Count)
	}
}

// timedWait waits on cond for up to timeout (sync.Cond has no native
// timeout support): a timer fires a broadcast if nothing else does first,
// which wakes this and every other waiter to re-check their own
// condition. The caller must hold mu on entry and holds it again on
// return.
func timedWait(mu *sync.Mutex, cond *sync.Cond, timeout time.Duration) {
	timer := time.AfterFunc(timeout, func() {
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	})
	defer timer.Stop()
	cond.Wait()
}
