package wavesim

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestEngineDefaultsMatchSpec(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	if e.pool.Size() != DefaultSize {
		t.Fatalf("default size = %d, want %d", e.pool.Size(), DefaultSize)
	}
	if e.numWorkers != DefaultWorkers {
		t.Fatalf("default worker count = %d, want %d", e.numWorkers, DefaultWorkers)
	}
	if e.rate.IPS != DefaultIPS || e.rate.FPS != DefaultFPS {
		t.Fatalf("default rates = %v/%v, want %v/%v", e.rate.IPS, e.rate.FPS, DefaultIPS, DefaultFPS)
	}
}

func TestEngineLockBlocksDoubleLock(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	if ok := e.Lock(); !ok {
		t.Fatal("first Lock() = false, want true")
	}
	if ok := e.Lock(); ok {
		t.Fatal("second Lock() while held = true, want false")
	}
	e.Unlock()

	if ok := e.Lock(); !ok {
		t.Fatal("Lock() after Unlock() = false, want true")
	}
	e.Unlock()
}

func TestEngineLockExposesArrays(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.Lock()
	height := e.Array(AttrHeight)
	height[0] = 42
	e.Unlock()

	e.Lock()
	if e.Array(AttrHeight)[0] != 42 {
		t.Fatalf("Height[0] = %v after external write, want 42", e.Array(AttrHeight)[0])
	}
	e.Unlock()
}

// TestEngineRunsAndRenders exercises Start/Stop/Dispose end-to-end at the
// default rate limits, confirming the render callback fires.
func TestEngineRunsAndRenders(t *testing.T) {
	var mu sync.Mutex
	frames := 0
	e := NewEngine(func(buf []byte) {
		mu.Lock()
		frames++
		mu.Unlock()
		if len(buf) == 0 {
			t.Error("render callback got empty buffer")
		}
	})
	e.SetSize(8)
	e.Start()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := frames
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no frame rendered within 2s")
		case <-time.After(10 * time.Millisecond):
		}
	}

	e.Stop()
	e.Dispose()
}

func TestSetSizeRebuildsWorkerRanges(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.SetSize(50)
	e.mu.Lock()
	n := e.pool.N()
	covered := 0
	for _, w := range e.wp.workers {
		covered += w.rng.Count
	}
	e.mu.Unlock()
	if n != 2500 {
		t.Fatalf("pool.N() = %d after SetSize(50), want 2500", n)
	}
	if covered != n {
		t.Fatalf("worker ranges cover %d cells after SetSize(50), want %d", covered, n)
	}
}

func TestSetNumberOfThreadsClamped(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.SetNumberOfThreads(1000)
	e.mu.Lock()
	n := e.numWorkers
	e.mu.Unlock()
	if n != MaxWorkers {
		t.Fatalf("numWorkers = %d after SetNumberOfThreads(1000), want clamp to %d", n, MaxWorkers)
	}
}

func TestSetOscillatorRejectsInvalidPeriod(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.SetOscillatorPeriod(0, 0)
	if got := e.Oscillator(0).Period; got != DefaultPeriod {
		t.Fatalf("period after rejected SetOscillatorPeriod(0,0) = %v, want unchanged default %v", got, DefaultPeriod)
	}
}

func TestOscillatorOutOfRangeIdIsNoOp(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.SetOscillatorActive(NumOscillators, true) // no-op, must not panic
	if got := e.Oscillator(-1); !reflect.DeepEqual(got, Oscillator{}) {
		t.Fatalf("Oscillator(-1) = %+v, want zero value", got)
	}
}

func TestSnapshotCopyDoesNotAliasPool(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	snap := e.Snapshot()
	e.Lock()
	if len(e.pool.RGB) > 0 {
		e.pool.RGB[0] = 0xFF
	}
	e.Unlock()

	if len(snap.RGB) > 0 && snap.RGB[0] == 0xFF {
		t.Fatal("Snapshot().RGB aliases live pool state, want an independent copy")
	}
}

func TestDescribeReflectsCurrentConfig(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.SetSize(20)
	e.SetNumberOfThreads(3)
	e.Start()

	status := e.Describe()
	if status.Size != 20 {
		t.Fatalf("Describe().Size = %d, want 20", status.Size)
	}
	if status.NumWorkers != 3 {
		t.Fatalf("Describe().NumWorkers = %d, want 3", status.NumWorkers)
	}
	if !status.Running {
		t.Fatal("Describe().Running = false after Start(), want true")
	}
}

// TestSetLossRatioWithoutAbsorber covers spec §8 testable property 7.
func TestSetLossRatioWithoutAbsorber(t *testing.T) {
	e := NewEngine(nil)
	defer e.Dispose()

	e.SetAbsorberEnabled(false)
	e.SetLossRatio(0.4)

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.pool.Loss {
		if l != 0.4 {
			t.Fatalf("Loss[%d] = %v, want baseLoss 0.4 everywhere (absorber disabled)", i, l)
		}
	}
}
