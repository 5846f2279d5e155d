//go:build headless

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// run drives the engine with no window, no audio and no console, writing
// the periodic throughput log plus a start line and a frame-count stop line
// to stdout, the same way the teacher
// ships video_backend_headless.go/audio_backend_headless.go alongside the
// real backends so the engine builds and runs without a display.
func run(preset *Preset) error {
	frames := 0
	engine := newEngine(preset, func([]byte) {
		frames++
	})
	defer engine.Dispose()

	engine.SetLogOutput(os.Stdout)
	engine.Start()

	fmt.Fprintln(os.Stdout, "wavesimview: running headless, ctrl-c to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	engine.Stop()
	fmt.Fprintf(os.Stdout, "wavesimview: stopped after %d frames\n", frames)
	return nil
}
