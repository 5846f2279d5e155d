//go:build !headless

package main

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"golang.design/x/clipboard"
	"golang.org/x/image/bmp"

	"github.com/waveforge/wavesim"
)

// copyFrameToClipboard BMP-encodes the engine's current frame in memory and
// writes it to the system clipboard, mirroring the clipboard.Init/Write
// call in the teacher's video backend but for image data rather than
// pasted text, and never touching disk (persistence is a non-goal).
func copyFrameToClipboard(e *wavesim.Engine) error {
	clipboardInitOnce()
	if !clipboardReady {
		return fmt.Errorf("clipboard unavailable on this platform")
	}

	frame := e.Snapshot()
	size := e.Describe().Size
	if size == 0 || len(frame.RGB) < size*size*3 {
		return fmt.Errorf("no frame available yet")
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < size*size; i++ {
		img.Pix[i*4] = frame.RGB[i*3]
		img.Pix[i*4+1] = frame.RGB[i*3+1]
		img.Pix[i*4+2] = frame.RGB[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}

var (
	clipboardOnce  sync.Once
	clipboardReady bool
)

func clipboardInitOnce() {
	clipboardOnce.Do(func() {
		clipboardReady = clipboard.Init() == nil
	})
}
