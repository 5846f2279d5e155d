//go:build !headless

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/waveforge/wavesim"
)

// consoleHost reads raw stdin in a background goroutine and lets a handful
// of single-key commands adjust a running engine, styled after
// terminal_host.go's raw-mode read loop.
type consoleHost struct {
	fd           int
	oldTermState *term.State
	nonblockSet  bool

	keys chan byte

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

func newConsoleHost() *consoleHost {
	return &consoleHost{
		keys:   make(chan byte, 16),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw non-blocking mode and begins reading keys. If
// stdin isn't a real terminal (e.g. running under a test harness or piped
// input), or raw/non-blocking mode cannot be set, Start leaves the console
// inert rather than failing; it logs only when raw mode cannot be entered.
func (c *consoleHost) Start(_ *wavesim.Engine) {
	c.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(c.fd) {
		close(c.done)
		return
	}

	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wavesimview: console disabled: %v\n", err)
		close(c.done)
		return
	}
	c.oldTermState = oldState

	if err := syscall.SetNonblock(c.fd, true); err != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
		close(c.done)
		return
	}
	c.nonblockSet = true

	go c.readLoop()
}

func (c *consoleHost) readLoop() {
	defer close(c.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}
		n, err := syscall.Read(c.fd, buf)
		if n > 0 {
			select {
			case c.keys <- buf[0]:
			default:
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

// poll drains any pending key presses and applies the matching command.
// Call once per Update tick from the render loop goroutine.
func (c *consoleHost) poll(e *wavesim.Engine) {
	for {
		select {
		case b := <-c.keys:
			c.handle(e, b)
		default:
			return
		}
	}
}

func (c *consoleHost) handle(e *wavesim.Engine, b byte) {
	switch b {
	case '+':
		e.SetIPS(e.Describe().Rate.IPS + 10)
	case '-':
		e.SetIPS(e.Describe().Rate.IPS - 10)
	case 'a':
		status := e.Describe()
		e.SetAbsorberEnabled(!status.Absorber.Enabled)
	case 'm':
		status := e.Describe()
		e.SetMassMap(!status.Render.MassMap)
	case 'c':
		if err := copyFrameToClipboard(e); err != nil {
			fmt.Fprintf(os.Stderr, "wavesimview: clipboard copy failed: %v\n", err)
		}
	case 'p':
		if e.Describe().Running {
			e.Stop()
		} else {
			e.Start()
		}
	}
}

func (c *consoleHost) Stop() {
	c.stopped.Do(func() {
		close(c.stopCh)
	})
	<-c.done
	if c.nonblockSet {
		_ = syscall.SetNonblock(c.fd, false)
		c.nonblockSet = false
	}
	if c.oldTermState != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
	}
}
