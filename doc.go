// SPDX-License-Identifier: MIT

// Package wavesim implements a real-time 2-D shallow-wave grid simulator.
//
// A Pool of size*size particles carries height, velocity, mass, loss and
// fixity fields. An Engine drives the simulation forward with a fixed pool
// of worker goroutines partitioning the grid by index range, coordinated by
// a main-thread conductor that rate-limits calculation and paint cycles
// independently and delivers finished frames through a render callback.
//
// The package exposes no rendering, audio or window surface of its own —
// those are host concerns. See cmd/wavesimview for a reference host that
// wires a display, an audio sonification probe and a terminal console
// around the engine.
package wavesim
