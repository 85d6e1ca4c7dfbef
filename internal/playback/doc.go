// Package playback schedules trajectory replay.
//
// [Ticker] drives the websocket backend: a fixed-period timer on its own
// goroutine. [Loop] holds the replayed trajectory behind an atomic pointer
// so a new loop can be installed while the timer is live without the tick
// handler ever observing a torn trajectory. [RunFrames] is the blocking
// frame-stepped path used by the mirror backend.
package playback
