// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

// snn.Time contains all the timing state for running the simulation
type Time struct {
	Time        float32 `desc:"accumulated amount of time the network has been running, in simulation-time (not real world time), in seconds"`
	Tick        int     `desc:"tick counter within the current run segment (e.g., one control period of the sensorimotor loop) -- reset by TickStart"`
	TickTot     int     `desc:"total tick count -- this increments continuously from whenever it was last reset"`
	TimePerTick float32 `def:"0.001" desc:"amount of simulation time per tick, in seconds"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerTick = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Tick = 0
	tm.TickTot = 0
	if tm.TimePerTick == 0 {
		tm.Defaults()
	}
}

// TickStart starts a new run segment, resetting the within-segment tick counter
func (tm *Time) TickStart() {
	tm.Tick = 0
}

// TickInc increments the tick counters and advances simulation time
func (tm *Time) TickInc() {
	tm.Tick++
	tm.TickTot++
	tm.Time += tm.TimePerTick
}
