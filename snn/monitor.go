// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// snn.Monitor passively records named state variables of one layer across
// time: one row per tick, one column per neuron.  Monitors never affect
// simulation semantics -- they only read neuron state after each tick's
// update completes.
type Monitor struct {
	Lay  *Layer                      `desc:"the layer being monitored"`
	Vars []string                    `desc:"names of the neuron variables recorded, e.g., Spike, Vm, Trace"`
	Recs map[string]*etensor.Float32 `view:"-" desc:"per-variable recording buffers, shape [ticks, n], grown one row per tick"`
}

// NewMonitor returns a monitor recording the given neuron variables of the
// given layer.  Returns an error for any invalid variable name, so bad
// subscriptions fail at construction and not mid-run.
func NewMonitor(lay *Layer, varNms ...string) (*Monitor, error) {
	if len(varNms) == 0 {
		varNms = []string{"Spike"}
	}
	for _, vnm := range varNms {
		if _, err := NeuronVarByName(vnm); err != nil {
			return nil, fmt.Errorf("Monitor on layer %v: %v", lay.Name(), err)
		}
	}
	mon := &Monitor{Lay: lay, Vars: varNms}
	mon.Reset()
	return mon, nil
}

// Reset clears all recorded rows, keeping the variable subscriptions.
func (mn *Monitor) Reset() {
	nu := mn.Lay.NUnits()
	mn.Recs = make(map[string]*etensor.Float32, len(mn.Vars))
	for _, vnm := range mn.Vars {
		mn.Recs[vnm] = etensor.NewFloat32([]int{0, nu}, nil, []string{"Tick", "Neuron"})
	}
}

// Record appends one row per subscribed variable with the layer's current
// state.  Called once per tick after all updates are complete.
func (mn *Monitor) Record() {
	nu := mn.Lay.NUnits()
	for _, vnm := range mn.Vars {
		tsr := mn.Recs[vnm]
		row := tsr.Dim(0)
		tsr.SetNumRows(row + 1)
		vidx, _ := NeuronVarByName(vnm)
		st := row * nu
		for ni := range mn.Lay.Neurons {
			tsr.Values[st+ni] = mn.Lay.Neurons[ni].VarByIndex(vidx)
		}
	}
}

// NumTicks returns the number of ticks recorded so far.
func (mn *Monitor) NumTicks() int {
	if len(mn.Vars) == 0 {
		return 0
	}
	return mn.Recs[mn.Vars[0]].Dim(0)
}

// Records returns the recorded tensor for the given variable name, of
// shape [ticks, n].  Returns an error if the variable was not subscribed.
func (mn *Monitor) Records(varNm string) (*etensor.Float32, error) {
	tsr, ok := mn.Recs[varNm]
	if !ok {
		return nil, fmt.Errorf("Monitor on layer %v: variable %v not recorded", mn.Lay.Name(), varNm)
	}
	return tsr, nil
}
