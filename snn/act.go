// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

///////////////////////////////////////////////////////////////////////
//  act.go contains the activation params and functions for snn

// snn.ActParams contains all the membrane dynamics parameters for a
// leaky integrate-and-fire layer, with methods for computing one tick of
// integration.  Input layers do not use these.
type ActParams struct {
	Thr    float32 `def:"-52" desc:"spike threshold on membrane potential: a neuron spikes whenever its updated potential is >= this value"`
	Reset  float32 `def:"-65" desc:"potential the membrane is reset to immediately after spiking"`
	Rest   float32 `def:"-65" desc:"resting potential that the membrane decays toward in the absence of input"`
	Tau    float32 `def:"100" min:"1" desc:"membrane decay time constant in ticks -- roughly how long it takes the potential to decay back toward rest"`
	Refrac float32 `def:"5" min:"0" desc:"refractory period in ticks after a spike, during which the neuron cannot spike and its potential is frozen"`
	Dt     float32 `view:"-" json:"-" xml:"-" desc:"integration rate = 1 / Tau"`
}

func (ac *ActParams) Update() {
	ac.Dt = 1 / ac.Tau
}

func (ac *ActParams) Defaults() {
	ac.Thr = -52
	ac.Reset = -65
	ac.Rest = -65
	ac.Tau = 100
	ac.Refrac = 5
	ac.Update()
}

// VmFmG integrates the membrane potential by one tick: exponential decay
// toward Rest plus the accumulated input current ge.
func (ac *ActParams) VmFmG(vm *float32, ge float32) {
	*vm += ac.Dt*(ac.Rest-*vm) + ge
}

///////////////////////////////////////////////////////////////////////
//  TraceParams

// snn.TraceParams governs the per-neuron synaptic eligibility trace,
// which decays multiplicatively each tick and is incremented by the
// neuron's own spike.  With constant spiking the trace asymptotes at
// 1 / (1 - Decay).
type TraceParams struct {
	On    bool    `desc:"maintain a synaptic trace for the neurons in this layer -- required for trace-based plasticity on any projection to or from it"`
	Decay float32 `viewif:"On" def:"0.95" min:"0" max:"1" desc:"multiplicative decay factor applied to the trace every tick, before the current spike is added"`
}

func (tp *TraceParams) Update() {
}

func (tp *TraceParams) Defaults() {
	tp.On = true
	tp.Decay = 0.95
}

// TraceFmSpike updates a trace value given the neuron's spike this tick.
func (tp *TraceParams) TraceFmSpike(trace *float32, spike float32) {
	*trace = *trace*tp.Decay + spike
}
