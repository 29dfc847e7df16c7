// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"unsafe"
)

// snn.Neuron holds all of the state for one spiking neuron, as float32 values,
// so they can be accessed generically by index or name for monitoring.
type Neuron struct {
	Spike  float32 `desc:"whether the neuron spiked on the current tick (0 or 1)"`
	Vm     float32 `desc:"membrane potential -- only updated for dynamic (LIF) layer types"`
	Ge     float32 `desc:"total input current accumulated from all receiving projections this tick -- zeroed at the start of every tick"`
	Trace  float32 `desc:"synaptic eligibility trace -- decays every tick and is incremented by the neuron's own spike, providing a short-term memory of recent spiking for plasticity"`
	Refrac float32 `desc:"refractory countdown in ticks -- while > 0 the neuron cannot spike and its potential is not updated"`
	Ext    float32 `desc:"externally applied value: a supplied spike for Input layers, or a forced training spike for LIFTrain layers -- only used on ticks where the layer has external input applied"`
}

// NeuronVars are the names of the neuron variables, in the order of the
// fields in the Neuron struct.
var NeuronVars = []string{"Spike", "Vm", "Ge", "Trace", "Refrac", "Ext"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarByName returns the index of the variable in the Neuron, or error
func NeuronVarByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return nrn.VarByIndex(i), nil
}
