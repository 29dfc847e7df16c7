// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"io"
	"math"

	"github.com/emer/emergent/weights"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/indent"
	"github.com/goki/ki/ki"
	"github.com/goki/ki/kit"
)

// snn.Layer is a population of spiking neurons of one LayerTypes variant,
// with membrane and trace parameters shared across all of its neurons.
type Layer struct {
	LayerStru
	Act     ActParams   `view:"add-fields" desc:"membrane dynamics parameters -- only used by LIF and LIFTrain layer types"`
	Trace   TraceParams `view:"inline" desc:"synaptic trace parameters"`
	Neurons []Neuron    `desc:"slice of neuron state for this layer -- flat list of len = Shp.Len()"`
	HasExt  bool        `inactive:"+" desc:"whether external input has been applied for the current tick -- cleared at the end of every tick"`
}

var KiT_Layer = kit.Types.AddType(&Layer{}, LayerProps)

var LayerProps = ki.Props{}

func (ly *Layer) Defaults() {
	ly.Act.Defaults()
	ly.Trace.Defaults()
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (ly *Layer) UpdateParams() {
	ly.Act.Update()
	ly.Trace.Update()
}

// Build constructs the layer state, allocating the neurons from the shape.
func (ly *Layer) Build() error {
	nu := ly.Shp.Len()
	if nu == 0 {
		return fmt.Errorf("Layer %v: no units specified in shape", ly.Nm)
	}
	ly.Neurons = make([]Neuron, nu)
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitState resets all of the per-neuron dynamic state to resting values:
// potential to Rest, traces, refractory counters, spikes and input to zero.
// Weights are not touched.
func (ly *Layer) InitState() {
	ly.HasExt = false
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.Spike = 0
		nrn.Vm = ly.Act.Rest
		nrn.Ge = 0
		nrn.Trace = 0
		nrn.Refrac = 0
		nrn.Ext = 0
	}
}

// InitGe zeros the input current accumulator on every neuron, at the start
// of a tick before projections contribute.
func (ly *Layer) InitGe() {
	for ni := range ly.Neurons {
		ly.Neurons[ni].Ge = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Ext methods

// ApplyExt applies the given external values to the layer for the current
// tick: spikes for Input layers, forced training spikes for LIFTrain layers.
// The length must exactly match the number of neurons.
func (ly *Layer) ApplyExt(vals []float32) error {
	if len(vals) != len(ly.Neurons) {
		return fmt.Errorf("Layer %v: external input length %v != number of neurons %v", ly.Nm, len(vals), len(ly.Neurons))
	}
	for ni := range ly.Neurons {
		ly.Neurons[ni].Ext = vals[ni]
	}
	ly.HasExt = true
	return nil
}

// ApplyExtRow applies one row of a [ticks, n] spike-train tensor as the
// external input for the current tick.
func (ly *Layer) ApplyExtRow(tsr *etensor.Float32, row int) error {
	nu := len(ly.Neurons)
	if tsr.Dim(1) != nu {
		return fmt.Errorf("Layer %v: external tensor width %v != number of neurons %v", ly.Nm, tsr.Dim(1), nu)
	}
	if row < 0 || row >= tsr.Dim(0) {
		return fmt.Errorf("Layer %v: external tensor row %v out of range %v", ly.Nm, row, tsr.Dim(0))
	}
	st := row * nu
	for ni := range ly.Neurons {
		ly.Neurons[ni].Ext = tsr.Values[st+ni]
	}
	ly.HasExt = true
	return nil
}

// ClearExt marks the external input as consumed, at the end of a tick.
// The next tick only sees external input if it is applied again.
func (ly *Layer) ClearExt() {
	ly.HasExt = false
}

//////////////////////////////////////////////////////////////////////////////////////
//  Tick update methods

// SpikeFmG computes this tick's spike vector from the accumulated input
// current, according to the layer type, and then updates the traces.
// Projections have already read the previous tick's spikes, so overwriting
// Spike here is safe.
func (ly *Layer) SpikeFmG() {
	switch ly.Typ {
	case Input:
		for ni := range ly.Neurons {
			nrn := &ly.Neurons[ni]
			if ly.HasExt {
				nrn.Spike = nrn.Ext
			} else {
				nrn.Spike = 0
			}
		}
	case LIF, LIFTrain:
		for ni := range ly.Neurons {
			nrn := &ly.Neurons[ni]
			if nrn.Refrac > 0 {
				nrn.Refrac--
				nrn.Spike = 0
			} else {
				ly.Act.VmFmG(&nrn.Vm, nrn.Ge)
				if nrn.Vm >= ly.Act.Thr {
					nrn.Spike = 1
					nrn.Vm = ly.Act.Reset
					nrn.Refrac = ly.Act.Refrac
				} else {
					nrn.Spike = 0
				}
			}
			if ly.Typ == LIFTrain && ly.HasExt {
				nrn.Spike = nrn.Ext
			}
		}
	}
	if ly.Trace.On {
		for ni := range ly.Neurons {
			nrn := &ly.Neurons[ni]
			ly.Trace.TraceFmSpike(&nrn.Trace, nrn.Spike)
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit access

// UnitVal returns the value of the given neuron variable for the given
// flat neuron index.  Returns NaN on invalid index or variable name.
func (ly *Layer) UnitVal(varNm string, idx int) float32 {
	vidx, err := NeuronVarByName(varNm)
	if err != nil {
		return float32(math.NaN())
	}
	if idx < 0 || idx >= len(ly.Neurons) {
		return float32(math.NaN())
	}
	return ly.Neurons[idx].VarByIndex(vidx)
}

// UnitVals fills in values of given neuron variable name across all neurons,
// into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (ly *Layer) UnitVals(vals *[]float32, varNm string) error {
	vidx, err := NeuronVarByName(varNm)
	if err != nil {
		return err
	}
	nu := len(ly.Neurons)
	if *vals == nil || cap(*vals) < nu {
		*vals = make([]float32, nu)
	} else if len(*vals) < nu {
		*vals = (*vals)[0:nu]
	}
	for ni := range ly.Neurons {
		(*vals)[ni] = ly.Neurons[ni].VarByIndex(vidx)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// WriteWtsJSON writes the weights from this layer from the receiver-side
// perspective in a JSON text format.
func (ly *Layer) WriteWtsJSON(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Layer\": %q,\n", ly.Nm)))
	w.Write(indent.TabBytes(depth))
	onps := make([]*Prjn, 0, len(ly.RcvPrjns))
	for _, pj := range ly.RcvPrjns {
		if !pj.IsOff() {
			onps = append(onps, pj)
		}
	}
	np := len(onps)
	if np == 0 {
		w.Write([]byte("\"Prjns\": null\n"))
	} else {
		w.Write([]byte("\"Prjns\": [\n"))
		depth++
		for pi, pj := range onps {
			pj.WriteWtsJSON(w, depth)
			if pi == np-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// SetWts sets the weights for this layer from weights.Layer decoded values
func (ly *Layer) SetWts(lw *weights.Layer) error {
	var err error
	for pi := range lw.Prjns {
		pw := &lw.Prjns[pi]
		pj := ly.RecvPrjnBySendName(pw.From)
		if pj == nil {
			err = fmt.Errorf("Layer %v: no projection from %v", ly.Nm, pw.From)
			continue
		}
		er := pj.SetWts(pw)
		if er != nil {
			err = er
		}
	}
	return err
}
