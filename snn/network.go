// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/goki/ki/ki"
	"github.com/goki/ki/kit"
)

// snn.Network runs the spiking network simulation: it owns the layers,
// projections and monitors (via NetworkStru), and sequences the fixed
// per-tick phase order.  Do not call Cycle or RunTicks concurrently on
// the same network.
type Network struct {
	NetworkStru
}

var KiT_Network = kit.Types.AddType(&Network{}, NetworkProps)

var NetworkProps = ki.Props{}

// NewNetwork returns a new empty network with the given name.
func NewNetwork(name string) *Network {
	nt := &Network{}
	nt.InitName(name)
	return nt
}

// Defaults sets all the default parameters for all layers and projections
func (nt *Network) Defaults() {
	for _, ly := range nt.Layers {
		ly.Defaults()
	}
	for _, pj := range nt.Prjns {
		pj.Defaults()
	}
}

// UpdateParams updates all the derived parameters if any of the settings
// parameters have changed, for all layers and projections
func (nt *Network) UpdateParams() {
	for _, ly := range nt.Layers {
		ly.UpdateParams()
	}
	for _, pj := range nt.Prjns {
		pj.UpdateParams()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitWts initializes synaptic weights for all projections.
func (nt *Network) InitWts() {
	for _, pj := range nt.Prjns {
		if pj.IsOff() {
			continue
		}
		pj.InitWts()
	}
}

// InitState resets all of the dynamic state in the network back to resting
// values: potentials, traces, refractory counters, spikes, accumulators,
// and monitor buffers.  Weights are not touched -- use InitWts or
// OpenWtsJSON to change weights.
func (nt *Network) InitState() {
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.InitState()
	}
	for _, pj := range nt.Prjns {
		if pj.IsOff() {
			continue
		}
		pj.InitGInc()
		pj.ErrRec = pj.ErrRec[:0]
	}
	for _, mn := range nt.Mons {
		mn.Reset()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Tick stepping

// Cycle advances the network by exactly one tick, in the fixed phase
// order: (a) zero every layer's input accumulator; (b) every projection,
// in insertion order, accumulates current from its sending layer's
// previous-tick spikes into its receiving layer; (c) every layer, in
// insertion order, computes this tick's spikes and traces; (d) every
// projection runs its plasticity update and weight bounding; (e) monitors
// record.  External inputs applied before this call are consumed here and
// cleared at the end of the tick.
func (nt *Network) Cycle(tm *Time) {
	nt.geZero()
	nt.sendSpikes()
	nt.spikeFmG()
	nt.learn()
	nt.record()
	nt.clearExt()
}

func (nt *Network) geZero() {
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.InitGe()
	}
}

func (nt *Network) sendSpikes() {
	for _, pj := range nt.Prjns {
		if pj.IsOff() {
			continue
		}
		pj.SendSpikes()
		pj.RecvGInc()
	}
}

func (nt *Network) spikeFmG() {
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.SpikeFmG()
	}
}

func (nt *Network) learn() {
	for _, pj := range nt.Prjns {
		if pj.IsOff() {
			continue
		}
		pj.DWt()
		pj.WtFmDWt()
	}
}

func (nt *Network) record() {
	for _, mn := range nt.Mons {
		mn.Record()
	}
}

func (nt *Network) clearExt() {
	for _, ly := range nt.Layers {
		ly.ClearExt()
	}
}

// RunTicks runs the network for the given number of ticks, applying one
// row per tick from each of the given external spike-train tensors
// (shape [ticks, n], keyed by layer name) before each tick's update.
// Returns an error for an unknown layer name or a shape mismatch, raised
// before the offending tick runs, leaving prior ticks fully committed.
func (nt *Network) RunTicks(tm *Time, ticks int, exts map[string]*etensor.Float32) error {
	for _, tsr := range exts {
		if tsr.NumDims() != 2 {
			return fmt.Errorf("Network %v: external tensors must be 2D [ticks, n], got %v dims", nt.Nm, tsr.NumDims())
		}
		if tsr.Dim(0) < ticks {
			return fmt.Errorf("Network %v: external tensor has %v rows < %v ticks", nt.Nm, tsr.Dim(0), ticks)
		}
	}
	tm.TickStart()
	for t := 0; t < ticks; t++ {
		for lnm, tsr := range exts {
			ly, err := nt.LayerByNameTry(lnm)
			if err != nil {
				return err
			}
			if err = ly.ApplyExtRow(tsr, t); err != nil {
				return err
			}
		}
		nt.Cycle(tm)
		tm.TickInc()
	}
	return nil
}
