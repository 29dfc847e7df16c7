// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/weights"
	"github.com/goki/ki/indent"
	"github.com/goki/ki/ki"
	"github.com/goki/ki/kit"
)

// snn.Prjn is a projection between two layers: the synaptic weights from
// every connected sending neuron to its receiving neurons, the plasticity
// parameters governing how those weights change, and the per-tick current
// propagation from sending spikes into the receiving layer's accumulator.
type Prjn struct {
	PrjnStru
	WtInit WtInitParams `view:"inline" desc:"initial weight distribution -- use a Mean distribution with Var = 0 for constant weights"`
	Learn  LearnParams  `view:"add-fields" desc:"plasticity parameters: rule, rates, bounds, normalization"`
	Syns   []Synapse    `desc:"synaptic state values, ordered by the sending layer units which owns them -- one-to-one with SConIdx array"`

	// misc state variables below:
	GInc   []float32 `view:"-" desc:"local per-recv unit increment accumulator for synaptic current from sending units -- added into the receiving neurons and zeroed every tick"`
	ErrRec []float32 `view:"-" desc:"for ErrDriven projections, the per-tick count of sending (climbing fiber) spikes recorded during learning -- read and cleared externally"`
}

var KiT_Prjn = kit.Types.AddType(&Prjn{}, PrjnProps)

var PrjnProps = ki.Props{}

func (pj *Prjn) Defaults() {
	pj.WtInit.Defaults()
	pj.Learn.Defaults()
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (pj *Prjn) UpdateParams() {
	pj.Learn.Update()
}

// NSyns returns the total number of synapses in the projection.
func (pj *Prjn) NSyns() int {
	return len(pj.Syns)
}

// Build constructs the full connectivity among the layers as specified in
// this projection.  Calls PrjnStru.BuildStru and then allocates the
// synaptic values in Syns accordingly.
func (pj *Prjn) Build() error {
	if err := pj.BuildStru(); err != nil {
		return err
	}
	pj.Syns = make([]Synapse, len(pj.SConIdx))
	rlen := pj.Recv.Shape().Len()
	pj.GInc = make([]float32, rlen)
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitWts initializes weight values according to WtInit params, then
// applies the configured bounds and normalization, so the projection starts
// in the same regime that every subsequent update maintains.
func (pj *Prjn) InitWts() {
	for si := range pj.Syns {
		sy := &pj.Syns[si]
		sy.Wt = float32(pj.WtInit.Gen(-1))
		sy.DWt = 0
	}
	if pj.Learn.Bounds.On {
		for si := range pj.Syns {
			sy := &pj.Syns[si]
			sy.Wt = pj.Learn.Bounds.Clamp(sy.Wt)
		}
	}
	if pj.Learn.Norm.On {
		pj.NormWts()
	}
	pj.InitGInc()
	pj.ErrRec = pj.ErrRec[:0]
}

// SetWtsFunc initializes synaptic Wt value using given function
// based on receiving and sending unit indexes.
func (pj *Prjn) SetWtsFunc(wtFun func(si, ri int) float32) {
	rn := pj.Recv.Shape().Len()
	for ri := 0; ri < rn; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			rsi := pj.RSynIdx[st+ci]
			sy := &pj.Syns[rsi]
			sy.Wt = wtFun(si, ri)
		}
	}
}

// InitGInc zeros the per-projection current accumulator.
func (pj *Prjn) InitGInc() {
	for ri := range pj.GInc {
		pj.GInc[ri] = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Act methods

// SendSpikes accumulates weighted current from every sending neuron that
// spiked on the previous tick, into the per-projection GInc accumulator.
// Called before any layer updates its spikes for the current tick, so the
// Spike values read here are the previous tick's output.
func (pj *Prjn) SendSpikes() {
	slay := pj.Send
	for si := range slay.Neurons {
		sn := &slay.Neurons[si]
		if sn.Spike == 0 {
			continue
		}
		nc := pj.SConN[si]
		st := pj.SConIdxSt[si]
		syns := pj.Syns[st : st+nc]
		scons := pj.SConIdx[st : st+nc]
		for ci := range syns {
			ri := scons[ci]
			pj.GInc[ri] += syns[ci].Wt
		}
	}
}

// RecvGInc increments the receiving neurons' input current from the
// accumulated projection-level values, and zeros the accumulator.
func (pj *Prjn) RecvGInc() {
	rlay := pj.Recv
	for ri := range rlay.Neurons {
		rn := &rlay.Neurons[ri]
		rn.Ge += pj.GInc[ri]
		pj.GInc[ri] = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Learn methods

// DWt computes this tick's weight changes according to the plasticity rule.
// NoRule and ErrDriven projections make no changes; ErrDriven additionally
// records the sending spike count for the tick.
func (pj *Prjn) DWt() {
	switch pj.Learn.Rule {
	case NoRule:
		return
	case ErrDriven:
		spk := float32(0)
		for si := range pj.Send.Neurons {
			spk += pj.Send.Neurons[si].Spike
		}
		pj.ErrRec = append(pj.ErrRec, spk)
		return
	case TraceSTDP:
		if pj.Learn.PreRate == 0 && pj.Learn.PostRate == 0 {
			return
		}
		slay := pj.Send
		rlay := pj.Recv
		for si := range slay.Neurons {
			sn := &slay.Neurons[si]
			if sn.Spike == 0 && sn.Trace == 0 {
				continue
			}
			nc := int(pj.SConN[si])
			st := int(pj.SConIdxSt[si])
			syns := pj.Syns[st : st+nc]
			scons := pj.SConIdx[st : st+nc]
			for ci := range syns {
				ri := scons[ci]
				rn := &rlay.Neurons[ri]
				syns[ci].DWt += pj.Learn.STDPdWt(sn.Spike, sn.Trace, rn.Spike, rn.Trace)
			}
		}
	}
}

// WtFmDWt applies the accumulated weight changes, then enforces the clamp
// bounds, then rescales each receiving neuron's incoming weights to the
// normalization target, in that order.
func (pj *Prjn) WtFmDWt() {
	if pj.Learn.Rule == TraceSTDP {
		for si := range pj.Syns {
			sy := &pj.Syns[si]
			sy.Wt += sy.DWt
			sy.DWt = 0
		}
	}
	if pj.Learn.Bounds.On {
		for si := range pj.Syns {
			sy := &pj.Syns[si]
			sy.Wt = pj.Learn.Bounds.Clamp(sy.Wt)
		}
	}
	if pj.Learn.Norm.On {
		pj.NormWts()
	}
}

// NormWts rescales each receiving neuron's incoming weights so their L1 sum
// equals Learn.Norm.Target, preserving signs.  Receiving neurons whose
// incoming weights sum to zero are skipped.
func (pj *Prjn) NormWts() {
	rn := len(pj.Recv.Neurons)
	for ri := 0; ri < rn; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		rsidxs := pj.RSynIdx[st : st+nc]
		sum := float32(0)
		for ci := range rsidxs {
			sy := &pj.Syns[rsidxs[ci]]
			if sy.Wt >= 0 {
				sum += sy.Wt
			} else {
				sum -= sy.Wt
			}
		}
		if sum == 0 {
			continue
		}
		fact := pj.Learn.Norm.Target / sum
		for ci := range rsidxs {
			sy := &pj.Syns[rsidxs[ci]]
			sy.Wt *= fact
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Syn access

// Syn returns the synapse between given send, recv unit indexes (1D, flat
// indexes).  Returns nil if the units are not connected.
func (pj *Prjn) Syn(sidx, ridx int) *Synapse {
	nc := int(pj.RConN[ridx])
	st := int(pj.RConIdxSt[ridx])
	for ci := 0; ci < nc; ci++ {
		si := int(pj.RConIdx[st+ci])
		if si != sidx {
			continue
		}
		rsi := pj.RSynIdx[st+ci]
		return &pj.Syns[rsi]
	}
	return nil
}

// SynTry returns the synapse between given send, recv unit indexes (1D,
// flat indexes).  Returns error for access errors.
func (pj *Prjn) SynTry(sidx, ridx int) (*Synapse, error) {
	nr := len(pj.Recv.Neurons)
	ns := len(pj.Send.Neurons)
	if ridx >= nr {
		return nil, fmt.Errorf("Prjn %v: recv unit index %v is > size of recv layer: %v", pj.Name(), ridx, nr)
	}
	if sidx >= ns {
		return nil, fmt.Errorf("Prjn %v: send unit index %v is > size of send layer: %v", pj.Name(), sidx, ns)
	}
	sy := pj.Syn(sidx, ridx)
	if sy == nil {
		return nil, fmt.Errorf("Prjn %v: recv unit index %v does not recv from send unit index %v", pj.Name(), ridx, sidx)
	}
	return sy, nil
}

// SynVal returns value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat indexes).  Returns NaN for access errors.
func (pj *Prjn) SynVal(varNm string, sidx, ridx int) float32 {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return float32(math.NaN())
	}
	sy := pj.Syn(sidx, ridx)
	if sy == nil {
		return float32(math.NaN())
	}
	return sy.VarByIndex(vidx)
}

// SetSynVal sets value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat indexes).  Returns error for access errors.
func (pj *Prjn) SetSynVal(varNm string, sidx, ridx int, val float32) error {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	sy, err := pj.SynTry(sidx, ridx)
	if err != nil {
		return err
	}
	sy.SetVarByIndex(vidx, val)
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// WriteWtsJSON writes the weights from this projection from the
// receiver-side perspective in a JSON text format.  We build in the
// indentation logic to make it much faster and more efficient.
func (pj *Prjn) WriteWtsJSON(w io.Writer, depth int) {
	nr := len(pj.Recv.Neurons)
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"From\": %q,\n", pj.Send.Name())))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Rs\": [\n")))
	depth++
	for ri := 0; ri < nr; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("{\n"))
		depth++
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"Ri\": %v,\n", ri)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"N\": %v,\n", nc)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Si\": [ "))
		for ci := 0; ci < nc; ci++ {
			si := pj.RConIdx[st+ci]
			w.Write([]byte(fmt.Sprintf("%v", si)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("],\n"))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Wt\": [ "))
		for ci := 0; ci < nc; ci++ {
			rsi := pj.RSynIdx[st+ci]
			sy := &pj.Syns[rsi]
			w.Write([]byte(strconv.FormatFloat(float64(sy.Wt), 'g', weights.Prec, 32)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("]\n"))
		depth--
		w.Write(indent.TabBytes(depth))
		if ri == nr-1 {
			w.Write([]byte("}\n"))
		} else {
			w.Write([]byte("},\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// ReadWtsJSON reads the weights from this projection from the receiver-side
// perspective in a JSON text format.  This is for a set of weights that
// were saved *for one projection only* and is not used for the
// network-level ReadWtsJSON, which reads into a separate structure --
// see SetWts method.
func (pj *Prjn) ReadWtsJSON(r io.Reader) error {
	pw, err := weights.PrjnReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	return pj.SetWts(pw)
}

// SetWts sets the weights for this projection from weights.Prjn decoded values
func (pj *Prjn) SetWts(pw *weights.Prjn) error {
	var err error
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		for si := range pr.Si {
			er := pj.SetSynVal("Wt", pr.Si[si], pr.Ri, pr.Wt[si])
			if er != nil {
				err = er
			}
		}
	}
	return err
}

///////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are weight initialization parameters -- just the random
// distribution parameters from erand.  Use Dist = erand.Mean with Var = 0
// for constant initial weights (e.g., fixed structural pathways).
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0.5
	wp.Var = 0.25
	wp.Dist = erand.Uniform
}
