// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sim assembles the cerebellar network, couples it to an actuator
engine through the encoders and motor transforms, and drives the closed
sensorimotor loop, logging per-period metrics to a sqlite store.
*/
package sim

import (
	"github.com/ccnlab/cersim/snn"
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
)

// Layer names in the cerebellar network.
const (
	MF      = "MF"
	GR      = "GR"
	PK      = "PK"
	PKAnti  = "PKAnti"
	IO      = "IO"
	IOAnti  = "IOAnti"
	DCN     = "DCN"
	DCNAnti = "DCNAnti"
)

// CereParams are the size and weight constants for the cerebellar
// topology.  Defaults reproduce the standard microcircuit: mossy fibers
// fan out onto a large granule layer, granule cells drive Purkinje cells
// through the plastic parallel-fiber projection, the inferior olive
// carries the error signal onto the Purkinje cells, and the deep nuclei
// combine granule excitation with Purkinje inhibition.  Everything is
// mirrored across an Anti channel for the antagonist muscle.
type CereParams struct {
	NMF      int     `def:"100" desc:"mossy fiber input neurons"`
	GRShpY   int     `def:"5" desc:"granule layer pool rows"`
	GRShpX   int     `def:"200" desc:"granule layer pool columns"`
	NPK      int     `def:"32" desc:"Purkinje cells per channel"`
	NIO      int     `def:"32" desc:"inferior olive input neurons per channel"`
	NDCN     int     `def:"100" desc:"deep cerebellar nucleus neurons per channel"`
	PKThr    float32 `def:"-40" desc:"Purkinje spike threshold"`
	DCNThr   float32 `def:"-57" desc:"deep nucleus spike threshold"`
	MFWt     float32 `def:"5" desc:"fixed mossy fiber to granule weight"`
	PFInit   float32 `def:"0.1" desc:"initial parallel fiber weight"`
	PFRate   float32 `def:"0.1" desc:"parallel fiber STDP learning rate, both terms"`
	PKDCNWt  float32 `def:"-0.1" desc:"fixed inhibitory Purkinje to deep nucleus weight"`
	GRDCNWt  float32 `def:"0.1" desc:"fixed excitatory granule to deep nucleus weight"`
	NormFact float32 `def:"0.5" desc:"parallel fiber normalization target, as a fraction of the granule count"`
}

func (cp *CereParams) Defaults() {
	cp.NMF = 100
	cp.GRShpY = 5
	cp.GRShpX = 200
	cp.NPK = 32
	cp.NIO = 32
	cp.NDCN = 100
	cp.PKThr = -40
	cp.DCNThr = -57
	cp.MFWt = 5
	cp.PFInit = 0.1
	cp.PFRate = 0.1
	cp.PKDCNWt = -0.1
	cp.GRDCNWt = 0.1
	cp.NormFact = 0.5
}

// constWt configures a projection to initialize every weight to wt.
func constWt(pj *snn.Prjn, wt float32) {
	pj.WtInit.Mean = float64(wt)
	pj.WtInit.Var = 0
	pj.WtInit.Dist = erand.Mean
}

// CereNet builds the cerebellar network from the given params, with
// monitors on the deep nucleus spike output of both channels.  The
// network is built and has initialized weights on return.
func CereNet(cp *CereParams) (*snn.Network, error) {
	nt := snn.NewNetwork("CereSNN")

	mf := nt.AddLayer2D(MF, 1, cp.NMF, snn.Input)
	gr := nt.AddLayer2D(GR, cp.GRShpY, cp.GRShpX, snn.LIF)
	pk := nt.AddLayer2D(PK, 1, cp.NPK, snn.LIFTrain)
	pkA := nt.AddLayer2D(PKAnti, 1, cp.NPK, snn.LIFTrain)
	io := nt.AddLayer2D(IO, 1, cp.NIO, snn.Input)
	ioA := nt.AddLayer2D(IOAnti, 1, cp.NIO, snn.Input)
	dcn := nt.AddLayer2D(DCN, 1, cp.NDCN, snn.LIF)
	dcnA := nt.AddLayer2D(DCNAnti, 1, cp.NDCN, snn.LIF)

	gr.Act.Refrac = 0
	for _, ly := range []*snn.Layer{pk, pkA} {
		ly.Act.Thr = cp.PKThr
		ly.Act.Refrac = 0
	}
	for _, ly := range []*snn.Layer{dcn, dcnA} {
		ly.Act.Thr = cp.DCNThr
		ly.Act.Refrac = 0
	}

	full := prjn.NewFull()

	mfGR := nt.ConnectLayers(mf, gr, full, snn.Forward)
	constWt(mfGR, cp.MFWt)

	grN := float32(gr.NUnits())
	for _, tgt := range []*snn.Layer{pk, pkA} {
		pf := nt.ConnectLayers(gr, tgt, full, snn.Forward)
		constWt(pf, cp.PFInit)
		pf.Learn.Rule = snn.TraceSTDP
		pf.Learn.PreRate = cp.PFRate
		pf.Learn.PostRate = cp.PFRate
		pf.Learn.Bounds.On = true
		pf.Learn.Bounds.Lo = 0
		pf.Learn.Bounds.Hi = 1
		pf.Learn.Norm.On = true
		pf.Learn.Norm.Target = cp.NormFact * grN
	}

	cfPK := nt.ConnectLayers(io, pk, full, snn.Teach)
	cfPK.Learn.Rule = snn.ErrDriven
	cfPKA := nt.ConnectLayers(ioA, pkA, full, snn.Teach)
	cfPKA.Learn.Rule = snn.ErrDriven

	for _, pair := range []struct {
		pk, dcn *snn.Layer
	}{{pk, dcn}, {pkA, dcnA}} {
		inh := nt.ConnectLayers(pair.pk, pair.dcn, full, snn.Inhib)
		constWt(inh, cp.PKDCNWt)
		exc := nt.ConnectLayers(gr, pair.dcn, full, snn.Forward)
		constWt(exc, cp.GRDCNWt)
	}

	if _, err := nt.AddMonitor(DCN, "Spike"); err != nil {
		return nil, err
	}
	if _, err := nt.AddMonitor(DCNAnti, "Spike"); err != nil {
		return nil, err
	}

	if err := nt.Build(); err != nil {
		return nil, err
	}
	nt.InitWts()
	return nt, nil
}
