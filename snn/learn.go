// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/goki/ki/kit"
)

// snn.LearnParams manages the plasticity parameters for a projection:
// which rule runs each tick, its learning rates, and the weight bounding
// and normalization applied after every update.
type LearnParams struct {
	Rule     RuleTypes     `desc:"which plasticity rule governs weight changes on this projection"`
	PreRate  float32       `viewif:"Rule=TraceSTDP" min:"0" desc:"learning rate on the depression term: presynaptic trace times postsynaptic spike.  with both rates zero, TraceSTDP makes no weight changes"`
	PostRate float32       `viewif:"Rule=TraceSTDP" min:"0" desc:"learning rate on the potentiation term: presynaptic spike times postsynaptic trace"`
	Bounds   WtBoundParams `view:"inline" desc:"hard clamp bounds enforced on weights after every update"`
	Norm     WtNormParams  `view:"inline" desc:"per-receiving-neuron weight normalization applied after every update"`
}

func (lp *LearnParams) Update() {
	lp.Bounds.Update()
	lp.Norm.Update()
}

func (lp *LearnParams) Defaults() {
	lp.Rule = NoRule
	lp.PreRate = 0
	lp.PostRate = 0
	lp.Bounds.Defaults()
	lp.Norm.Defaults()
}

// STDPdWt returns the weight change for one synapse from the trace-based
// spike-timing-dependent rule: potentiation proportional to the sending
// spike and receiving trace, depression proportional to the sending trace
// and receiving spike.
func (lp *LearnParams) STDPdWt(sSpike, sTrace, rSpike, rTrace float32) float32 {
	return lp.PostRate*sSpike*rTrace - lp.PreRate*sTrace*rSpike
}

///////////////////////////////////////////////////////////////////////
//  WtBoundParams

// snn.WtBoundParams are hard weight clamp bounds, enforced after every
// weight update on a projection.
type WtBoundParams struct {
	On bool    `desc:"enforce the clamp bounds after every weight update"`
	Lo float32 `viewif:"On" desc:"lower bound on every weight value"`
	Hi float32 `viewif:"On" desc:"upper bound on every weight value"`
}

func (wb *WtBoundParams) Update() {
}

func (wb *WtBoundParams) Defaults() {
	wb.On = false
	wb.Lo = 0
	wb.Hi = 1
}

// Clamp returns wt clamped into [Lo, Hi]
func (wb *WtBoundParams) Clamp(wt float32) float32 {
	if wt < wb.Lo {
		return wb.Lo
	}
	if wt > wb.Hi {
		return wb.Hi
	}
	return wt
}

///////////////////////////////////////////////////////////////////////
//  WtNormParams

// snn.WtNormParams rescales the incoming weights of each receiving neuron
// so that their L1 sum equals Target, preserving the sign of each weight.
// Columns whose sum is zero are left untouched.
type WtNormParams struct {
	On     bool    `desc:"normalize each receiving neuron's incoming weights after init and after every update"`
	Target float32 `viewif:"On" min:"0" desc:"target L1 sum of the incoming weights for each receiving neuron"`
}

func (wn *WtNormParams) Update() {
}

func (wn *WtNormParams) Defaults() {
	wn.On = false
	wn.Target = 1
}

///////////////////////////////////////////////////////////////////////
//  RuleTypes

// RuleTypes is the set of plasticity rule variants for a projection.
type RuleTypes int

//go:generate stringer -type=RuleTypes

var KiT_RuleTypes = kit.Enums.AddEnum(RuleTypesN, false, nil)

func (ev RuleTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *RuleTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoRule makes no weight changes: the projection is a structurally
	// fixed pathway.
	NoRule RuleTypes = iota

	// TraceSTDP is the trace-based spike-timing-dependent rule: weight
	// change combines a potentiation term (sending spike times receiving
	// trace, scaled by PostRate) and a depression term (sending trace times
	// receiving spike, scaled by PreRate).
	TraceSTDP

	// ErrDriven marks a climbing-fiber style supervisory projection: it
	// records the timing of sending spikes for external use but makes no
	// autonomous weight changes.
	ErrDriven

	RuleTypesN
)
