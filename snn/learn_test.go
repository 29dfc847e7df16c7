// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"testing"

	"github.com/emer/emergent/prjn"
)

// MakePairNet makes a 1-unit pre and post Input layer pair, both externally
// driven so tests control the exact spike timing, with trace decay 0.5.
func MakePairNet(t *testing.T) (*Network, *Layer, *Layer, *Prjn) {
	net := NewNetwork("Pair")
	pre := net.AddLayer("Pre", []int{1, 1}, Input)
	post := net.AddLayer("Post", []int{1, 1}, Input)
	pre.Trace.Decay = 0.5
	post.Trace.Decay = 0.5
	pj := net.ConnectLayers(pre, post, prjn.NewOneToOne(), Forward)
	SetConstWt(pj, 0.5)
	if err := net.Build(); err != nil {
		t.Fatal(err)
	}
	net.InitWts()
	net.InitState()
	return net, pre, post, pj
}

// RunPair drives pre/post spikes from the given schedules, returning the
// weight after every tick.
func RunPair(t *testing.T, net *Network, pre, post *Layer, preSpk, postSpk []float32) []float32 {
	tm := NewTime()
	pj := net.Prjns[0]
	wts := []float32{}
	for tick := range preSpk {
		if err := pre.ApplyExt([]float32{preSpk[tick]}); err != nil {
			t.Fatal(err)
		}
		if err := post.ApplyExt([]float32{postSpk[tick]}); err != nil {
			t.Fatal(err)
		}
		net.Cycle(tm)
		tm.TickInc()
		wts = append(wts, pj.SynVal("Wt", 0, 0))
	}
	return wts
}

func TestNoOpRule(t *testing.T) {
	net, pre, post, pj := MakePairNet(t)
	pj.Learn.Rule = NoRule
	wts := RunPair(t, net, pre, post, []float32{1, 0, 1, 1}, []float32{0, 1, 1, 0})
	CmprFloats(wts, []float32{0.5, 0.5, 0.5, 0.5}, "no-op weights", t)
}

// TraceSTDP with zero learning rates must behave exactly as no-op.
func TestSTDPZeroRates(t *testing.T) {
	net, pre, post, pj := MakePairNet(t)
	pj.Learn.Rule = TraceSTDP
	pj.Learn.PreRate = 0
	pj.Learn.PostRate = 0
	wts := RunPair(t, net, pre, post, []float32{1, 0, 1, 1}, []float32{0, 1, 1, 0})
	CmprFloats(wts, []float32{0.5, 0.5, 0.5, 0.5}, "zero-rate weights", t)
}

// Exact weight trajectory of the trace rule:
// tick 0: pre spikes alone, no change.
// tick 1: post spikes on decayed pre trace, depression.
// tick 2: both spike, potentiation dominates.
func TestSTDPTrajectory(t *testing.T) {
	net, pre, post, pj := MakePairNet(t)
	pj.Learn.Rule = TraceSTDP
	pj.Learn.PreRate = 0.1
	pj.Learn.PostRate = 0.2
	wts := RunPair(t, net, pre, post, []float32{1, 0, 1}, []float32{0, 1, 1})
	CmprFloats(wts, []float32{0.5, 0.45, 0.625}, "stdp weights", t)
}

func TestWtBounds(t *testing.T) {
	net, pre, post, pj := MakePairNet(t)
	pj.Learn.Rule = NoRule
	pj.Learn.Bounds.On = true
	pj.Learn.Bounds.Lo = 0
	pj.Learn.Bounds.Hi = 1
	if err := pj.SetSynVal("Wt", 0, 0, 1.5); err != nil {
		t.Fatal(err)
	}
	wts := RunPair(t, net, pre, post, []float32{1}, []float32{0})
	CmprFloats(wts, []float32{1}, "clamped weight", t)

	if err := pj.SetSynVal("Wt", 0, 0, -0.5); err != nil {
		t.Fatal(err)
	}
	wts = RunPair(t, net, pre, post, []float32{0}, []float32{0})
	CmprFloats(wts, []float32{0}, "clamped low weight", t)
}

// Bounds stay enforced through learning: strong potentiation saturates at Hi.
func TestWtBoundsLearn(t *testing.T) {
	net, pre, post, pj := MakePairNet(t)
	pj.Learn.Rule = TraceSTDP
	pj.Learn.PostRate = 10
	pj.Learn.Bounds.On = true
	pj.Learn.Bounds.Lo = 0
	pj.Learn.Bounds.Hi = 1
	wts := RunPair(t, net, pre, post, []float32{1, 1, 1, 1}, []float32{1, 1, 1, 1})
	last := wts[len(wts)-1]
	if last != 1 {
		t.Errorf("expected weight saturated at 1, got %v", last)
	}
	for _, w := range wts {
		if w < 0 || w > 1 {
			t.Errorf("weight %v outside bounds", w)
		}
	}
}

// A uniform 5-weight column normalized to target 10 yields 2.0 per entry.
func TestNormWts(t *testing.T) {
	net := NewNetwork("Norm")
	pre := net.AddLayer("Pre", []int{5, 1}, Input)
	post := net.AddLayer("Post", []int{1, 1}, Input)
	pj := net.ConnectLayers(pre, post, prjn.NewFull(), Forward)
	SetConstWt(pj, 0.5)
	pj.Learn.Norm.On = true
	pj.Learn.Norm.Target = 10
	if err := net.Build(); err != nil {
		t.Fatal(err)
	}
	net.InitWts() // norm applies at init
	for si := 0; si < 5; si++ {
		wt := pj.SynVal("Wt", si, 0)
		if wt != 2 {
			t.Errorf("normalized weight %v != 2 for send unit %v", wt, si)
		}
	}
}

// Normalization preserves the column sum across learning updates, and
// skips columns that are identically zero.
func TestNormAfterUpdate(t *testing.T) {
	net := NewNetwork("Norm2")
	pre := net.AddLayer("Pre", []int{5, 1}, Input)
	post := net.AddLayer("Post", []int{2, 1}, Input)
	pre.Trace.Decay = 0.5
	post.Trace.Decay = 0.5
	pj := net.ConnectLayers(pre, post, prjn.NewFull(), Forward)
	SetConstWt(pj, 0.5)
	pj.Learn.Rule = TraceSTDP
	pj.Learn.PreRate = 0.1
	pj.Learn.PostRate = 0.1
	pj.Learn.Norm.On = true
	pj.Learn.Norm.Target = 3
	if err := net.Build(); err != nil {
		t.Fatal(err)
	}
	net.InitWts()
	net.InitState()
	tm := NewTime()
	for tick := 0; tick < 5; tick++ {
		if err := pre.ApplyExt([]float32{1, 0, 1, 0, 1}); err != nil {
			t.Fatal(err)
		}
		if err := post.ApplyExt([]float32{1, 0}); err != nil {
			t.Fatal(err)
		}
		net.Cycle(tm)
		tm.TickInc()
		for ri := 0; ri < 2; ri++ {
			sum := float32(0)
			for si := 0; si < 5; si++ {
				sum += pj.SynVal("Wt", si, ri)
			}
			dif := sum - 3
			if dif < -1e-4 || dif > 1e-4 {
				t.Errorf("tick %v: recv %v column sum %v != target 3", tick, ri, sum)
			}
		}
	}
}

func TestNormZeroColumn(t *testing.T) {
	net := NewNetwork("NormZero")
	pre := net.AddLayer("Pre", []int{3, 1}, Input)
	post := net.AddLayer("Post", []int{1, 1}, Input)
	pj := net.ConnectLayers(pre, post, prjn.NewFull(), Forward)
	SetConstWt(pj, 0)
	pj.Learn.Norm.On = true
	pj.Learn.Norm.Target = 5
	if err := net.Build(); err != nil {
		t.Fatal(err)
	}
	net.InitWts()
	for si := 0; si < 3; si++ {
		wt := pj.SynVal("Wt", si, 0)
		if wt != 0 {
			t.Errorf("zero column should be skipped by normalization, got %v", wt)
		}
	}
}

// ErrDriven projections never change weights but record sending spike counts.
func TestErrDriven(t *testing.T) {
	net, pre, post, pj := MakePairNet(t)
	pj.Learn.Rule = ErrDriven
	wts := RunPair(t, net, pre, post, []float32{1, 0, 1}, []float32{0, 0, 0})
	CmprFloats(wts, []float32{0.5, 0.5, 0.5}, "errdriven weights", t)
	CmprFloats(pj.ErrRec, []float32{1, 0, 1}, "errdriven recording", t)
}
