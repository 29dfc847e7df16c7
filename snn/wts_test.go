// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/prjn"
)

func TestSynVals(t *testing.T) {
	net := MakeChainNet(t)
	pj := net.Prjns[0]
	wt := pj.SynVal("Wt", 0, 0)
	if math32.IsNaN(wt) {
		t.Errorf("Wt syn var not found")
	}
	if err := pj.SetSynVal("Wt", 0, 0, 0.15); err != nil {
		t.Fatal(err)
	}
	CmprFloats([]float32{wt, pj.SynVal("Wt", 0, 0)}, []float32{2, 0.15}, "syn val setting test", t)

	if !math32.IsNaN(pj.SynVal("Bogus", 0, 0)) {
		t.Errorf("expected NaN for invalid syn var name")
	}
}

func TestWtsWriteRead(t *testing.T) {
	net := NewNetwork("WtsNet")
	in := net.AddLayer("In", []int{3, 1}, Input)
	out := net.AddLayer("Out", []int{2, 1}, LIF)
	pj := net.ConnectLayers(in, out, prjn.NewFull(), Forward)
	SetConstWt(pj, 0.5)
	if err := net.Build(); err != nil {
		t.Fatal(err)
	}
	net.InitWts()
	for si := 0; si < 3; si++ {
		for ri := 0; ri < 2; ri++ {
			if err := pj.SetSynVal("Wt", si, ri, float32(si)+0.25*float32(ri)); err != nil {
				t.Fatal(err)
			}
		}
	}

	var buf bytes.Buffer
	net.WriteWtsJSON(&buf)

	// perturb, then restore from the saved state
	pj.SetWtsFunc(func(si, ri int) float32 { return -1 })
	if err := net.ReadWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	for si := 0; si < 3; si++ {
		for ri := 0; ri < 2; ri++ {
			got := pj.SynVal("Wt", si, ri)
			trg := float32(si) + 0.25*float32(ri)
			if math32.Abs(got-trg) > 1e-5 {
				t.Errorf("restored weight [%v,%v]: got %v, trg %v", si, ri, got, trg)
			}
		}
	}
}

func TestNamedPrjns(t *testing.T) {
	net := NewNetwork("Multi")
	a := net.AddLayer("A", []int{2, 1}, Input)
	b := net.AddLayer("B", []int{2, 1}, LIF)
	fixed := net.ConnectLayersNamed("AToBFixed", a, b, prjn.NewOneToOne(), Forward)
	plast := net.ConnectLayersNamed("AToBPlastic", a, b, prjn.NewOneToOne(), Forward)
	plast.Learn.Rule = TraceSTDP
	if err := net.Build(); err != nil {
		t.Fatal(err)
	}
	if pj, err := net.PrjnByNameTry("AToBFixed"); err != nil || pj != fixed {
		t.Errorf("named projection lookup failed: %v", err)
	}
	if _, err := net.PrjnByNameTry("AToBNope"); err == nil {
		t.Errorf("expected error for unknown projection name")
	}
}
