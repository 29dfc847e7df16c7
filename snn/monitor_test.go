// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"testing"
)

func TestMonitorRecords(t *testing.T) {
	net := MakeChainNet(t)
	a := net.LayerByName("A")
	mon, err := net.AddMonitor("B", "Spike", "Vm")
	if err != nil {
		t.Fatal(err)
	}
	tm := NewTime()
	if err := a.ApplyExt([]float32{1}); err != nil {
		t.Fatal(err)
	}
	ticks := 4
	for tick := 0; tick < ticks; tick++ {
		net.Cycle(tm)
		tm.TickInc()
	}
	if mon.NumTicks() != ticks {
		t.Errorf("monitor recorded %v ticks != %v", mon.NumTicks(), ticks)
	}
	spk, err := mon.Records("Spike")
	if err != nil {
		t.Fatal(err)
	}
	if spk.Dim(0) != ticks || spk.Dim(1) != 1 {
		t.Errorf("spike record shape [%v, %v] != [%v, 1]", spk.Dim(0), spk.Dim(1), ticks)
	}
	CmprFloats(spk.Values, []float32{0, 1, 0, 0}, "recorded B spikes", t)

	vm, err := mon.Records("Vm")
	if err != nil {
		t.Fatal(err)
	}
	// B gets current 2 at tick 1, spikes and resets; decays at rest otherwise
	CmprFloats(vm.Values, []float32{0, 0, 0, 0}, "recorded B Vm", t)

	if _, err := mon.Records("Trace"); err == nil {
		t.Errorf("expected error for unsubscribed variable")
	}
}

func TestMonitorBadVar(t *testing.T) {
	net := MakeChainNet(t)
	if _, err := net.AddMonitor("B", "Bogus"); err == nil {
		t.Errorf("expected error for invalid variable name")
	}
	if _, err := net.AddMonitor("Nope", "Spike"); err == nil {
		t.Errorf("expected error for unknown layer name")
	}
}

func TestMonitorReset(t *testing.T) {
	net := MakeChainNet(t)
	a := net.LayerByName("A")
	mon, err := net.AddMonitor("C", "Spike")
	if err != nil {
		t.Fatal(err)
	}
	tm := NewTime()
	for tick := 0; tick < 3; tick++ {
		if err := a.ApplyExt([]float32{1}); err != nil {
			t.Fatal(err)
		}
		net.Cycle(tm)
		tm.TickInc()
	}
	net.InitState()
	if mon.NumTicks() != 0 {
		t.Errorf("InitState should reset monitors, got %v ticks", mon.NumTicks())
	}
}
