// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func checkBinary(t *testing.T, vals []float32, msg string) {
	for i, v := range vals {
		if v != 0 && v != 1 {
			t.Errorf("%v: value %v at %v not binary", msg, v, i)
			return
		}
	}
}

func TestBernoulliRBFRates(t *testing.T) {
	be := &BernoulliRBF{N: 100}
	be.Defaults()
	rates, err := be.Rates(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 10 {
		t.Fatalf("expected 10 group rates, got %v", len(rates))
	}
	// input 0 is centered on group 0: peak probability there
	if math32.Abs(rates[0]-be.MaxProb) > 1e-6 {
		t.Errorf("rate at preferred value: got %v, want %v", rates[0], be.MaxProb)
	}
	for gi := 1; gi < len(rates); gi++ {
		if rates[gi] >= rates[gi-1] {
			t.Errorf("rates should fall off with distance: rate[%v]=%v >= rate[%v]=%v", gi, rates[gi], gi-1, rates[gi-1])
		}
	}
	if _, err := be.Rates(-1); err == nil {
		t.Errorf("expected error for negative input")
	}
}

func TestBernoulliRBFEncode(t *testing.T) {
	be := &BernoulliRBF{N: 100, Rnd: rand.New(rand.NewSource(42))}
	be.Defaults()
	spks, err := be.Encode(15, 50)
	if err != nil {
		t.Fatal(err)
	}
	if spks.Dim(0) != 50 || spks.Dim(1) != 100 {
		t.Fatalf("spike train shape [%v, %v] != [50, 100]", spks.Dim(0), spks.Dim(1))
	}
	checkBinary(t, spks.Values, "rbf spikes")

	be.N = 33 // not a multiple of groups
	if _, err := be.Encode(15, 50); err == nil {
		t.Errorf("expected error for N not a multiple of Groups")
	}
}

func TestCurrentSpikes(t *testing.T) {
	ce := &CurrentSpikes{N: 32, Rnd: rand.New(rand.NewSource(7))}
	ce.Defaults()
	spks, err := ce.Encode(0, 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range spks.Values {
		if v != 0 {
			t.Errorf("zero current must produce no spikes")
			break
		}
	}
	spks, err = ce.Encode(1, 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range spks.Values {
		if v != 1 {
			t.Errorf("full current with MaxProb 1 must spike every tick")
			break
		}
	}
	if _, err := ce.Encode(1.5, 10); err == nil {
		t.Errorf("expected error for current outside [0, 1]")
	}
}

// Rate coding round trip: encode a constant probability, decode the mean
// rate, recover the original within tolerance that shrinks with window size.
func TestRoundTrip(t *testing.T) {
	ce := &CurrentSpikes{N: 50, Rnd: rand.New(rand.NewSource(3))}
	ce.Defaults()
	rd := &RateDecoder{Low: 0, Width: 1}
	current := float32(0.4)
	spks, err := ce.Encode(current, 2000)
	if err != nil {
		t.Fatal(err)
	}
	got, err := rd.Decode(spks)
	if err != nil {
		t.Fatal(err)
	}
	if math32.Abs(got-current) > 0.02 {
		t.Errorf("round trip: got %v, want %v within 0.02", got, current)
	}
}

func TestDecoderRange(t *testing.T) {
	ce := &CurrentSpikes{N: 10, Rnd: rand.New(rand.NewSource(1))}
	ce.Defaults()
	rd := &RateDecoder{Low: -4, Width: 8}
	spks, err := ce.Encode(1, 10) // all spikes
	if err != nil {
		t.Fatal(err)
	}
	got, err := rd.Decode(spks)
	if err != nil {
		t.Fatal(err)
	}
	if math32.Abs(got-4) > 1e-6 {
		t.Errorf("full rate should decode to top of range: got %v, want 4", got)
	}
}

func TestPoisson(t *testing.T) {
	pe := &Poisson{Rnd: rand.New(rand.NewSource(11))}
	ticks := 1000
	spks, err := pe.Encode([]float32{0, 100}, ticks)
	if err != nil {
		t.Fatal(err)
	}
	checkBinary(t, spks.Values, "poisson spikes")
	n0 := float32(0)
	n1 := float32(0)
	for t := 0; t < ticks; t++ {
		n0 += spks.Values[t*2]
		n1 += spks.Values[t*2+1]
	}
	if n0 != 0 {
		t.Errorf("zero rate must produce no spikes, got %v", n0)
	}
	// 100 Hz for 1000 ms: on the order of 100 spikes
	if n1 < 50 || n1 > 200 {
		t.Errorf("100 Hz over 1000 ticks: got %v spikes, expected ~100", n1)
	}
	if _, err := pe.Encode([]float32{-1}, 10); err == nil {
		t.Errorf("expected error for negative rate")
	}
}
