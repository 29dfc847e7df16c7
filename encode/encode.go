// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package encode converts analog signals into binary spike trains and spike
trains back into analog values.  The encoders are pure transforms: they
produce a [ticks, n] tensor of 0/1 values for the snn Input layers, and
never hold simulation state.
*/
package encode

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// frand returns a uniform random float32 from the given source, falling
// back on the global source when nil.
func frand(rnd *rand.Rand) float32 {
	if rnd == nil {
		return rand.Float32()
	}
	return rnd.Float32()
}

///////////////////////////////////////////////////////////////////////
//  BernoulliRBF

// encode.BernoulliRBF encodes a non-negative scalar as Bernoulli spike
// trains over a population organized into groups, where each group's spike
// probability is a Gaussian radial basis function of the (normalized)
// input distance from the group's preferred value.  Neurons within a group
// share the same rate.
type BernoulliRBF struct {
	N        int        `desc:"number of neurons in the population -- must be a multiple of Groups"`
	Groups   int        `def:"10" desc:"number of receptive-field groups tiling the input range"`
	InputMax float32    `def:"30" desc:"input value that normalizes to 1 -- larger inputs saturate"`
	MaxProb  float32    `def:"0.6" min:"0" max:"1" desc:"peak spike probability, at the center of a group's receptive field"`
	Rnd      *rand.Rand `view:"-" desc:"random source -- nil means the global source"`
}

func (be *BernoulliRBF) Defaults() {
	be.Groups = 10
	be.InputMax = 30
	be.MaxProb = 0.6
}

// Rates returns the per-group spike probability for the given input value.
// Inputs must be non-negative.
func (be *BernoulliRBF) Rates(x float32) ([]float32, error) {
	if x < 0 {
		return nil, fmt.Errorf("BernoulliRBF: input %v must be non-negative", x)
	}
	if be.Groups <= 0 {
		return nil, fmt.Errorf("BernoulliRBF: Groups must be > 0")
	}
	xn := x / be.InputMax
	if xn > 1 {
		xn = 1
	}
	omega := 1 / float32(be.Groups) / 3
	rates := make([]float32, be.Groups)
	for gi := range rates {
		ctr := float32(gi) / float32(be.Groups)
		dx := xn - ctr
		rates[gi] = be.MaxProb * math32.Exp(-(dx*dx)/(2*omega*omega))
	}
	return rates, nil
}

// Encode returns a [ticks, N] binary spike train for the given input value,
// Bernoulli-sampling each neuron at its group's rate on every tick.
func (be *BernoulliRBF) Encode(x float32, ticks int) (*etensor.Float32, error) {
	rates, err := be.Rates(x)
	if err != nil {
		return nil, err
	}
	if be.N <= 0 || be.N%be.Groups != 0 {
		return nil, fmt.Errorf("BernoulliRBF: N %v must be a positive multiple of Groups %v", be.N, be.Groups)
	}
	perGrp := be.N / be.Groups
	spks := etensor.NewFloat32([]int{ticks, be.N}, nil, []string{"Tick", "Neuron"})
	for t := 0; t < ticks; t++ {
		st := t * be.N
		for gi, rate := range rates {
			for ni := 0; ni < perGrp; ni++ {
				if frand(be.Rnd) < rate {
					spks.Values[st+gi*perGrp+ni] = 1
				}
			}
		}
	}
	return spks, nil
}

///////////////////////////////////////////////////////////////////////
//  CurrentSpikes

// encode.CurrentSpikes encodes a normalized current in [0, 1] as Bernoulli
// spike trains: every neuron spikes independently each tick with
// probability MaxProb * current.  Used for the climbing-fiber error input.
type CurrentSpikes struct {
	N       int        `desc:"number of neurons in the population"`
	MaxProb float32    `def:"1" min:"0" max:"1" desc:"scaling on the spike probability"`
	Rnd     *rand.Rand `view:"-" desc:"random source -- nil means the global source"`
}

func (ce *CurrentSpikes) Defaults() {
	ce.MaxProb = 1
}

// Encode returns a [ticks, N] binary spike train for the given current.
// The current must be in [0, 1].
func (ce *CurrentSpikes) Encode(current float32, ticks int) (*etensor.Float32, error) {
	if current < 0 || current > 1 {
		return nil, fmt.Errorf("CurrentSpikes: current %v must be in [0, 1]", current)
	}
	p := ce.MaxProb * current
	spks := etensor.NewFloat32([]int{ticks, ce.N}, nil, []string{"Tick", "Neuron"})
	for t := 0; t < ticks; t++ {
		st := t * ce.N
		for ni := 0; ni < ce.N; ni++ {
			if frand(ce.Rnd) < p {
				spks.Values[st+ni] = 1
			}
		}
	}
	return spks, nil
}
