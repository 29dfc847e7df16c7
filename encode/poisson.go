// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// encode.Poisson encodes a vector of non-negative firing rates (in Hz) as
// spike trains with Poisson-distributed inter-spike intervals, incremented
// by one tick to avoid zero intervals.
type Poisson struct {
	Rnd *rand.Rand `view:"-" desc:"random source -- nil means the global source"`
}

// Encode returns a [ticks, len(rates)] binary spike train.  A zero rate
// produces no spikes for that neuron.  Rates must be non-negative.
func (pe *Poisson) Encode(rates []float32, ticks int) (*etensor.Float32, error) {
	n := len(rates)
	spks := etensor.NewFloat32([]int{ticks, n}, nil, []string{"Tick", "Neuron"})
	for ni, r := range rates {
		if r < 0 {
			return nil, fmt.Errorf("Poisson: rate %v for neuron %v must be non-negative", r, ni)
		}
		if r == 0 {
			continue
		}
		// mean inter-spike interval in ticks, for rate in Hz at 1 ms ticks
		isi := 1000 / r
		t := 0
		for {
			iv := poissonDraw(pe.Rnd, isi)
			if iv == 0 {
				iv = 1
			}
			t += iv
			if t > ticks {
				break
			}
			spks.Values[(t-1)*n+ni] = 1
		}
	}
	return spks, nil
}

// poissonDraw samples from a Poisson distribution with the given mean,
// using Knuth's product method for small means and a Gaussian
// approximation for large ones.
func poissonDraw(rnd *rand.Rand, mean float32) int {
	if mean > 30 {
		g := mean + math32.Sqrt(mean)*gauss(rnd)
		if g < 0 {
			return 0
		}
		return int(g + 0.5)
	}
	l := math32.Exp(-mean)
	k := 0
	p := float32(1)
	for {
		p *= frand(rnd)
		if p <= l {
			return k
		}
		k++
	}
}

func gauss(rnd *rand.Rand) float32 {
	if rnd == nil {
		return float32(rand.NormFloat64())
	}
	return float32(rnd.NormFloat64())
}
