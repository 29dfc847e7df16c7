// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// encode.RateDecoder decodes a recorded [ticks, n] binary spike train back
// into a scalar: the mean spike rate across all neurons and ticks, affinely
// rescaled into the range [Low, Low + Width].
type RateDecoder struct {
	Low   float32 `desc:"lower bound of the decoded output range"`
	Width float32 `def:"8" desc:"width of the decoded output range"`
}

func (rd *RateDecoder) Defaults() {
	rd.Low = 0
	rd.Width = 8
}

// Decode returns the rescaled mean rate of the given spike train.
func (rd *RateDecoder) Decode(spikes *etensor.Float32) (float32, error) {
	if spikes.NumDims() != 2 {
		return 0, fmt.Errorf("RateDecoder: spikes must be 2D [ticks, n], got %v dims", spikes.NumDims())
	}
	ticks := spikes.Dim(0)
	n := spikes.Dim(1)
	if ticks == 0 || n == 0 {
		return rd.Low, nil
	}
	sum := float32(0)
	for _, v := range spikes.Values {
		sum += v
	}
	rate := sum / float32(ticks) / float32(n)
	return rd.Width*rate + rd.Low, nil
}
