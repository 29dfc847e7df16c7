// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/goki/ki/kit"
)

// LayerTypes is the set of layer (neuron population) variants, which
// determines how the layer's spikes are computed each tick.
type LayerTypes int

//go:generate stringer -type=LayerTypes

var KiT_LayerTypes = kit.Enums.AddEnum(LayerTypesN, false, nil)

func (ev LayerTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LayerTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Input layers have no membrane dynamics: their spike vector is supplied
	// externally every tick (e.g., from an encoder), and is zero on ticks
	// where no input is applied.
	Input LayerTypes = iota

	// LIF layers compute leaky integrate-and-fire membrane dynamics from their
	// accumulated input current, spiking at threshold with reset and refractory.
	LIF

	// LIFTrain layers behave as LIF, but their computed spikes can be
	// overridden by an externally supplied training spike vector on ticks
	// where one is provided (supervised forcing).
	LIFTrain

	LayerTypesN
)
