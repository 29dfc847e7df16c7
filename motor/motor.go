// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package motor holds the sensorimotor transforms that sit between the
network and the actuator: the error-to-current mapping that drives the
climbing-fiber inputs, and the reference trajectory planner.
*/
package motor

import (
	"github.com/chewxy/math32"
)

// motor.ErrCurrentParams maps a signed tracking error onto a pair of
// normalized climbing-fiber currents, one per antagonist channel.  The
// active channel follows a logistic saturation of the error magnitude,
// the silent one stays at the base current.  Both outputs are divided
// by Max so they land in [0, 1] for the spike encoder.
type ErrCurrentParams struct {
	Base float32 `def:"0.15" desc:"resting current, delivered to both channels when the error is zero"`
	Max  float32 `def:"0.8" desc:"saturating current for large errors -- also the normalization factor"`
	Gain float32 `def:"10" desc:"logistic gain on the error"`
	Off  float32 `def:"5" desc:"logistic offset -- error where the curve reaches half saturation is Off / Gain"`
}

func (ec *ErrCurrentParams) Defaults() {
	ec.Base = 0.15
	ec.Max = 0.8
	ec.Gain = 10
	ec.Off = 5
}

func (ec *ErrCurrentParams) Update() {
}

// active is the logistic current for the channel driven by the error.
func (ec *ErrCurrentParams) active(err float32) float32 {
	return ec.Base + (ec.Max-ec.Base)/(1+math32.Exp(-ec.Gain*err+ec.Off))
}

// Currents returns the normalized (agonist, antagonist) current pair for
// a signed error.  Positive errors drive the agonist channel, negative
// errors the antagonist, and the other channel stays at base.
func (ec *ErrCurrentParams) Currents(err float32) (cur, curAnti float32) {
	if err > 0 {
		cur = ec.active(err) / ec.Max
		curAnti = ec.Base / ec.Max
	} else {
		cur = ec.Base / ec.Max
		curAnti = ec.active(-err) / ec.Max
	}
	return
}
