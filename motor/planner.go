// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// motor.Planner generates the reference trajectory that the controller
// tracks: a sinusoidal position profile and its velocity, sampled once
// per control period.  Base and Amp are chosen so positions stay
// non-negative for the downstream RBF encoder.
type Planner struct {
	Steps int       `def:"100" desc:"number of control periods in one episode"`
	Base  float32   `def:"15" desc:"center of the position profile"`
	Amp   float32   `def:"10" desc:"amplitude of the position profile -- must not exceed Base"`
	Cycle int       `def:"100" desc:"number of control periods per full sine cycle"`
	Pos   []float32 `view:"-" desc:"generated position reference, per control period"`
	Vel   []float32 `view:"-" desc:"generated velocity reference, per control period"`
}

func (pl *Planner) Defaults() {
	pl.Steps = 100
	pl.Base = 15
	pl.Amp = 10
	pl.Cycle = 100
}

// Generate computes the Pos and Vel profiles.  Velocity is the analytic
// derivative in units of position per control period.
func (pl *Planner) Generate() error {
	if pl.Steps <= 0 || pl.Cycle <= 0 {
		return fmt.Errorf("Planner: Steps %v and Cycle %v must be > 0", pl.Steps, pl.Cycle)
	}
	if pl.Amp > pl.Base {
		return fmt.Errorf("Planner: Amp %v exceeds Base %v -- positions would go negative", pl.Amp, pl.Base)
	}
	omega := 2 * math32.Pi / float32(pl.Cycle)
	pl.Pos = make([]float32, pl.Steps)
	pl.Vel = make([]float32, pl.Steps)
	for i := 0; i < pl.Steps; i++ {
		ph := omega * float32(i)
		pl.Pos[i] = pl.Base + pl.Amp*math32.Sin(ph)
		pl.Vel[i] = pl.Amp * omega * math32.Cos(ph)
	}
	return nil
}

// Target returns the (pos, vel) reference for the given control period.
func (pl *Planner) Target(step int) (pos, vel float32, err error) {
	if step < 0 || step >= len(pl.Pos) {
		return 0, 0, fmt.Errorf("Planner: step %v out of range [0, %v)", step, len(pl.Pos))
	}
	return pl.Pos[step], pl.Vel[step], nil
}
