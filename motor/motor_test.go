// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motor

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestCurrentsSign(t *testing.T) {
	ec := &ErrCurrentParams{}
	ec.Defaults()
	baseNorm := ec.Base / ec.Max

	cur, anti := ec.Currents(2)
	if anti != baseNorm {
		t.Errorf("positive error: antagonist should be at base, got %v want %v", anti, baseNorm)
	}
	if cur <= baseNorm {
		t.Errorf("positive error: agonist %v should be above base %v", cur, baseNorm)
	}

	cur, anti = ec.Currents(-2)
	if cur != baseNorm {
		t.Errorf("negative error: agonist should be at base, got %v want %v", cur, baseNorm)
	}
	if anti <= baseNorm {
		t.Errorf("negative error: antagonist %v should be above base %v", anti, baseNorm)
	}
}

func TestCurrentsRange(t *testing.T) {
	ec := &ErrCurrentParams{}
	ec.Defaults()
	for _, e := range []float32{-100, -2, -0.5, 0, 0.5, 2, 100} {
		cur, anti := ec.Currents(e)
		if cur < 0 || cur > 1 || anti < 0 || anti > 1 {
			t.Errorf("currents out of [0, 1] for error %v: %v, %v", e, cur, anti)
		}
	}
	// large errors saturate at 1
	cur, _ := ec.Currents(100)
	if math32.Abs(cur-1) > 1e-4 {
		t.Errorf("agonist should saturate at 1 for large error, got %v", cur)
	}
}

func TestCurrentsMonotone(t *testing.T) {
	ec := &ErrCurrentParams{}
	ec.Defaults()
	prev := float32(-1)
	for _, e := range []float32{0.1, 0.3, 0.5, 0.7, 1, 2} {
		cur, _ := ec.Currents(e)
		if cur <= prev {
			t.Errorf("agonist current must grow with error: %v at %v after %v", cur, e, prev)
		}
		prev = cur
	}
}

func TestPlanner(t *testing.T) {
	pl := &Planner{}
	pl.Defaults()
	if err := pl.Generate(); err != nil {
		t.Fatal(err)
	}
	if len(pl.Pos) != pl.Steps || len(pl.Vel) != pl.Steps {
		t.Fatalf("profiles have %v, %v entries, want %v", len(pl.Pos), len(pl.Vel), pl.Steps)
	}
	for i, p := range pl.Pos {
		if p < 0 {
			t.Errorf("position %v at step %v is negative", p, i)
		}
	}
	pos, vel, err := pl.Target(0)
	if err != nil {
		t.Fatal(err)
	}
	if math32.Abs(pos-pl.Base) > 1e-5 {
		t.Errorf("start position: got %v, want %v", pos, pl.Base)
	}
	if vel <= 0 {
		t.Errorf("start velocity should be positive, got %v", vel)
	}
	if _, _, err := pl.Target(pl.Steps); err == nil {
		t.Errorf("expected error for out-of-range step")
	}
}

func TestPlannerErrors(t *testing.T) {
	pl := &Planner{Steps: 10, Base: 1, Amp: 5, Cycle: 10}
	if err := pl.Generate(); err == nil {
		t.Errorf("expected error when Amp exceeds Base")
	}
	pl = &Planner{Steps: 0, Base: 1, Amp: 1, Cycle: 10}
	if err := pl.Generate(); err == nil {
		t.Errorf("expected error for zero Steps")
	}
}
