// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMuscleSimLifecycle(t *testing.T) {
	ms := NewMuscleSim()
	ctx := context.Background()
	if err := ms.Step(ctx, 1); err == nil {
		t.Errorf("Step before Start must fail")
	}
	if err := ms.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ms.Step(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if err := ms.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ms.Step(ctx, 1); err == nil {
		t.Errorf("Step after Close must fail")
	}
	if err := ms.Start(ctx); err == nil {
		t.Errorf("Start after Close must fail")
	}
}

func TestMuscleSimMissingKey(t *testing.T) {
	ms := NewMuscleSim()
	_, err := ms.ReadVar("bogus")
	var ke *KeyError
	if !errors.As(err, &ke) {
		t.Fatalf("expected KeyError, got %v", err)
	}
	if ke.Key != "bogus" {
		t.Errorf("KeyError names %q, want bogus", ke.Key)
	}
	if err := ms.WriteVar("bogus", 1); err == nil {
		t.Errorf("write to undefined variable must fail")
	}
}

func TestMuscleSimDynamics(t *testing.T) {
	ms := NewMuscleSim()
	ctx := context.Background()
	if err := ms.Start(ctx); err != nil {
		t.Fatal(err)
	}

	// no command: the plant stays at rest
	if err := ms.Step(ctx, 100); err != nil {
		t.Fatal(err)
	}
	pos, _ := ms.ReadVar(VarPos)
	if pos != 0 {
		t.Errorf("undriven plant moved to %v", pos)
	}

	// agonist command pulls positive, antagonist pulls negative
	if err := ms.WriteVar(VarCmd, 1); err != nil {
		t.Fatal(err)
	}
	if err := ms.Step(ctx, 500); err != nil {
		t.Fatal(err)
	}
	pos, _ = ms.ReadVar(VarPos)
	if pos <= 0 {
		t.Errorf("agonist drive should move position positive, got %v", pos)
	}

	if err := ms.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := ms.WriteVar(VarCmdAnti, 1); err != nil {
		t.Fatal(err)
	}
	if err := ms.Step(ctx, 500); err != nil {
		t.Fatal(err)
	}
	pos, _ = ms.ReadVar(VarPos)
	if pos >= 0 {
		t.Errorf("antagonist drive should move position negative, got %v", pos)
	}
}

func TestMuscleSimEquilibrium(t *testing.T) {
	ms := NewMuscleSim()
	ctx := context.Background()
	if err := ms.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ms.WriteVar(VarCmd, 0.5); err != nil {
		t.Fatal(err)
	}
	// run long enough to settle: pos -> Gain*cmd/Spring
	if err := ms.Step(ctx, 20000); err != nil {
		t.Fatal(err)
	}
	pos, _ := ms.ReadVar(VarPos)
	want := ms.Params.Gain * 0.5 / ms.Params.Spring
	if math.Abs(pos-want) > 0.05*want {
		t.Errorf("settled position %v, want ~%v", pos, want)
	}
}

func TestMuscleSimCancel(t *testing.T) {
	ms := NewMuscleSim()
	ctx, cancel := context.WithCancel(context.Background())
	if err := ms.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := ms.Step(ctx, 10); err == nil {
		t.Errorf("Step with canceled context must fail")
	}
}
