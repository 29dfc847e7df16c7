// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"fmt"
)

// Workspace variable names defined by MuscleSim.
const (
	VarPos     = "pos"
	VarVel     = "vel"
	VarCmd     = "cmd"
	VarCmdAnti = "cmd_anti"
)

// MuscleSimParams are the plant constants for the antagonist muscle pair.
type MuscleSimParams struct {
	Dt     float64 `def:"0.001" desc:"engine integration time step, in seconds"`
	Mass   float64 `def:"1" desc:"load mass"`
	Spring float64 `def:"2" desc:"passive spring constant pulling the load back to zero"`
	Damp   float64 `def:"1" desc:"velocity damping"`
	Gain   float64 `def:"50" desc:"force per unit of net command"`
}

func (mp *MuscleSimParams) Defaults() {
	mp.Dt = 0.001
	mp.Mass = 1
	mp.Spring = 2
	mp.Damp = 1
	mp.Gain = 50
}

func (mp *MuscleSimParams) Update() {
}

// engine.MuscleSim is an in-process Engine backed by a spring-damper
// model of an antagonist muscle pair.  The two command variables pull in
// opposite directions; their difference drives the load against a
// passive spring and damping.  It stands in for the external actuator
// process in tests and self-contained runs.
type MuscleSim struct {
	Params  MuscleSimParams
	pos     float64
	vel     float64
	cmd     float64
	cmdAnti float64
	started bool
	closed  bool
}

// NewMuscleSim returns a MuscleSim with default plant constants.
func NewMuscleSim() *MuscleSim {
	ms := &MuscleSim{}
	ms.Params.Defaults()
	return ms
}

func (ms *MuscleSim) Start(ctx context.Context) error {
	if ms.closed {
		return fmt.Errorf("engine: MuscleSim is closed")
	}
	ms.started = true
	return nil
}

func (ms *MuscleSim) Step(ctx context.Context, n int) error {
	if !ms.started || ms.closed {
		return fmt.Errorf("engine: MuscleSim not running")
	}
	mp := &ms.Params
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		force := mp.Gain*(ms.cmd-ms.cmdAnti) - mp.Spring*ms.pos - mp.Damp*ms.vel
		acc := force / mp.Mass
		ms.vel += mp.Dt * acc
		ms.pos += mp.Dt * ms.vel
	}
	return nil
}

func (ms *MuscleSim) ReadVar(name string) (float64, error) {
	switch name {
	case VarPos:
		return ms.pos, nil
	case VarVel:
		return ms.vel, nil
	case VarCmd:
		return ms.cmd, nil
	case VarCmdAnti:
		return ms.cmdAnti, nil
	}
	return 0, &KeyError{Key: name}
}

func (ms *MuscleSim) ReadVec(name string) ([]float64, error) {
	v, err := ms.ReadVar(name)
	if err != nil {
		return nil, err
	}
	return []float64{v}, nil
}

func (ms *MuscleSim) WriteVar(name string, val float64) error {
	switch name {
	case VarCmd:
		ms.cmd = val
	case VarCmdAnti:
		ms.cmdAnti = val
	case VarPos:
		ms.pos = val
	case VarVel:
		ms.vel = val
	default:
		return &KeyError{Key: name}
	}
	return nil
}

func (ms *MuscleSim) Reset() error {
	ms.pos = 0
	ms.vel = 0
	ms.cmd = 0
	ms.cmdAnti = 0
	return nil
}

func (ms *MuscleSim) Close() error {
	ms.closed = true
	ms.started = false
	return nil
}
