// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package engine defines the port to the external actuator process.  The
controller sees the plant as a named key/value workspace that it reads
state from and writes commands to, stepped in lockstep with the network.
A missing key is always an error, never a silent zero.
*/
package engine

import (
	"context"
	"fmt"
)

// Engine is the handle to a stepped actuator simulation.  Implementations
// own the plant state; the controller only exchanges named scalars and
// vectors with the workspace between steps.  Reads and writes between two
// Step calls observe a consistent snapshot.
type Engine interface {
	// Start brings the engine up.  It must be called once before Step.
	Start(ctx context.Context) error

	// Step advances the plant by n engine ticks using the commands
	// currently written to the workspace.
	Step(ctx context.Context, n int) error

	// ReadVar returns the named scalar workspace variable.
	ReadVar(name string) (float64, error)

	// ReadVec returns a copy of the named vector workspace variable.
	ReadVec(name string) ([]float64, error)

	// WriteVar sets the named scalar workspace variable.
	WriteVar(name string, val float64) error

	// Reset restores the plant and workspace to their initial state.
	Reset() error

	// Close shuts the engine down.  The handle is unusable afterwards.
	Close() error
}

// KeyError is returned for any access to a workspace variable that the
// engine does not define.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("engine: no workspace variable named %q", e.Key)
}
