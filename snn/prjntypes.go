// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/goki/ki/kit"
)

// PrjnTypes is the role of a projection in the network, used for class-based
// naming and for sign conventions in weight initialization.  The current
// contribution of a projection is always its (signed) weights times the
// sending spikes, regardless of type.
type PrjnTypes int

//go:generate stringer -type=PrjnTypes

var KiT_PrjnTypes = kit.Enums.AddEnum(PrjnTypesN, false, nil)

func (ev PrjnTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *PrjnTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Forward is a standard excitatory feedforward projection, with
	// non-negative weights by convention.
	Forward PrjnTypes = iota

	// Inhib is an inhibitory projection, with non-positive weights by
	// convention (e.g., Purkinje output onto the deep nuclei).
	Inhib

	// Teach is a supervisory (climbing-fiber style) projection, carrying an
	// externally generated error signal rather than learned correlations.
	Teach

	PrjnTypesN
)
