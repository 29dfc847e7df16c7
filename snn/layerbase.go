// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/emer/emergent/emer"
	"github.com/emer/etable/etensor"
)

// snn.LayerStru manages the structural elements of a layer, which are common
// to all layer types: name, shape, type, and the projections in and out.
type LayerStru struct {
	Nm       string        `desc:"name of the layer -- layers are accessed directly by name in the network"`
	Cls      string        `desc:"class is for applying parameter styles, can be space separated multiple tags"`
	Off      bool          `desc:"inactivate this layer -- allows for easy experimentation"`
	Shp      etensor.Shape `desc:"shape of the layer -- can be 2D for basic layers or 4D for grouped (pool) structure -- the total number of neurons is the shape length"`
	Typ      LayerTypes    `desc:"type of layer, which determines how spikes are computed each tick"`
	Idx      int           `view:"-" desc:"index of this layer in the network's list of layers"`
	RcvPrjns []*Prjn       `desc:"list of receiving projections into this layer"`
	SndPrjns []*Prjn       `desc:"list of sending projections from this layer"`
}

func (ls *LayerStru) Name() string          { return ls.Nm }
func (ls *LayerStru) Label() string         { return ls.Nm }
func (ls *LayerStru) Class() string         { return ls.Typ.String() + " " + ls.Cls }
func (ls *LayerStru) SetClass(cls string)   { ls.Cls = cls }
func (ls *LayerStru) IsOff() bool           { return ls.Off }
func (ls *LayerStru) SetOff(off bool)       { ls.Off = off }
func (ls *LayerStru) Type() LayerTypes      { return ls.Typ }
func (ls *LayerStru) Shape() *etensor.Shape { return &ls.Shp }
func (ls *LayerStru) Index() int            { return ls.Idx }
func (ls *LayerStru) SetIndex(idx int)      { ls.Idx = idx }

// NUnits returns the total number of neurons in the layer (shape length).
func (ls *LayerStru) NUnits() int {
	return ls.Shp.Len()
}

// SetShape sets the layer shape, establishing standard dimension names
// for 2D and 4D shapes.
func (ls *LayerStru) SetShape(shape []int) {
	var dnms []string
	if len(shape) == 2 {
		dnms = emer.LayerDimNames2D
	} else if len(shape) == 4 {
		dnms = emer.LayerDimNames4D
	}
	ls.Shp.SetShape(shape, nil, dnms)
}

// RecvPrjnBySendName returns the receiving projection from the layer of the
// given name, nil if not found.  With multiple projections from the same
// sender, use the network's PrjnByName instead.
func (ls *LayerStru) RecvPrjnBySendName(sender string) *Prjn {
	for _, pj := range ls.RcvPrjns {
		if pj.Send.Name() == sender {
			return pj
		}
	}
	return nil
}
