// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/prjn"
	"github.com/emer/emergent/weights"
	"github.com/goki/ki/indent"
)

// snn.NetworkStru holds the basic structural components of a network:
// the layers, the projections between them, and the monitors, in their
// insertion order, which is also the deterministic update order within
// every tick.
type NetworkStru struct {
	Nm     string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers []*Layer          `desc:"list of layers, in insertion order"`
	Prjns  []*Prjn           `desc:"list of projections, in insertion order -- each is also on its layers' RcvPrjns / SndPrjns lists"`
	Mons   []*Monitor        `desc:"list of monitors, sampled at the end of every tick"`
	LayMap map[string]*Layer `view:"-" desc:"map of name to layer -- layer names must be unique"`
	PjnMap map[string]*Prjn  `view:"-" desc:"map of name to projection -- projection names must be unique"`
}

// InitName initializes the network name -- call this when creating a new network.
func (nt *NetworkStru) InitName(name string) {
	nt.Nm = name
}

func (nt *NetworkStru) Name() string  { return nt.Nm }
func (nt *NetworkStru) Label() string { return nt.Nm }
func (nt *NetworkStru) NLayers() int  { return len(nt.Layers) }

// LayerByName returns a layer by looking it up by name in the layer map.
// Returns nil if not found.
func (nt *NetworkStru) LayerByName(name string) *Layer {
	if nt.LayMap == nil {
		nt.MakeMaps()
	}
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name,
// returning an error if the layer is not found.
func (nt *NetworkStru) LayerByNameTry(name string) (*Layer, error) {
	ly := nt.LayerByName(name)
	if ly == nil {
		return nil, fmt.Errorf("layer named: %v not found in Network: %v", name, nt.Nm)
	}
	return ly, nil
}

// PrjnByName returns a projection by looking it up by name in the
// projection map.  Returns nil if not found.
func (nt *NetworkStru) PrjnByName(name string) *Prjn {
	if nt.PjnMap == nil {
		nt.MakeMaps()
	}
	return nt.PjnMap[name]
}

// PrjnByNameTry returns a projection by looking it up by name,
// returning an error if the projection is not found.
func (nt *NetworkStru) PrjnByNameTry(name string) (*Prjn, error) {
	pj := nt.PrjnByName(name)
	if pj == nil {
		return nil, fmt.Errorf("projection named: %v not found in Network: %v", name, nt.Nm)
	}
	return pj, nil
}

// MakeMaps (re)builds the name-to-layer and name-to-projection maps.
func (nt *NetworkStru) MakeMaps() {
	nt.LayMap = make(map[string]*Layer, len(nt.Layers))
	for _, ly := range nt.Layers {
		nt.LayMap[ly.Name()] = ly
	}
	nt.PjnMap = make(map[string]*Prjn, len(nt.Prjns))
	for _, pj := range nt.Prjns {
		nt.PjnMap[pj.Name()] = pj
	}
}

// AddLayer adds a new layer with given name, shape, and type to the network,
// with default parameters.  2D and 4D shapes are assigned standard dimension
// names.  Layer names must be unique.
func (nt *NetworkStru) AddLayer(name string, shape []int, typ LayerTypes) *Layer {
	ly := &Layer{}
	ly.Nm = name
	ly.SetShape(shape)
	ly.Typ = typ
	ly.Defaults()
	nt.Layers = append(nt.Layers, ly)
	nt.MakeMaps()
	return ly
}

// AddLayer2D adds a new layer with given name and 2D shape to the network.
func (nt *NetworkStru) AddLayer2D(name string, shapeY, shapeX int, typ LayerTypes) *Layer {
	return nt.AddLayer(name, []int{shapeY, shapeX}, typ)
}

// ConnectLayers establishes a projection between two layers, using the
// given connectivity pattern, with the default name SendToRecv.
// A projection can be made before or after the layers are added to the
// network, but Build returns an error for any projection whose layers are
// not registered.
func (nt *NetworkStru) ConnectLayers(send, recv *Layer, pat prjn.Pattern, typ PrjnTypes) *Prjn {
	pj := &Prjn{}
	pj.Defaults()
	pj.Connect(send, recv, pat, typ)
	recv.RcvPrjns = append(recv.RcvPrjns, pj)
	send.SndPrjns = append(send.SndPrjns, pj)
	nt.Prjns = append(nt.Prjns, pj)
	nt.MakeMaps()
	return pj
}

// ConnectLayersNamed is ConnectLayers with an explicit projection name,
// for multiple projections between the same pair of layers (e.g., one
// plastic and one fixed pathway).
func (nt *NetworkStru) ConnectLayersNamed(name string, send, recv *Layer, pat prjn.Pattern, typ PrjnTypes) *Prjn {
	pj := nt.ConnectLayers(send, recv, pat, typ)
	pj.SetName(name)
	nt.MakeMaps()
	return pj
}

// AddMonitor attaches a monitor recording the given neuron variables of
// the named layer.  Returns an error for an unknown layer or variable.
func (nt *NetworkStru) AddMonitor(layNm string, varNms ...string) (*Monitor, error) {
	ly, err := nt.LayerByNameTry(layNm)
	if err != nil {
		return nil, err
	}
	mon, err := NewMonitor(ly, varNms...)
	if err != nil {
		return nil, err
	}
	nt.Mons = append(nt.Mons, mon)
	return mon, nil
}

// Build constructs the layer and projection state based on the layer shapes
// and patterns of interconnectivity.  All configuration errors -- duplicate
// names, unregistered layers referenced by projections, empty shapes --
// are collected and returned here, before any stepping can happen.
func (nt *NetworkStru) Build() error {
	nt.MakeMaps()
	emsg := ""
	if len(nt.LayMap) != len(nt.Layers) {
		emsg += fmt.Sprintf("Network %v: duplicate layer names\n", nt.Nm)
	}
	if len(nt.PjnMap) != len(nt.Prjns) {
		emsg += fmt.Sprintf("Network %v: duplicate projection names\n", nt.Nm)
	}
	for li, ly := range nt.Layers {
		ly.SetIndex(li)
		if ly.IsOff() {
			continue
		}
		if err := ly.Build(); err != nil {
			emsg += err.Error() + "\n"
		}
	}
	for _, pj := range nt.Prjns {
		if pj.Send == nil || pj.Recv == nil {
			emsg += fmt.Sprintf("Prjn %v: send or recv layer is nil\n", pj.String())
			continue
		}
		if nt.LayMap[pj.Send.Name()] != pj.Send {
			emsg += fmt.Sprintf("Prjn %v: send layer %v not in network\n", pj.Name(), pj.Send.Name())
			continue
		}
		if nt.LayMap[pj.Recv.Name()] != pj.Recv {
			emsg += fmt.Sprintf("Prjn %v: recv layer %v not in network\n", pj.Name(), pj.Recv.Name())
			continue
		}
		if pj.IsOff() {
			continue
		}
		if err := pj.Build(); err != nil {
			emsg += err.Error() + "\n"
		}
	}
	if emsg != "" {
		return errors.New(emsg)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// SaveWtsJSON saves network weights to a JSON-formatted file.
// If filename has .gz extension, then file is gzip compressed.
func (nt *NetworkStru) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		nt.WriteWtsJSON(gzr)
	} else {
		nt.WriteWtsJSON(fp)
	}
	return nil
}

// OpenWtsJSON opens network weights from a JSON-formatted file.
// If filename has .gz extension, then file is gzip uncompressed.
func (nt *NetworkStru) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		defer gzr.Close()
		if err != nil {
			log.Println(err)
			return err
		}
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weights from this network in a JSON text format.
func (nt *NetworkStru) WriteWtsJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm))) // note: can't use \n in `` so need "
	w.Write(indent.TabBytes(depth))
	onls := make([]*Layer, 0, len(nt.Layers))
	for _, ly := range nt.Layers {
		if !ly.IsOff() {
			onls = append(onls, ly)
		}
	}
	nl := len(onls)
	if nl == 0 {
		w.Write([]byte("\"Layers\": null\n"))
	} else {
		w.Write([]byte("\"Layers\": [\n"))
		depth++
		for li, ly := range onls {
			ly.WriteWtsJSON(w, depth)
			if li == nl-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}

// ReadWtsJSON reads network weights in a JSON text format.  Reads entire
// file into a temporary weights.Network structure that is then passed to
// Layers using the SetWts method.
func (nt *NetworkStru) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	err = nt.SetWts(nw)
	if err != nil {
		log.Println(err)
	}
	return err
}

// SetWts sets the weights for this network from weights.Network decoded values
func (nt *NetworkStru) SetWts(nw *weights.Network) error {
	var err error
	if nw.Network != "" {
		nt.Nm = nw.Network
	}
	for li := range nw.Layers {
		lw := &nw.Layers[li]
		ly, er := nt.LayerByNameTry(lw.Layer)
		if er != nil {
			err = er
			continue
		}
		ly.SetWts(lw)
	}
	return err
}

//////////////////////////////////////////////////////////////////////////////////////
//  Misc reports

// SizeReport returns a string reporting the size of each layer and
// projection in the network, and the total memory footprint.
func (nt *NetworkStru) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, ly := range nt.Layers {
		nn := len(ly.Neurons)
		nmem := nn * int(unsafe.Sizeof(Neuron{}))
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", ly.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, pj := range ly.SndPrjns {
			ns := len(pj.Syns)
			syn += ns
			pmem := ns*int(unsafe.Sizeof(Synapse{})) + len(pj.GInc)*4
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynMem: %v\n", pj.Recv.Name(), ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
