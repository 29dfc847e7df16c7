// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package snn provides a discrete-time spiking neural network simulation core,
modeling populations of leaky integrate-and-fire neurons connected by
weighted projections with optional spike-timing-dependent plasticity.

The primary structures are:

* Network has a list of Layers and methods for running the simulation
one Tick at a time, with a fixed phase order within each tick: zero input
accumulators, propagate previous-tick spikes through projections, update
neuron dynamics, apply plasticity, record monitors.

* Layer has a list of Neurons, with all the neuron state variables as
simple float32 values, accessible by name for monitoring.

* Prjn is a projection between two layers, with a Synapse per connected
unit pair, organized by the sending layer, and connectivity determined
by a prjn.Pattern (full, sparse random, pooled).

Spikes propagate with a one-tick delay: every projection reads the spike
vector its sending layer produced on the previous tick.  This makes the
update synchronous and order-independent across projections within a tick.
*/
package snn
