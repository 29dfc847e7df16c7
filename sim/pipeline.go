// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ccnlab/cersim/encode"
	"github.com/ccnlab/cersim/engine"
	"github.com/ccnlab/cersim/motor"
	"github.com/ccnlab/cersim/snn"
	"github.com/emer/etable/etensor"
	"github.com/google/uuid"
)

// PipelineParams are the control-loop constants.
type PipelineParams struct {
	EncodeTicks  int     `def:"50" desc:"network ticks per control period -- also the spike encoding window"`
	EngTicks     int     `def:"50" desc:"engine ticks per control period"`
	Steps        int     `def:"100" desc:"control periods per episode"`
	Kx           float32 `def:"1" desc:"gain on the position tracking error"`
	Kv           float32 `def:"1" desc:"gain on the velocity tracking error"`
	VelOff       float32 `def:"15" desc:"offset added to velocity before encoding, keeping it non-negative"`
	OutLow       float32 `def:"0" desc:"lower bound of the decoded command range"`
	OutWidth     float32 `def:"1" desc:"width of the decoded command range"`
	SaveInterval int     `def:"5" desc:"control periods between weight checkpoints -- 0 disables checkpointing"`
	Seed         int64   `desc:"random seed for the spike encoders"`
}

func (pp *PipelineParams) Defaults() {
	pp.EncodeTicks = 50
	pp.EngTicks = 50
	pp.Steps = 100
	pp.Kx = 1
	pp.Kv = 1
	pp.VelOff = 15
	pp.OutLow = 0
	pp.OutWidth = 1
	pp.SaveInterval = 5
}

func (pp *PipelineParams) Update() {
}

// sim.Pipeline runs the closed sensorimotor loop: each control period it
// reads the plant state from the engine, computes the tracking error,
// encodes the reference trajectory and the error into spike trains, runs
// the network for one encoding window, decodes the deep nucleus output
// into antagonist commands, and steps the engine under those commands.
type Pipeline struct {
	Params  PipelineParams
	Net     *snn.Network
	Eng     engine.Engine
	Plan    *motor.Planner
	ErrCur  motor.ErrCurrentParams
	PosEnc  *encode.BernoulliRBF
	VelEnc  *encode.BernoulliRBF
	IOEnc   *encode.CurrentSpikes
	Dec     encode.RateDecoder
	Time    *snn.Time
	RunID   string
	RunDir  string `desc:"directory for weight checkpoints -- empty disables checkpointing"`
	Store   *Store `desc:"optional metrics store -- nil disables metric logging"`
	Log     *slog.Logger
	dcnMon  *snn.Monitor
	dcnAMon *snn.Monitor
	step    int
}

// NewPipeline assembles a pipeline around an already-built network and a
// started or startable engine.  The network must have monitors on the
// DCN and DCNAnti Spike variables, as CereNet builds them.
func NewPipeline(nt *snn.Network, eng engine.Engine, logger *slog.Logger) (*Pipeline, error) {
	pl := &Pipeline{Net: nt, Eng: eng, Log: logger}
	pl.Params.Defaults()
	pl.ErrCur.Defaults()
	pl.Plan = &motor.Planner{}
	pl.Plan.Defaults()

	mf, err := nt.LayerByNameTry(MF)
	if err != nil {
		return nil, err
	}
	half := mf.NUnits() / 2
	pl.PosEnc = &encode.BernoulliRBF{N: half}
	pl.PosEnc.Defaults()
	pl.VelEnc = &encode.BernoulliRBF{N: mf.NUnits() - half}
	pl.VelEnc.Defaults()

	io, err := nt.LayerByNameTry(IO)
	if err != nil {
		return nil, err
	}
	pl.IOEnc = &encode.CurrentSpikes{N: io.NUnits()}
	pl.IOEnc.Defaults()
	pl.Dec.Defaults()
	pl.Dec.Low = pl.Params.OutLow
	pl.Dec.Width = pl.Params.OutWidth

	for _, mn := range nt.Mons {
		switch mn.Lay.Name() {
		case DCN:
			pl.dcnMon = mn
		case DCNAnti:
			pl.dcnAMon = mn
		}
	}
	if pl.dcnMon == nil || pl.dcnAMon == nil {
		return nil, fmt.Errorf("Pipeline: network must monitor Spike on %v and %v", DCN, DCNAnti)
	}

	pl.Time = snn.NewTime()
	pl.RunID = uuid.New().String()
	if pl.Log == nil {
		pl.Log = slog.Default()
	}
	return pl, nil
}

// Reset returns the pipeline, network, and engine to their initial
// state, keeping learned weights.
func (pl *Pipeline) Reset() error {
	pl.step = 0
	pl.Time.Reset()
	pl.Net.InitState()
	return pl.Eng.Reset()
}

// Step runs one control period.  Errors from the engine boundary are
// fatal for the episode and returned for the caller to decide retry or
// abort.
func (pl *Pipeline) Step(ctx context.Context) error {
	pp := &pl.Params
	posRef, velRef, err := pl.Plan.Target(pl.step)
	if err != nil {
		return err
	}
	pos, err := pl.Eng.ReadVar(engine.VarPos)
	if err != nil {
		return err
	}
	vel, err := pl.Eng.ReadVar(engine.VarVel)
	if err != nil {
		return err
	}

	errSig := pp.Kx*(posRef-float32(pos)) + pp.Kv*(velRef-float32(vel))
	cur, curAnti := pl.ErrCur.Currents(errSig)

	exts, err := pl.encode(posRef, velRef, cur, curAnti)
	if err != nil {
		return err
	}

	pl.dcnMon.Reset()
	pl.dcnAMon.Reset()
	if err := pl.Net.RunTicks(pl.Time, pp.EncodeTicks, exts); err != nil {
		return err
	}

	cmd, cmdAnti, err := pl.decode()
	if err != nil {
		return err
	}
	if err := pl.Eng.WriteVar(engine.VarCmd, float64(cmd)); err != nil {
		return err
	}
	if err := pl.Eng.WriteVar(engine.VarCmdAnti, float64(cmdAnti)); err != nil {
		return err
	}
	if err := pl.Eng.Step(ctx, pp.EngTicks); err != nil {
		return err
	}

	pl.Log.Debug("control period",
		"run", pl.RunID, "period", pl.step,
		"pos", pos, "posRef", posRef, "err", errSig,
		"cmd", cmd, "cmdAnti", cmdAnti)

	if pl.Store != nil {
		rec := PeriodRec{
			Run: pl.RunID, Period: pl.step,
			Err: float64(errSig), Cmd: float64(cmd), CmdAnti: float64(cmdAnti),
			Pos: pos, PosRef: float64(posRef),
		}
		if err := pl.Store.AddPeriod(&rec); err != nil {
			return err
		}
	}

	pl.step++
	if pp.SaveInterval > 0 && pl.RunDir != "" && pl.step%pp.SaveInterval == 0 {
		fnm := filepath.Join(pl.RunDir, fmt.Sprintf("wts_%04d.wts.gz", pl.step))
		if err := pl.Net.SaveWtsJSON(fnm); err != nil {
			return err
		}
		pl.Log.Info("saved weights", "run", pl.RunID, "file", fnm)
	}
	return nil
}

// encode builds the external input map for one encoding window: the
// reference position and velocity onto the mossy fiber halves, the
// antagonist error currents onto the two olivary layers.
func (pl *Pipeline) encode(posRef, velRef, cur, curAnti float32) (map[string]*etensor.Float32, error) {
	pp := &pl.Params
	posSpk, err := pl.PosEnc.Encode(posRef, pp.EncodeTicks)
	if err != nil {
		return nil, err
	}
	velSpk, err := pl.VelEnc.Encode(velRef+pp.VelOff, pp.EncodeTicks)
	if err != nil {
		return nil, err
	}
	ioSpk, err := pl.IOEnc.Encode(cur, pp.EncodeTicks)
	if err != nil {
		return nil, err
	}
	ioASpk, err := pl.IOEnc.Encode(curAnti, pp.EncodeTicks)
	if err != nil {
		return nil, err
	}

	np := pl.PosEnc.N
	nv := pl.VelEnc.N
	mfSpk := etensor.NewFloat32([]int{pp.EncodeTicks, np + nv}, nil, []string{"Tick", "Neuron"})
	for t := 0; t < pp.EncodeTicks; t++ {
		copy(mfSpk.Values[t*(np+nv):t*(np+nv)+np], posSpk.Values[t*np:(t+1)*np])
		copy(mfSpk.Values[t*(np+nv)+np:(t+1)*(np+nv)], velSpk.Values[t*nv:(t+1)*nv])
	}

	return map[string]*etensor.Float32{
		MF:     mfSpk,
		IO:     ioSpk,
		IOAnti: ioASpk,
	}, nil
}

// decode turns the deep nucleus spike records from the last encoding
// window into the antagonist command pair.
func (pl *Pipeline) decode() (cmd, cmdAnti float32, err error) {
	spk, err := pl.dcnMon.Records("Spike")
	if err != nil {
		return 0, 0, err
	}
	cmd, err = pl.Dec.Decode(spk)
	if err != nil {
		return 0, 0, err
	}
	spkA, err := pl.dcnAMon.Records("Spike")
	if err != nil {
		return 0, 0, err
	}
	cmdAnti, err = pl.Dec.Decode(spkA)
	if err != nil {
		return 0, 0, err
	}
	return cmd, cmdAnti, nil
}

// Done reports whether the episode has used up all its control periods.
func (pl *Pipeline) Done() bool {
	return pl.step >= pl.Params.Steps
}

// Run executes one full episode: generate the reference trajectory,
// start the engine, and step until done or error.
func (pl *Pipeline) Run(ctx context.Context) error {
	pl.Dec.Low = pl.Params.OutLow
	pl.Dec.Width = pl.Params.OutWidth
	pl.Plan.Steps = pl.Params.Steps
	if err := pl.Plan.Generate(); err != nil {
		return err
	}
	if err := pl.Eng.Start(ctx); err != nil {
		return err
	}
	if pl.Store != nil {
		if err := pl.Store.AddRun(pl.RunID, time.Now()); err != nil {
			return err
		}
	}
	pl.Log.Info("episode start", "run", pl.RunID, "steps", pl.Params.Steps)
	start := time.Now()
	for !pl.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pl.Step(ctx); err != nil {
			return err
		}
	}
	pl.Log.Info("episode done", "run", pl.RunID, "elapsed", time.Since(start))
	return nil
}
