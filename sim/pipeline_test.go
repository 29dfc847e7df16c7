// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccnlab/cersim/engine"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestPipelineEpisode(t *testing.T) {
	cp := &CereParams{}
	cp.Defaults()
	nt, err := CereNet(cp)
	if err != nil {
		t.Fatal(err)
	}
	eng := engine.NewMuscleSim()
	pl, err := NewPipeline(nt, eng, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(17))
	pl.PosEnc.Rnd = rnd
	pl.VelEnc.Rnd = rnd
	pl.IOEnc.Rnd = rnd

	dir := t.TempDir()
	pl.RunDir = dir
	pl.Params.Steps = 4
	pl.Params.SaveInterval = 2

	st, err := OpenStore(filepath.Join(dir, "metrics.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	pl.Store = st

	if err := pl.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !pl.Done() {
		t.Errorf("pipeline should be done after Run")
	}

	recs, err := st.Periods(pl.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("store has %v period rows, want 4", len(recs))
	}
	for i, r := range recs {
		if r.Period != i {
			t.Errorf("period row %v has index %v", i, r.Period)
		}
		if r.Cmd < 0 || r.Cmd > 1 || r.CmdAnti < 0 || r.CmdAnti > 1 {
			t.Errorf("commands out of [0, 1] in period %v: %v, %v", i, r.Cmd, r.CmdAnti)
		}
	}

	// checkpoints written on the save interval
	for _, fnm := range []string{"wts_0002.wts.gz", "wts_0004.wts.gz"} {
		if _, err := os.Stat(filepath.Join(dir, fnm)); err != nil {
			t.Errorf("missing checkpoint %v: %v", fnm, err)
		}
	}
}

func TestPipelineReset(t *testing.T) {
	cp := &CereParams{}
	cp.Defaults()
	nt, err := CereNet(cp)
	if err != nil {
		t.Fatal(err)
	}
	eng := engine.NewMuscleSim()
	pl, err := NewPipeline(nt, eng, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	pl.Params.Steps = 2
	pl.Params.SaveInterval = 0
	if err := pl.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := pl.Reset(); err != nil {
		t.Fatal(err)
	}
	if pl.Done() {
		t.Errorf("pipeline should not be done after Reset")
	}
	if pl.Time.TickTot != 0 {
		t.Errorf("time not reset: TickTot = %v", pl.Time.TickTot)
	}
}

func TestStoreUpsert(t *testing.T) {
	st, err := OpenStore(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	rec := PeriodRec{Run: "r1", Period: 0, Err: 1, Cmd: 0.5, CmdAnti: 0.1, Pos: 0, PosRef: 15}
	if err := st.AddPeriod(&rec); err != nil {
		t.Fatal(err)
	}
	rec.Cmd = 0.7
	if err := st.AddPeriod(&rec); err != nil {
		t.Fatal(err)
	}
	recs, err := st.Periods("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("upsert produced %v rows, want 1", len(recs))
	}
	if recs[0].Cmd != 0.7 {
		t.Errorf("upsert kept cmd %v, want 0.7", recs[0].Cmd)
	}
	if recs, _ := st.Periods("nope"); len(recs) != 0 {
		t.Errorf("unknown run returned %v rows", len(recs))
	}
}
