// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// PeriodRec is one control period's metrics.
type PeriodRec struct {
	Run     string  `desc:"run id this period belongs to"`
	Period  int     `desc:"control period index within the run"`
	Err     float64 `desc:"tracking error driving the climbing fibers"`
	Cmd     float64 `desc:"decoded agonist command"`
	CmdAnti float64 `desc:"decoded antagonist command"`
	Pos     float64 `desc:"plant position at the start of the period"`
	PosRef  float64 `desc:"reference position for the period"`
}

// sim.Store is a sqlite-backed metrics store: one row per run, one row
// per control period, upserted on (run, period) so a restarted episode
// overwrites its own partial rows.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the metrics database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sim.Store: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	st := &Store{db: db}
	if err := st.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) createTables() error {
	_, err := st.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id      TEXT PRIMARY KEY,
			started TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS periods (
			run      TEXT NOT NULL,
			period   INTEGER NOT NULL,
			err      REAL NOT NULL,
			cmd      REAL NOT NULL,
			cmd_anti REAL NOT NULL,
			pos      REAL NOT NULL,
			pos_ref  REAL NOT NULL,
			PRIMARY KEY (run, period)
		);
	`)
	return err
}

// AddRun records a new run's metadata.
func (st *Store) AddRun(id string, started time.Time) error {
	_, err := st.db.Exec(`
		INSERT INTO runs (id, started) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET started = excluded.started
	`, id, started.UTC().Format(time.RFC3339))
	return err
}

// AddPeriod upserts one control period's metrics.
func (st *Store) AddPeriod(rec *PeriodRec) error {
	_, err := st.db.Exec(`
		INSERT INTO periods (run, period, err, cmd, cmd_anti, pos, pos_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run, period) DO UPDATE SET
			err = excluded.err,
			cmd = excluded.cmd,
			cmd_anti = excluded.cmd_anti,
			pos = excluded.pos,
			pos_ref = excluded.pos_ref
	`, rec.Run, rec.Period, rec.Err, rec.Cmd, rec.CmdAnti, rec.Pos, rec.PosRef)
	return err
}

// Periods returns all recorded periods for a run, in period order.
func (st *Store) Periods(run string) ([]PeriodRec, error) {
	rows, err := st.db.Query(`
		SELECT run, period, err, cmd, cmd_anti, pos, pos_ref
		FROM periods WHERE run = ? ORDER BY period
	`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []PeriodRec
	for rows.Next() {
		var r PeriodRec
		if err := rows.Scan(&r.Run, &r.Period, &r.Err, &r.Cmd, &r.CmdAnti, &r.Pos, &r.PosRef); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Close closes the underlying database.
func (st *Store) Close() error {
	return st.db.Close()
}
