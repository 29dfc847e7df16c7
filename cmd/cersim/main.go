// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cersim runs the cerebellar spiking network controller against the
// built-in muscle plant.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccnlab/cersim/engine"
	"github.com/ccnlab/cersim/sim"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cersim",
		Short: "Cerebellar spiking network motor controller",
		Long: `cersim simulates a spiking cerebellar microcircuit learning to drive
an antagonist muscle pair along a reference trajectory, with
error-driven climbing fiber plasticity on the parallel fibers.`,
	}

	rootCmd.PersistentFlags().String("config", "", "yaml config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cersim version %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a training episode in the closed sensorimotor loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if steps, _ := cmd.Flags().GetInt("steps"); steps > 0 {
				cfg.Pipeline.Steps = steps
			}
			if dir, _ := cmd.Flags().GetString("run-dir"); dir != "" {
				cfg.RunDir = dir
			}
			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.DB = db
			}
			if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
				cfg.Pipeline.Seed = seed
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.LogLevel = lvl
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			return runEpisode(cmd, cfg, logger)
		},
	}
	cmd.Flags().Int("steps", 0, "control periods to run (0 = config value)")
	cmd.Flags().String("run-dir", "", "directory for weight checkpoints")
	cmd.Flags().String("db", "", "sqlite metrics database path")
	cmd.Flags().Int64("seed", 0, "random seed for the spike encoders")
	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func runEpisode(cmd *cobra.Command, cfg *Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nt, err := sim.CereNet(&cfg.Net)
	if err != nil {
		return err
	}
	logger.Info("network built", "sizes", nt.SizeReport())

	eng := engine.NewMuscleSim()
	eng.Params = cfg.Engine
	defer eng.Close()

	pl, err := sim.NewPipeline(nt, eng, logger)
	if err != nil {
		return err
	}
	pl.Params = cfg.Pipeline
	*pl.Plan = cfg.Plan
	pl.RunDir = cfg.RunDir
	if cfg.RunDir != "" {
		if err := os.MkdirAll(cfg.RunDir, 0o755); err != nil {
			return err
		}
	}
	if cfg.Pipeline.Seed != 0 {
		rnd := rand.New(rand.NewSource(cfg.Pipeline.Seed))
		pl.PosEnc.Rnd = rnd
		pl.VelEnc.Rnd = rnd
		pl.IOEnc.Rnd = rnd
	}
	if cfg.DB != "" {
		st, err := sim.OpenStore(cfg.DB)
		if err != nil {
			return err
		}
		defer st.Close()
		pl.Store = st
	}

	return pl.Run(ctx)
}
