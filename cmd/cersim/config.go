// Copyright (c) 2024, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/ccnlab/cersim/engine"
	"github.com/ccnlab/cersim/motor"
	"github.com/ccnlab/cersim/sim"
	"gopkg.in/yaml.v3"
)

// Config is the yaml run configuration.  Zero-valued sections take the
// package defaults; flags override individual fields after loading.
type Config struct {
	Net      sim.CereParams         `yaml:"net"`
	Pipeline sim.PipelineParams     `yaml:"pipeline"`
	Plan     motor.Planner          `yaml:"plan"`
	Engine   engine.MuscleSimParams `yaml:"engine"`
	RunDir   string                 `yaml:"run_dir"`
	DB       string                 `yaml:"db"`
	LogLevel string                 `yaml:"log_level"`
}

// DefaultConfig returns a Config with all package defaults filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Net.Defaults()
	cfg.Pipeline.Defaults()
	cfg.Plan.Defaults()
	cfg.Engine.Defaults()
	cfg.LogLevel = "info"
	return cfg
}

// LoadConfig reads a yaml config over the defaults.  An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, nil
}
