// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/curioloop/wolfe/linesearch"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration, read from a YAML file and overridden by flags and WOLFE_* variables.
type Config struct {
	Method     string    `yaml:"method"`
	C1         float64   `yaml:"c1"`
	C2         float64   `yaml:"c2"`
	Amax       float64   `yaml:"amax"` // zero means unbounded
	MaxIter    int       `yaml:"maxiter"`
	Alpha1Init float64   `yaml:"alpha1_init"`
	Problems   []string  `yaml:"problems"`
	Log        LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func defaultConfig() Config {
	return Config{
		Method: linesearch.NocedalWright.String(),
		Log:    LogConfig{Level: "warning"},
	}
}

// loadConfig reads the file named by the "config" key, then applies every key set in v.
func loadConfig(v *viper.Viper) (Config, error) {
	cfg := defaultConfig()

	if path := v.GetString("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v.IsSet("method") {
		cfg.Method = v.GetString("method")
	}
	if v.IsSet("c1") {
		cfg.C1 = v.GetFloat64("c1")
	}
	if v.IsSet("c2") {
		cfg.C2 = v.GetFloat64("c2")
	}
	if v.IsSet("amax") {
		cfg.Amax = v.GetFloat64("amax")
	}
	if v.IsSet("maxiter") {
		cfg.MaxIter = v.GetInt("maxiter")
	}
	if v.IsSet("alpha1_init") {
		cfg.Alpha1Init = v.GetFloat64("alpha1_init")
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.pretty") {
		cfg.Log.Pretty = v.GetBool("log.pretty")
	}

	_, _, err := cfg.searcher(nil)
	return cfg, err
}

// searcher resolves the configured method and options.
func (c *Config) searcher(logger *zerolog.Logger) (linesearch.Searcher, linesearch.Options, error) {
	method, err := linesearch.ParseMethod(c.Method)
	if err != nil {
		return nil, linesearch.Options{}, err
	}
	opts := linesearch.Options{
		C1:         c.C1,
		C2:         c.C2,
		MaxIter:    c.MaxIter,
		Alpha1Init: c.Alpha1Init,
		Logger:     logger,
	}
	if c.Amax != 0 {
		opts.StepMax = linesearch.Known(c.Amax)
	}
	if err = opts.Validate(); err != nil {
		return nil, opts, err
	}
	return linesearch.New(method), opts, nil
}
