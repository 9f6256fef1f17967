// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config is the YAML configuration file.
type config struct {
	Display  string `yaml:"display"`
	LogLevel string `yaml:"log_level"`
	// Extensions restricts the extensions that are registered. Empty means
	// all of them.
	Extensions []string `yaml:"extensions"`
}

func defaultConfig() config {
	return config{LogLevel: "warn"}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

func (c config) level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Errorf("unknown log level %q", c.LogLevel)
}
