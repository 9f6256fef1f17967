// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xwire inspects X servers and captured X11 messages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/BurntSushi/xwire"
	"github.com/BurntSushi/xwire/shape"
	"github.com/BurntSushi/xwire/xinerama"
	"github.com/BurntSushi/xwire/xproto"
)

// extensions lists every extension the command knows how to register.
var extensions = map[string]func(*xwire.Registry) error{
	xinerama.ExtName: xinerama.Register,
	shape.ExtName:    shape.Register,
}

type globalFlags struct {
	configPath string
	display    string
	verbose    bool

	cfg    config
	logger *slog.Logger
}

func main() {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "xwire",
		Short: "Inspect X servers and X11 protocol messages",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&g.display, "display", "", "X display to connect to (default $DISPLAY)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log protocol traffic")

	rootCmd.AddCommand(
		infoCmd(g),
		decodeCmd(g),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// load reads the configuration file and sets up logging. Flags win over
// the file.
func (g *globalFlags) load() error {
	cfg := defaultConfig()
	if g.configPath != "" {
		var err error
		if cfg, err = loadConfig(g.configPath); err != nil {
			return err
		}
	}
	if g.display != "" {
		cfg.Display = g.display
	}
	if g.verbose {
		cfg.LogLevel = "debug"
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// registry registers the core protocol and the configured extensions.
func (g *globalFlags) registry() (*xwire.Registry, error) {
	reg := xwire.NewRegistry()
	if err := xproto.Register(reg); err != nil {
		return nil, err
	}
	names := g.cfg.Extensions
	if len(names) == 0 {
		for name := range extensions {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		register, ok := extensions[strings.ToUpper(name)]
		if !ok {
			return nil, errors.Errorf("unknown extension %q", name)
		}
		if err := register(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
