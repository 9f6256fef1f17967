// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/BurntSushi/xwire"
	"github.com/BurntSushi/xwire/xinerama"
	"github.com/BurntSushi/xwire/xproto"
)

func infoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the setup, screens and extensions of an X server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.registry()
			if err != nil {
				return err
			}
			X, err := xwire.Connect(g.cfg.Display, reg, xwire.WithLogger(g.logger))
			if err != nil {
				return err
			}
			defer X.Close()
			return printInfo(cmd.OutOrStdout(), X)
		},
	}
}

func printInfo(w io.Writer, X *xwire.Conn) error {
	setup, err := xproto.Setup(X)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "vendor:           %s (release %d)\n", setup.Vendor, setup.ReleaseNumber)
	fmt.Fprintf(w, "protocol:         %d.%d\n", setup.ProtocolMajorVersion, setup.ProtocolMinorVersion)
	fmt.Fprintf(w, "max request size: %d bytes\n", 4*int(setup.MaximumRequestLength))
	for i, screen := range setup.Roots {
		fmt.Fprintf(w, "screen %d:         root 0x%x, %dx%d pixels, depth %d, %d depths\n",
			i, screen.Root, screen.WidthInPixels, screen.HeightInPixels,
			screen.RootDepth, len(screen.AllowedDepths))
	}

	fmt.Fprintln(w, "extensions:")
	for _, info := range X.Extensions() {
		if !info.Present {
			fmt.Fprintf(w, "  %-16s not present\n", info.Name)
			continue
		}
		fmt.Fprintf(w, "  %-16s opcode %d, first event %d, first error %d\n",
			info.Name, info.MajorOpcode, info.FirstEvent, info.FirstError)
	}

	server, err := xproto.ListExtensions(X).Reply()
	if err != nil {
		return errors.Wrap(err, "listing extensions")
	}
	fmt.Fprintf(w, "server extensions: %d\n", len(server.Names))
	for _, name := range server.Names {
		fmt.Fprintf(w, "  %s\n", name.Name)
	}

	if _, err := X.Extension(xinerama.ExtName); err == nil {
		heads, err := xinerama.QueryScreens(X).Reply()
		if err != nil {
			return errors.Wrap(err, "querying xinerama")
		}
		for i, head := range heads.ScreenInfo {
			fmt.Fprintf(w, "head %d:           %dx%d+%d+%d\n",
				i, head.Width, head.Height, head.XOrg, head.YOrg)
		}
	}
	return nil
}
