// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/BurntSushi/xwire"
)

func decodeCmd(g *globalFlags) *cobra.Command {
	var binds []string

	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a captured server message",
		Long: `Decode an event, error or reply captured from the wire.

Extensions live at different offsets on every server. Use --bind to say
where: --bind SHAPE=129,64,0 places SHAPE at major opcode 129, first event
64 and first error 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.registry()
			if err != nil {
				return err
			}
			bound := make([]xwire.ExtensionInfo, 0, len(binds))
			for _, b := range binds {
				info, err := parseBind(b)
				if err != nil {
					return err
				}
				bound = append(bound, info)
			}
			raw, err := parseHex(args[0])
			if err != nil {
				return err
			}
			return decodeMessage(cmd.OutOrStdout(), reg, bound, raw)
		},
	}
	cmd.Flags().StringArrayVar(&binds, "bind", nil, "Extension binding NAME=opcode,event,error")
	return cmd
}

// parseBind reads NAME=opcode,event,error.
func parseBind(s string) (xwire.ExtensionInfo, error) {
	name, nums, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return xwire.ExtensionInfo{}, errors.Errorf("binding %q: want NAME=opcode,event,error", s)
	}
	fields := strings.Split(nums, ",")
	if len(fields) != 3 {
		return xwire.ExtensionInfo{}, errors.Errorf("binding %q: want three numbers", s)
	}
	var vals [3]byte
	for i, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 0, 8)
		if err != nil {
			return xwire.ExtensionInfo{}, errors.Wrapf(err, "binding %q", s)
		}
		vals[i] = byte(n)
	}
	return xwire.ExtensionInfo{
		Name:        strings.ToUpper(name),
		Present:     true,
		MajorOpcode: vals[0],
		FirstEvent:  vals[1],
		FirstError:  vals[2],
	}, nil
}

// parseHex accepts hex with optional whitespace and 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Join(strings.Fields(s), "")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "message is not hex")
	}
	if len(raw) < xwire.MessageSize {
		return nil, errors.Wrapf(xwire.ErrBounds, "message of %d bytes, want at least %d",
			len(raw), xwire.MessageSize)
	}
	return raw, nil
}

func owner(res xwire.Resolution) string {
	if res.Extension == "" {
		return "unknown"
	}
	return res.Extension
}

func decodeMessage(w io.Writer, reg *xwire.Registry, bound []xwire.ExtensionInfo, raw []byte) error {
	dispatch, err := xwire.NewDispatchMap(reg, bound)
	if err != nil {
		return err
	}
	switch raw[0] {
	case xwire.ErrorCode:
		xerr, res, err := dispatch.DecodeError(raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "error from %s (%d): %v\n", owner(res), res.Index, xerr)
	case xwire.ReplyCode:
		h := xwire.ReadReplyHeader(xwire.NewCursor(raw))
		fmt.Fprintf(w, "reply to sequence %d: %d bytes (detail %d)\n",
			h.Sequence, h.PayloadMax(), h.Detail)
		if h.PayloadMax() != len(raw) {
			fmt.Fprintf(w, "warning: captured %d bytes\n", len(raw))
		}
	default:
		ev, res, err := dispatch.DecodeEvent(raw[:xwire.MessageSize])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event from %s (%d): %v\n", owner(res), res.Index, ev)
	}
	return nil
}
