// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command visctl inspects and edits the instance visibility overrides
// of document text files, the whole document encoding of the
// visibility engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/base/logx"
	"cogentcore.org/instvis/engine"
	"github.com/docopt/docopt-go"
)

const usage = `Instance visibility override control.

Overrides are stored in a document text file with one line per
instance: <instance id>|path:state|path:state...
States are Visible, Hidden, Suppressed and Transparent, or 0 to 3.

Usage:
    visctl show [options] <file>
    visctl set [options] <file> <instance> <path> <state>
    visctl reset [options] <file> <instance> [<path>]
    visctl clear [options] <file>
    visctl encode [options] <file> <instance> <chunk>
    visctl decode [options] <file> <instance> <chunk>
    visctl shell [options] <file>
    visctl watch [options] <file>
    visctl -h | --help
    visctl --version

Options:
    -h --help          Show this screen.
    --version          Show version.
    --config=<config>  Engine config file (.toml, .yaml or .yml).
    -v                 Verbose output.
    --vv               Debug output.
    -q                 Only print errors.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], fmt.Sprintf("visctl %d", engine.APIVersion))
	if err != nil {
		panic(err)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, logx.ErrorColor(err.Error()))
		os.Exit(1)
	}
}

func flag(opts docopt.Opts, name string) bool {
	b, _ := opts.Bool(name)
	return b
}

func arg(opts docopt.Opts, name string) string {
	s, _ := opts.String(name)
	return s
}

func run(opts docopt.Opts) error {
	logx.UserLevel = logx.LevelFromFlags(flag(opts, "--vv"), flag(opts, "-v"), flag(opts, "-q"))
	logx.SetDefaultLogger()

	cfg := engine.DefaultConfig()
	if fn := arg(opts, "--config"); fn != "" {
		var err error
		cfg, err = engine.OpenConfig(fn)
		if err != nil && errors.Is(err, os.ErrNotExist) {
			return err
		}
		errors.Log(err)
	}
	s, err := openSession(arg(opts, "<file>"), cfg, os.Stdout)
	if err != nil {
		return err
	}

	switch {
	case flag(opts, "show"):
		s.show()
		return nil
	case flag(opts, "set"):
		if err := s.set(arg(opts, "<instance>"), arg(opts, "<path>"), arg(opts, "<state>")); err != nil {
			return err
		}
	case flag(opts, "reset"):
		if err := s.reset(arg(opts, "<instance>"), arg(opts, "<path>")); err != nil {
			return err
		}
	case flag(opts, "clear"):
		s.clear()
	case flag(opts, "encode"):
		return s.encode(arg(opts, "<instance>"), arg(opts, "<chunk>"))
	case flag(opts, "decode"):
		if err := s.decode(arg(opts, "<instance>"), arg(opts, "<chunk>")); err != nil {
			return err
		}
	case flag(opts, "shell"):
		return s.shell(os.Stdin)
	case flag(opts, "watch"):
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return s.watch(ctx)
	}
	return s.save()
}
