// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package command implements oscarctl's subcommands, one type per verb
// with a Run(*Globals) error method read by alecthomas/kong from the
// struct tags below — the same App/Globals/VersionFlag shape the
// teacher's own pkg/command uses, repointed from repository porcelain
// at the read-only analytics store.
package command

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ssc-oscar/oscar-go/modules/oscar"
	"github.com/ssc-oscar/oscar-go/modules/store"
	"github.com/ssc-oscar/oscar-go/pkg/config"
)

// Globals carries the flags every subcommand can see.
type Globals struct {
	Verbose bool        `short:"V" name:"verbose" help:"Make the operation more talkative"`
	Version VersionFlag `short:"v" name:"version" help:"Show version number and quit"`
	Config  string      `name:"config" default:"oscar.toml" help:"Path to the store's configuration file"`
}

func (g *Globals) DbgPrint(format string, args ...any) {
	if !g.Verbose {
		return
	}
	message := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	var buffer bytes.Buffer
	for _, s := range strings.Split(message, "\n") {
		_, _ = buffer.WriteString("\x1b[33m* ")
		_, _ = buffer.WriteString(s)
		_, _ = buffer.WriteString("\x1b[0m\n")
	}
	_, _ = os.Stderr.Write(buffer.Bytes())
}

// Engine loads oscar.toml and builds a ready-to-query Engine.
func (g *Globals) Engine() (*oscar.Engine, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	g.DbgPrint("loaded config from %s (data_root=%s fast_root=%s)", g.Config, cfg.DataRoot, cfg.FastRoot)

	var opts []store.Option
	opts = append(opts, store.WithRegistry(cfg.Registry()))
	if cfg.LegacyCommitBlobs {
		opts = append(opts, store.WithLegacyCommitBlobs(true))
	}
	if cfg.ContentCacheMaxCost > 0 {
		opts = append(opts, store.WithContentCache(cfg.ContentCacheMaxCost))
	}
	s := store.New(cfg.DataRoot, cfg.FastRoot, opts...)
	return oscar.New(s), nil
}

// VersionFlag prints the build version and exits immediately, kong's
// own documented pattern for a self-contained "--version" flag.
type VersionFlag bool

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println("oscarctl (dev build)")
	app.Exit(0)
	return nil
}

type Debuger interface {
	DbgPrint(format string, args ...any)
}

var ErrArgRequired = errors.New("arg required")
