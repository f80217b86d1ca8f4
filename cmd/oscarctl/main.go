// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Command oscarctl is a thin CLI wrapper over the oscar engine: a
// handful of read-only verbs for scanning, inspecting, diffing, and
// verifying objects in a World of Code-style store, grounded on
// cmd/zeta/main.go's App/Globals/kong.Parse shape.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ssc-oscar/oscar-go/pkg/command"
)

type App struct {
	command.Globals

	Scan         command.Scan         `cmd:"" help:"Scan a sequential data kind (commit or tree) shard by shard"`
	Cat          command.Cat          `cmd:"" name:"cat" help:"Print a commit, tree, or blob by SHA"`
	LsTree       command.LsTree       `cmd:"" name:"ls-tree" help:"List a tree's entries"`
	Project      command.Project      `cmd:"" help:"Summarize a project's commits, head, and tail"`
	Diff         command.Diff         `cmd:"" help:"Diff a commit against a parent, with rename detection"`
	VerifyCommit command.VerifyCommit `cmd:"" name:"verify-commit" help:"Verify a commit's gpgsig against a keyring"`
	Version      command.Version      `cmd:"" help:"Print the build version"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("oscarctl"),
		kong.Description("Query and verify World of Code-style commit/tree/blob history."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err := ctx.Run(&app.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "oscarctl: %v\n", err)
		os.Exit(1)
	}
}
