// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"

	"github.com/ssc-oscar/oscar-go/modules/oscar/diff"
)

// Diff reports path-level changes between a commit and one of its
// parents, detecting renames above a similarity threshold.
type Diff struct {
	Child     string  `arg:"" help:"40-char hex SHA of the child commit"`
	Parent    string  `arg:"" help:"40-char hex SHA of the commit to compare against"`
	Threshold float64 `name:"threshold" default:"0.5" help:"Rename-detection similarity threshold (1 disables it)"`
}

func (c *Diff) Run(g *Globals) error {
	e, err := g.Engine()
	if err != nil {
		return err
	}
	child, err := e.Commit(c.Child)
	if err != nil {
		return err
	}
	parent, err := e.Commit(c.Parent)
	if err != nil {
		return err
	}
	changes, err := diff.Compare(child, parent, c.Threshold)
	if err != nil {
		return err
	}
	for _, ch := range changes {
		oldPath, newPath := ch.OldPath, ch.NewPath
		if oldPath == "" {
			oldPath = "-"
		}
		if newPath == "" {
			newPath = "-"
		}
		fmt.Fprintf(os.Stdout, "%s -> %s\t%s..%s\n", oldPath, newPath, shortSHA(ch.OldSHA), shortSHA(ch.NewSHA))
	}
	return nil
}

func shortSHA(sha string) string {
	if sha == "" {
		return "-"
	}
	if len(sha) > 10 {
		return sha[:10]
	}
	return sha
}
