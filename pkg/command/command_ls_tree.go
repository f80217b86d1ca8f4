// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
)

// LsTree lists a tree's entries, recursively when -r is given.
type LsTree struct {
	SHA       string `arg:"" help:"40-char hex tree SHA"`
	Recursive bool   `short:"r" name:"recursive" help:"Recurse into subtrees"`
}

func (c *LsTree) Run(g *Globals) error {
	e, err := g.Engine()
	if err != nil {
		return err
	}
	t, err := e.Tree(c.SHA)
	if err != nil {
		return err
	}
	entries := t.Entries
	if c.Recursive {
		entries = t.Traverse
	}
	got, err := entries()
	if err != nil {
		return err
	}
	for _, entry := range got {
		kind := "blob"
		if entry.IsSubdir {
			kind = "tree"
		}
		fmt.Fprintf(os.Stdout, "%s %s %s\t%s\n", entry.Mode, kind, entry.SHA, entry.Name)
	}
	return nil
}
