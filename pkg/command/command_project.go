// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
)

// Project prints a project's HEAD/TAIL commits, its resolved hosting
// URL, and its commit count.
type Project struct {
	URI string `arg:"" help:"Project URI, e.g. user_repo or bb_user_repo"`
}

func (c *Project) Run(g *Globals) error {
	e, err := g.Engine()
	if err != nil {
		return err
	}
	p := e.Project(c.URI)

	commits, err := p.Commits()
	if err != nil {
		return err
	}
	head, err := p.Head()
	if err != nil {
		return err
	}
	tail, err := p.Tail()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "uri:     %s\n", p.URI())
	fmt.Fprintf(os.Stdout, "url:     %s\n", p.URL())
	fmt.Fprintf(os.Stdout, "commits: %d\n", len(commits))
	fmt.Fprintf(os.Stdout, "head:    %s\n", head.SHA())
	fmt.Fprintf(os.Stdout, "tail:    %s\n", tail)
	return nil
}
