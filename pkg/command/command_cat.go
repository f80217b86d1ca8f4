// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
)

// Cat prints a commit or tree's pretty-printed form, or a blob's raw
// content, by SHA — oscarctl's cat-file equivalent.
type Cat struct {
	Type string `arg:"" enum:"commit,tree,blob" help:"Object type"`
	SHA  string `arg:"" help:"40-char hex SHA"`
}

func (c *Cat) Run(g *Globals) error {
	e, err := g.Engine()
	if err != nil {
		return err
	}
	switch c.Type {
	case "commit":
		obj, err := e.Commit(c.SHA)
		if err != nil {
			return err
		}
		return obj.Pretty(os.Stdout)
	case "tree":
		obj, err := e.Tree(c.SHA)
		if err != nil {
			return err
		}
		return obj.Pretty(os.Stdout)
	case "blob":
		obj, err := e.Blob(c.SHA)
		if err != nil {
			return err
		}
		content, err := obj.Content()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(content)
		return err
	default:
		return fmt.Errorf("command: unknown object type %q", c.Type)
	}
}
