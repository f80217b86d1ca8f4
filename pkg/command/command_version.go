// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
)

// Version prints oscarctl's build version.
type Version struct{}

func (c *Version) Run(g *Globals) error {
	fmt.Fprintln(os.Stdout, "oscarctl (dev build)")
	return nil
}
