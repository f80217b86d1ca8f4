// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// VerifyCommit checks a commit's preserved gpgsig block against an
// armored public keyring file.
type VerifyCommit struct {
	SHA     string `arg:"" help:"40-char hex commit SHA"`
	Keyring string `arg:"" help:"Path to an armored OpenPGP public keyring"`
}

func (c *VerifyCommit) Run(g *Globals) error {
	e, err := g.Engine()
	if err != nil {
		return err
	}
	commit, err := e.Commit(c.SHA)
	if err != nil {
		return err
	}
	f, err := os.Open(c.Keyring)
	if err != nil {
		return err
	}
	defer f.Close()
	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return fmt.Errorf("command: reading keyring: %w", err)
	}
	ok, err := commit.VerifySignature(keyring)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(os.Stdout, "signature: invalid or absent")
		os.Exit(1)
		return nil
	}
	fmt.Fprintln(os.Stdout, "signature: valid")
	return nil
}
