package oscar

import (
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// VerifySignature checks the commit's preserved gpgsig block against
// keyring, re-hashing the commit's signed content (its header minus the
// gpgsig line, plus message) the way `git verify-commit` does. It
// returns (false, nil) — never an error — when the commit carries no
// signature at all, so callers can treat "unsigned" and "bad signature"
// differently. This is opt-in: nothing else in the engine calls it, and
// a failed or absent signature never blocks any other accessor.
func (c *Commit) VerifySignature(keyring openpgp.EntityList) (bool, error) {
	h, err := c.parsed()
	if err != nil {
		return false, err
	}
	if h.Signature == "" {
		return false, nil
	}

	var signed strings.Builder
	fmt.Fprintf(&signed, "tree %s\n", h.TreeSHA)
	for _, p := range h.ParentSHAs {
		fmt.Fprintf(&signed, "parent %s\n", p)
	}
	fmt.Fprintf(&signed, "author %s\n", h.Author)
	fmt.Fprintf(&signed, "committer %s\n", h.Committer)
	signed.WriteString("\n")
	signed.WriteString(h.FullMessage)

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, strings.NewReader(signed.String()), strings.NewReader(h.Signature), nil)
	if err != nil {
		return false, nil
	}
	return true, nil
}
