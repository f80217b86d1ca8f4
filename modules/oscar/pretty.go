package oscar

import (
	"encoding/hex"
	"fmt"
	"io"
)

// Printer is implemented by entities that can re-serialize themselves
// byte-exactly from their parsed representation, following the
// teacher's Encoder/Printer split (modules/zeta/object.Printer) rather
// than a bespoke String() method per type.
type Printer interface {
	Pretty(w io.Writer) error
}

// Pretty re-serializes the commit's header and message exactly as the
// original object bytes were laid out: tree, parents, author,
// committer, an optional gpgsig block, a blank line, then the message.
func (c *Commit) Pretty(w io.Writer) error {
	h, err := c.parsed()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "tree %s\n", h.TreeSHA); err != nil {
		return err
	}
	for _, p := range h.ParentSHAs {
		if _, err := fmt.Fprintf(w, "parent %s\n", p); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "author %s\n", h.Author); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "committer %s\n", h.Committer); err != nil {
		return err
	}
	if h.Signature != "" {
		if _, err := fmt.Fprintf(w, "gpgsig %s\n", h.Signature); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	_, err = io.WriteString(w, h.FullMessage)
	return err
}

// Pretty re-serializes the tree's direct (non-recursive) entries in the
// canonical "mode name\x00<20-byte hash>" wire format.
func (t *Tree) Pretty(w io.Writer) error {
	entries, err := t.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %s\x00", e.Mode, e.Name); err != nil {
			return err
		}
		raw, err := hex.DecodeString(e.SHA)
		if err != nil {
			return fmt.Errorf("oscar: invalid tree entry sha %q: %w", e.SHA, err)
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Printer = (*Commit)(nil)
	_ Printer = (*Tree)(nil)
)
