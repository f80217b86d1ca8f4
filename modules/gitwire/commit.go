// Package gitwire parses the two git wire formats the engine needs to
// read directly: commit headers and tree entries, the way WoC's
// oscar.py parses them lazily off of Commit.__getattr__ and
// Tree.__iter__.
package gitwire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedCommit is returned when a commit's header cannot be
// parsed at all (missing the blank line separating header from
// message, or a header line with no "key value" split).
var ErrMalformedCommit = errors.New("gitwire: malformed commit object")

// UnknownTime is the sentinel returned by ParseCommitTime whenever a
// timestamp can't be trusted: malformed, or stamped in the future
// relative to `now` (matching parse_commit_date's "well hey that's not
// possible" check). Callers should treat it as "time not known", never
// as a hard error.
var UnknownTime = time.Time{}

// Commit is the parsed form of a commit object's decompressed bytes.
type Commit struct {
	TreeSHA      string
	ParentSHAs   []string
	Author       string
	AuthoredAt   time.Time
	Committer    string
	CommittedAt  time.Time
	Signature    string // empty if absent
	Message      string // first line
	FullMessage  string // everything after the header's blank line
}

// ParseCommit splits a commit object's content into header and message,
// then walks the header line by line. Continuation lines of a mergetag
// object (starting with a space) are skipped, same as oscar.py; an
// in-progress PGP signature block is accumulated across lines until
// its "-----END PGP SIGNATURE-----" trailer.
func ParseCommit(content []byte, now time.Time) (*Commit, error) {
	parts := strings.SplitN(string(content), "\n\n", 2)
	if len(parts) != 2 {
		return nil, ErrMalformedCommit
	}
	header, fullMessage := parts[0], parts[1]

	c := &Commit{FullMessage: fullMessage}
	if idx := strings.IndexByte(fullMessage, '\n'); idx >= 0 {
		c.Message = fullMessage[:idx]
	} else {
		c.Message = fullMessage
	}

	var signature strings.Builder
	readingSignature := false
	for _, line := range strings.Split(header, "\n") {
		if readingSignature {
			signature.WriteByte('\n')
			signature.WriteString(line)
			if strings.TrimSpace(line) == "-----END PGP SIGNATURE-----" {
				c.Signature = signature.String()
				readingSignature = false
			}
			continue
		}
		if strings.HasPrefix(line, " ") {
			continue // mergetag object, not supported
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: unexpected header line %q", ErrMalformedCommit, line)
		}
		switch key {
		case "tree":
			c.TreeSHA = value
		case "parent":
			c.ParentSHAs = append(c.ParentSHAs, value)
		case "author":
			name, stamp := rsplitN2(value)
			c.Author = name
			c.AuthoredAt = ParseCommitTime(stamp, now)
		case "committer":
			name, stamp := rsplitN2(value)
			c.Committer = name
			c.CommittedAt = ParseCommitTime(stamp, now)
		case "gpgsig":
			signature.WriteString(value)
			readingSignature = true
		}
	}
	return c, nil
}

// rsplitN2 splits "Name Possibly With Spaces 1337145807 +1100" into the
// name and the trailing "timestamp timezone" pair, mirroring
// value.rsplit(" ", 2) followed by re-joining the last two chunks.
func rsplitN2(value string) (name, stamp string) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return value, ""
	}
	name = strings.Join(fields[:len(fields)-2], " ")
	stamp = strings.Join(fields[len(fields)-2:], " ")
	return name, stamp
}

// ParseCommitTime parses a "<unix-seconds> <+HHMM|-HHMM>" timestamp as
// stored in authored_at/committed_at, fixed to the stated offset (never
// converted to local or UTC clock time). It returns UnknownTime — never
// an error — for a malformed timestamp or one that claims to be after
// now, exactly as oscar.py's parse_commit_date does.
func ParseCommitTime(timestamp string, now time.Time) time.Time {
	ts, tz, ok := strings.Cut(timestamp, " ")
	if !ok {
		return UnknownTime
	}
	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return UnknownTime
	}
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return UnknownTime
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return UnknownTime
	}
	minutes, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return UnknownTime
	}
	offsetSeconds := hours*3600 + minutes*60
	if tz[0] == '-' {
		offsetSeconds = -offsetSeconds
	}
	loc := time.FixedZone(tz, offsetSeconds)
	t := time.Unix(seconds, 0).In(loc)
	if t.After(now) {
		return UnknownTime
	}
	return t
}
