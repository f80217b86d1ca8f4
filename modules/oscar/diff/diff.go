// Package diff compares two commits' trees, detecting renames the way
// oscar.py's Commit.__sub__ does: cheap bounds first, an exact
// content-similarity ratio only for the pairs that survive them.
package diff

import (
	"github.com/sirupsen/logrus"

	"github.com/ssc-oscar/oscar-go/modules/diferenco"
	"github.com/ssc-oscar/oscar-go/modules/oscar"
)

// Change describes one path-level change between a commit and a parent.
// Empty fields mirror Python's None: OldPath == "" means the path
// didn't exist in the parent, NewPath == "" means it's gone in the
// child.
type Change struct {
	OldPath string
	NewPath string
	OldSHA  string
	NewSHA  string
}

// DefaultThreshold is the similarity ratio above which an added file
// and a deleted file are reported as a rename rather than as an
// independent add and delete.
const DefaultThreshold = 0.5

// Compare reports the path/blob changes between child and parent,
// matching `diff := child - parent` in oscar.py. threshold
// controls rename sensitivity: >= 1 disables content-similarity
// matching entirely (only exact path survival counts), 0 treats every
// added/deleted pair as a rename candidate. Pass DefaultThreshold for
// oscar.py's default behavior.
//
// Comparing commits that aren't directly related (parent not actually
// one of child's parents) is logged as a warning, not an error —
// matching oscar.py's warnings.warn, since the computation is only
// expensive, not invalid.
func Compare(child, parent *oscar.Commit, threshold float64) ([]Change, error) {
	parentSHAs, err := child.ParentSHAs()
	if err != nil {
		return nil, err
	}
	adjacent := false
	for _, p := range parentSHAs {
		if p == parent.SHA() {
			adjacent = true
			break
		}
	}
	if !adjacent {
		logrus.Warnf("diff: comparing non-adjacent commits %s and %s may be expensive", child.SHA(), parent.SHA())
	}

	childTree, err := child.Tree()
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	newFiles, err := childTree.Files()
	if err != nil {
		return nil, err
	}
	oldFiles, err := parentTree.Files()
	if err != nil {
		return nil, err
	}

	var out []Change
	var added, deleted []string
	for path := range newFiles {
		if oldSHA, ok := oldFiles[path]; ok {
			if oldSHA != newFiles[path] {
				out = append(out, Change{OldPath: path, NewPath: path, OldSHA: oldSHA, NewSHA: newFiles[path]})
			}
		} else {
			added = append(added, path)
		}
	}
	for path := range oldFiles {
		if _, ok := newFiles[path]; !ok {
			deleted = append(deleted, path)
		}
	}

	if threshold >= 1 {
		for _, path := range added {
			out = append(out, Change{NewPath: path, NewSHA: newFiles[path]})
		}
		for _, path := range deleted {
			out = append(out, Change{OldPath: path, OldSHA: oldFiles[path]})
		}
		return out, nil
	}

	remaining := make(map[string]string, len(deleted))
	for _, path := range deleted {
		remaining[path] = oldFiles[path]
	}

	for _, addedPath := range added {
		addedSHA := newFiles[addedPath]
		addedBlob, err := child.Engine().Blob(addedSHA)
		if err != nil {
			return nil, err
		}
		addedContent, err := addedBlob.Content()
		if err != nil {
			return nil, err
		}

		matchedPath := ""
		for deletedPath, deletedSHA := range remaining {
			deletedBlob, err := parent.Engine().Blob(deletedSHA)
			if err != nil {
				return nil, err
			}
			deletedContent, err := deletedBlob.Content()
			if err != nil {
				return nil, err
			}
			if realQuickRatio(addedContent, deletedContent) > threshold &&
				quickRatio(addedContent, deletedContent) > threshold &&
				ratio(addedContent, deletedContent) > threshold {
				out = append(out, Change{OldPath: deletedPath, NewPath: addedPath, OldSHA: deletedSHA, NewSHA: addedSHA})
				matchedPath = deletedPath
				break
			}
		}
		if matchedPath != "" {
			delete(remaining, matchedPath)
			continue
		}
		out = append(out, Change{NewPath: addedPath, NewSHA: addedSHA})
	}

	for deletedPath, deletedSHA := range remaining {
		out = append(out, Change{OldPath: deletedPath, OldSHA: deletedSHA})
	}

	return out, nil
}

// realQuickRatio is the cheapest possible upper bound on similarity:
// two sequences can never match better than 2*min(len)/(lenA+lenB)
// allows, regardless of content.
func realQuickRatio(a, b []byte) float64 {
	la, lb := len(a), len(b)
	if la+lb == 0 {
		return 1
	}
	m := la
	if lb < m {
		m = lb
	}
	return 2 * float64(m) / float64(la+lb)
}

// quickRatio bounds similarity using per-byte multiset overlap,
// cheaper than an exact match because it ignores ordering.
func quickRatio(a, b []byte) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	var counts [256]int
	for _, c := range a {
		counts[c]++
	}
	matches := 0
	for _, c := range b {
		if counts[c] > 0 {
			counts[c]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(len(a)+len(b))
}

// ratio is the exact similarity score: twice the length of the longest
// common content, divided by the combined length of both sequences.
// Matching length is derived from a Myers diff rather than Python's
// difflib autojunk heuristics, so scores can differ slightly on
// pathological inputs, but agree on ordinary file content.
func ratio(a, b []byte) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	changes := diferenco.MyersDiff(a, b)
	deleted := 0
	for _, c := range changes {
		deleted += c.Del
	}
	matches := len(a) - deleted
	if matches < 0 {
		matches = 0
	}
	return 2 * float64(matches) / float64(len(a)+len(b))
}
