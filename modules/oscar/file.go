package oscar

import "github.com/ssc-oscar/oscar-go/modules/shard"

// File is identified by its path from a tree root (no leading slash,
// forward-slash separated). Unlike git objects, Files are keyed by
// their path string rather than a SHA.
type File struct {
	engine *Engine
	path   string

	commits lazy[[]string]
}

// File constructs a File handle for path.
func (e *Engine) File(path string) *File {
	return &File{engine: e, path: path}
}

// Path returns the file's path.
func (f *File) Path() string { return f.path }

// CommitSHAs returns the SHAs of commits that changed this file,
// relative to each commit's first parent only — a substantial
// limitation inherited from the relation's construction.
func (f *File) CommitSHAs() ([]string, error) {
	return f.commits.get(func() ([]string, error) {
		return readSHAList(f.engine, shard.KindFileCommits, f.path, nil)
	})
}

// Commits resolves CommitSHAs into Commit handles, skipping commits
// authored by the GitHub merge bot (matching oscar.py's filter on the
// equivalent Project.commits path).
func (f *File) Commits() ([]*Commit, error) {
	shas, err := f.CommitSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(shas))
	for _, sha := range shas {
		c, err := f.engine.Commit(sha)
		if err != nil {
			return nil, err
		}
		author, err := c.Author()
		if err != nil {
			continue
		}
		if author == GitHubMergeButton {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
