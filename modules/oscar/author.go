package oscar

import "github.com/ssc-oscar/oscar-go/modules/shard"

// Author is identified by the exact "Name <email>" byte string as it
// appears in commit headers. Without an identity-resolution relation,
// each distinct string is a separate alias, not necessarily a distinct
// person.
type Author struct {
	engine    *Engine
	fullEmail string

	commits      lazy[[]string]
	projectNames lazy[[]string]
}

// Author constructs an Author handle for fullEmail (e.g.
// "John Doe <john.doe@example.com>").
func (e *Engine) Author(fullEmail string) *Author {
	return &Author{engine: e, fullEmail: fullEmail}
}

// FullEmail returns the author's "Name <email>" identity string.
func (a *Author) FullEmail() string { return a.fullEmail }

// CommitSHAs returns the SHAs of every commit authored under this
// identity.
func (a *Author) CommitSHAs() ([]string, error) {
	return a.commits.get(func() ([]string, error) {
		return readSHAList(a.engine, shard.KindAuthorCommits, a.fullEmail, nil)
	})
}

// Commits resolves CommitSHAs into Commit handles.
func (a *Author) Commits() ([]*Commit, error) {
	shas, err := a.CommitSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(shas))
	for _, sha := range shas {
		c, err := a.engine.Commit(sha)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ProjectNames returns the URIs of projects this author has committed
// to.
func (a *Author) ProjectNames() ([]string, error) {
	return a.projectNames.get(func() ([]string, error) {
		return readSemicolonList(a.engine, shard.KindAuthorProjects, a.fullEmail, nil)
	})
}

// Projects resolves ProjectNames into Project handles.
func (a *Author) Projects() ([]*Project, error) {
	names, err := a.ProjectNames()
	if err != nil {
		return nil, err
	}
	out := make([]*Project, 0, len(names))
	for _, name := range names {
		out = append(out, a.engine.Project(name))
	}
	return out, nil
}
