package oscar

import (
	"sort"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/ssc-oscar/oscar-go/modules/gitwire"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// Project is identified by a URI string with a hosting-forge prefix
// convention (e.g. "user_repo" for GitHub, "bb_user_repo" for
// Bitbucket — full mapping in URL).
type Project struct {
	engine *Engine
	uri    string

	commitSHAs    lazy[[]string]
	authorNames   lazy[[]string]
	commitsByHash lazy[map[string]*Commit]
	head          lazy[*Commit]
	tail          lazy[string]
}

// Project constructs a Project handle for uri.
func (e *Engine) Project(uri string) *Project {
	return &Project{engine: e, uri: uri}
}

// URI returns the project's identifying URI.
func (p *Project) URI() string { return p.uri }

// CommitSHAs returns the SHAs of every commit reachable from this
// project, in no particular order.
func (p *Project) CommitSHAs() ([]string, error) {
	return p.commitSHAs.get(func() ([]string, error) {
		return readSHAList(p.engine, shard.KindProjectCommits, p.uri, nil)
	})
}

// AuthorNames returns the identities of authors who have committed to
// this project.
func (p *Project) AuthorNames() ([]string, error) {
	return p.authorNames.get(func() ([]string, error) {
		return readSemicolonList(p.engine, shard.KindProjectAuthors, p.uri, nil)
	})
}

// Commits resolves every commit reachable from the project, skipping
// ones whose author could not be read (object not found in this
// dataset) or that were authored by the GitHub merge bot, matching
// oscar.py's Project.__iter__ filter.
func (p *Project) Commits() ([]*Commit, error) {
	byHash, err := p.commitsByHash.get(func() (map[string]*Commit, error) {
		shas, err := p.CommitSHAs()
		if err != nil {
			return nil, err
		}
		out := make(map[string]*Commit, len(shas))
		for _, sha := range shas {
			c, err := p.engine.Commit(sha)
			if err != nil {
				return nil, err
			}
			if _, err := c.Author(); err != nil {
				continue
			}
			author, _ := c.Author()
			if author == GitHubMergeButton {
				continue
			}
			out[sha] = c
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(byHash))
	for _, c := range byHash {
		out = append(out, c)
	}
	return out, nil
}

// Contains reports whether sha (40-char hex) is a commit reachable
// from this project.
func (p *Project) Contains(sha string) (bool, error) {
	shas, err := p.CommitSHAs()
	if err != nil {
		return false, err
	}
	for _, s := range shas {
		if strings.EqualFold(s, sha) {
			return true, nil
		}
	}
	return false, nil
}

// Head returns the project's HEAD commit: among commits with no
// child within the project (the "parent complement"), the one with the
// latest authored date. Accounts for the rare case of more than one
// candidate head (e.g. after a manual `git reset`) by picking the
// latest-authored one.
func (p *Project) Head() (*Commit, error) {
	return p.head.get(func() (*Commit, error) {
		commits, err := p.Commits()
		if err != nil {
			return nil, err
		}
		if len(commits) == 0 {
			return nil, ErrObjectNotFound
		}

		parents := treeset.NewWithStringComparator()
		for _, c := range commits {
			parentSHAs, err := c.ParentSHAs()
			if err != nil {
				return nil, err
			}
			for _, ps := range parentSHAs {
				parents.Add(ps)
			}
		}

		var heads []*Commit
		for _, c := range commits {
			if !parents.Contains(c.SHA()) {
				heads = append(heads, c)
			}
		}
		if len(heads) == 0 {
			heads = commits
		}
		sort.Slice(heads, func(i, j int) bool {
			ti, _ := heads[i].AuthoredAt()
			tj, _ := heads[j].AuthoredAt()
			return authoredOrZero(ti).Before(authoredOrZero(tj))
		})
		return heads[len(heads)-1], nil
	})
}

func authoredOrZero(t time.Time) time.Time {
	if t.Equal(gitwire.UnknownTime) {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// Tail returns the SHA of the project's first commit, found by
// following first-parent links: the commit that is some other commit's
// first parent, but has no parents of its own.
func (p *Project) Tail() (string, error) {
	return p.tail.get(func() (string, error) {
		commits, err := p.Commits()
		if err != nil {
			return "", err
		}
		firstParents := treeset.NewWithStringComparator()
		for _, c := range commits {
			parentSHAs, err := c.ParentSHAs()
			if err != nil {
				return "", err
			}
			if len(parentSHAs) > 0 {
				firstParents.Add(parentSHAs[0])
			}
		}
		for _, c := range commits {
			parentSHAs, err := c.ParentSHAs()
			if err != nil {
				return "", err
			}
			if len(parentSHAs) == 0 && firstParents.Contains(c.SHA()) {
				return c.SHA(), nil
			}
		}
		return "", ErrObjectNotFound
	})
}

// CommitsFirstParent walks the project's commit chain by following
// only the first parent of each commit, starting from the
// latest-authored commit in the project, mirroring `git log
// --first-parent`. Commits are yielded from latest to earliest; a
// first parent outside the project's known commit set is resolved as a
// standalone Commit handle (its own fields still lazily readable).
func (p *Project) CommitsFirstParent() ([]*Commit, error) {
	commits, err := p.Commits()
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}
	byHash := make(map[string]*Commit, len(commits))
	var latest *Commit
	var latestAt time.Time
	for _, c := range commits {
		byHash[c.SHA()] = c
		at, err := c.AuthoredAt()
		if err != nil {
			return nil, err
		}
		resolved := authoredOrZero(at)
		if latest == nil || resolved.After(latestAt) {
			latest, latestAt = c, resolved
		}
	}

	var out []*Commit
	current := latest
	for current != nil {
		out = append(out, current)
		parentSHAs, err := current.ParentSHAs()
		if err != nil {
			break
		}
		if len(parentSHAs) == 0 {
			break
		}
		first := parentSHAs[0]
		next, ok := byHash[first]
		if !ok {
			next, err = p.engine.Commit(first)
			if err != nil {
				break
			}
		}
		current = next
	}
	return out, nil
}

// urlPrefixes is the project-URI-to-forge-URL mapping, in the fixed
// priority order a matching prefix is tried.
var urlPrefixes = []struct {
	prefix string
	host   string
}{
	{"bb", "bitbucket.org"},
	{"gl", "gitlab.org"},
	{"android.googlesource.com", "android.googlesource.com"},
	{"bioconductor.org", "bioconductor.org"},
	{"drupal.com", "git.drupal.org"},
	{"git.eclipse.org", "git.eclipse.org"},
	{"git.kernel.org", "git.kernel.org"},
	{"git.postgresql.org", "git.postgresql.org"},
	{"git.savannah.gnu.org", "git.savannah.gnu.org"},
	{"git.zx2c4.com", "git.zx2c4.com"},
	{"gitlab.gnome.org", "gitlab.gnome.org"},
	{"kde.org", "anongit.kde.org"},
	{"repo.or.cz", "repo.or.cz"},
	{"salsa.debian.org", "salsa.debian.org"},
	{"sourceforge.net", "git.code.sf.net/p"},
}

// URL resolves the project's URI to its hosting URL, matching oscar.py's
// Project.toURL.
func (p *Project) URL() string {
	name := p.uri
	found := false
	for _, e := range urlPrefixes {
		marker := e.prefix + "_"
		if strings.HasPrefix(name, marker) && (strings.Count(name, "_") >= 2 || e.prefix == "sourceforge.net") {
			name = strings.Replace(name, marker, e.host+"/", 1)
			if e.prefix == "sourceforge.net" {
				return "https://" + name
			}
			found = true
			break
		}
	}
	if !found {
		name = "github.com/" + name
	}
	name = strings.Replace(name, "_", "/", 1)
	return "https://" + name
}
