package oscar_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssc-oscar/oscar-go/modules/oscar"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// buildLinearHistory wires a three-commit, first-parent-only chain
// (tail -> middle -> head) into fx, all pointing at the same empty tree.
func buildLinearHistory(t *testing.T, fx *fixture) (tail, middle, head []byte) {
	t.Helper()
	treeSHA := sha(0x01)
	fx.putHash(shard.KindTreeRandom, treeSHA, passthrough(treeEntry("100644", "a.txt", sha(0x02))))

	tail, middle, head = sha(0x10), sha(0x11), sha(0x12)
	author := func(ts string) string { return "Jane Dev <jane@example.com> " + ts + " +0000" }

	fx.putHash(shard.KindCommitRandom, tail, passthrough(commitContent(
		hex.EncodeToString(treeSHA), nil, author("1600000000"), author("1600000000"), "tail\n")))
	fx.putHash(shard.KindCommitRandom, middle, passthrough(commitContent(
		hex.EncodeToString(treeSHA), []string{hex.EncodeToString(tail)}, author("1600001000"), author("1600001000"), "middle\n")))
	fx.putHash(shard.KindCommitRandom, head, passthrough(commitContent(
		hex.EncodeToString(treeSHA), []string{hex.EncodeToString(middle)}, author("1600002000"), author("1600002000"), "head\n")))

	fx.putHash(shard.KindProjectCommits, []byte("example_repo"), concat(tail, middle, head))
	return tail, middle, head
}

func TestProjectHeadTailAndFirstParentChain(t *testing.T) {
	fx := newFixture(t)
	tail, middle, head := buildLinearHistory(t, fx)

	s := fx.build(t)
	defer s.Close()
	e := oscar.New(s)

	p := e.Project("example_repo")
	require.Equal(t, "example_repo", p.URI())

	gotHead, err := p.Head()
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(head), gotHead.SHA())

	gotTail, err := p.Tail()
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(tail), gotTail)

	chain, err := p.CommitsFirstParent()
	require.NoError(t, err)
	require.Len(t, chain, 3)
	require.Equal(t, hex.EncodeToString(head), chain[0].SHA())
	require.Equal(t, hex.EncodeToString(middle), chain[1].SHA())
	require.Equal(t, hex.EncodeToString(tail), chain[2].SHA())

	ok, err := p.Contains(hex.EncodeToString(middle))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Contains(hex.EncodeToString(sha(0xFE)))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProjectHeadOnEmptyProjectIsNotFound(t *testing.T) {
	fx := newFixture(t)
	s := fx.build(t)
	defer s.Close()
	e := oscar.New(s)

	p := e.Project("nonexistent_repo")
	_, err := p.Head()
	require.ErrorIs(t, err, oscar.ErrObjectNotFound)

	_, err = p.Tail()
	require.ErrorIs(t, err, oscar.ErrObjectNotFound)
}

func TestProjectCommitsSkipsMergeButton(t *testing.T) {
	fx := newFixture(t)

	treeSHA := sha(0x01)
	fx.putHash(shard.KindTreeRandom, treeSHA, passthrough(treeEntry("100644", "a.txt", sha(0x02))))

	human := sha(0x20)
	bot := sha(0x21)
	fx.putHash(shard.KindCommitRandom, human, passthrough(commitContent(
		hex.EncodeToString(treeSHA), nil,
		"Jane Dev <jane@example.com> 1600000000 +0000",
		"Jane Dev <jane@example.com> 1600000000 +0000", "human\n")))
	fx.putHash(shard.KindCommitRandom, bot, passthrough(commitContent(
		hex.EncodeToString(treeSHA), nil,
		oscar.GitHubMergeButton+" 1600000500 +0000",
		oscar.GitHubMergeButton+" 1600000500 +0000", "merge\n")))
	fx.putHash(shard.KindProjectCommits, []byte("example_repo"), concat(human, bot))

	s := fx.build(t)
	defer s.Close()
	e := oscar.New(s)

	p := e.Project("example_repo")
	commits, err := p.Commits()
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, hex.EncodeToString(human), commits[0].SHA())
}

func TestProjectURL(t *testing.T) {
	fx := newFixture(t)
	s := fx.build(t)
	defer s.Close()
	e := oscar.New(s)

	cases := map[string]string{
		"torvalds_linux":      "https://github.com/torvalds/linux",
		"bb_owner_repo":       "https://bitbucket.org/owner/repo",
		"gl_owner_repo":       "https://gitlab.org/owner/repo",
		"sourceforge.net_p_x": "https://git.code.sf.net/p/p_x", // urlPrefixes' "/p" host plus the retained "p_" segment
	}
	for uri, want := range cases {
		require.Equal(t, want, e.Project(uri).URL(), uri)
	}
}
