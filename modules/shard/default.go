package shard

// Canonical data kinds, one per relation or object table the dataset
// ships on disk.
const (
	KindCommitSequentialIdx Kind = "commit_sequential_idx"
	KindCommitSequentialBin Kind = "commit_sequential_bin"
	KindTreeSequentialIdx   Kind = "tree_sequential_idx"
	KindTreeSequentialBin   Kind = "tree_sequential_bin"

	KindCommitRandom Kind = "commit_random"
	KindTreeRandom   Kind = "tree_random"

	KindBlobOffset Kind = "blob_offset"
	KindBlobData   Kind = "blob_data"

	KindCommitProjects Kind = "commit_projects"
	KindCommitChildren Kind = "commit_children"
	KindCommitFiles    Kind = "commit_files"
	KindCommitBlobs    Kind = "commit_blobs" // legacy-only, see store.LegacyCommitBlobs
	KindCommitTimeAuthor Kind = "commit_time_author"
	KindCommitHead     Kind = "commit_head"

	KindProjectCommits Kind = "project_commits"
	KindProjectAuthors Kind = "project_authors"

	KindAuthorCommits Kind = "author_commits"
	KindAuthorProjects Kind = "author_projects"

	KindBlobCommits Kind = "blob_commits"
	KindBlobAuthors Kind = "blob_authors"
	KindBlobFiles   Kind = "blob_files"

	KindFileCommits Kind = "file_commits"
)

// DefaultRegistry returns the canonical path-template registry, rooted
// under the given data and fast directories (matching the dataset's
// conventional /data and /fast mount points).
func DefaultRegistry(dataRoot, fastRoot string) Registry {
	return Registry{
		KindCommitSequentialIdx: {Path: dataRoot + "/All.blobs/commit_{key}.idx", PrefixBits: 7},
		KindCommitSequentialBin: {Path: dataRoot + "/All.blobs/commit_{key}.bin", PrefixBits: 7},
		KindTreeSequentialIdx:   {Path: dataRoot + "/All.blobs/tree_{key}.idx", PrefixBits: 7},
		KindTreeSequentialBin:   {Path: dataRoot + "/All.blobs/tree_{key}.bin", PrefixBits: 7},

		KindCommitRandom: {Path: fastRoot + "/All.sha1c/commit_{key}.tch", PrefixBits: 7},
		KindTreeRandom:   {Path: fastRoot + "/All.sha1c/tree_{key}.tch", PrefixBits: 7},

		KindBlobOffset: {Path: fastRoot + "/All.sha1o/sha1.blob_{key}.tch", PrefixBits: 7},
		KindBlobData:   {Path: dataRoot + "/All.blobs/blob_{key}.bin", PrefixBits: 7},

		KindCommitProjects:   {Path: dataRoot + "/basemaps/c2pFullP.{key}.tch", PrefixBits: 5},
		KindCommitChildren:   {Path: dataRoot + "/basemaps/c2ccFullP.{key}.tch", PrefixBits: 5},
		KindCommitFiles:      {Path: dataRoot + "/basemaps/c2fFullP.{key}.tch", PrefixBits: 5},
		KindCommitBlobs:      {Path: dataRoot + "/basemaps/c2bFullP.{key}.tch", PrefixBits: 5},
		KindCommitTimeAuthor: {Path: dataRoot + "/basemaps/c2taFullP.{key}.tch", PrefixBits: 5},
		KindCommitHead:       {Path: dataRoot + "/basemaps/c2hFullO.{key}.tch", PrefixBits: 5},

		KindProjectCommits: {Path: dataRoot + "/basemaps/p2cFullP.{key}.tch", PrefixBits: 5, UseFNV: true},
		KindProjectAuthors: {Path: dataRoot + "/basemaps/p2aFullP.{key}.tch", PrefixBits: 5, UseFNV: true},

		KindAuthorCommits:  {Path: dataRoot + "/basemaps/a2cFullP.{key}.tch", PrefixBits: 5, UseFNV: true},
		KindAuthorProjects: {Path: dataRoot + "/basemaps/a2pFullP.{key}.tch", PrefixBits: 5, UseFNV: true},

		KindBlobCommits: {Path: dataRoot + "/basemaps/b2cFullP.{key}.tch", PrefixBits: 5},
		KindBlobAuthors: {Path: dataRoot + "/basemaps/b2aFullP.{key}.tch", PrefixBits: 5},
		KindBlobFiles:   {Path: dataRoot + "/basemaps/b2fFullP.{key}.tch", PrefixBits: 5},

		KindFileCommits: {Path: dataRoot + "/basemaps/f2cFullP.{key}.tch", PrefixBits: 5, UseFNV: true},
	}
}
