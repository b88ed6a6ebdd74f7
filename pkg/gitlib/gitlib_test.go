package gitlib_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

func day(d int) time.Time {
	return time.Date(2021, time.January, d, 12, 0, 0, 0, time.UTC)
}

func newTestRepo(t *testing.T) *gitlib.TestRepo {
	t.Helper()

	repo, err := gitlib.NewTestRepo(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(repo.Free)

	return repo
}

func openRepo(t *testing.T, dir string) *gitlib.Repository {
	t.Helper()

	repo, err := gitlib.LoadRepository(dir)
	require.NoError(t, err)
	t.Cleanup(repo.Free)

	return repo
}

func collect(t *testing.T, repo *gitlib.Repository, start gitlib.Hash, allParents bool) ([]gitlib.Hash, error) {
	t.Helper()

	var hashes []gitlib.Hash

	for info, err := range repo.History(start, allParents) {
		if err != nil {
			return hashes, err
		}

		hashes = append(hashes, info.Hash)
	}

	return hashes, nil
}

func TestHash_Format(t *testing.T) {
	t.Parallel()

	h := gitlib.Hash{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	assert.Equal(t, "0123456789abcdef000000000000000000000000", h.String())
	assert.Equal(t, "0123456789", h.Short())
	assert.False(t, h.IsZero())
	assert.True(t, gitlib.Hash{}.IsZero())
	assert.Equal(t, h, gitlib.HashFromOid(h.ToOid()))
}

func TestLoadRepository_RejectsRemote(t *testing.T) {
	t.Parallel()

	for _, uri := range []string{"https://github.com/x/y", "git@github.com:x/y.git"} {
		_, err := gitlib.LoadRepository(uri)
		require.ErrorIs(t, err, gitlib.ErrRemoteNotSupported, uri)
	}
}

func TestResolveCommit(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)

	first, err := tr.Commit(day(19), map[string]string{"a.rs": "fn main() {}\n"})
	require.NoError(t, err)

	second, err := tr.Commit(day(23), map[string]string{"a.rs": "fn main() {}\n"}, first)
	require.NoError(t, err)

	require.NoError(t, tr.Tag("v1", first))

	repo := openRepo(t, tr.Dir())

	head, err := repo.ResolveCommit("HEAD")
	require.NoError(t, err)
	assert.Equal(t, second, head.Hash)
	assert.Equal(t, "2021-01-23", head.Date())

	tagged, err := repo.ResolveCommit("v1")
	require.NoError(t, err)
	assert.Equal(t, first, tagged.Hash)

	parent, err := repo.ResolveCommit("HEAD~1")
	require.NoError(t, err)
	assert.Equal(t, first, parent.Hash)

	_, err = repo.ResolveCommit("no-such-branch")
	require.ErrorIs(t, err, gitlib.ErrRevisionNotFound)
}

func TestCommitInfo_DateIsUTC(t *testing.T) {
	t.Parallel()

	tz := time.FixedZone("UTC+10", 10*60*60)
	info := gitlib.CommitInfo{When: time.Date(2021, time.January, 24, 5, 0, 0, 0, tz)}

	assert.Equal(t, "2021-01-23", info.Date())
}

func TestHistory_FirstParentAndAllParents(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)
	files := map[string]string{"x.go": "package x\n"}

	root, err := tr.Commit(day(1), files)
	require.NoError(t, err)

	side, err := tr.Commit(day(2), files, root)
	require.NoError(t, err)

	mainline, err := tr.Commit(day(3), files, root)
	require.NoError(t, err)

	merge, err := tr.Commit(day(4), files, mainline, side)
	require.NoError(t, err)

	repo := openRepo(t, tr.Dir())

	got, err := collect(t, repo, merge, false)
	require.NoError(t, err)
	assert.Equal(t, []gitlib.Hash{merge, mainline, root}, got)

	got, err = collect(t, repo, merge, true)
	require.NoError(t, err)
	assert.Equal(t, []gitlib.Hash{merge, mainline, side, root}, got)
}

func TestHistory_StopsEarly(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)
	files := map[string]string{"x.go": "package x\n"}

	first, err := tr.Commit(day(1), files)
	require.NoError(t, err)

	second, err := tr.Commit(day(2), files, first)
	require.NoError(t, err)

	repo := openRepo(t, tr.Dir())

	var seen []gitlib.Hash

	for info, iterErr := range repo.History(second, false) {
		require.NoError(t, iterErr)

		seen = append(seen, info.Hash)

		break
	}

	assert.Equal(t, []gitlib.Hash{second}, seen)
}

func TestHistory_TruncatedHistory(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)
	files := map[string]string{"x.go": "package x\n"}

	first, err := tr.Commit(day(1), files)
	require.NoError(t, err)

	second, err := tr.Commit(day(2), files, first)
	require.NoError(t, err)

	third, err := tr.Commit(day(3), files, second)
	require.NoError(t, err)

	require.NoError(t, tr.DropObject(first))

	repo := openRepo(t, tr.Dir())

	got, err := collect(t, repo, third, false)
	require.ErrorIs(t, err, gitlib.ErrTruncatedHistory)
	assert.Equal(t, []gitlib.Hash{third, second}, got)
}

func TestTreeBlobs_Nested(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)

	commit, err := tr.Commit(day(1), map[string]string{
		"README.md":          "# readme\n",
		"src/main.rs":        "fn main() {}\n",
		"src/util/helper.rs": "pub fn help() {}\n",
		".gitignore":         "target\n",
	})
	require.NoError(t, err)

	repo := openRepo(t, tr.Dir())

	blobs, err := repo.TreeBlobs(commit)
	require.NoError(t, err)

	paths := make([]string, 0, len(blobs))
	for _, b := range blobs {
		paths = append(paths, b.Path)
	}

	slices.Sort(paths)
	assert.Equal(t, []string{".gitignore", "README.md", "src/main.rs", "src/util/helper.rs"}, paths)

	for _, b := range blobs {
		if b.Path == "src/util/helper.rs" {
			assert.Equal(t, "helper.rs", b.Name)

			var content string

			require.NoError(t, repo.ReadBlob(b.Hash, func(data []byte) { content = string(data) }))
			assert.Equal(t, "pub fn help() {}\n", content)
		}
	}
}

func TestTreeBlobs_SameContentSameHash(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)

	commit, err := tr.Commit(day(1), map[string]string{
		"a/one.py": "print(1)\n",
		"b/two.py": "print(1)\n",
	})
	require.NoError(t, err)

	repo := openRepo(t, tr.Dir())

	blobs, err := repo.TreeBlobs(commit)
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	assert.Equal(t, blobs[0].Hash, blobs[1].Hash)
}

func TestReadBlob_Missing(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)

	_, err := tr.Commit(day(1), map[string]string{"a.txt": "a\n"})
	require.NoError(t, err)

	repo := openRepo(t, tr.Dir())

	err = repo.ReadBlob(gitlib.Hash{1, 2, 3}, func([]byte) {})
	require.Error(t, err)
}
