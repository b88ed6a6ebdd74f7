package gitlib

import (
	"errors"
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrRevisionNotFound is returned when a revision cannot be resolved to a commit.
var ErrRevisionNotFound = errors.New("revision not found")

// CommitInfo is the detached view of a commit used by history walks. It holds
// no libgit2 resources.
type CommitInfo struct {
	Hash Hash
	// When is the committer timestamp in UTC.
	When time.Time
}

// Date returns the commit day as YYYY-MM-DD in UTC.
func (c CommitInfo) Date() string {
	return c.When.UTC().Format(time.DateOnly)
}

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo}, nil
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// ResolveCommit resolves a revision (branch, tag, hash, HEAD~2, ...) to the
// commit it points at, peeling annotated tags.
func (r *Repository) ResolveCommit(rev string) (CommitInfo, error) {
	obj, err := r.repo.RevparseSingle(rev)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("%w: %s: %w", ErrRevisionNotFound, rev, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("%w: %s is not a commit: %w", ErrRevisionNotFound, rev, err)
	}
	defer peeled.Free()

	commit, err := r.LookupCommit(HashFromOid(peeled.Id()))
	if err != nil {
		return CommitInfo{}, err
	}
	defer commit.Free()

	return commit.Info(), nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", hash.Short(), err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// LookupTree returns the tree with the given hash.
func (r *Repository) LookupTree(hash Hash) (*Tree, error) {
	tree, err := r.repo.LookupTree(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup tree %s: %w", hash.Short(), err)
	}

	return &Tree{tree: tree, repo: r}, nil
}

// LookupBlob returns the blob with the given hash.
func (r *Repository) LookupBlob(hash Hash) (*Blob, error) {
	blob, err := r.repo.LookupBlob(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup blob %s: %w", hash.Short(), err)
	}

	return &Blob{blob: blob}, nil
}

// TreeBlobs lists every blob reachable from the commit's root tree.
func (r *Repository) TreeBlobs(commit Hash) ([]BlobEntry, error) {
	c, err := r.LookupCommit(commit)
	if err != nil {
		return nil, err
	}
	defer c.Free()

	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	return tree.Blobs()
}

// ReadBlob looks up a blob and hands its raw content to scan. The content is
// only valid during the call; the blob is released right after.
func (r *Repository) ReadBlob(hash Hash, scan func(content []byte)) error {
	blob, err := r.LookupBlob(hash)
	if err != nil {
		return err
	}
	defer blob.Free()

	scan(blob.Contents())

	return nil
}
