package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Commit wraps a libgit2 commit.
type Commit struct {
	commit *git2go.Commit
	repo   *Repository
}

// Hash returns the commit hash.
func (c *Commit) Hash() Hash {
	return HashFromOid(c.commit.Id())
}

// Info returns a detached copy of the commit identity and committer time.
func (c *Commit) Info() CommitInfo {
	return CommitInfo{
		Hash: c.Hash(),
		When: c.commit.Committer().When.UTC(),
	}
}

// ParentHashes returns the parent hashes in order, first parent first.
func (c *Commit) ParentHashes() []Hash {
	count := c.commit.ParentCount()
	parents := make([]Hash, 0, count)

	for i := range count {
		parents = append(parents, HashFromOid(c.commit.ParentId(i)))
	}

	return parents
}

// Tree returns the tree associated with this commit.
func (c *Commit) Tree() (*Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get commit tree: %w", err)
	}

	return &Tree{tree: tree, repo: c.repo}, nil
}

// Free releases the commit resources.
func (c *Commit) Free() {
	if c.commit != nil {
		c.commit.Free()
		c.commit = nil
	}
}
