package gitlib

import (
	"path"

	git2go "github.com/libgit2/git2go/v34"
)

// BlobEntry is a file found while walking a tree.
type BlobEntry struct {
	// Path is the slash separated path from the root tree.
	Path string
	// Name is the last path element.
	Name string
	Hash Hash
}

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
	repo *Repository
}

// Hash returns the tree hash.
func (t *Tree) Hash() Hash {
	return HashFromOid(t.tree.Id())
}

// Blobs lists every blob below the tree. Subtrees are visited through an
// explicit work list so deep hierarchies do not grow the call stack. Gitlinks
// (submodules) are not followed.
func (t *Tree) Blobs() ([]BlobEntry, error) {
	type pending struct {
		hash   Hash
		prefix string
	}

	var blobs []BlobEntry

	work := []pending{{hash: t.Hash()}}

	for len(work) > 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]

		tree := t
		if next.prefix != "" {
			sub, err := t.repo.LookupTree(next.hash)
			if err != nil {
				return nil, err
			}

			tree = sub
		}

		count := tree.EntryCount()

		for i := range count {
			entry := tree.tree.EntryByIndex(i)
			if entry == nil {
				continue
			}

			entryPath := path.Join(next.prefix, entry.Name)

			switch entry.Type {
			case git2go.ObjectBlob:
				blobs = append(blobs, BlobEntry{Path: entryPath, Name: entry.Name, Hash: HashFromOid(entry.Id)})
			case git2go.ObjectTree:
				work = append(work, pending{hash: HashFromOid(entry.Id), prefix: entryPath})
			default:
				// Commits (submodules) and tags carry no file content.
			}
		}

		if tree != t {
			tree.Free()
		}
	}

	return blobs, nil
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}
