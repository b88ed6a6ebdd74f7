package gitlib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

const testBranch = "refs/heads/main"

// TestRepo builds small bare repositories for tests. Every commit moves
// refs/heads/main, which HEAD points at.
type TestRepo struct {
	repo *git2go.Repository
	dir  string
}

// NewTestRepo initializes a bare repository in dir.
func NewTestRepo(dir string) (*TestRepo, error) {
	repo, err := git2go.InitRepository(dir, true)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}

	return &TestRepo{repo: repo, dir: dir}, nil
}

// Dir returns the repository directory.
func (t *TestRepo) Dir() string {
	return t.dir
}

// Commit writes files (slash separated path to content) as the full tree of a
// new commit with the given committer time and parents.
func (t *TestRepo) Commit(when time.Time, files map[string]string, parents ...Hash) (Hash, error) {
	treeID, err := t.writeTree(files)
	if err != nil {
		return Hash{}, err
	}

	tree, err := t.repo.LookupTree(treeID)
	if err != nil {
		return Hash{}, fmt.Errorf("lookup tree: %w", err)
	}
	defer tree.Free()

	parentCommits := make([]*git2go.Commit, 0, len(parents))

	defer func() {
		for _, p := range parentCommits {
			p.Free()
		}
	}()

	for _, p := range parents {
		pc, lookupErr := t.repo.LookupCommit(p.ToOid())
		if lookupErr != nil {
			return Hash{}, fmt.Errorf("lookup parent %s: %w", p.Short(), lookupErr)
		}

		parentCommits = append(parentCommits, pc)
	}

	sig := &git2go.Signature{Name: "Test", Email: "test@example.com", When: when}

	oid, err := t.repo.CreateCommit("", sig, sig, "commit at "+when.Format(time.RFC3339), tree, parentCommits...)
	if err != nil {
		return Hash{}, fmt.Errorf("create commit: %w", err)
	}

	ref, err := t.repo.References.Create(testBranch, oid, true, "test commit")
	if err != nil {
		return Hash{}, fmt.Errorf("update branch: %w", err)
	}
	ref.Free()

	err = t.repo.SetHead(testBranch)
	if err != nil {
		return Hash{}, fmt.Errorf("set head: %w", err)
	}

	return HashFromOid(oid), nil
}

// Tag creates an annotated tag pointing at target.
func (t *TestRepo) Tag(name string, target Hash) error {
	commit, err := t.repo.LookupCommit(target.ToOid())
	if err != nil {
		return fmt.Errorf("lookup tag target: %w", err)
	}
	defer commit.Free()

	sig := &git2go.Signature{Name: "Test", Email: "test@example.com", When: commit.Committer().When}

	_, err = t.repo.Tags.Create(name, commit, sig, "tag "+name)
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// DropObject deletes the loose object file for hash, simulating the missing
// objects of a shallow or damaged clone.
func (t *TestRepo) DropObject(hash Hash) error {
	hexHash := hash.String()

	err := os.Remove(filepath.Join(t.dir, "objects", hexHash[:2], hexHash[2:]))
	if err != nil {
		return fmt.Errorf("drop object: %w", err)
	}

	return nil
}

// Free releases the repository handle.
func (t *TestRepo) Free() {
	if t.repo != nil {
		t.repo.Free()
		t.repo = nil
	}
}

func (t *TestRepo) writeTree(files map[string]string) (*git2go.Oid, error) {
	builder, err := t.repo.TreeBuilder()
	if err != nil {
		return nil, fmt.Errorf("tree builder: %w", err)
	}
	defer builder.Free()

	dirs := make(map[string]map[string]string)

	for name, content := range files {
		dir, rest, nested := strings.Cut(name, "/")
		if nested {
			if dirs[dir] == nil {
				dirs[dir] = make(map[string]string)
			}

			dirs[dir][rest] = content

			continue
		}

		blobID, blobErr := t.repo.CreateBlobFromBuffer([]byte(content))
		if blobErr != nil {
			return nil, fmt.Errorf("create blob %s: %w", name, blobErr)
		}

		err = builder.Insert(name, blobID, git2go.FilemodeBlob)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", name, err)
		}
	}

	for dir, sub := range dirs {
		subID, subErr := t.writeTree(sub)
		if subErr != nil {
			return nil, subErr
		}

		err = builder.Insert(dir, subID, git2go.FilemodeTree)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", dir, err)
		}
	}

	treeID, err := builder.Write()
	if err != nil {
		return nil, fmt.Errorf("write tree: %w", err)
	}

	return treeID, nil
}
