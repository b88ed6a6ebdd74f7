package gitlib

import (
	"container/heap"
	"errors"
	"fmt"
	"iter"
)

// ErrTruncatedHistory signals that a history walk ended before reaching a root
// commit, typically because the clone is shallow or objects are missing.
var ErrTruncatedHistory = errors.New("unexpected end of git log, maybe a shallow git repo?")

// RevWalk walks commit ancestry newest committer time first. Unlike a sorted
// libgit2 revwalk, which loads the whole graph before returning the first
// commit, parents are loaded one step at a time, so a broken ancestry still
// yields every commit before the break.
type RevWalk struct {
	repo        *Repository
	queue       walkQueue
	seen        map[Hash]struct{}
	pending     []Hash
	firstParent bool
	seq         int
}

// Walk creates a new revision walker.
func (r *Repository) Walk() *RevWalk {
	return &RevWalk{repo: r, seen: make(map[Hash]struct{})}
}

// SimplifyFirstParent restricts the walk to first parents (git log --first-parent).
func (w *RevWalk) SimplifyFirstParent() {
	w.firstParent = true
}

// Push adds a commit to start walking from.
func (w *RevWalk) Push(hash Hash) error {
	if _, ok := w.seen[hash]; ok {
		return nil
	}

	err := w.enqueue(hash)
	if err != nil {
		return fmt.Errorf("push to revwalk: %w", err)
	}

	return nil
}

// Next returns the next commit in the walk. It reports done when history is
// exhausted, and an error wrapping ErrTruncatedHistory when an ancestor cannot
// be loaded.
func (w *RevWalk) Next() (info CommitInfo, done bool, err error) {
	for len(w.pending) > 0 {
		parent := w.pending[0]
		w.pending = w.pending[1:]

		if _, ok := w.seen[parent]; ok {
			continue
		}

		err = w.enqueue(parent)
		if err != nil {
			w.pending = nil

			return CommitInfo{}, true, fmt.Errorf("%w: %w", ErrTruncatedHistory, err)
		}
	}

	if w.queue.Len() == 0 {
		return CommitInfo{}, true, nil
	}

	entry := heap.Pop(&w.queue).(walkEntry)

	w.pending = entry.parents
	if w.firstParent && len(w.pending) > 1 {
		w.pending = w.pending[:1]
	}

	return entry.info, false, nil
}

func (w *RevWalk) enqueue(hash Hash) error {
	commit, err := w.repo.LookupCommit(hash)
	if err != nil {
		return err
	}
	defer commit.Free()

	w.seen[hash] = struct{}{}
	w.seq++

	heap.Push(&w.queue, walkEntry{info: commit.Info(), parents: commit.ParentHashes(), seq: w.seq})

	return nil
}

// History lazily walks the ancestry of start, most recent first. When
// allParents is false only first parents are followed. If the walk breaks off
// early the sequence ends with a zero CommitInfo and an error wrapping
// ErrTruncatedHistory. The sequence can be ranged over once.
func (r *Repository) History(start Hash, allParents bool) iter.Seq2[CommitInfo, error] {
	return func(yield func(CommitInfo, error) bool) {
		walk := r.Walk()
		if !allParents {
			walk.SimplifyFirstParent()
		}

		err := walk.Push(start)
		if err != nil {
			yield(CommitInfo{}, err)

			return
		}

		for {
			info, done, nextErr := walk.Next()
			if nextErr != nil {
				yield(CommitInfo{}, nextErr)

				return
			}

			if done || !yield(info, nil) {
				return
			}
		}
	}
}

type walkEntry struct {
	info    CommitInfo
	parents []Hash
	seq     int
}

// walkQueue is a max-heap on committer time. Equal times keep push order.
type walkQueue []walkEntry

func (q walkQueue) Len() int { return len(q) }

func (q walkQueue) Less(i, j int) bool {
	if !q[i].info.When.Equal(q[j].info.When) {
		return q[i].info.When.After(q[j].info.When)
	}

	return q[i].seq < q[j].seq
}

func (q walkQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *walkQueue) Push(x any) {
	*q = append(*q, x.(walkEntry))
}

func (q *walkQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	*q = old[:n-1]

	return entry
}
