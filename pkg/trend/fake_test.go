package trend_test

import (
	"crypto/sha1" //nolint:gosec // object identity only.
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

var errFakeRead = errors.New("fake: blob unreadable")

type fakeCommit struct {
	info    gitlib.CommitInfo
	parents []gitlib.Hash
	blobs   []gitlib.BlobEntry
}

// fakeRepo is an in-memory trend.Repository.
type fakeRepo struct {
	commits map[gitlib.Hash]*fakeCommit
	refs    map[string]gitlib.Hash
	blobs   map[gitlib.Hash][]byte
	reads   map[gitlib.Hash]int
	head    gitlib.Hash

	// truncateAt makes the walk break off when it reaches this commit.
	truncateAt gitlib.Hash
	// unreadable blobs fail ReadBlob.
	unreadable map[gitlib.Hash]bool

	seq int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		commits:    make(map[gitlib.Hash]*fakeCommit),
		refs:       make(map[string]gitlib.Hash),
		blobs:      make(map[gitlib.Hash][]byte),
		reads:      make(map[gitlib.Hash]int),
		unreadable: make(map[gitlib.Hash]bool),
	}
}

func blobHash(content string) gitlib.Hash {
	return gitlib.Hash(sha1.Sum([]byte("blob " + content))) //nolint:gosec // object identity only.
}

func lines(n int) string {
	return strings.Repeat("line\n", n)
}

// commit adds a commit whose tree holds files and moves HEAD to it.
func (f *fakeRepo) commit(when time.Time, files map[string]string, parents ...gitlib.Hash) gitlib.Hash {
	f.seq++

	hash := gitlib.Hash(sha1.Sum(fmt.Appendf(nil, "commit %d %s", f.seq, when))) //nolint:gosec // object identity only.

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	c := &fakeCommit{info: gitlib.CommitInfo{Hash: hash, When: when.UTC()}, parents: parents}

	for _, p := range paths {
		bh := blobHash(files[p])
		f.blobs[bh] = []byte(files[p])

		name := p[strings.LastIndexByte(p, '/')+1:]
		c.blobs = append(c.blobs, gitlib.BlobEntry{Path: p, Name: name, Hash: bh})
	}

	f.commits[hash] = c
	f.head = hash

	return hash
}

func (f *fakeRepo) ResolveCommit(rev string) (gitlib.CommitInfo, error) {
	if rev == "HEAD" && !f.head.IsZero() {
		return f.commits[f.head].info, nil
	}

	if h, ok := f.refs[rev]; ok {
		return f.commits[h].info, nil
	}

	return gitlib.CommitInfo{}, fmt.Errorf("%w: %s", gitlib.ErrRevisionNotFound, rev)
}

func (f *fakeRepo) History(start gitlib.Hash, allParents bool) iter.Seq2[gitlib.CommitInfo, error] {
	return func(yield func(gitlib.CommitInfo, error) bool) {
		seen := map[gitlib.Hash]bool{start: true}
		queue := []*fakeCommit{f.commits[start]}

		for len(queue) > 0 {
			// Newest pending commit first, like a time sorted walk.
			slices.SortStableFunc(queue, func(a, b *fakeCommit) int {
				return b.info.When.Compare(a.info.When)
			})

			c := queue[0]
			queue = queue[1:]

			if c.info.Hash == f.truncateAt {
				yield(gitlib.CommitInfo{}, fmt.Errorf("%w: object missing", gitlib.ErrTruncatedHistory))

				return
			}

			if !yield(c.info, nil) {
				return
			}

			parents := c.parents
			if !allParents && len(parents) > 1 {
				parents = parents[:1]
			}

			for _, p := range parents {
				if seen[p] {
					continue
				}

				seen[p] = true
				queue = append(queue, f.commits[p])
			}
		}
	}
}

func (f *fakeRepo) TreeBlobs(commit gitlib.Hash) ([]gitlib.BlobEntry, error) {
	c, ok := f.commits[commit]
	if !ok {
		return nil, fmt.Errorf("fake: no commit %s", commit.Short())
	}

	return c.blobs, nil
}

func (f *fakeRepo) ReadBlob(hash gitlib.Hash, scan func([]byte)) error {
	if f.unreadable[hash] {
		return errFakeRead
	}

	content, ok := f.blobs[hash]
	if !ok {
		return fmt.Errorf("fake: no blob %s", hash.Short())
	}

	f.reads[hash]++
	scan(content)

	return nil
}

var _ trend.Repository = (*fakeRepo)(nil)

// event is one sink call as seen by recordingSink.
type event struct {
	Sink    string
	Kind    string
	Columns []string
	Row     trend.Row
}

type recordingSink struct {
	name    string
	log     *[]event
	aborted bool
	failAdd error
}

func newRecordingSink(name string, log *[]event) *recordingSink {
	return &recordingSink{name: name, log: log}
}

func (s *recordingSink) Start(columns []string) error {
	*s.log = append(*s.log, event{Sink: s.name, Kind: "start", Columns: columns})

	return nil
}

func (s *recordingSink) AddRow(columns []string, row trend.Row) error {
	if s.failAdd != nil {
		return s.failAdd
	}

	*s.log = append(*s.log, event{Sink: s.name, Kind: "row", Columns: columns, Row: row})

	return nil
}

func (s *recordingSink) Finish() error {
	*s.log = append(*s.log, event{Sink: s.name, Kind: "finish"})

	return nil
}

func (s *recordingSink) Abort() error {
	s.aborted = true

	return nil
}

func rowsOf(log []event, sink string) []trend.Row {
	var rows []trend.Row

	for _, e := range log {
		if e.Sink == sink && e.Kind == "row" {
			rows = append(rows, e.Row)
		}
	}

	return rows
}

type recordingNotifier struct {
	notices  []string
	warnings []string
}

func (n *recordingNotifier) Notice(msg string)  { n.notices = append(n.notices, msg) }
func (n *recordingNotifier) Warning(msg string) { n.warnings = append(n.warnings, msg) }

func at(day, hour int) time.Time {
	return time.Date(2021, time.January, day, hour, 0, 0, 0, time.UTC)
}
