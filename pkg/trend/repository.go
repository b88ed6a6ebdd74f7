// Package trend implements the language trend engine: it samples commits from
// history, counts newline bytes in the blobs of each sampled tree, and folds
// the counts into per-column rows for output sinks.
package trend

import (
	"iter"

	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

// Errors reported by the version control layer.
var (
	ErrRevisionNotFound = gitlib.ErrRevisionNotFound
	ErrTruncatedHistory = gitlib.ErrTruncatedHistory
)

// Repository is the read-only repository view used by the engine.
// *gitlib.Repository satisfies it.
type Repository interface {
	// ResolveCommit resolves a revision to a commit.
	ResolveCommit(rev string) (gitlib.CommitInfo, error)
	// History walks ancestry most recent first. A walk that breaks off ends
	// with an error wrapping ErrTruncatedHistory.
	History(start gitlib.Hash, allParents bool) iter.Seq2[gitlib.CommitInfo, error]
	// TreeBlobs lists the blobs of a commit's tree.
	TreeBlobs(commit gitlib.Hash) ([]gitlib.BlobEntry, error)
	// ReadBlob passes the raw blob content to scan. The slice must not be
	// retained after scan returns.
	ReadBlob(hash gitlib.Hash, scan func(content []byte)) error
}
