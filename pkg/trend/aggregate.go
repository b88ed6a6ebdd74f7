package trend

import (
	"strings"

	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

// Extension returns the file extension of name, from the last dot to the end
// including the dot. Names without a dot have no extension and yield "".
// Dot files count as extensions: ".gitignore" yields ".gitignore".
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}

	return name[idx:]
}

// Aggregator folds the line counts of a commit's blobs into columns.
type Aggregator struct {
	Repo    Repository
	Counter *LineCounter
}

// NewAggregator creates an Aggregator.
func NewAggregator(repo Repository, counter *LineCounter) *Aggregator {
	return &Aggregator{Repo: repo, Counter: counter}
}

// Aggregate sums the lines of the commit's blobs per column. With a nil or empty
// extToColumn every extension is its own column. Blobs whose extension maps to
// no column are skipped without being read. Columns without a matching blob
// are absent from the result; callers render them as 0.
func (a *Aggregator) Aggregate(commit gitlib.Hash, extToColumn map[string]string, progress Progress) (map[string]int, error) {
	if progress == nil {
		progress = NopProgress{}
	}

	blobs, err := a.Repo.TreeBlobs(commit)
	if err != nil {
		return nil, err
	}

	columnToLines := make(map[string]int)
	total := len(blobs)

	for i, blob := range blobs {
		progress.File(i+1, total)

		ext := Extension(blob.Name)
		if ext == "" {
			continue
		}

		column := ext
		if len(extToColumn) > 0 {
			column = extToColumn[ext]
			if column == "" {
				continue
			}
		}

		lines, countErr := a.Counter.Count(blob.Hash)
		if countErr != nil {
			return nil, countErr
		}

		columnToLines[column] += lines
	}

	return columnToLines, nil
}
