package trend

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

// Unlimited disables the commit budget.
const Unlimited = math.MaxInt

const secondsPerDay = 24 * 60 * 60

// SelectOptions controls commit sampling.
type SelectOptions struct {
	// StartRef is the revision the walk starts from.
	StartRef string
	// AllParents follows every parent instead of first parents only. Merged
	// branches make the dates of the sampled commits non-monotonic.
	AllParents bool
	// MaxCommits caps the number of selected commits. Zero selects nothing.
	MaxCommits int
	// MinIntervalDays is the gap in days that must be strictly exceeded
	// between two selected commits.
	MinIntervalDays int
}

// Selection is the result of SelectCommits.
type Selection struct {
	// Commits are ordered oldest first.
	Commits []gitlib.CommitInfo
	// Visited is the number of commits walked.
	Visited int
	// Truncated is set when history ended early, e.g. in a shallow clone.
	// Commits then holds what was selected before the walk broke off.
	Truncated error
}

// EnoughDaysPassed reports whether current is far enough from the last selected
// commit. A zero last means nothing was selected yet, which always qualifies.
// The gap is measured in fractional days.
func EnoughDaysPassed(last, current time.Time, minIntervalDays int) bool {
	if last.IsZero() {
		return true
	}

	days := last.Sub(current).Seconds() / secondsPerDay

	return days > float64(minIntervalDays)
}

// SelectCommits walks history from opts.StartRef most recent first and keeps
// every commit that lies more than opts.MinIntervalDays before the previously
// kept one, until opts.MaxCommits commits are kept. The result is reversed to
// oldest first. A truncated history is not an error; it is reported through
// Selection.Truncated.
func SelectCommits(repo Repository, opts SelectOptions) (Selection, error) {
	start, err := repo.ResolveCommit(opts.StartRef)
	if err != nil {
		return Selection{}, err
	}

	var (
		sel          Selection
		lastSelected time.Time
	)

	rowsLeft := opts.MaxCommits

	for commit, walkErr := range repo.History(start.Hash, opts.AllParents) {
		if rowsLeft <= 0 {
			break
		}

		if walkErr != nil {
			if errors.Is(walkErr, ErrTruncatedHistory) {
				sel.Truncated = walkErr

				break
			}

			return Selection{}, walkErr
		}

		sel.Visited++

		if !EnoughDaysPassed(lastSelected, commit.When, opts.MinIntervalDays) {
			continue
		}

		lastSelected = commit.When
		sel.Commits = append(sel.Commits, commit)
		rowsLeft--
	}

	slices.Reverse(sel.Commits)

	return sel, nil
}
