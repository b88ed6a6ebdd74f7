package terminal

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

// RateLimitInterval is the minimum time between two progress lines.
const RateLimitInterval = 100 * time.Millisecond

// Progress prints "Counting lines in commit  3/12 file  45/678" lines,
// overwriting them in place with a carriage return.
type Progress struct {
	w       io.Writer
	enabled bool
	now     func() time.Time

	commit       int
	totalCommits int
	lastPrint    time.Time
	printed      bool
}

// NewProgress creates a progress printer. It stays silent unless enabled is
// set and w is a terminal.
func NewProgress(w io.Writer, enabled bool) *Progress {
	return &Progress{w: w, enabled: enabled && IsTerminal(w), now: time.Now}
}

// NewProgressWithClock creates an always enabled progress printer with a custom
// clock.
func NewProgressWithClock(w io.Writer, now func() time.Time) *Progress {
	return &Progress{w: w, enabled: true, now: now}
}

// Commit implements trend.Progress.
func (p *Progress) Commit(index, total int) {
	p.commit = index
	p.totalCommits = total
}

// File implements trend.Progress. The last file of a commit is always printed
// so the line never looks incomplete.
func (p *Progress) File(index, total int) {
	if !p.enabled {
		return
	}

	if p.rateLimited() && index < total {
		return
	}

	commitPart := ""
	if p.totalCommits != 1 {
		commitPart = "commit " + paddedProgress(p.commit, p.totalCommits) + " "
	}

	fmt.Fprintf(p.w, "Counting lines in %sfile %s\r", commitPart, paddedProgress(index, total))

	p.printed = true
}

// Done implements trend.Progress by ending the progress line.
func (p *Progress) Done() {
	if !p.printed {
		return
	}

	fmt.Fprintln(p.w)

	p.printed = false
}

func (p *Progress) rateLimited() bool {
	now := p.now()
	if !p.lastPrint.IsZero() && now.Sub(p.lastPrint) < RateLimitInterval {
		return true
	}

	p.lastPrint = now

	return false
}

func paddedProgress(current, total int) string {
	pad := len(strconv.Itoa(total))

	return fmt.Sprintf("%*d/%d", pad, current, total)
}
