package trend

// Progress receives counting progress. Indexes are 1-based.
type Progress interface {
	// Commit is called before a commit is aggregated.
	Commit(index, total int)
	// File is called for every blob of the current commit.
	File(index, total int)
	// Done is called when counting is over.
	Done()
}

// NopProgress discards progress.
type NopProgress struct{}

// Commit implements Progress.
func (NopProgress) Commit(int, int) {}

// File implements Progress.
func (NopProgress) File(int, int) {}

// Done implements Progress.
func (NopProgress) Done() {}

// Notifier receives user facing notices and warnings emitted during a run.
type Notifier interface {
	Notice(msg string)
	Warning(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Notice(string)  {}
func (nopNotifier) Warning(string) {}
