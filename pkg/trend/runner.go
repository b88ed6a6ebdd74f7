package trend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/langtrends/pkg/cache"
)

// tracerName is the default OTel tracer name for the trend package.
const tracerName = "langtrends"

// DefaultFirstCommit is the revision analysis starts from by default.
const DefaultFirstCommit = "HEAD"

// Sentinel errors for runs.
var (
	ErrNoExtensionsToAnalyze = errors.New("no extensions to count lines for")
	ErrInvalidTransition     = errors.New("invalid run state transition")
)

// State is the lifecycle state of a Runner.
type State int

// Run states in the only order they may be entered.
const (
	StateInit State = iota
	StateColumnsResolved
	StateCommitsSelected
	StateEmitting
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateColumnsResolved:
		return "columns-resolved"
	case StateCommitsSelected:
		return "commits-selected"
	case StateEmitting:
		return "emitting"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a run.
type Options struct {
	// Columns to report. Empty means auto detect the top DefaultTopN
	// extensions of FirstCommit.
	Columns []Column
	// FirstCommit is the newest commit to analyze, default HEAD.
	FirstCommit     string
	AllParents      bool
	MaxCommits      int
	MinIntervalDays int
	// Relative reports percentages of each row's total instead of line counts.
	Relative bool
}

// Summary describes a finished run.
type Summary struct {
	Columns      []string
	AutoDetected bool
	Selected     int
	Rows         int
	Visited      int
	Truncated    bool
	Counter      CounterStats
	Cache        cache.Stats
	Elapsed      time.Duration
}

// Runner drives one trend analysis: it resolves the columns, selects commits,
// aggregates each of them and forwards the rows to every sink in registration
// order. A Runner is single use.
type Runner struct {
	Repo    Repository
	Options Options
	Sinks   []Sink

	// Counter counts blob lines. When nil an uncached counter is created.
	Counter *LineCounter

	// Progress and Notifier default to no-ops.
	Progress Progress
	Notifier Notifier

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Tracer is the OTel tracer for run spans.
	// When nil, falls back to otel.Tracer("langtrends").
	Tracer trace.Tracer

	state State
}

// NewRunner creates a Runner with an optionally cached line counter.
func NewRunner(repo Repository, opts Options, lineCache cache.LineCache, sinks ...Sink) *Runner {
	return &Runner{
		Repo:    repo,
		Options: opts,
		Sinks:   sinks,
		Counter: NewLineCounter(repo, lineCache),
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}

	return otel.Tracer(tracerName)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.Default()
}

func (r *Runner) progress() Progress {
	if r.Progress != nil {
		return r.Progress
	}

	return NopProgress{}
}

func (r *Runner) notifier() Notifier {
	if r.Notifier != nil {
		return r.Notifier
	}

	return nopNotifier{}
}

func (r *Runner) counter() *LineCounter {
	if r.Counter == nil {
		r.Counter = NewLineCounter(r.Repo, nil)
	}

	return r.Counter
}

func (r *Runner) transition(next State) error {
	if next != r.state+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, next)
	}

	r.state = next

	return nil
}

// Run executes the analysis. Sinks that were started are aborted when the run
// fails and implement Aborter.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	started := time.Now()

	ctx, span := r.tracer().Start(ctx, "trend.Run",
		trace.WithAttributes(
			attribute.Int("trend.min_interval_days", r.Options.MinIntervalDays),
			attribute.Bool("trend.all_parents", r.Options.AllParents),
			attribute.Bool("trend.relative", r.Options.Relative),
		))
	defer span.End()

	summary, err := r.run(ctx)
	summary.Elapsed = time.Since(started)
	summary.Counter = r.counter().Stats()
	summary.Cache = r.counter().CacheStats()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return summary, err
	}

	span.SetAttributes(
		attribute.Int("trend.rows", summary.Rows),
		attribute.Int64("trend.lines_counted", summary.Counter.LinesCounted),
	)

	return summary, nil
}

func (r *Runner) run(ctx context.Context) (Summary, error) {
	var summary Summary

	if r.state != StateInit {
		return summary, fmt.Errorf("%w: run from %s", ErrInvalidTransition, r.state)
	}

	columns, auto, err := r.resolveColumns(ctx)
	if err != nil {
		return summary, err
	}

	summary.Columns = ColumnNames(columns)
	summary.AutoDetected = auto

	err = r.transition(StateColumnsResolved)
	if err != nil {
		return summary, err
	}

	sel, err := r.selectCommits(ctx)
	if err != nil {
		return summary, err
	}

	summary.Selected = len(sel.Commits)
	summary.Visited = sel.Visited
	summary.Truncated = sel.Truncated != nil

	err = r.transition(StateCommitsSelected)
	if err != nil {
		return summary, err
	}

	rows, err := r.emit(ctx, columns, sel)
	summary.Rows = rows

	if err != nil {
		r.abortSinks()

		return summary, err
	}

	err = r.transition(StateFinalized)
	if err != nil {
		return summary, err
	}

	for _, sink := range r.Sinks {
		err = sink.Finish()
		if err != nil {
			return summary, fmt.Errorf("finish output: %w", err)
		}
	}

	return summary, nil
}

func (r *Runner) resolveColumns(ctx context.Context) (columns []Column, auto bool, err error) {
	_, span := r.tracer().Start(ctx, "trend.ResolveColumns")
	defer span.End()

	if len(r.Options.Columns) > 0 {
		return r.Options.Columns, false, nil
	}

	r.notifier().Notice("No file extensions specified, will use top three.")

	counts, err := CountFirstCommit(r.Repo, r.firstCommit(), r.counter(), r.progress())
	if err != nil {
		return nil, true, err
	}

	top := TopExtensions(counts, DefaultTopN)
	if len(top) == 0 {
		return nil, true, ErrNoExtensionsToAnalyze
	}

	r.notifier().Notice("Top three extensions were: " + strings.Join(top, " "))
	r.logger().Debug("auto detected columns", "columns", top)

	columns, err = ParseColumns(top)
	if err != nil {
		return nil, true, err
	}

	span.SetAttributes(attribute.StringSlice("trend.columns", top))

	return columns, true, nil
}

func (r *Runner) selectCommits(ctx context.Context) (Selection, error) {
	_, span := r.tracer().Start(ctx, "trend.SelectCommits")
	defer span.End()

	sel, err := SelectCommits(r.Repo, SelectOptions{
		StartRef:        r.firstCommit(),
		AllParents:      r.Options.AllParents,
		MaxCommits:      r.Options.MaxCommits,
		MinIntervalDays: r.Options.MinIntervalDays,
	})
	if err != nil {
		span.RecordError(err)

		return sel, err
	}

	if sel.Truncated != nil {
		r.notifier().Warning("WARNING: unexpected end of git log, maybe a shallow git repo?")
		r.logger().Warn("history truncated", "error", sel.Truncated, "selected", len(sel.Commits))
	}

	span.SetAttributes(
		attribute.Int("trend.commits_visited", sel.Visited),
		attribute.Int("trend.commits_selected", len(sel.Commits)),
	)
	r.logger().Debug("commits selected", "visited", sel.Visited, "selected", len(sel.Commits))

	return sel, nil
}

func (r *Runner) emit(ctx context.Context, columns []Column, sel Selection) (int, error) {
	err := r.transition(StateEmitting)
	if err != nil {
		return 0, err
	}

	names := ColumnNames(columns)

	for _, sink := range r.Sinks {
		err = sink.Start(names)
		if err != nil {
			return 0, fmt.Errorf("start output: %w", err)
		}
	}

	extToColumn := ExtensionToColumn(columns)
	aggregator := NewAggregator(r.Repo, r.counter())
	progress := r.progress()
	total := len(sel.Commits)

	defer progress.Done()

	for i, commit := range sel.Commits {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return i, ctxErr
		}

		progress.Commit(i+1, total)

		_, span := r.tracer().Start(ctx, "trend.AggregateCommit",
			trace.WithAttributes(attribute.String("git.commit", commit.Hash.String())))

		counts, aggErr := aggregator.Aggregate(commit.Hash, extToColumn, progress)

		span.End()

		if aggErr != nil {
			return i, fmt.Errorf("commit %s: %w", commit.Hash.Short(), aggErr)
		}

		row := Row{Date: commit.Date(), Values: r.values(counts)}

		for _, sink := range r.Sinks {
			err = sink.AddRow(names, row)
			if err != nil {
				return i, fmt.Errorf("write row: %w", err)
			}
		}
	}

	return total, nil
}

func (r *Runner) values(counts map[string]int) map[string]float64 {
	if r.Options.Relative {
		return Relative(counts)
	}

	return Absolute(counts)
}

func (r *Runner) abortSinks() {
	for _, sink := range r.Sinks {
		aborter, ok := sink.(Aborter)
		if !ok {
			continue
		}

		err := aborter.Abort()
		if err != nil {
			r.logger().Warn("discard partial output", "error", err)
		}
	}
}

func (r *Runner) firstCommit() string {
	if r.Options.FirstCommit == "" {
		return DefaultFirstCommit
	}

	return r.Options.FirstCommit
}

// CountFirstCommit counts the lines of every extension in the tree of rev.
func CountFirstCommit(repo Repository, rev string, counter *LineCounter, progress Progress) (map[string]int, error) {
	if progress == nil {
		progress = NopProgress{}
	}

	commit, err := repo.ResolveCommit(rev)
	if err != nil {
		return nil, err
	}

	progress.Commit(1, 1)
	defer progress.Done()

	return NewAggregator(repo, counter).Aggregate(commit.Hash, nil, progress)
}
