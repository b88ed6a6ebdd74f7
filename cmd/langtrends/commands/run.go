package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/langtrends/pkg/cache"
	"github.com/Sumatoshi-tech/langtrends/pkg/config"
	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
	"github.com/Sumatoshi-tech/langtrends/pkg/output"
	"github.com/Sumatoshi-tech/langtrends/pkg/plotpage"
	"github.com/Sumatoshi-tech/langtrends/pkg/terminal"
	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

// titleSuffix follows the repository name in the chart title.
const titleSuffix = " language trends"

// RunCommand holds the flags that are not configuration values.
type RunCommand struct {
	configPath string
	list       bool
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	err = config.LoadDotEnv(cwd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(rc.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	command := "run"
	if rc.list {
		command = "list"
	}

	providers, err := initObservability(cfg, command, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdownObservability(providers)

	if rc.list {
		return runList(cmd, cfg, providers)
	}

	return runTrends(cmd, cfg, providers, cwd, args)
}

func runTrends(
	cmd *cobra.Command, cfg *config.Config, providers observability.Providers, cwd string, args []string,
) error {
	columns, err := trend.ParseColumns(args)
	if err != nil {
		return err
	}

	// The sink is built first so an unsupported --output fails before the
	// repository is opened.
	sink, err := newSink(cmd, cfg, cwd)
	if err != nil {
		return err
	}

	repo, err := gitlib.LoadRepository(cfg.Repo)
	if err != nil {
		return err
	}
	defer repo.Free()

	stderr := cmd.ErrOrStderr()
	termCfg := terminal.NewConfig()

	lineCache, err := newLineCache(cfg)
	if err != nil {
		return err
	}

	runner := trend.NewRunner(repo, trend.Options{
		Columns:         columns,
		FirstCommit:     cfg.Analysis.FirstCommit,
		AllParents:      cfg.Analysis.AllParents,
		MaxCommits:      cfg.Analysis.MaxCommits,
		MinIntervalDays: cfg.Analysis.MinIntervalDays,
		Relative:        cfg.Analysis.Relative,
	}, lineCache, sink)
	runner.Progress = terminal.NewProgress(stderr, cfg.Output.Progress)
	runner.Notifier = terminal.NewNotifier(stderr, termCfg)
	runner.Logger = providers.Logger
	runner.Tracer = providers.Tracer

	ctx := cmd.Context()

	summary, runErr := runner.Run(ctx)

	recordRun(ctx, providers, summary, runErr)

	if runErr != nil {
		return runErr
	}

	providers.Logger.InfoContext(ctx, "run finished",
		"columns", summary.Columns,
		"rows", summary.Rows,
		"visited", summary.Visited,
		"elapsed", summary.Elapsed)

	if cfg.Output.Benchmark {
		printBenchmark(stderr, summary)
	}

	return nil
}

func newSink(cmd *cobra.Command, cfg *config.Config, cwd string) (trend.Sink, error) {
	path := cfg.Output.Path
	if path == "" {
		path = output.DefaultPath(cwd)
	}

	width, height, err := config.ParseSize(cfg.Output.Size)
	if err != nil {
		return nil, err
	}

	theme, err := plotpage.ParseTheme(cfg.Output.Style)
	if err != nil {
		return nil, err
	}

	return output.New(output.Options{
		Path:     path,
		Stdout:   cmd.OutOrStdout(),
		Notices:  cmd.ErrOrStderr(),
		Title:    repoName(cfg.Repo, cwd) + titleSuffix,
		Relative: cfg.Analysis.Relative,
		Theme:    theme,
		Width:    width,
		Height:   height,
		Label:    languageLabel,
	})
}

func newLineCache(cfg *config.Config) (cache.LineCache, error) {
	if cfg.Analysis.NoCache {
		return cache.NewLineCache(false), nil
	}

	return cache.NewBoundedLineCache(cfg.Analysis.CacheSize)
}

// repoName returns the directory name of the repository. For a path to a
// .git directory the name of its work tree is used.
func repoName(repoPath, cwd string) string {
	path := repoPath
	if path == "" {
		path = cwd
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	abs = filepath.Clean(abs)

	if filepath.Base(abs) == ".git" {
		abs = filepath.Dir(abs)
	}

	return filepath.Base(abs)
}

// languageLabel renders ".c+.h" as ".c+.h (C)", or "" when no language is known.
func languageLabel(column string) string {
	parsed, err := trend.ParseColumn(column)
	if err != nil {
		return ""
	}

	lang := trend.ColumnLanguage(parsed)
	if lang == "" {
		return ""
	}

	return column + " (" + lang + ")"
}

func printBenchmark(w io.Writer, summary trend.Summary) {
	terminal.PrintBenchmark(w, terminal.BenchmarkData{
		LinesCounted:   summary.Counter.LinesCounted,
		FilesProcessed: summary.Counter.Requests,
		BlobsScanned:   summary.Counter.BlobsScanned,
		BytesScanned:   summary.Counter.BytesScanned,
		CacheHits:      summary.Cache.Hits,
		CacheMisses:    summary.Cache.Misses,
		Elapsed:        summary.Elapsed,
	})
}
