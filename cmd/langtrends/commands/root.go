// Package commands implements the langtrends cobra commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/langtrends/pkg/config"
	"github.com/Sumatoshi-tech/langtrends/pkg/output"
)

const rootLong = `Plot programming language usage over time in a git repository.

Columns are file extensions such as .go, or several extensions summed into one
column such as .c+.h. Without columns the three extensions with the most lines
in the first commit are used.

The output format follows the extension of --output:
  .html        stacked area chart (default)
  .tsv, .csv   delimited text
  .json, .yaml machine readable rows
A bare extension such as "-o .tsv" writes to stdout.

Configuration is read from .langtrends.yaml, LANGTRENDS_* environment
variables and a .env file in the working directory. GIT_DIR selects the
repository when --repo is not given.`

// NewRootCommand creates the langtrends command. The root command runs the
// analysis itself; "version" is its only subcommand.
func NewRootCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "langtrends [.ext | .ext1+.ext2 ...]",
		Short: "Graph programming language usage over the history of a git repository",
		Long:  rootLong,
		Example: `  langtrends .go .py+.pyi
  langtrends --relative --min-interval-days 30 -o trends.tsv .c+.h .rs
  langtrends --list --first-commit v1.0.0`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rc.run,
	}

	registerFlags(cmd, rc)

	cmd.AddCommand(newVersionCommand())

	return cmd
}

// unlimitedCommits is shown in help in place of the math.MaxInt default.
const unlimitedCommits = "unlimited"

func registerFlags(cmd *cobra.Command, rc *RunCommand) {
	flags := cmd.Flags()

	flags.Int("min-interval-days", config.DefaultMinIntervalDays, "Minimum interval in days between analyzed commits")
	flags.IntP("max-commits", "n", config.DefaultMaxCommits, "Maximum number of commits to analyze")
	flags.Lookup("max-commits").DefValue = unlimitedCommits
	flags.String("first-commit", config.DefaultFirstCommit, "The commit, tag or branch to start from")
	flags.Bool("relative", config.DefaultRelative, "Report percentages of each row's total instead of line counts")
	flags.StringP("output", "o", config.DefaultOutputPath,
		"Output file; its extension selects the format (default <cwd>"+output.DefaultSuffix+")")
	flags.BoolP("all-parents", "a", config.DefaultAllParents, "Follow every parent of merge commits, not only the first")
	flags.Bool("no-cache", config.DefaultNoCache, "Do not cache line counts of blobs")
	flags.Int("cache-size", config.DefaultCacheSize, "Keep at most this many blob line counts cached (0 = unbounded)")
	flags.Bool("no-progress", false, "Do not print progress on stderr")
	flags.BoolVarP(&rc.list, "list", "l", false, "List extensions and line counts of the first commit and exit")

	flags.String("style", config.DefaultStyle, "Chart style: dark or light")
	flags.String("size", config.DefaultSize, "Chart size in pixels, WIDTHxHEIGHT")
	flags.Bool("benchmark", config.DefaultBenchmark, "Print throughput figures after the run")

	flags.String("repo", "", "Repository path (default $GIT_DIR or the working directory)")
	flags.StringVar(&rc.configPath, "config", "", "Config file (default .langtrends.yaml)")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.Bool("log-json", config.DefaultLogJSON, "Log as JSON")
	flags.String("otlp-endpoint", "", "OTLP gRPC collector address for traces and metrics")
	flags.Bool("otlp-insecure", false, "Disable TLS for the OTLP connection")
	flags.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.String("environment", "", "Environment name attached to logs and telemetry, e.g. ci")
	flags.Bool("debug-trace", false, "Export every run's trace and log span attributes that are dropped")
	flags.Float64("sample-ratio", 0, "Fraction of runs whose trace is exported (0 = every run)")
}
