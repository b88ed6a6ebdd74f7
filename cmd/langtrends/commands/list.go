package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/langtrends/pkg/config"
	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
	"github.com/Sumatoshi-tech/langtrends/pkg/terminal"
	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

const listHeader = "Available extensions in first commit:"

func runList(cmd *cobra.Command, cfg *config.Config, providers observability.Providers) error {
	repo, err := gitlib.LoadRepository(cfg.Repo)
	if err != nil {
		return err
	}
	defer repo.Free()

	ctx, span := providers.Tracer.Start(cmd.Context(), "trend.List")
	defer span.End()

	lineCache, err := newLineCache(cfg)
	if err != nil {
		return err
	}

	counter := trend.NewLineCounter(repo, lineCache)
	progress := terminal.NewProgress(cmd.ErrOrStderr(), cfg.Output.Progress)

	counts, err := trend.CountFirstCommit(repo, cfg.Analysis.FirstCommit, counter, progress)
	if err != nil {
		return err
	}

	providers.Logger.DebugContext(ctx, "listed extensions", "extensions", len(counts))

	writeExtensionList(cmd.OutOrStdout(), counts, terminal.NewConfig())

	return nil
}

// writeExtensionList prints every extension of counts, most lines first, with
// its line count and language.
func writeExtensionList(w io.Writer, counts map[string]int, termCfg terminal.Config) {
	header := color.New(color.Bold)
	if termCfg.NoColor || !terminal.IsTerminal(w) {
		header.DisableColor()
	}

	header.Fprintln(w, listHeader)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Box.PaddingLeft = ""
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})

	for _, ext := range trend.SortedByPopularity(counts) {
		tbl.AppendRow(table.Row{ext, "-", humanize.Comma(int64(counts[ext])), "lines", trend.Language(ext)})
	}

	if tbl.Length() > 0 {
		tbl.Render()
	}

	fmt.Fprintf(w, "%s lines in %d extensions\n", humanize.Comma(int64(total(counts))), len(counts))
}

func total(counts map[string]int) int {
	sum := 0
	for _, n := range counts {
		sum += n
	}

	return sum
}
