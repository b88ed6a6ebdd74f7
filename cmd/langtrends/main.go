// Package main provides the entry point for the langtrends CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Sumatoshi-tech/langtrends/cmd/langtrends/commands"
	"github.com/Sumatoshi-tech/langtrends/pkg/terminal"
	"github.com/Sumatoshi-tech/langtrends/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := commands.NewRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		terminal.Error(os.Stderr, terminal.NewConfig(), err)
		os.Exit(1)
	}
}
