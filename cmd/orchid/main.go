package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/orchid/internal/app"
	"github.com/vk/orchid/internal/cli"
	"github.com/vk/orchid/internal/executor"
)

// main is the entrypoint for the orchid binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, arguments []string) error {
	config, shouldExit, err := cli.Parse(arguments, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	orchidApp, err := app.NewApp(outW, config)
	if err != nil {
		return err
	}

	report, err := orchidApp.Run(context.Background())
	if err != nil {
		return err
	}
	if report == nil {
		// Plan-only invocation; nothing ran.
		return nil
	}

	fmt.Fprintln(outW, renderReport(report))
	if report.Status != executor.StatusSuccess {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("run finished with status %s", report.Status)}
	}
	return nil
}
