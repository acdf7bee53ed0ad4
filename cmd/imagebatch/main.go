package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"example/imagebatch/internal/cli"
	"example/imagebatch/internal/config"
	"example/imagebatch/internal/prompt"
	"example/imagebatch/internal/report"
)

func main() {
	// Minimal logger until the configured one replaces it.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	env := cli.Env{
		Stdout:     stdout,
		Stderr:     stderr,
		Printer:    report.New(stdout),
		Asker:      prompt.NewStdio(),
		LoadConfig: config.Load,
		Connect:    cli.Connect,
	}
	return cli.Run(ctx, env, args)
}
