// Package cli maps subcommands and flags onto the service layer and turns
// failures into exit codes.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"example/imagebatch/internal/config"
	"example/imagebatch/internal/ctxlog"
	"example/imagebatch/internal/gemini"
	"example/imagebatch/internal/report"
	"example/imagebatch/internal/service"
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Env holds the process level dependencies so tests can replace them.
type Env struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Printer    *report.Printer
	Asker      service.Asker
	LoadConfig func() (*config.Config, error)
	Connect    func(ctx context.Context, cfg *config.Config) (service.FileAPI, service.BatchAPI, error)
}

// Connect builds the File and Batch API adapters on a genai client.
func Connect(ctx context.Context, cfg *config.Config) (service.FileAPI, service.BatchAPI, error) {
	client, err := gemini.SetupClient(ctx, cfg.APIKey, cfg.Project, cfg.Location)
	if err != nil {
		return nil, nil, err
	}
	return gemini.NewFiles(client), gemini.NewBatches(client), nil
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, app *app, args []string) error
}

var commands = []command{
	{"submit", "upload input images and create a batch job", runSubmit},
	{"jobs", "list batch jobs or watch one until it finishes", runJobs},
	{"storage", "show uploaded files and storage usage", runStorage},
	{"download", "download results of completed jobs", runDownload},
	{"cleanup", "cancel jobs, delete job history and uploaded files", runCleanup},
}

type app struct {
	env     Env
	cfg     *config.Config
	files   service.FileAPI
	batches service.BatchAPI
}

// Run dispatches args[0] to its command.
func Run(ctx context.Context, env Env, args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(env.Stdout)
		return nil
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		usage(env.Stderr)
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", args[0])}
	}

	cfg, err := env.LoadConfig()
	if err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("configuration: %v", err)}
	}
	logger := ctxlog.New(env.Stderr, cfg.LogFormat, cfg.LogLevel)
	ctx = ctxlog.WithLogger(ctx, logger)

	a := &app{env: env, cfg: cfg}
	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return nil
}

// connect is deferred until flags parsed so -h never needs credentials.
func (a *app) connect(ctx context.Context) error {
	files, batches, err := a.env.Connect(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.files, a.batches = files, batches
	return nil
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("imagebatch "+name, flag.ContinueOnError)
	fs.SetOutput(a.env.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	return nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `
imagebatch - batch image generation with the Gemini Batch API.

Usage:
  imagebatch <command> [options]

Commands:
`)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprint(w, `
Configuration is read from .env and the environment (GEMINI_API_KEY, MODEL,
INPUT_DIR, OUTPUT_DIR, CONCURRENT, PRESET_FILE, LOG_LEVEL, ...).
Run "imagebatch <command> -h" for command options.
`)
}
