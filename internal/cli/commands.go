package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"example/imagebatch/internal/config"
	"example/imagebatch/internal/model"
	"example/imagebatch/internal/service"
)

func runSubmit(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("submit")
	name := fs.String("name", "", "job display name (prompted when empty)")
	candidates := fs.String("candidates", "", "candidates per image, 1-4 (prompted when empty)")
	size := fs.String("size", "", "image size: 1K, 2K or 4K (prompted when empty)")
	input := fs.String("input", a.cfg.InputDir, "directory of input images")
	output := fs.String("output", a.cfg.OutputDir, "base output directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a.cfg.InputDir, a.cfg.OutputDir = *input, *output

	p := a.env.Printer
	opts := service.SubmitOptions{JobName: *name}
	if opts.JobName == "" {
		opts.JobName = a.env.Asker.Ask("Enter a name for this job (optional, press Enter for auto-generated): ")
	}

	if *candidates == "" {
		*candidates = a.env.Asker.Ask(fmt.Sprintf("Enter candidate count (1-%d, default %d): ", config.MaxCandidateCount, a.cfg.CandidateCount))
	}
	opts.CandidateCount = a.cfg.CandidateCount
	if strings.TrimSpace(*candidates) != "" {
		n, err := config.ParseCandidateCount(*candidates)
		if err != nil {
			p.Warnf("Invalid count (%v), using default %d.", err, config.DefaultCandidateCount)
		}
		opts.CandidateCount = n
	}

	if *size == "" {
		*size = a.env.Asker.Ask(fmt.Sprintf("Enter image size (%s, default %s): ", strings.Join(config.ImageSizes, ", "), a.cfg.ImageSize))
	}
	opts.ImageSize = a.cfg.ImageSize
	if strings.TrimSpace(*size) != "" {
		s, err := config.ParseImageSize(*size)
		if err != nil {
			p.Warnf("Invalid size (%v), using default %s.", err, config.DefaultImageSize)
		}
		opts.ImageSize = s
	}

	if err := a.connect(ctx); err != nil {
		return err
	}
	_, err := service.NewSubmitter(a.files, a.batches, a.cfg, p).Submit(ctx, opts)
	switch {
	case errors.Is(err, service.ErrNoImages):
		p.Println("No images found.")
	case errors.Is(err, service.ErrNoUploads):
		p.Errorf("No files were successfully uploaded. Aborting.")
	}
	return err
}

func runJobs(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("jobs")
	watch := fs.String("watch", "", "job id or name to poll until it finishes")
	interval := fs.Duration("interval", a.cfg.WatchInterval, "poll interval for -watch")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *interval <= 0 {
		return &ExitError{Code: 2, Message: "interval must be positive"}
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	m := service.NewJobMonitor(a.batches, a.env.Printer)
	if *watch == "" {
		return m.Overview(ctx)
	}
	job, err := m.Watch(ctx, *watch, *interval)
	if err != nil {
		return err
	}
	if job.State.Terminal() && job.State != model.JobStateSucceeded {
		return &ExitError{Code: 1, Message: fmt.Sprintf("job %s finished in state %s", job.Name, job.State)}
	}
	return nil
}

func runStorage(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("storage")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	_, err := service.NewStorageReporter(a.files, a.env.Printer).Report(ctx)
	return err
}

func runDownload(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("download")
	target := fs.String("job", "", "job id or display name (prompted when empty)")
	all := fs.Bool("all", false, "download every completed job without prompting")
	output := fs.String("output", a.cfg.OutputDir, "base output directory")
	input := fs.String("input", a.cfg.InputDir, "input directory used for unprocessed copies")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *target == "" && !*all {
		*target = a.env.Asker.Ask("Enter specific Job ID or Name to download (or press Enter to scan all): ")
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	d := service.NewDownloader(a.files, a.batches, *output, *input, a.env.Printer)
	sum, err := d.Download(ctx, *target)
	if err != nil {
		return err
	}
	if sum.Jobs > 0 {
		a.env.Printer.Successf("\nSaved %d image(s) from %d job(s); %d item(s) failed.", sum.Saved, sum.Jobs, sum.Failed)
	}
	return nil
}

func runCleanup(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("cleanup")
	yes := fs.Bool("yes", false, "answer yes to every question and delete all history")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	p := a.env.Printer
	p.Warnf("WARNING: This command cancels jobs and deletes job history and files.")
	if !*yes && !a.env.Asker.Confirm("Continue?") {
		p.Println("Operation cancelled.")
		return nil
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	sum := service.NewCleaner(a.files, a.batches, a.env.Asker, p).Run(ctx, service.CleanupOptions{AssumeYes: *yes})
	if sum.Failures > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("cleanup finished with %d failure(s)", sum.Failures)}
	}
	return nil
}
