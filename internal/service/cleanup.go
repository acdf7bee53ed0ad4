package service

import (
	"context"
	"strings"

	"example/imagebatch/internal/ctxlog"
	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"
)

type Cleaner struct {
	files   FileAPI
	batches BatchAPI
	asker   Asker
	printer *report.Printer
}

func NewCleaner(files FileAPI, batches BatchAPI, asker Asker, printer *report.Printer) *Cleaner {
	return &Cleaner{files: files, batches: batches, asker: asker, printer: printer}
}

type CleanupOptions struct {
	// AssumeYes answers every confirmation with yes and deletes all history.
	AssumeYes bool
}

type CleanupSummary struct {
	Cancelled    int
	JobsDeleted  int
	FilesDeleted int
	Failures     int
}

// Run cancels active jobs, optionally deletes job history and optionally
// deletes every stored file. Failures on single items are reported and
// skipped.
func (c *Cleaner) Run(ctx context.Context, opts CleanupOptions) *CleanupSummary {
	sum := &CleanupSummary{}
	c.cancelActive(ctx, sum)
	c.deleteHistory(ctx, opts, sum)
	c.deleteFiles(ctx, opts, sum)
	ctxlog.FromContext(ctx).Info("cleanup finished",
		"cancelled", sum.Cancelled, "jobs_deleted", sum.JobsDeleted,
		"files_deleted", sum.FilesDeleted, "failures", sum.Failures)
	return sum
}

func (c *Cleaner) cancelActive(ctx context.Context, sum *CleanupSummary) {
	c.printer.Println("--- Checking for active jobs to stop ---")
	jobs, err := c.batches.List(ctx)
	if err != nil {
		c.printer.Errorf("Error checking jobs: %v", err)
		sum.Failures++
		return
	}
	for _, j := range jobs {
		if !j.State.Cancellable() {
			continue
		}
		c.printer.Printf("Cancelling job %s (Status: %s)...\n", j.Name, j.State)
		if err := c.batches.Cancel(ctx, j.Name); err != nil {
			c.printer.Errorf("  > Failed to cancel %s: %v", j.Name, err)
			sum.Failures++
			continue
		}
		c.printer.Printf("  > Cancel request sent for %s\n", j.Name)
		sum.Cancelled++
	}
	if sum.Cancelled == 0 {
		c.printer.Println("No active jobs found to stop.")
	}
}

func (c *Cleaner) deleteHistory(ctx context.Context, opts CleanupOptions, sum *CleanupSummary) {
	c.printer.Println("\n--- Job History Cleanup ---")
	// Re-list: cancellation may have changed states.
	jobs, err := c.batches.List(ctx)
	if err != nil {
		c.printer.Errorf("Error managing job history: %v", err)
		sum.Failures++
		return
	}
	if len(jobs) == 0 {
		c.printer.Println("No job history found.")
		return
	}
	c.printer.Printf("Found %d total jobs in history.\n", len(jobs))

	action := "all"
	if !opts.AssumeYes {
		action = strings.ToLower(c.asker.Ask("Delete job history? (all/specific/none): "))
	}
	switch action {
	case "all":
		if !opts.AssumeYes && !c.asker.Confirm("Are you sure you want to delete ALL job history? This cannot be undone.") {
			c.printer.Println("Skipping job history deletion.")
			return
		}
		c.deleteJobs(ctx, jobs, sum)
	case "specific":
		target := c.asker.Ask("Enter Job ID or Name to delete (exact match): ")
		if target == "" {
			return
		}
		matches := MatchJobs(jobs, target)
		if len(matches) == 0 {
			c.printer.Printf("No job found matching '%s'\n", target)
			return
		}
		c.deleteJobs(ctx, matches, sum)
	default:
		c.printer.Println("Skipping job history deletion.")
	}
}

func (c *Cleaner) deleteJobs(ctx context.Context, jobs []model.Job, sum *CleanupSummary) {
	for _, j := range jobs {
		c.printer.Printf("Deleting job record: %s (%s)\n", j.Name, j.State)
		if err := c.batches.Delete(ctx, j.Name); err != nil {
			c.printer.Errorf("  > Failed to delete: %v", err)
			sum.Failures++
			continue
		}
		c.printer.Println("  > Deleted.")
		sum.JobsDeleted++
	}
}

func (c *Cleaner) deleteFiles(ctx context.Context, opts CleanupOptions, sum *CleanupSummary) {
	c.printer.Println("\n--- Cleaning up stored files ---")
	if !opts.AssumeYes && !c.asker.Confirm("Delete all uploaded files from storage?") {
		c.printer.Println("Skipping file cleanup.")
		return
	}
	files, err := c.files.List(ctx)
	if err != nil {
		c.printer.Errorf("Error checking files: %v", err)
		sum.Failures++
		return
	}
	if len(files) == 0 {
		c.printer.Println("No files found to delete.")
		return
	}
	c.printer.Printf("Found %d file(s). Deleting...\n", len(files))
	for _, f := range files {
		c.printer.Printf("Deleting file: %s (Display Name: %s)\n", f.Name, f.DisplayName)
		if err := c.files.Delete(ctx, f.Name); err != nil {
			c.printer.Errorf("  > Failed to delete %s: %v", f.Name, err)
			sum.Failures++
			continue
		}
		c.printer.Println("  > Deleted.")
		sum.FilesDeleted++
	}
}
