package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"example/imagebatch/internal/ctxlog"
	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"
)

type Downloader struct {
	files     FileAPI
	batches   BatchAPI
	outputDir string
	inputDir  string
	printer   *report.Printer
}

func NewDownloader(files FileAPI, batches BatchAPI, outputDir, inputDir string, printer *report.Printer) *Downloader {
	return &Downloader{
		files:     files,
		batches:   batches,
		outputDir: outputDir,
		inputDir:  inputDir,
		printer:   printer,
	}
}

type DownloadSummary struct {
	Jobs        int
	Skipped     int
	Saved       int
	Failed      int
	Unprocessed int
}

// Download saves the images of every succeeded job, or only of the jobs
// matching target when it is not empty. Jobs whose folder already holds
// images are skipped.
func (d *Downloader) Download(ctx context.Context, target string) (*DownloadSummary, error) {
	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	d.printer.Println("Checking for completed batch jobs...")
	jobs, err := d.batches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing batch jobs: %w", err)
	}
	if target != "" {
		jobs = MatchJobs(jobs, target)
	}
	var completed []model.Job
	for _, j := range jobs {
		if j.State == model.JobStateSucceeded {
			completed = append(completed, j)
		}
	}
	if len(completed) == 0 {
		if target != "" {
			d.printer.Printf("No completed job found matching '%s'\n", target)
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, target)
		}
		d.printer.Println("No completed batch jobs found.")
		return &DownloadSummary{}, nil
	}

	d.printer.Printf("Found %d completed job(s). Processing...\n", len(completed))
	sum := &DownloadSummary{}
	for _, job := range completed {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		d.downloadJob(ctx, job, sum)
	}
	return sum, nil
}

func (d *Downloader) downloadJob(ctx context.Context, job model.Job, sum *DownloadSummary) {
	log := ctxlog.FromContext(ctx).With("job", job.Name)

	d.printer.Printf("\nJob: %s\n", job.Name)
	if job.DisplayName != "" {
		d.printer.Printf("Name: %s\n", d.printer.Blue(job.DisplayName))
	}

	jobDir := JobDir(d.outputDir, job)
	if n := countImages(jobDir); n > 0 {
		d.printer.Printf("  Skipping: Output folder already exists with %d images.\n", n)
		sum.Skipped++
		return
	}
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		d.printer.Errorf("  Error creating %s: %v", jobDir, err)
		return
	}
	if job.ResultFile == "" {
		d.printer.Println("  No output file found.")
		return
	}
	sum.Jobs++

	inputDir := d.inputDir
	if sub, err := ReadSubmission(jobDir); err != nil {
		log.Warn("reading submission details", "err", err)
	} else if sub != nil && sub.InputDir != "" {
		inputDir = sub.InputDir
	}

	d.printer.Printf("  Downloading results: %s\n", job.ResultFile)
	data, err := d.files.Download(ctx, job.ResultFile)
	if err != nil {
		d.printer.Errorf("  Error downloading/processing file: %v", err)
		return
	}

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	for i, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var item model.BatchResult
		if err := json.Unmarshal(line, &item); err != nil {
			d.printer.Errorf("  Failed to parse JSON line %d: %v", i+1, err)
			sum.Failed++
			continue
		}
		id := item.ID()
		if id == "" {
			id = fmt.Sprintf("unknown_%d", i)
		}

		saved := d.saveItem(jobDir, id, &item)
		sum.Saved += saved
		if saved == 0 {
			sum.Failed++
			copied, err := copyUnprocessed(inputDir, jobDir, id)
			if err != nil {
				log.Warn("copying unprocessed input", "item", id, "err", err)
			}
			if copied {
				sum.Unprocessed++
			}
		}
	}
	log.Info("job downloaded", "dir", jobDir, "saved", sum.Saved)
}

// saveItem writes every image candidate of one result line and returns how
// many were written.
func (d *Downloader) saveItem(jobDir, id string, item *model.BatchResult) int {
	if item.Error != nil {
		d.printer.Errorf("  Error for %s: %s", id, item.Error.Message)
		return 0
	}
	candidates := item.Response.Candidates
	if len(candidates) == 0 {
		d.printer.Warnf("  No candidates returned for %s", id)
		return 0
	}

	saved := 0
	for i, c := range candidates {
		inline := firstInlineData(c)
		if inline == nil {
			d.printer.Warnf("  No image found in candidate %d for %s", i+1, id)
			continue
		}
		name := OutputName(id, inline.MIMEType, i, len(candidates))
		path, err := safeJoin(jobDir, name)
		if err != nil {
			d.printer.Errorf("  Error processing item %s: %v", id, err)
			continue
		}
		img, err := base64.StdEncoding.DecodeString(inline.Data)
		if err != nil {
			d.printer.Errorf("  Error processing item %s: decoding image: %v", id, err)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			d.printer.Errorf("  Error processing item %s: %v", id, err)
			continue
		}
		if err := os.WriteFile(path, img, 0o644); err != nil {
			d.printer.Errorf("  Error processing item %s: %v", id, err)
			continue
		}
		d.printer.Printf("  Saved: %s\n", path)
		saved++
	}
	return saved
}

func firstInlineData(c model.Candidate) *model.InlineData {
	for _, p := range c.Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData
		}
	}
	return nil
}

// OutputName keeps the request key as the file name, adding an extension
// from the MIME type when the key has none and a _cN suffix when the
// request produced several candidates.
func OutputName(id, mimeType string, index, total int) string {
	ext := filepath.Ext(id)
	stem := strings.TrimSuffix(id, ext)
	if ext == "" {
		ext = extensionFor(mimeType)
	}
	if total > 1 {
		return fmt.Sprintf("%s_c%d%s", stem, index+1, ext)
	}
	return stem + ext
}

// countImages counts downloaded images under dir, ignoring the unprocessed
// copies of inputs.
func countImages(dir string) int {
	n := 0
	filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if e.IsDir() {
			if e.Name() == unprocessedDir && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			n++
		}
		return nil
	})
	return n
}
