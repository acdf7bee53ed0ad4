package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"example/imagebatch/internal/config"
	"example/imagebatch/internal/ctxlog"
	"example/imagebatch/internal/gemini"
	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"
)

const (
	submissionFile   = "submission_details.json"
	unprocessedDir   = "unprocessed"
	autoNamePrefix   = "image_enhance_"
	batchInputMIME   = "application/jsonl"
	batchInputPrefix = "batch_input_"
)

type SubmitOptions struct {
	// JobName is the optional user supplied display name.
	JobName        string
	CandidateCount int
	ImageSize      string
}

type Submitter struct {
	files    FileAPI
	batches  BatchAPI
	uploader *Uploader
	cfg      *config.Config
	printer  *report.Printer
	now      func() time.Time
}

func NewSubmitter(files FileAPI, batches BatchAPI, cfg *config.Config, printer *report.Printer) *Submitter {
	return &Submitter{
		files:    files,
		batches:  batches,
		uploader: NewUploader(files, cfg.Concurrent, cfg.PollInterval, printer),
		cfg:      cfg,
		printer:  printer,
		now:      time.Now,
	}
}

// Submit uploads every image in the input directory, creates a batch job
// over them and records the submission in the job's output folder.
func (s *Submitter) Submit(ctx context.Context, opts SubmitOptions) (*model.Submission, error) {
	log := ctxlog.FromContext(ctx)

	s.printer.Printf("Scanning '%s' for images...\n", s.cfg.InputDir)
	images, err := collectImages(s.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	s.printer.Printf("Found %d images. Uploading (Concurrent: %d)...\n", len(images), s.cfg.Concurrent)
	uploads, err := s.uploader.UploadAll(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("uploading images: %w", err)
	}
	if len(uploads.Uploaded) == 0 {
		return nil, ErrNoUploads
	}

	genConfig := gemini.GetConfig(s.cfg.Temperature, opts.CandidateCount, s.cfg.AspectRatio, opts.ImageSize)
	names := sortedKeys(uploads.Uploaded)

	displayName := strings.TrimSpace(opts.JobName)
	if displayName == "" {
		displayName = autoNamePrefix + s.now().Format("20060102_150405")
	}

	s.printer.Println("\nPreparing batch request...")
	inputPath, err := s.writeBatchInput(displayName, names, uploads.Uploaded, genConfig)
	if err != nil {
		return nil, err
	}
	s.printer.Printf("Created %s with %d requests.\n", inputPath, len(names))

	s.printer.Println("Uploading batch input file...")
	inputFile, err := s.files.Upload(ctx, inputPath, batchInputMIME, filepath.Base(inputPath))
	if err != nil {
		return nil, fmt.Errorf("uploading batch input: %w", err)
	}

	s.printer.Println("Creating batch job...")
	job, err := s.batches.Create(ctx, s.cfg.Model, inputFile.Name, displayName)
	if err != nil {
		if strings.Contains(err.Error(), "INVALID_ARGUMENT") {
			s.printer.Warnf("Tip: this might be due to unsupported generation_config parameters (like aspect_ratio) for this model in batch mode.")
		}
		return nil, fmt.Errorf("creating batch job: %w", err)
	}
	log.Info("batch job created", "job", job.Name, "display_name", displayName, "requests", len(names))

	s.printer.Successf("\nBatch job created successfully!")
	s.printer.Printf("Job ID: %s\n", job.Name)
	s.printer.Printf("Display Name: %s\n", displayName)
	s.printer.Printf("Status: %s\n", job.State)
	s.printer.Println("To check status, run: imagebatch jobs")
	s.printer.Println("To download results later, run: imagebatch download")

	sub := &model.Submission{
		JobID:       job.Name,
		DisplayName: displayName,
		Model:       s.cfg.Model,
		Prompt:      s.cfg.Prompt,
		Config:      genConfig,
		CreatedAt:   fmt.Sprintf("%.6f", float64(s.now().UnixNano())/1e9),
		Status:      string(job.State),
		InputDir:    s.cfg.InputDir,
		Files:       names,
		Failed:      sortedKeys(uploads.Failed),
	}
	named := *job
	named.DisplayName = displayName
	jobDir := JobDir(s.cfg.OutputDir, named)
	if err := writeSubmission(jobDir, sub); err != nil {
		return sub, err
	}
	s.printer.Printf("Job details saved to %s\n", filepath.Join(jobDir, submissionFile))

	for _, name := range sub.Failed {
		if _, err := copyUnprocessed(s.cfg.InputDir, jobDir, name); err != nil {
			log.Warn("copying failed upload", "file", name, "err", err)
		}
	}
	return sub, nil
}

func (s *Submitter) writeBatchInput(displayName string, names []string, files map[string]*model.StoredFile, genConfig model.GenerationConfig) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, name := range names {
		f := files[name]
		req := model.BatchRequest{
			Key: name,
			Request: model.GenerateRequest{
				Contents: []model.RequestContent{{
					Role: "user",
					Parts: []model.RequestPart{
						{Text: s.cfg.Prompt},
						{FileData: &model.FileData{FileURI: f.URI, MIMEType: f.MIMEType}},
					},
				}},
				GenerationConfig: genConfig,
			},
		}
		if err := enc.Encode(req); err != nil {
			return "", fmt.Errorf("encoding request for %s: %w", name, err)
		}
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(s.cfg.OutputDir, batchInputPrefix+SanitizeFolderName(displayName)+".jsonl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing batch input: %w", err)
	}
	return path, nil
}

func writeSubmission(jobDir string, sub *model.Submission) error {
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return fmt.Errorf("creating job directory: %w", err)
	}
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(jobDir, submissionFile), data, 0o644); err != nil {
		return fmt.Errorf("writing submission details: %w", err)
	}
	return nil
}

// ReadSubmission loads the sidecar written by Submit, if any.
func ReadSubmission(jobDir string) (*model.Submission, error) {
	data, err := os.ReadFile(filepath.Join(jobDir, submissionFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", submissionFile, err)
	}
	return &sub, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
