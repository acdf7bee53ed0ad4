package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"example/imagebatch/internal/ctxlog"
	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"

	"golang.org/x/sync/errgroup"
)

type Uploader struct {
	files        FileAPI
	concurrent   int
	pollInterval time.Duration
	printer      *report.Printer
}

func NewUploader(files FileAPI, concurrent int, pollInterval time.Duration, printer *report.Printer) *Uploader {
	if concurrent < 1 {
		concurrent = 1
	}
	return &Uploader{
		files:        files,
		concurrent:   concurrent,
		pollInterval: pollInterval,
		printer:      printer,
	}
}

// UploadResult is keyed by the base name of each input file.
type UploadResult struct {
	Uploaded map[string]*model.StoredFile
	Failed   map[string]error
}

// UploadAll uploads paths with at most concurrent uploads in flight. A
// failed file never stops the others; only context cancellation returns an
// error, together with whatever finished before it.
func (u *Uploader) UploadAll(ctx context.Context, paths []string) (*UploadResult, error) {
	res := &UploadResult{
		Uploaded: make(map[string]*model.StoredFile),
		Failed:   make(map[string]error),
	}
	var mu sync.Mutex
	var completed int32
	total := len(paths)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrent)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := filepath.Base(path)
			file, err := u.uploadFile(gctx, path)
			n := atomic.AddInt32(&completed, 1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[name] = err
				u.printer.Errorf("[%d/%d] Failed %s: %v", n, total, name, err)
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			}
			res.Uploaded[name] = file
			u.printer.Printf("[%d/%d] Ready: %s\n", n, total, name)
			return nil
		})
	}

	err := g.Wait()
	ctxlog.FromContext(ctx).Info("upload finished",
		"total", total, "uploaded", len(res.Uploaded), "failed", len(res.Failed))
	return res, err
}

// uploadFile uploads one file and waits until the File API has processed it.
func (u *Uploader) uploadFile(ctx context.Context, path string) (*model.StoredFile, error) {
	file, err := u.files.Upload(ctx, path, mimeType(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return u.waitActive(ctx, file)
}

func (u *Uploader) waitActive(ctx context.Context, file *model.StoredFile) (*model.StoredFile, error) {
	for file.State == model.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(u.pollInterval):
		}
		next, err := u.files.Get(ctx, file.Name)
		if err != nil {
			return nil, err
		}
		file = next
	}
	if file.State != model.FileStateActive {
		return nil, fmt.Errorf("failed state: %s", file.State)
	}
	return file, nil
}
