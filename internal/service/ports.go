package service

import (
	"context"
	"errors"

	"example/imagebatch/internal/model"
)

var (
	ErrNoImages  = errors.New("no images found")
	ErrNoUploads = errors.New("no files were successfully uploaded")
	ErrNoMatch   = errors.New("no matching job")
)

// FileAPI is the subset of the File API the commands use.
type FileAPI interface {
	Upload(ctx context.Context, path, mimeType, displayName string) (*model.StoredFile, error)
	Get(ctx context.Context, name string) (*model.StoredFile, error)
	List(ctx context.Context) ([]model.StoredFile, error)
	Delete(ctx context.Context, name string) error
	Download(ctx context.Context, name string) ([]byte, error)
}

// BatchAPI is the subset of the Batch API the commands use.
type BatchAPI interface {
	Create(ctx context.Context, modelName, srcFile, displayName string) (*model.Job, error)
	Get(ctx context.Context, name string) (*model.Job, error)
	List(ctx context.Context) ([]model.Job, error)
	Cancel(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}

// Asker is satisfied by prompt.Prompter.
type Asker interface {
	Ask(question string) string
	Confirm(question string) bool
}
