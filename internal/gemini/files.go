package gemini

import (
	"context"

	"example/imagebatch/internal/model"

	"google.golang.org/genai"
)

// Files exposes the File API in terms of model.StoredFile.
type Files struct {
	client *genai.Client
}

func NewFiles(client *genai.Client) *Files {
	return &Files{client: client}
}

func (f *Files) Upload(ctx context.Context, path, mimeType, displayName string) (*model.StoredFile, error) {
	file, err := f.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}
	return toStoredFile(file), nil
}

func (f *Files) Get(ctx context.Context, name string) (*model.StoredFile, error) {
	file, err := f.client.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return toStoredFile(file), nil
}

func (f *Files) List(ctx context.Context) ([]model.StoredFile, error) {
	var files []model.StoredFile
	for file, err := range f.client.Files.All(ctx) {
		if err != nil {
			return nil, err
		}
		files = append(files, *toStoredFile(file))
	}
	return files, nil
}

func (f *Files) Delete(ctx context.Context, name string) error {
	_, err := f.client.Files.Delete(ctx, name, nil)
	return err
}

func (f *Files) Download(ctx context.Context, name string) ([]byte, error) {
	file, err := f.client.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return f.client.Files.Download(ctx, genai.NewDownloadURIFromFile(file), nil)
}

func toStoredFile(file *genai.File) *model.StoredFile {
	sf := &model.StoredFile{
		Name:           file.Name,
		DisplayName:    file.DisplayName,
		URI:            file.URI,
		MIMEType:       file.MIMEType,
		State:          model.FileState(file.State),
		ExpirationTime: file.ExpirationTime,
	}
	if file.SizeBytes != nil {
		sf.SizeBytes = *file.SizeBytes
	}
	return sf
}
