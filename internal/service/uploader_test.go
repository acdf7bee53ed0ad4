package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUploadAll_BoundsConcurrency(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.jpg", "b.jpg", "c.png", "d.png", "e.webp", "f.jpeg"}
	writeFiles(t, dir, names...)
	var paths []string
	for _, n := range names {
		paths = append(paths, filepath.Join(dir, n))
	}

	files := newFakeFiles()
	files.delay = 20 * time.Millisecond
	printer, out := newTestPrinter()
	u := NewUploader(files, 2, time.Millisecond, printer)

	res, err := u.UploadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, res.Uploaded, len(names))
	require.Empty(t, res.Failed)
	require.LessOrEqual(t, files.maxInFlight, int32(2))
	require.Contains(t, out.String(), "[6/6] Ready:")
	require.Equal(t, "image/webp", res.Uploaded["e.webp"].MIMEType)
}

func TestUploadAll_FailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "ok.jpg", "bad.jpg", "slow.png", "rejected.png")

	files := newFakeFiles()
	files.uploadErr["bad.jpg"] = errors.New("RESOURCE_EXHAUSTED")
	files.polls["slow.png"] = 3
	files.polls["rejected.png"] = 1
	files.finalState["rejected.png"] = "FAILED"
	printer, out := newTestPrinter()
	u := NewUploader(files, 10, time.Millisecond, printer)

	res, err := u.UploadAll(context.Background(), []string{
		filepath.Join(dir, "ok.jpg"),
		filepath.Join(dir, "bad.jpg"),
		filepath.Join(dir, "slow.png"),
		filepath.Join(dir, "rejected.png"),
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ok.jpg", "slow.png"}, sortedKeys(res.Uploaded))
	require.ElementsMatch(t, []string{"bad.jpg", "rejected.png"}, sortedKeys(res.Failed))
	require.ErrorContains(t, res.Failed["rejected.png"], "failed state: FAILED")
	require.Contains(t, out.String(), "Failed bad.jpg: RESOURCE_EXHAUSTED")
	require.Equal(t, "ACTIVE", string(res.Uploaded["slow.png"].State))
}

func TestUploadAll_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg")

	files := newFakeFiles()
	files.polls["a.jpg"] = 1000
	printer, _ := newTestPrinter()
	u := NewUploader(files, 1, 5*time.Millisecond, printer)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	res, err := u.UploadAll(ctx, []string{filepath.Join(dir, "a.jpg")})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, res.Uploaded)
}
