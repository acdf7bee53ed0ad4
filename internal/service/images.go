package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// collectImages lists the images directly inside dir, sorted by name.
func collectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if !e.IsDir() && isImageFile(e.Name()) {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	return images, nil
}

func isImageFile(path string) bool {
	_, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

func mimeType(path string) string {
	if m, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "application/octet-stream"
}

// extensionFor picks a file extension for generated data of the given type.
func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ".png"
}

// safeJoin joins a slash separated name under root and rejects names that
// would escape it.
func safeJoin(root, name string) (string, error) {
	p := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %s", name, root)
	}
	return p, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyUnprocessed copies the named input image into dir/unprocessed. It is
// a no-op when the input no longer exists.
func copyUnprocessed(inputDir, jobDir, name string) (bool, error) {
	src, err := safeJoin(inputDir, name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(src); err != nil {
		return false, nil
	}
	dst, err := safeJoin(filepath.Join(jobDir, unprocessedDir), name)
	if err != nil {
		return false, err
	}
	if err := copyFile(src, dst); err != nil {
		return false, err
	}
	return true, nil
}
