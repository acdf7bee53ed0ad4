package service

import (
	"context"
	"fmt"
	"time"

	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"

	"github.com/dustin/go-humanize"
)

const maxNameWidth = 28

type StorageReporter struct {
	files   FileAPI
	printer *report.Printer
	now     func() time.Time
}

func NewStorageReporter(files FileAPI, printer *report.Printer) *StorageReporter {
	return &StorageReporter{files: files, printer: printer, now: time.Now}
}

type StorageSummary struct {
	Files      int
	TotalBytes int64
}

// Report prints a table of stored files and their remaining lifetime.
func (r *StorageReporter) Report(ctx context.Context) (*StorageSummary, error) {
	r.printer.Println("Checking uploaded files and storage usage...")
	r.printer.Rule(60)

	files, err := r.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	sum := &StorageSummary{}
	if len(files) == 0 {
		r.printer.Println("No files found in storage.")
		return sum, nil
	}

	r.printer.Printf("%-30s | %-10s | %-10s | %s\n", "Display Name", "Size", "State", "Expires In")
	r.printer.Rule(60)

	now := r.now()
	for _, f := range files {
		sum.Files++
		sum.TotalBytes += f.SizeBytes
		r.printer.Printf("%-30s | %-10s | %-10s | %s\n",
			TruncateName(displayName(f)), FormatSize(f.SizeBytes), fileState(f.State), ExpiresIn(f.ExpirationTime, now))
	}

	r.printer.Rule(60)
	r.printer.Printf("Total Files: %d\n", sum.Files)
	r.printer.Printf("Total Storage Used: %s\n", FormatSize(sum.TotalBytes))
	r.printer.Println("\nNote: Files automatically expire after 48 hours.")
	return sum, nil
}

func FormatSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// ExpiresIn renders the time left before exp as "Hh Mm".
func ExpiresIn(exp, now time.Time) string {
	if exp.IsZero() {
		return "N/A"
	}
	left := exp.Sub(now)
	if left <= 0 {
		return "Expired"
	}
	return fmt.Sprintf("%dh %dm", int(left.Hours()), int(left.Minutes())%60)
}

func TruncateName(name string) string {
	r := []rune(name)
	if len(r) > maxNameWidth {
		return string(r[:maxNameWidth-3]) + "..."
	}
	return name
}

func displayName(f model.StoredFile) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

func fileState(s model.FileState) string {
	if s == "" {
		return "UNKNOWN"
	}
	return string(s)
}
