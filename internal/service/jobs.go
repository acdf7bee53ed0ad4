package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"example/imagebatch/internal/ctxlog"
	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"
)

const historyLimit = 5

type JobMonitor struct {
	batches BatchAPI
	printer *report.Printer
}

func NewJobMonitor(batches BatchAPI, printer *report.Printer) *JobMonitor {
	return &JobMonitor{batches: batches, printer: printer}
}

// Overview prints active jobs and the most recent finished ones.
func (m *JobMonitor) Overview(ctx context.Context) error {
	m.printer.Println("Checking for batch jobs...")
	jobs, err := m.batches.List(ctx)
	if err != nil {
		return fmt.Errorf("listing batch jobs: %w", err)
	}
	if len(jobs) == 0 {
		m.printer.Println("No batch jobs found (active or history).")
		return nil
	}

	var active, finished []model.Job
	for _, j := range jobs {
		if j.State.Active() {
			active = append(active, j)
		} else {
			finished = append(finished, j)
		}
	}

	m.printer.Printf("\nSummary: %s, %d completed/failed.\n",
		m.printer.Green(fmt.Sprintf("%d active", len(active))), len(finished))

	if len(active) > 0 {
		m.printer.Printf("\n=== %s ===\n", m.printer.Green("ACTIVE JOBS"))
		for _, j := range active {
			m.printer.Printf("Job ID: %s\n", j.Name)
			if j.DisplayName != "" {
				m.printer.Printf("Name: %s\n", m.printer.Blue(j.DisplayName))
			}
			m.printer.Printf("Status: %s\n", m.printer.State(j.State))
			m.printer.Printf("Created: %s\n", formatTime(j.CreateTime))
			m.printer.Rule(30)
		}
	} else {
		m.printer.Println("\nNo active (running/pending) jobs.")
	}

	if len(finished) > 0 {
		m.printer.Printf("\n=== %s ===\n", m.printer.Red(fmt.Sprintf("RECENT HISTORY (Last %d)", historyLimit)))
		for _, j := range RecentJobs(finished, historyLimit) {
			m.printer.Printf("Job ID: %s\n", j.Name)
			if j.DisplayName != "" {
				m.printer.Printf("Name: %s\n", j.DisplayName)
			}
			m.printer.Printf("Status: %s\n", m.printer.State(j.State))
			m.printer.Printf("Created: %s\n", formatTime(j.CreateTime))
			if j.Error != "" {
				m.printer.Errorf("Error: %s", j.Error)
			}
			m.printer.Rule(30)
		}
	}
	return nil
}

// Watch polls a single job until it reaches a terminal state, printing
// every state change.
func (m *JobMonitor) Watch(ctx context.Context, id string, interval time.Duration) (*model.Job, error) {
	name := id
	if !strings.Contains(name, "/") {
		name = "batches/" + name
	}
	log := ctxlog.FromContext(ctx).With("job", name)

	var last model.JobState
	for {
		job, err := m.batches.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("getting job %s: %w", name, err)
		}
		if job.State != last {
			m.printer.Printf("[%s] %s: %s\n", time.Now().Format(time.TimeOnly), job.Name, m.printer.State(job.State))
			log.Debug("job state changed", "from", last, "to", job.State)
			last = job.State
		}
		if job.State.Terminal() {
			if job.Error != "" {
				m.printer.Errorf("Error: %s", job.Error)
			}
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RecentJobs returns up to n jobs, newest first.
func RecentJobs(jobs []model.Job, n int) []model.Job {
	sorted := append([]model.Job(nil), jobs...)
	sort.SliceStable(sorted, func(i, k int) bool {
		return sorted[i].CreateTime.After(sorted[k].CreateTime)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MatchJobs selects jobs whose name equals target, ends in "/target", or
// whose display name equals target exactly.
func MatchJobs(jobs []model.Job, target string) []model.Job {
	var matches []model.Job
	for _, j := range jobs {
		if j.Name == target || strings.HasSuffix(j.Name, "/"+target) ||
			(j.DisplayName != "" && j.DisplayName == target) {
			matches = append(matches, j)
		}
	}
	return matches
}

// ShortID is the job id without its "batches/" prefix.
func ShortID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// FolderName prefers a user supplied display name and falls back to the
// job id for missing or auto-generated names.
func FolderName(job model.Job) string {
	name := job.DisplayName
	if name == "" || strings.HasPrefix(name, autoNamePrefix) {
		name = ShortID(job.Name)
	}
	return SanitizeFolderName(name)
}

// SanitizeFolderName keeps letters, digits, space, '.', '_' and '-', trims
// and replaces spaces with underscores.
func SanitizeFolderName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" ._-", r) {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

func JobDir(outputDir string, job model.Job) string {
	return filepath.Join(outputDir, "job_"+FolderName(job))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05 MST")
}
