package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"example/imagebatch/internal/model"

	"github.com/stretchr/testify/require"
)

func TestMatchJobs(t *testing.T) {
	jobs := []model.Job{
		{Name: "batches/abc123", DisplayName: "reef"},
		{Name: "batches/def456", DisplayName: "wreck"},
		{Name: "batches/xyz", DisplayName: "reef-2"},
	}

	names := func(js []model.Job) []string {
		var out []string
		for _, j := range js {
			out = append(out, j.Name)
		}
		return out
	}
	require.Equal(t, []string{"batches/abc123"}, names(MatchJobs(jobs, "batches/abc123")))
	require.Equal(t, []string{"batches/def456"}, names(MatchJobs(jobs, "def456")))
	require.Equal(t, []string{"batches/abc123"}, names(MatchJobs(jobs, "reef")))
	require.Empty(t, MatchJobs(jobs, "abc"))
	require.Empty(t, MatchJobs(jobs, "Reef"))
}

func TestFolderName(t *testing.T) {
	cases := []struct {
		job  model.Job
		want string
	}{
		{model.Job{Name: "batches/abc", DisplayName: "My Dive: day 1"}, "My_Dive_day_1"},
		{model.Job{Name: "batches/abc", DisplayName: "image_enhance_20250101_120000"}, "abc"},
		{model.Job{Name: "batches/abc"}, "abc"},
		{model.Job{Name: "batches/abc", DisplayName: "  café/reef  "}, "caféreef"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FolderName(tc.job), "job %+v", tc.job)
	}
}

func TestSanitizeFolderName(t *testing.T) {
	require.Equal(t, "a_b.c-d", SanitizeFolderName(" a b.c-d! "))
	require.Equal(t, "", SanitizeFolderName("***"))
}

func TestRecentJobs(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var jobs []model.Job
	for i := 0; i < 7; i++ {
		jobs = append(jobs, model.Job{Name: string(rune('a' + i)), CreateTime: base.Add(time.Duration(i) * time.Hour)})
	}

	recent := RecentJobs(jobs, 5)
	require.Len(t, recent, 5)
	require.Equal(t, "g", recent[0].Name)
	require.Equal(t, "c", recent[4].Name)
	require.Equal(t, "a", jobs[0].Name, "input must not be reordered")
}

func TestOverview(t *testing.T) {
	batches := newFakeBatches(
		model.Job{Name: "batches/run", DisplayName: "live", State: model.JobStateRunning},
		model.Job{Name: "batches/wait", State: model.JobStateQueued},
		model.Job{Name: "batches/done", State: model.JobStateSucceeded},
		model.Job{Name: "batches/bad", State: model.JobStateFailed, Error: "quota exceeded"},
	)
	printer, out := newTestPrinter()

	require.NoError(t, NewJobMonitor(batches, printer).Overview(context.Background()))

	text := out.String()
	require.Contains(t, text, "Summary: 2 active, 2 completed/failed.")
	require.Contains(t, text, "=== ACTIVE JOBS ===")
	require.Contains(t, text, "Name: live")
	require.Contains(t, text, "Status: JOB_STATE_QUEUED")
	require.Contains(t, text, "RECENT HISTORY (Last 5)")
	require.Contains(t, text, "Error: quota exceeded")
	require.Less(t, strings.Index(text, "batches/run"), strings.Index(text, "RECENT HISTORY"))
}

func TestOverview_Empty(t *testing.T) {
	printer, out := newTestPrinter()
	require.NoError(t, NewJobMonitor(newFakeBatches(), printer).Overview(context.Background()))
	require.Contains(t, out.String(), "No batch jobs found")
}

func TestOverview_ListError(t *testing.T) {
	batches := newFakeBatches()
	batches.listErr = errors.New("UNAUTHENTICATED")
	printer, _ := newTestPrinter()
	err := NewJobMonitor(batches, printer).Overview(context.Background())
	require.ErrorContains(t, err, "UNAUTHENTICATED")
}

func TestWatch_UntilTerminal(t *testing.T) {
	batches := newFakeBatches()
	batches.states = []model.JobState{
		model.JobStatePending, model.JobStatePending, model.JobStateRunning, model.JobStateSucceeded,
	}
	printer, out := newTestPrinter()

	job, err := NewJobMonitor(batches, printer).Watch(context.Background(), "abc", time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, model.JobStateSucceeded, job.State)
	require.Equal(t, "batches/abc", job.Name)
	require.Equal(t, 1, strings.Count(out.String(), "JOB_STATE_PENDING"))
	require.Contains(t, out.String(), "JOB_STATE_RUNNING")
}

func TestWatch_Cancelled(t *testing.T) {
	batches := newFakeBatches()
	batches.states = []model.JobState{model.JobStateRunning}
	printer, _ := newTestPrinter()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewJobMonitor(batches, printer).Watch(ctx, "batches/abc", time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJobStateSets(t *testing.T) {
	require.True(t, model.JobStatePaused.Active())
	require.False(t, model.JobStateSucceeded.Active())
	require.True(t, model.JobStatePartiallySucceeded.Cancellable())
	require.False(t, model.JobStateCancelling.Cancellable())
	require.True(t, model.JobStateExpired.Terminal())
	require.False(t, model.JobStateRunning.Terminal())
}
