package model

import "time"

type JobState string

const (
	JobStateUnspecified        JobState = "JOB_STATE_UNSPECIFIED"
	JobStatePending            JobState = "JOB_STATE_PENDING"
	JobStateQueued             JobState = "JOB_STATE_QUEUED"
	JobStateRunning            JobState = "JOB_STATE_RUNNING"
	JobStateUpdating           JobState = "JOB_STATE_UPDATING"
	JobStatePaused             JobState = "JOB_STATE_PAUSED"
	JobStateCancelling         JobState = "JOB_STATE_CANCELLING"
	JobStateSucceeded          JobState = "JOB_STATE_SUCCEEDED"
	JobStateFailed             JobState = "JOB_STATE_FAILED"
	JobStateCancelled          JobState = "JOB_STATE_CANCELLED"
	JobStateExpired            JobState = "JOB_STATE_EXPIRED"
	JobStatePartiallySucceeded JobState = "JOB_STATE_PARTIALLY_SUCCEEDED"
)

// Active reports whether the job is still owned by the remote scheduler.
func (s JobState) Active() bool {
	switch s {
	case JobStatePending, JobStateQueued, JobStateRunning,
		JobStateUpdating, JobStatePaused, JobStateCancelling:
		return true
	}
	return false
}

// Cancellable reports whether cleanup should send a cancel request.
func (s JobState) Cancellable() bool {
	switch s {
	case JobStateQueued, JobStatePending, JobStateRunning, JobStatePartiallySucceeded:
		return true
	}
	return false
}

func (s JobState) Terminal() bool {
	switch s {
	case JobStateSucceeded, JobStateFailed, JobStateCancelled,
		JobStateExpired, JobStatePartiallySucceeded:
		return true
	}
	return false
}

// Job mirrors a remote batch job as reported by the Batch API.
type Job struct {
	Name        string
	DisplayName string
	State       JobState
	CreateTime  time.Time
	Error       string
	// ResultFile is the File API name holding the JSONL output.
	ResultFile string
}
