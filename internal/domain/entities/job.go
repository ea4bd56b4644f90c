package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobState tracks where an analysis currently is in its pipeline.
type JobState string

const (
	JobStateReceived      JobState = "received"
	JobStateTextExtracted JobState = "text_extracted" // document path
	JobStateDecoded       JobState = "decoded"        // audio path
	JobStateSegmented     JobState = "segmented"      // document path
	JobStateWindowed      JobState = "windowed"       // audio path
	JobStateScored        JobState = "scored"
	JobStateAggregated    JobState = "aggregated"
	JobStateComplete      JobState = "complete"
	JobStateFailed        JobState = "failed"
)

// JobChannel is the ingest channel an analysis came through.
type JobChannel string

const (
	JobChannelDocument JobChannel = "document"
	JobChannelAudio    JobChannel = "audio"
)

// Failure reason codes surfaced to callers when a pipeline aborts.
const (
	FailureNoTextExtracted  = "no_text_extracted"
	FailureNoContent        = "no_content"
	FailureClassifierError  = "classifier_error"
	FailureUndecodableAudio = "undecodable_audio"
	FailureInternal         = "internal"
)

// AnalysisJob is the request-scoped record of one analysis run. It exists
// only for the lifetime of a single request: it drives the pipeline state
// machine and gives log lines a stable identity, nothing is ever persisted.
type AnalysisJob struct {
	ID            uuid.UUID
	Channel       JobChannel
	FileName      string
	State         JobState
	FailureReason string
	StartedAt     time.Time
	CompletedAt   *time.Time
}

// NewAnalysisJob creates a job in the Received state.
func NewAnalysisJob(channel JobChannel, fileName string) *AnalysisJob {
	return &AnalysisJob{
		ID:        uuid.New(),
		Channel:   channel,
		FileName:  fileName,
		State:     JobStateReceived,
		StartedAt: time.Now(),
	}
}

// Advance moves the job to the next pipeline state. Terminal states are
// sticky: a completed or failed job never moves again.
func (j *AnalysisJob) Advance(state JobState) {
	if j.IsTerminal() {
		return
	}
	j.State = state
	if state == JobStateComplete {
		now := time.Now()
		j.CompletedAt = &now
	}
}

// Fail marks the job failed with a reason code. Failed is reachable from any
// non-terminal state.
func (j *AnalysisJob) Fail(reason string) {
	if j.IsTerminal() {
		return
	}
	j.State = JobStateFailed
	j.FailureReason = reason
	now := time.Now()
	j.CompletedAt = &now
}

// IsTerminal reports whether the job reached Complete or Failed.
func (j *AnalysisJob) IsTerminal() bool {
	return j.State == JobStateComplete || j.State == JobStateFailed
}

// Elapsed returns how long the job has been running, or took in total once
// terminal.
func (j *AnalysisJob) Elapsed() time.Duration {
	if j.CompletedAt != nil {
		return j.CompletedAt.Sub(j.StartedAt)
	}
	return time.Since(j.StartedAt)
}
