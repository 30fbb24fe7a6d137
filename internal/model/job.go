package model

import "time"

// JobStatus tracks the lifecycle of an enrichment job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusPaused     JobStatus = "paused"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one asynchronous execution of the enrichment pipeline over the
// unenriched clients of a survey. The job row is mutated only by the
// worker that owns it; pause is signalled by flipping Status externally
// and observed at client boundaries.
type Job struct {
	ID               string     `json:"id"`
	SurveyID         int64      `json:"survey_id"`
	TotalClients     int        `json:"total_clients"`
	ProcessedClients int        `json:"processed_clients"`
	SuccessClients   int        `json:"success_clients"`
	FailedClients    int        `json:"failed_clients"`
	Status           JobStatus  `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PercentComplete returns job progress as a 0-100 integer.
func (j Job) PercentComplete() int {
	if j.TotalClients == 0 {
		return 0
	}
	return int(float64(j.ProcessedClients) / float64(j.TotalClients) * 100)
}
