package queue

import (
	"time"

	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// Job represents one interview answer waiting for, or going through, the
// transcription pipeline.
type Job struct {
	ID         string
	Question   string
	SourceType string
	MediaPath  string
	AudioPath  string // optional separately-uploaded audio track
	Status     string
	Error      string
	Result     *types.TranscriptionResult
	CreatedAt  time.Time
}

// NewJob creates a queued job for an uploaded recording.
func NewJob(id, question, sourceType, mediaPath, audioPath string) *Job {
	return &Job{
		ID:         id,
		Question:   question,
		SourceType: sourceType,
		MediaPath:  mediaPath,
		AudioPath:  audioPath,
		Status:     types.StatusQueued,
		CreatedAt:  time.Now(),
	}
}

// JobStatus is a point-in-time snapshot safe to hand to HTTP handlers while
// a worker is still mutating the job.
type JobStatus struct {
	ID        string                     `json:"job_id"`
	Question  string                     `json:"question"`
	Status    string                     `json:"status"`
	Error     string                     `json:"error,omitempty"`
	Result    *types.TranscriptionResult `json:"result,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}
