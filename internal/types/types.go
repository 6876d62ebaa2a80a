package types

import "time"

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Source type constants
const (
	SourceUpload = "upload"
	SourceDrive  = "gdrive"
)

// WordTiming is one word-level timestamp from the recognition engine.
// The sequence is kept in the order the engine emitted it.
type WordTiming struct {
	Word      string  `json:"word"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// RawSegment is one timestamped segment of raw engine output.
type RawSegment struct {
	Text  string       `json:"text"`
	Words []WordTiming `json:"words"`
}

// RawResult is the unprocessed output of the recognition engine.
type RawResult struct {
	Text     string
	Language string
	Segments []RawSegment
}

// TranscriptionResult is the final output of the transcription pipeline.
// Exactly one of (Success=true, Error empty) or (Success=false, Error set) holds.
// DurationSeconds and SpeakingRateWPM are best-effort and may be nil.
type TranscriptionResult struct {
	Success         bool         `json:"success"`
	Transcript      string       `json:"transcript"`
	Timestamps      []WordTiming `json:"timestamps"`
	DurationSeconds *float64     `json:"duration_seconds"`
	SpeakingRateWPM *float64     `json:"speaking_rate_wpm"`
	Error           string       `json:"error,omitempty"`

	// Filled in by the worker after the pipeline returns
	JobID       string    `json:"job_id,omitempty"`
	WordCount   int       `json:"word_count,omitempty"`
	ProcessedAt time.Time `json:"processed_at,omitempty"`
	LocalPath   string    `json:"-"`
	GDriveURL   string    `json:"gdrive_url,omitempty"`
}
