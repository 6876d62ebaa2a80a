package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/interview-transcriber/internal/postprocess"
	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// LocalStorage saves transcripts and their analysis metadata to disk under a
// dated directory layout (outputs/2025/08/31/).
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage handler
func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{
		outputDir: outputDir,
	}
}

// SaveTranscript writes the transcript text and a metadata JSON next to it.
// Returns the transcript path.
func (ls *LocalStorage) SaveTranscript(question string, result *types.TranscriptionResult) (string, error) {
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %v", err)
	}

	baseFilename := fmt.Sprintf("%s_%s", now.Format("20060102_150405"), result.JobID)

	txtPath := filepath.Join(dateDir, baseFilename+".txt")
	metaPath := filepath.Join(dateDir, baseFilename+"_meta.json")

	if err := os.WriteFile(txtPath, []byte(result.Transcript), 0644); err != nil {
		return "", fmt.Errorf("failed to save transcript: %v", err)
	}

	metaJSON, err := json.MarshalIndent(buildMetadata(question, result, txtPath), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %v", err)
	}

	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to save metadata: %v", err)
	}

	return txtPath, nil
}

// buildMetadata assembles the analysis record persisted alongside the
// transcript and mirrored to Drive.
func buildMetadata(question string, result *types.TranscriptionResult, localPath string) map[string]interface{} {
	return map[string]interface{}{
		"job_id":            result.JobID,
		"question":          question,
		"duration_seconds":  result.DurationSeconds,
		"speaking_rate_wpm": result.SpeakingRateWPM,
		"word_count":        result.WordCount,
		"filler_words":      postprocess.CountFillers(result.Transcript),
		"timestamps":        result.Timestamps,
		"created_at":        result.ProcessedAt,
		"local_path":        localPath,
		"gdrive_url":        result.GDriveURL,
	}
}

// sanitizeQuestion turns a question into a short filesystem-safe slug for
// Drive filenames.
func sanitizeQuestion(question string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, question)
	if len(slug) > 60 {
		slug = slug[:60]
	}
	if slug == "" {
		slug = "answer"
	}
	return slug
}
