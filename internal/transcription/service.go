package transcription

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/codebuildervaibhav/interview-transcriber/internal/postprocess"
	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// Service sequences the transcription pipeline: acquire audio, recognize,
// clean, densify, probe duration, estimate rate. It owns every temp file it
// creates and deletes them on all exit paths.
type Service struct {
	engine    Engine
	densifier *postprocess.Densifier
	tempDir   string
	extract   func(ctx context.Context, mediaPath, tempDir string) (string, error)
}

// NewService creates a transcription pipeline around the given engine.
func NewService(engine Engine, densifier *postprocess.Densifier, tempDir string) *Service {
	return &Service{
		engine:    engine,
		densifier: densifier,
		tempDir:   tempDir,
		extract:   ExtractAudio,
	}
}

// Transcribe runs the full pipeline on a media file. When audioPath names an
// existing file it is used directly (and not deleted); otherwise the audio
// track is extracted to a tracked temp file. Failures never surface as a Go
// error: the result carries either a transcript or an error message, never
// both.
func (s *Service) Transcribe(ctx context.Context, mediaPath, audioPath string) *types.TranscriptionResult {
	var tempFiles []string
	defer func() {
		for _, path := range tempFiles {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("Failed to remove temp file %s: %v", path, err)
			}
		}
	}()

	// Init
	if _, err := os.Stat(mediaPath); err != nil {
		return failure(fmt.Sprintf("media file not found: %s", mediaPath))
	}

	// AcquireAudio
	wavPath := ""
	if audioPath != "" {
		if _, err := os.Stat(audioPath); err == nil {
			wavPath = audioPath
		}
	}
	if wavPath == "" {
		extracted, err := s.extract(ctx, mediaPath, s.tempDir)
		if err != nil {
			return failure(fmt.Sprintf("audio extraction failed: %v", err))
		}
		tempFiles = append(tempFiles, extracted)
		wavPath = extracted
	}

	// Recognize
	raw, err := s.engine.Transcribe(ctx, wavPath)
	if err != nil {
		return failure(fmt.Sprintf("recognition failed: %v", err))
	}

	// PostProcess
	timestamps := flattenWords(raw.Segments)
	cleaned := postprocess.CleanRepetitions(raw.Text)
	transcript := s.densifier.Densify(cleaned)
	duration := ProbeDuration(ctx, wavPath)

	// Rate
	rate := postprocess.EstimateSpeakingRate(transcript, timestamps, duration)

	return &types.TranscriptionResult{
		Success:         true,
		Transcript:      transcript,
		Timestamps:      timestamps,
		DurationSeconds: duration,
		SpeakingRateWPM: rate,
	}
}

func failure(msg string) *types.TranscriptionResult {
	return &types.TranscriptionResult{
		Success:    false,
		Timestamps: []types.WordTiming{},
		Error:      msg,
	}
}

// flattenWords joins all segments' word timestamps into one sequence, in the
// order the engine emitted them. Segments without word data contribute
// nothing; the rate estimator degrades accordingly.
func flattenWords(segments []types.RawSegment) []types.WordTiming {
	words := []types.WordTiming{}
	for _, seg := range segments {
		words = append(words, seg.Words...)
	}
	return words
}
