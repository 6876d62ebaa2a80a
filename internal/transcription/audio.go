package transcription

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// extractTimeout bounds the ffmpeg subprocess so a wedged transcoder cannot
// hang a request indefinitely.
const extractTimeout = 5 * time.Minute

// ExtractAudio pulls the audio track out of a media file into a mono 16kHz
// 16-bit PCM WAV, the format the recognition engine expects. The output file
// is uniquely named under tempDir; the caller owns its deletion.
func ExtractAudio(ctx context.Context, mediaPath, tempDir string) (string, error) {
	outputPath := filepath.Join(tempDir, fmt.Sprintf("audio_%s.wav", uuid.New().String()))

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", mediaPath,
		"-vn", // Drop the video stream
		"-ac", "1", // Mono
		"-ar", "16000", // 16kHz sample rate
		"-c:a", "pcm_s16le", // 16-bit PCM
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg failed: %v\nOutput: %s", err, string(output))
	}

	if info, err := os.Stat(outputPath); err != nil || info.Size() == 0 {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg produced no audio output for %s", mediaPath)
	}

	return outputPath, nil
}

// ValidateMediaFormat checks if the uploaded file format is supported
func ValidateMediaFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	supportedFormats := []string{".mp4", ".webm", ".ogg", ".mov", ".avi", ".mp3", ".wav", ".m4a"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
