package transcription

import (
	"context"
	"encoding/json"
	"log"
	"os/exec"
	"strconv"
	"time"
)

const probeTimeout = 30 * time.Second

// ffprobeOutput matches the JSON ffprobe prints with -show_format.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration returns the media duration in seconds, or nil if ffprobe is
// missing, exits non-zero, or prints something unparseable. Duration is a
// best-effort input to the rate estimator, so every failure degrades to nil
// rather than an error.
func ProbeDuration(ctx context.Context, mediaPath string) *float64 {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		mediaPath,
	)

	output, err := cmd.Output()
	if err != nil {
		log.Printf("ffprobe failed for %s: %v", mediaPath, err)
		return nil
	}

	return parseProbeDuration(output)
}

func parseProbeDuration(output []byte) *float64 {
	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		log.Printf("Failed to parse ffprobe output: %v", err)
		return nil
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || seconds < 0 {
		log.Printf("ffprobe returned unusable duration %q", probe.Format.Duration)
		return nil
	}

	return &seconds
}
