package postprocess

import (
	"strings"

	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// Speaking rates outside this band are implausible for a spoken interview
// answer and indicate corrupt timing data rather than fast or slow speech.
const (
	minPlausibleWPM = 30
	maxPlausibleWPM = 300
)

// EstimateSpeakingRate derives words per minute from whatever timing data is
// available, in order of preference:
//
//  1. Word timestamps: elapsed time between the first word's start and the
//     last word's end. Deliberately first/last only, matching the behaviour
//     downstream scoring was calibrated against, even though it underestimates
//     when the clip has long leading or trailing silence.
//  2. Probed audio duration.
//  3. Coarse word-count buckets, so downstream always gets some rate when
//     there is any real transcript at all.
//
// Computed rates outside the plausible band are discarded and the next tier
// is tried. Returns nil when the transcript is too short to say anything.
func EstimateSpeakingRate(transcript string, timestamps []types.WordTiming, durationSeconds *float64) *float64 {
	wordCount := len(strings.Fields(transcript))

	if len(timestamps) >= 2 {
		elapsed := timestamps[len(timestamps)-1].EndTime - timestamps[0].StartTime
		if elapsed > 0 {
			if rate := float64(wordCount) / (elapsed / 60); plausible(rate) {
				return &rate
			}
		}
	}

	if durationSeconds != nil && *durationSeconds > 0 {
		if rate := float64(wordCount) / (*durationSeconds / 60); plausible(rate) {
			return &rate
		}
	}

	return bucketRate(wordCount)
}

func plausible(rate float64) bool {
	return rate >= minPlausibleWPM && rate <= maxPlausibleWPM
}

// bucketRate maps word count to a fixed rate band. These are availability
// fallbacks, not estimates: fewer than 10 words is too little signal.
func bucketRate(wordCount int) *float64 {
	var rate float64
	switch {
	case wordCount < 10:
		return nil
	case wordCount < 30:
		rate = 90
	case wordCount < 80:
		rate = 110
	case wordCount < 150:
		rate = 130
	default:
		rate = 150
	}
	return &rate
}
