package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

func TestSaveTranscript(t *testing.T) {
	outputDir := t.TempDir()
	ls := NewLocalStorage(outputDir)

	rate := 120.0
	result := &types.TranscriptionResult{
		Success:         true,
		Transcript:      "Um so I led the billing migration, you know, end to end.",
		SpeakingRateWPM: &rate,
		JobID:           "job-xyz",
		WordCount:       11,
		ProcessedAt:     time.Now(),
		Timestamps: []types.WordTiming{
			{Word: "Um", StartTime: 0, EndTime: 0.3},
		},
	}

	txtPath, err := ls.SaveTranscript("Tell me about a project", result)
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != result.Transcript {
		t.Errorf("saved transcript = %q", string(content))
	}

	metaPath := txtPath[:len(txtPath)-len(".txt")] + "_meta.json"
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatal(err)
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(metaData, &meta); err != nil {
		t.Fatal(err)
	}
	if meta["question"] != "Tell me about a project" {
		t.Errorf("metadata question = %v", meta["question"])
	}
	if meta["speaking_rate_wpm"] != 120.0 {
		t.Errorf("metadata rate = %v", meta["speaking_rate_wpm"])
	}

	fillers, ok := meta["filler_words"].(map[string]interface{})
	if !ok {
		t.Fatalf("filler_words missing: %v", meta["filler_words"])
	}
	if fillers["um"] != 1.0 || fillers["you know"] != 1.0 {
		t.Errorf("filler counts = %v", fillers)
	}

	// Dated year/month/day directory layout
	rel, err := filepath.Rel(outputDir, txtPath)
	if err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(rel, string(filepath.Separator)); len(parts) != 4 {
		t.Errorf("transcript not under year/month/day layout: %s", rel)
	}
}

func TestSanitizeQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tell me about yourself", "Tell_me_about_yourself"},
		{"What's your greatest strength?", "Whats_your_greatest_strength"},
		{"", "answer"},
		{"///", "answer"},
	}
	for _, tt := range tests {
		if got := sanitizeQuestion(tt.in); got != tt.want {
			t.Errorf("sanitizeQuestion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
