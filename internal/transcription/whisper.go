package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// Engine is the speech-recognition capability the pipeline runs on. The
// concrete implementation loads one model per process, so implementations
// that are not reentrant must serialize their own inference calls.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string) (*types.RawResult, error)
}

// verbatimPrompt primes Whisper to keep disfluencies instead of tidying them
// away. It only helps somewhat; the densifier covers the rest.
const verbatimPrompt = "Umm, let me think like, hmm... Okay, so this is a verbatim " +
	"transcript of an interview answer, including filler words like um, uh, you know."

// WhisperTranscriber runs OpenAI Whisper through its Python CLI and parses
// the JSON output. One model per process; the mutex keeps concurrent jobs
// from interleaving inference.
type WhisperTranscriber struct {
	modelName string
	language  string
	pythonCmd string
	tempDir   string
	timeout   time.Duration
	mu        sync.Mutex
}

// NewWhisperTranscriber verifies the Python Whisper runtime is present and
// returns a transcriber bound to the given model size. A missing runtime is
// reported here so the server refuses to start instead of failing every job.
func NewWhisperTranscriber(modelName, language, tempDir string, timeout time.Duration) (*WhisperTranscriber, error) {
	if modelName == "" {
		modelName = "small"
	}
	if language == "" {
		language = "en"
	}
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}

	pythonCmd, err := exec.LookPath("python")
	if err != nil {
		if pythonCmd, err = exec.LookPath("python3"); err != nil {
			return nil, fmt.Errorf("python runtime not found: %v", err)
		}
	}

	if out, err := exec.Command(pythonCmd, "-c", "import whisper").CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper package not importable: %v\nOutput: %s", err, string(out))
	}

	log.Printf("Whisper engine ready (model: %s, language: %s)", modelName, language)

	return &WhisperTranscriber{
		modelName: modelName,
		language:  language,
		pythonCmd: pythonCmd,
		tempDir:   tempDir,
		timeout:   timeout,
	}, nil
}

// Transcribe runs inference on the audio file and returns the raw text plus
// per-segment word timestamps. Decoding is conservative: zero temperature and
// tuned thresholds keep the model from filling silence with hallucinated text.
func (wt *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*types.RawResult, error) {
	wt.mu.Lock()
	defer wt.mu.Unlock()

	log.Printf("Transcribing with Whisper: %s", audioPath)

	outputDir, err := os.MkdirTemp(wt.tempDir, "whisper_output_")
	if err != nil {
		return nil, fmt.Errorf("failed to create whisper output dir: %v", err)
	}
	defer os.RemoveAll(outputDir)

	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, wt.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, wt.pythonCmd, "-m", "whisper",
		absAudioPath,
		"--model", wt.modelName,
		"--language", wt.language,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--word_timestamps", "True",
		"--initial_prompt", verbatimPrompt,
		"--temperature", "0",
		"--compression_ratio_threshold", "2.4",
		"--no_speech_threshold", "0.6",
		"--fp16", "False",
		"--verbose", "False",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %v\nOutput: %s", err, string(output))
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %v", err)
	}

	result, err := parseWhisperJSON(jsonData)
	if err != nil {
		return nil, err
	}

	log.Printf("Transcription completed: %d segments", len(result.Segments))
	return result, nil
}

// whisperOutput matches Whisper's JSON output format with word_timestamps on
type whisperOutput struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	ID    int           `json:"id"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func parseWhisperJSON(data []byte) (*types.RawResult, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper JSON: %v", err)
	}

	segments := make([]types.RawSegment, len(out.Segments))
	for i, seg := range out.Segments {
		words := make([]types.WordTiming, len(seg.Words))
		for j, w := range seg.Words {
			words[j] = types.WordTiming{
				// Whisper pads word tokens with a leading space
				Word:      strings.TrimSpace(w.Word),
				StartTime: w.Start,
				EndTime:   w.End,
			}
		}
		segments[i] = types.RawSegment{
			Text:  strings.TrimSpace(seg.Text),
			Words: words,
		}
	}

	return &types.RawResult{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
		Segments: segments,
	}, nil
}
