package transcription

import "testing"

func TestParseWhisperJSON(t *testing.T) {
	data := []byte(`{
		"text": " Hi there, thanks for having me. ",
		"language": "en",
		"segments": [
			{
				"id": 0,
				"start": 0.0,
				"end": 1.2,
				"text": " Hi there,",
				"words": [
					{"word": " Hi", "start": 0.0, "end": 0.4},
					{"word": " there,", "start": 0.4, "end": 1.2}
				]
			},
			{
				"id": 1,
				"start": 1.2,
				"end": 2.8,
				"text": " thanks for having me.",
				"words": [
					{"word": " thanks", "start": 1.2, "end": 1.6},
					{"word": " for", "start": 1.6, "end": 1.8},
					{"word": " having", "start": 1.8, "end": 2.3},
					{"word": " me.", "start": 2.3, "end": 2.8}
				]
			}
		]
	}`)

	result, err := parseWhisperJSON(data)
	if err != nil {
		t.Fatal(err)
	}

	if result.Text != "Hi there, thanks for having me." {
		t.Errorf("text = %q", result.Text)
	}
	if result.Language != "en" {
		t.Errorf("language = %q", result.Language)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(result.Segments))
	}
	if got := result.Segments[0].Words[1].Word; got != "there," {
		t.Errorf("word not trimmed: %q", got)
	}
	if got := result.Segments[1].Words[3]; got.Word != "me." || got.StartTime != 2.3 || got.EndTime != 2.8 {
		t.Errorf("last word = %+v", got)
	}
}

func TestParseWhisperJSONNoWords(t *testing.T) {
	// Segments can arrive without word timing; the pipeline must tolerate it.
	data := []byte(`{
		"text": "Just text.",
		"language": "en",
		"segments": [{"id": 0, "start": 0, "end": 2, "text": "Just text."}]
	}`)

	result, err := parseWhisperJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Segments[0].Words) != 0 {
		t.Errorf("expected no words, got %d", len(result.Segments[0].Words))
	}
}

func TestParseWhisperJSONInvalid(t *testing.T) {
	if _, err := parseWhisperJSON([]byte("not json")); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestValidateMediaFormat(t *testing.T) {
	valid := []string{"answer.mp4", "clip.WEBM", "take2.mov", "audio.wav", "voice.m4a"}
	for _, name := range valid {
		if !ValidateMediaFormat(name) {
			t.Errorf("%s should be accepted", name)
		}
	}
	invalid := []string{"slides.pdf", "notes.txt", "archive.zip", "noext"}
	for _, name := range invalid {
		if ValidateMediaFormat(name) {
			t.Errorf("%s should be rejected", name)
		}
	}
}
