package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/interview-transcriber/internal/queue"
)

func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	pool := queue.NewWorkerPool(0, nil, nil, nil, nil)
	tempDir := t.TempDir()
	handler := NewAnalyzeHandler(pool, tempDir, 10)

	app := fiber.New()
	app.Post("/analyze", handler.Handle)
	return app, tempDir
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("fake media bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func TestAnalyzeRejectsMissingVideo(t *testing.T) {
	app, _ := newTestApp(t)

	body, contentType := multipartBody(t, map[string]string{"question": "Why us?"}, nil)
	req := httptest.NewRequest("POST", "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeRejectsMissingQuestion(t *testing.T) {
	app, _ := newTestApp(t)

	body, contentType := multipartBody(t, nil, map[string]string{"video": "answer.mp4"})
	req := httptest.NewRequest("POST", "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeRejectsUnsupportedFormat(t *testing.T) {
	app, _ := newTestApp(t)

	body, contentType := multipartBody(t,
		map[string]string{"question": "Why us?"},
		map[string]string{"video": "slides.pdf"})
	req := httptest.NewRequest("POST", "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeQueuesJob(t *testing.T) {
	app, _ := newTestApp(t)

	body, contentType := multipartBody(t,
		map[string]string{"question": "Tell me about a challenge you faced"},
		map[string]string{"video": "answer.webm"})
	req := httptest.NewRequest("POST", "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["job_id"] == "" {
		t.Error("response missing job_id")
	}
	if payload["status"] != "queued" {
		t.Errorf("status = %q, want queued", payload["status"])
	}
}

func TestAnalyzeInvalidAudioRemovesSavedVideo(t *testing.T) {
	app, tempDir := newTestApp(t)

	body, contentType := multipartBody(t,
		map[string]string{"question": "Why us?"},
		map[string]string{"video": "answer.mp4", "audio": "track.txt"})
	req := httptest.NewRequest("POST", "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty after rejected audio: %d entries", len(entries))
	}
}
