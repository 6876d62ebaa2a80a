package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/interview-transcriber/internal/queue"
	"github.com/codebuildervaibhav/interview-transcriber/internal/transcription"
	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// Drive share link formats: /file/d/{id}/view, ?id={id}, or a bare file ID.
var (
	drivePathPattern  = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	driveQueryPattern = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	driveIDPattern    = regexp.MustCompile(`^([a-zA-Z0-9_-]{25,40})$`)
)

// GDriveHandler ingests a recording shared via a public Google Drive link,
// for candidates who recorded on another device and shared the file instead
// of uploading it directly.
type GDriveHandler struct {
	workerPool *queue.WorkerPool
	tempDir    string
	fetch      func(url string) (*http.Response, error)
}

// NewGDriveHandler creates a new Google Drive link handler
func NewGDriveHandler(workerPool *queue.WorkerPool, tempDir string) *GDriveHandler {
	return &GDriveHandler{
		workerPool: workerPool,
		tempDir:    tempDir,
		fetch:      http.Get,
	}
}

type gdriveRequest struct {
	URL      string `json:"url"`
	Question string `json:"question"`
	Name     string `json:"name"` // optional original filename hint
}

// Handle downloads the shared recording to the temp dir and queues a
// transcription job for it.
func (h *GDriveHandler) Handle(c *fiber.Ctx) error {
	var req gdriveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	if req.URL == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "URL is required",
			"code":  "ERR_NO_URL",
		})
	}

	if req.Question == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Question text required",
			"code":  "ERR_NO_QUESTION",
		})
	}

	fileID := extractDriveFileID(req.URL)
	if fileID == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid Google Drive URL",
			"code":  "ERR_INVALID_URL",
		})
	}

	jobID := uuid.New().String()
	tempPath := filepath.Join(h.tempDir, jobID+mediaExt(req.Name))

	downloadURL := fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", fileID)
	log.Printf("Downloading shared recording %s", fileID)

	resp, err := h.fetch(downloadURL)
	if err != nil {
		log.Printf("Failed to download shared recording: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to download file from Google Drive",
			"code":  "ERR_DOWNLOAD_FAILED",
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return c.Status(400).JSON(fiber.Map{
			"error": "File not accessible (may be private or doesn't exist)",
			"code":  "ERR_FILE_NOT_ACCESSIBLE",
		})
	}

	out, err := os.Create(tempPath)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to save downloaded file",
			"code":  "ERR_SAVE_FAILED",
		})
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tempPath)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to write downloaded file",
			"code":  "ERR_WRITE_FAILED",
		})
	}
	out.Close()

	job := queue.NewJob(jobID, req.Question, types.SourceDrive, tempPath, "")
	h.workerPool.EnqueueJob(job)

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Shared recording downloaded, transcription started",
	})
}

// mediaExt picks a filename extension for the downloaded file from the
// optional name hint. Drive download URLs carry no extension; ffmpeg sniffs
// the container either way, so an unhelpful hint just falls back to .mp4.
func mediaExt(name string) string {
	if transcription.ValidateMediaFormat(name) {
		return strings.ToLower(filepath.Ext(name))
	}
	return ".mp4"
}

// extractDriveFileID extracts the file ID from the common Drive link formats.
func extractDriveFileID(url string) string {
	if matches := drivePathPattern.FindStringSubmatch(url); len(matches) > 1 {
		return matches[1]
	}
	if matches := driveQueryPattern.FindStringSubmatch(url); len(matches) > 1 {
		return matches[1]
	}
	if matches := driveIDPattern.FindStringSubmatch(url); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
