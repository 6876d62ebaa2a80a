package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/interview-transcriber/internal/queue"
	"github.com/codebuildervaibhav/interview-transcriber/internal/transcription"
	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// AnalyzeHandler accepts a recorded interview answer for transcription.
type AnalyzeHandler struct {
	workerPool *queue.WorkerPool
	tempDir    string
	maxSizeMB  int
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(workerPool *queue.WorkerPool, tempDir string, maxSizeMB int) *AnalyzeHandler {
	return &AnalyzeHandler{
		workerPool: workerPool,
		tempDir:    tempDir,
		maxSizeMB:  maxSizeMB,
	}
}

// Handle accepts a multipart upload with a "video" file, an optional
// higher-quality "audio" file, and the "question" text, then queues the
// transcription job and returns its ID.
func (h *AnalyzeHandler) Handle(c *fiber.Ctx) error {
	videoFile, err := c.FormFile("video")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "No video file provided",
			"code":  "ERR_NO_VIDEO",
		})
	}

	question := c.FormValue("question")
	if question == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Question text required",
			"code":  "ERR_NO_QUESTION",
		})
	}

	if msg := h.validateUpload(videoFile); msg != "" {
		return c.Status(400).JSON(fiber.Map{
			"error": msg,
			"code":  "ERR_INVALID_VIDEO",
		})
	}

	jobID := uuid.New().String()

	videoPath := h.tempPath(jobID, videoFile.Filename)
	if err := c.SaveFile(videoFile, videoPath); err != nil {
		log.Printf("Failed to save uploaded video: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to save file",
			"code":  "ERR_SAVE_FAILED",
		})
	}

	// Optional separately-recorded audio track. The video is already on disk,
	// so rejecting the audio must remove it; no job exists to clean it up.
	audioPath := ""
	if audioFile, err := c.FormFile("audio"); err == nil {
		if msg := h.validateUpload(audioFile); msg != "" {
			os.Remove(videoPath)
			return c.Status(400).JSON(fiber.Map{
				"error": msg,
				"code":  "ERR_INVALID_AUDIO",
			})
		}
		audioPath = h.tempPath(jobID+"_audio", audioFile.Filename)
		if err := c.SaveFile(audioFile, audioPath); err != nil {
			log.Printf("Failed to save uploaded audio: %v", err)
			os.Remove(videoPath)
			return c.Status(500).JSON(fiber.Map{
				"error": "Failed to save file",
				"code":  "ERR_SAVE_FAILED",
			})
		}
	}

	job := queue.NewJob(jobID, question, types.SourceUpload, videoPath, audioPath)
	h.workerPool.EnqueueJob(job)

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Recording uploaded, transcription started",
	})
}

func (h *AnalyzeHandler) validateUpload(file *multipart.FileHeader) string {
	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB)
	}
	if !transcription.ValidateMediaFormat(file.Filename) {
		return "Unsupported media format"
	}
	return ""
}

func (h *AnalyzeHandler) tempPath(id, filename string) string {
	return filepath.Join(h.tempDir, fmt.Sprintf("%s%s", id, filepath.Ext(filename)))
}
