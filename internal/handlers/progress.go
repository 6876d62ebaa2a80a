package handlers

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/interview-transcriber/internal/queue"
	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// ProgressHandler streams job status over WebSocket so the recording UI can
// show transcription progress without polling.
type ProgressHandler struct {
	workerPool *queue.WorkerPool
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(workerPool *queue.WorkerPool) *ProgressHandler {
	return &ProgressHandler{
		workerPool: workerPool,
	}
}

// Handle reads a job ID from the first text message, then pushes status
// snapshots until the job reaches a terminal state or the client goes away.
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	_, message, err := c.ReadMessage()
	if err != nil {
		log.Printf("WebSocket read error: %v", err)
		return
	}
	jobID := string(message)

	status := h.workerPool.GetJobStatus(jobID)
	if status == nil {
		c.WriteJSON(map[string]string{"error": "unknown job", "job_id": jobID})
		return
	}

	log.Printf("Streaming progress for job %s", jobID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		if err := c.WriteJSON(status); err != nil {
			log.Printf("WebSocket write error for job %s: %v", jobID, err)
			return
		}

		if status.Status == types.StatusCompleted || status.Status == types.StatusFailed {
			return
		}

		<-ticker.C
		status = h.workerPool.GetJobStatus(jobID)
		if status == nil {
			return
		}
	}
}
