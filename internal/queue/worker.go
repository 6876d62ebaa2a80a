package queue

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/codebuildervaibhav/interview-transcriber/internal/storage"
	"github.com/codebuildervaibhav/interview-transcriber/internal/transcription"
	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// WorkerPool runs transcription jobs from a buffered queue. Workers execute
// whole pipelines in parallel; the recognition engine itself serializes
// inference internally.
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	service      *transcription.Service
	localStorage *storage.LocalStorage
	driveClient  *storage.DriveClient
	db           *storage.MetadataDB

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(
	workerCount int,
	service *transcription.Service,
	localStorage *storage.LocalStorage,
	driveClient *storage.DriveClient,
	db *storage.MetadataDB,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100),
		workerCount:  workerCount,
		service:      service,
		localStorage: localStorage,
		driveClient:  driveClient,
		db:           db,
		jobs:         make(map[string]*Job),
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob registers a job and adds it to the queue.
func (wp *WorkerPool) EnqueueJob(job *Job) {
	wp.mu.Lock()
	job.Status = types.StatusQueued
	job.CreatedAt = time.Now()
	wp.jobs[job.ID] = job
	wp.mu.Unlock()

	wp.jobQueue <- job
	log.Printf("Job %s enqueued (source: %s)", job.ID, job.SourceType)
}

// GetJobStatus returns a snapshot of the job, or nil if unknown.
func (wp *WorkerPool) GetJobStatus(jobID string) *JobStatus {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	job, ok := wp.jobs[jobID]
	if !ok {
		return nil
	}
	return &JobStatus{
		ID:        job.ID,
		Question:  job.Question,
		Status:    job.Status,
		Error:     job.Error,
		Result:    job.Result,
		CreatedAt: job.CreatedAt,
	}
}

func (wp *WorkerPool) setStatus(job *Job, status, errMsg string) {
	wp.mu.Lock()
	job.Status = status
	job.Error = errMsg
	wp.mu.Unlock()
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					wp.setStatus(job, types.StatusFailed, fmt.Sprintf("worker panic: %v", r))
					wp.cleanupUploads(job)
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob runs the pipeline for one job and persists the result.
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s", workerID, job.ID)
	wp.setStatus(job, types.StatusProcessing, "")
	defer wp.cleanupUploads(job)

	result := wp.service.Transcribe(context.Background(), job.MediaPath, job.AudioPath)

	if !result.Success {
		log.Printf("Worker %d: Job %s failed: %s", workerID, job.ID, result.Error)
		wp.mu.Lock()
		job.Status = types.StatusFailed
		job.Error = result.Error
		job.Result = result
		wp.mu.Unlock()
		return
	}

	result.JobID = job.ID
	result.WordCount = len(strings.Fields(result.Transcript))
	result.ProcessedAt = time.Now()

	localPath, err := wp.localStorage.SaveTranscript(job.Question, result)
	if err != nil {
		log.Printf("Worker %d: Local save failed for job %s: %v", workerID, job.ID, err)
		wp.setStatus(job, types.StatusFailed, fmt.Sprintf("local save failed: %v", err))
		return
	}
	result.LocalPath = localPath

	if wp.driveClient != nil {
		wp.uploadWithRetry(workerID, job, result)
	}

	if wp.db != nil {
		if err := wp.db.SaveAnalysis(job.ID, job.Question, job.SourceType, result); err != nil {
			log.Printf("Worker %d: Database save failed: %v", workerID, err)
		}
	}

	wp.mu.Lock()
	job.Status = types.StatusCompleted
	job.Result = result
	wp.mu.Unlock()
	log.Printf("Worker %d: Job %s completed (words: %d, local: %s)",
		workerID, job.ID, result.WordCount, localPath)
}

// uploadWithRetry mirrors the result to Google Drive, backing off between
// attempts. Drive is best-effort; local storage is the source of truth.
func (wp *WorkerPool) uploadWithRetry(workerID int, job *Job, result *types.TranscriptionResult) {
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		var driveURL string
		driveURL, err = wp.driveClient.Upload(job.Question, result)
		if err == nil {
			result.GDriveURL = driveURL
			return
		}
		log.Printf("Worker %d: Google Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
		if attempt < 3 {
			time.Sleep(time.Duration(attempt*attempt) * time.Second)
		}
	}
	log.Printf("Worker %d: Google Drive upload failed after 3 attempts, keeping local copy only", workerID)
}

// cleanupUploads removes the uploaded source files once a job is done with
// them. Pipeline-internal temp files are already gone by this point.
func (wp *WorkerPool) cleanupUploads(job *Job) {
	for _, path := range []string{job.MediaPath, job.AudioPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to cleanup uploaded file %s: %v", path, err)
		}
	}
}
