package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/interview-transcriber/internal/cleanup"
	"github.com/codebuildervaibhav/interview-transcriber/internal/handlers"
	"github.com/codebuildervaibhav/interview-transcriber/internal/postprocess"
	"github.com/codebuildervaibhav/interview-transcriber/internal/queue"
	"github.com/codebuildervaibhav/interview-transcriber/internal/storage"
	"github.com/codebuildervaibhav/interview-transcriber/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Whisper struct {
		Model          string `yaml:"model"`
		Language       string `yaml:"language"`
		TimeoutMinutes int    `yaml:"timeout_minutes"`
	} `yaml:"whisper"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

func main() {
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cleanup.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(config.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	log.Println("Initializing components...")

	// Whisper engine. A missing model or runtime stops the server here
	// rather than failing every job later.
	engine, err := transcription.NewWhisperTranscriber(
		config.Whisper.Model,
		config.Whisper.Language,
		config.Storage.TempDir,
		time.Duration(config.Whisper.TimeoutMinutes)*time.Minute,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Whisper: %v", err)
	}

	densifier := postprocess.NewDensifier(rand.New(rand.NewSource(time.Now().UnixNano())))
	service := transcription.NewService(engine, densifier, config.Storage.TempDir)

	localStorage := storage.NewLocalStorage(config.Storage.OutputDir)

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *storage.DriveClient
	if _, err := os.Stat(config.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			config.GoogleDrive.CredentialsFile,
			config.GoogleDrive.TokenFile,
			config.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Transcripts will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	db, err := storage.NewMetadataDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	workerPool := queue.NewWorkerPool(
		config.Workers.Count,
		service,
		localStorage,
		driveClient,
		db,
	)
	workerPool.Start()

	cleanupScheduler := cleanup.NewScheduler(
		config.Storage.TempDir,
		config.Cleanup.IntervalMinutes,
		config.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: config.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(workerPool, config.Storage.TempDir, config.Limits.MaxFileSizeMB)
	gdriveHandler := handlers.NewGDriveHandler(workerPool, config.Storage.TempDir)
	progressHandler := handlers.NewProgressHandler(workerPool)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/analyze", analyzeHandler.Handle)
	app.Post("/analyze/drive", gdriveHandler.Handle)

	app.Get("/ws/progress", websocket.New(progressHandler.Handle))

	// In-flight or recently finished job status
	app.Get("/analyses/:id", func(c *fiber.Ctx) error {
		jobID := c.Params("id")

		if status := workerPool.GetJobStatus(jobID); status != nil {
			return c.JSON(status)
		}

		// Fall back to the database for jobs from earlier runs
		record, err := db.GetAnalysis(jobID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Analysis not found"})
		}
		return c.JSON(record)
	})

	app.Get("/analyses", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		records, err := db.ListAnalyses(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(records)
	})

	app.Get("/analyses/:id/transcript", func(c *fiber.Ctx) error {
		jobID := c.Params("id")

		record, err := db.GetAnalysis(jobID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Analysis not found"})
		}

		content, err := os.ReadFile(record.LocalPath)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to read transcript file"})
		}

		return c.SendString(string(content))
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /analyze                   - Upload interview recording")
	log.Println("   POST /analyze/drive             - Analyze a recording shared via Drive link")
	log.Println("   GET  /analyses                  - List analyses")
	log.Println("   GET  /analyses/:id              - Analysis status and result")
	log.Println("   GET  /analyses/:id/transcript   - Transcript text")
	log.Println("   GET  /ws/progress               - Job progress stream")
	log.Println("   GET  /logs                      - View server logs")
	log.Println("   GET  /health                    - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
