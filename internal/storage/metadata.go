package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codebuildervaibhav/interview-transcriber/internal/types"
)

// MetadataDB indexes completed analyses in SQLite.
type MetadataDB struct {
	db *sql.DB
}

// AnalysisRecord is one row of the analyses table.
type AnalysisRecord struct {
	JobID           string    `json:"job_id"`
	Question        string    `json:"question"`
	SourceType      string    `json:"source_type"`
	GDriveURL       string    `json:"gdrive_url,omitempty"`
	LocalPath       string    `json:"local_path"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds *float64  `json:"duration_seconds"`
	SpeakingRateWPM *float64  `json:"speaking_rate_wpm"`
	WordCount       int       `json:"word_count"`
}

// NewMetadataDB opens (and if needed creates) the analyses database.
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		question TEXT NOT NULL,
		source_type TEXT NOT NULL,
		gdrive_url TEXT,
		local_path TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		duration_seconds REAL,
		speaking_rate_wpm REAL,
		word_count INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveAnalysis records a completed analysis.
func (mdb *MetadataDB) SaveAnalysis(jobID, question, sourceType string, result *types.TranscriptionResult) error {
	query := `
	INSERT INTO analyses (job_id, question, source_type, gdrive_url, local_path, created_at, duration_seconds, speaking_rate_wpm, word_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mdb.db.Exec(query, jobID, question, sourceType, result.GDriveURL,
		result.LocalPath, time.Now(), nullableFloat(result.DurationSeconds),
		nullableFloat(result.SpeakingRateWPM), result.WordCount)
	if err != nil {
		return fmt.Errorf("failed to save analysis metadata: %v", err)
	}

	return nil
}

// GetAnalysis retrieves one analysis by job ID.
func (mdb *MetadataDB) GetAnalysis(jobID string) (*AnalysisRecord, error) {
	query := `
	SELECT job_id, question, source_type, gdrive_url, local_path, created_at, duration_seconds, speaking_rate_wpm, word_count
	FROM analyses WHERE job_id = ?
	`

	record, err := scanAnalysis(mdb.db.QueryRow(query, jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %v", err)
	}
	return record, nil
}

// ListAnalyses returns the most recent analyses, newest first.
func (mdb *MetadataDB) ListAnalyses(limit int) ([]*AnalysisRecord, error) {
	query := `
	SELECT job_id, question, source_type, gdrive_url, local_path, created_at, duration_seconds, speaking_rate_wpm, word_count
	FROM analyses ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %v", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Close closes the database connection
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (*AnalysisRecord, error) {
	var (
		record         AnalysisRecord
		gdriveURL      sql.NullString
		duration, rate sql.NullFloat64
	)

	err := row.Scan(&record.JobID, &record.Question, &record.SourceType, &gdriveURL,
		&record.LocalPath, &record.CreatedAt, &duration, &rate, &record.WordCount)
	if err != nil {
		return nil, err
	}

	record.GDriveURL = gdriveURL.String
	if duration.Valid {
		record.DurationSeconds = &duration.Float64
	}
	if rate.Valid {
		record.SpeakingRateWPM = &rate.Float64
	}
	return &record, nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
