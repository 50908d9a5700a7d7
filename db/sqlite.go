// Package db persists assessment history and the training log in
// SQLite. Persistence is optional; the trained model itself is never
// written here.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"riskscreen/ml"
	"riskscreen/risk"
)

var database *sql.DB

// InitDB opens the SQLite database and creates the schema.
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS assessments (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        tier VARCHAR(20),
        probability REAL,
        features TEXT,
        created_at DATETIME
    );
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        feature_count INTEGER,
        train_count INTEGER,
        test_count INTEGER,
        accuracy REAL,
        precision REAL,
        recall REAL,
        trained_at DATETIME
    );`
	_, err = database.Exec(query)
	return err
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// Enabled reports whether InitDB has been called.
func Enabled() bool { return database != nil }

// AssessmentRecord is one persisted scoring event.
type AssessmentRecord struct {
	ID          int64     `json:"id"`
	Tier        string    `json:"tier"`
	Probability float64   `json:"probability"`
	Features    []float64 `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveAssessment records a completed assessment.
func SaveAssessment(assessment *risk.Assessment, features []float64) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	encoded, err := json.Marshal(features)
	if err != nil {
		return err
	}
	_, err = database.Exec(
		`INSERT INTO assessments (tier, probability, features, created_at) VALUES (?, ?, ?, ?)`,
		string(assessment.Tier), assessment.Probability, string(encoded), time.Now(),
	)
	return err
}

// RecentAssessments returns the newest records, most recent first.
func RecentAssessments(limit int) ([]AssessmentRecord, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := database.Query(
		`SELECT id, tier, probability, features, created_at FROM assessments ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		var record AssessmentRecord
		var encoded string
		if err := rows.Scan(&record.ID, &record.Tier, &record.Probability, &encoded, &record.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(encoded), &record.Features); err != nil {
			record.Features = nil
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// LogTraining appends one row to the training log.
func LogTraining(featureCount int, metrics ml.EvalMetrics) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(
		`INSERT INTO training_log (feature_count, train_count, test_count, accuracy, precision, recall, trained_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		featureCount, metrics.TrainCount, metrics.TestCount, metrics.Accuracy, metrics.Precision, metrics.Recall, time.Now(),
	)
	return err
}
