package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zombar/sentimeter/internal/models"
)

// ErrNotFound is returned when no analysis matches the given ID.
var ErrNotFound = fmt.Errorf("analysis not found")

// SaveAnalysis saves an analysis to the database
func (db *DB) SaveAnalysis(analysis *models.Analysis) error {
	resultJSON, err := json.Marshal(analysis.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO analyses (id, text, source_url, strategy, result, label, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			result = excluded.result,
			label = excluded.label,
			updated_at = excluded.updated_at
	`, analysis.ID, analysis.Text, analysis.SourceURL, analysis.Strategy,
		string(resultJSON), analysis.Result.Label, analysis.CreatedAt, analysis.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	return nil
}

// GetAnalysis retrieves an analysis by ID
func (db *DB) GetAnalysis(id string) (*models.Analysis, error) {
	row := db.conn.QueryRow(`
		SELECT id, text, source_url, strategy, result, created_at, updated_at
		FROM analyses
		WHERE id = ?
	`, id)

	analysis, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return analysis, nil
}

// ListAnalyses retrieves analyses ordered newest first, with pagination
func (db *DB) ListAnalyses(limit, offset int) ([]*models.Analysis, error) {
	rows, err := db.conn.Query(`
		SELECT id, text, source_url, strategy, result, created_at, updated_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

// GetAnalysesByLabel retrieves all analyses with a given sentiment label
func (db *DB) GetAnalysesByLabel(label string) ([]*models.Analysis, error) {
	rows, err := db.conn.Query(`
		SELECT id, text, source_url, strategy, result, created_at, updated_at
		FROM analyses
		WHERE label = ?
		ORDER BY created_at DESC
	`, label)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by label: %w", err)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

// DeleteAnalysis deletes an analysis by ID
func (db *DB) DeleteAnalysis(id string) error {
	result, err := db.conn.Exec("DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var (
		id         string
		text       string
		sourceURL  sql.NullString
		strategy   string
		resultJSON string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &text, &sourceURL, &strategy, &resultJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &models.Analysis{
		ID:        id,
		Text:      text,
		SourceURL: sourceURL.String,
		Strategy:  strategy,
		Result:    result,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func collectAnalyses(rows *sql.Rows) ([]*models.Analysis, error) {
	var analyses []*models.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return analyses, nil
}
