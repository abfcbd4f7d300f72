package database

import (
	"database/sql"
	"fmt"
)

// InsertRunReport records metadata about a completed pipeline run.
func (db *DB) InsertRunReport(total, scored, mismatches int, accuracy *float64) error {
	_, err := db.conn.Exec(`
		INSERT INTO run_reports (total_reviews, scored_reviews, mismatches, model_accuracy)
		VALUES (?, ?, ?, ?)`,
		total, scored, mismatches, accuracy)
	if err != nil {
		return fmt.Errorf("inserting run report: %w", err)
	}
	return nil
}

// GetLatestRunReport returns the most recent run report, or nil if no run
// has completed yet.
func (db *DB) GetLatestRunReport() (*RunReport, error) {
	row := db.conn.QueryRow(`
		SELECT id, generated_at, total_reviews, scored_reviews, mismatches, model_accuracy
		FROM run_reports ORDER BY id DESC LIMIT 1`)

	var r RunReport
	err := row.Scan(&r.ID, &r.GeneratedAt, &r.TotalReviews, &r.ScoredReviews, &r.Mismatches, &r.ModelAccuracy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run report: %w", err)
	}
	return &r, nil
}

// GetStats returns aggregate statistics for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM reviews", &s.TotalReviews},
		{"SELECT COUNT(*) FROM reviews WHERE sentiment_score IS NOT NULL", &s.ScoredReviews},
		{"SELECT COUNT(*) FROM reviews WHERE mismatch_flag IS NOT NULL", &s.Mismatches},
		{"SELECT COUNT(DISTINCT product_name) FROM reviews", &s.Products},
		{"SELECT COUNT(DISTINCT category) FROM reviews WHERE category IS NOT NULL", &s.Categories},
		{"SELECT COUNT(*) FROM run_reports", &s.RunReports},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("gathering stats: %w", err)
		}
	}

	return s, nil
}
