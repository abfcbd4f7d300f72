package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    product_name TEXT NOT NULL DEFAULT '',
    category TEXT,
    username TEXT,
    rating INTEGER,
    review_date TEXT,
    text TEXT NOT NULL,
    sentiment_score REAL,
    sentiment_label TEXT,
    mismatch_flag TEXT,
    ingested_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reviews_label ON reviews(sentiment_label);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_name);

CREATE TABLE IF NOT EXISTS run_reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    generated_at TEXT DEFAULT (datetime('now')),
    total_reviews INTEGER DEFAULT 0,
    scored_reviews INTEGER DEFAULT 0,
    mismatches INTEGER DEFAULT 0,
    model_accuracy REAL
);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
