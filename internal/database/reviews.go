package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/reviewlens/reviewlens/internal/sentiment"
)

// dateLayout is how review dates are stored. Day precision is all the
// aggregates need.
const dateLayout = "2006-01-02"

// InsertReviews inserts a batch of reviews in one transaction and returns
// the number inserted.
func (db *DB) InsertReviews(reviews []Review) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO reviews (product_name, category, username, rating, review_date, text)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range reviews {
		var date *string
		if r.ReviewDate != nil {
			s := r.ReviewDate.Format(dateLayout)
			date = &s
		}
		if _, err := stmt.Exec(r.ProductName, r.Category, r.Username, r.Rating, date, r.Text); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting review: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return inserted, nil
}

// ClearReviews removes all review rows. A re-run regenerates everything from
// scratch rather than patching previous derivations.
func (db *DB) ClearReviews() error {
	_, err := db.conn.Exec("DELETE FROM reviews")
	return err
}

// GetAllReviews returns every review in insertion order.
func (db *DB) GetAllReviews() ([]Review, error) {
	return db.queryReviews("SELECT " + reviewColumns + " FROM reviews ORDER BY id")
}

// GetScoredReviews returns reviews that have been through the scoring stage,
// in insertion order.
func (db *DB) GetScoredReviews() ([]Review, error) {
	return db.queryReviews("SELECT " + reviewColumns + " FROM reviews WHERE sentiment_score IS NOT NULL ORDER BY id")
}

// GetReviewsForProduct returns scored reviews for one product, in insertion
// order.
func (db *DB) GetReviewsForProduct(product string) ([]Review, error) {
	return db.queryReviews(
		"SELECT "+reviewColumns+" FROM reviews WHERE product_name = ? AND sentiment_score IS NOT NULL ORDER BY id",
		product)
}

// GetProductNames returns the distinct product names, alphabetically.
func (db *DB) GetProductNames() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT product_name FROM reviews ORDER BY product_name")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// UpdateScores writes sentiment_score, sentiment_label, and mismatch_flag
// for each review in one transaction.
func (db *DB) UpdateScores(reviews []Review) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin score update: %w", err)
	}

	stmt, err := tx.Prepare(`
		UPDATE reviews
		SET sentiment_score = ?, sentiment_label = ?, mismatch_flag = ?
		WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare score update: %w", err)
	}
	defer stmt.Close()

	for _, r := range reviews {
		if _, err := stmt.Exec(r.SentimentScore, r.SentimentLabel, r.MismatchFlag, r.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating review %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score update: %w", err)
	}
	return nil
}

const reviewColumns = "id, product_name, category, username, rating, review_date, text, sentiment_score, sentiment_label, mismatch_flag, ingested_at"

func (db *DB) queryReviews(query string, args ...any) ([]Review, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func scanReview(rows *sql.Rows) (Review, error) {
	var r Review
	var date *string
	if err := rows.Scan(&r.ID, &r.ProductName, &r.Category, &r.Username, &r.Rating,
		&date, &r.Text, &r.SentimentScore, &r.SentimentLabel, &r.MismatchFlag, &r.IngestedAt); err != nil {
		return Review{}, fmt.Errorf("scanning review: %w", err)
	}
	// A stored label outside the three-way set means the row was written by
	// something other than the scoring stage.
	if r.SentimentLabel != nil {
		if _, err := sentiment.ParseLabel(*r.SentimentLabel); err != nil {
			return Review{}, fmt.Errorf("review %d: %w", r.ID, err)
		}
	}
	if date != nil {
		if t, err := time.Parse(dateLayout, *date); err == nil {
			r.ReviewDate = &t
		}
	}
	return r, nil
}
