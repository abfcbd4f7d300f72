// Package export writes the derived artifacts as CSV tables for the report
// renderer and dashboard. Each file is rewritten from scratch on every run;
// nothing is patched in place.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/reviewlens/reviewlens/internal/analyze"
	"github.com/reviewlens/reviewlens/internal/database"
)

// Output file names inside the data directory.
const (
	ScoredReviewsFile   = "final_reviews.csv"
	MismatchFile        = "mismatch_reviews.csv"
	TopPositiveFile     = "top_positive_reviews.csv"
	TopNegativeFile     = "top_negative_reviews.csv"
	CategorySummaryFile = "category_sentiment_summary.csv"
	SentimentCountsFile = "sentiment_counts.csv"
)

// reviewHeader is the shared schema of all review tables: the raw columns
// under their original snapshot names plus the derived columns.
var reviewHeader = []string{
	"name", "categories", "reviews.username", "reviews.rating",
	"reviews.date", "reviews.text", "sentiment_score", "sentiment_label",
	"mismatch_flag",
}

// WriteAll derives the aggregate tables from the scored review set and
// writes all six CSV artifacts into dir. Returns the paths written.
func WriteAll(dir string, reviews []database.Review) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	writes := []struct {
		name string
		fn   func(path string) error
	}{
		{ScoredReviewsFile, func(p string) error { return writeReviewTable(p, reviews) }},
		{MismatchFile, func(p string) error { return writeReviewTable(p, analyze.Mismatches(reviews)) }},
		{TopPositiveFile, func(p string) error { return writeReviewTable(p, analyze.TopPositive(reviews, analyze.DefaultTopN)) }},
		{TopNegativeFile, func(p string) error { return writeReviewTable(p, analyze.TopNegative(reviews, analyze.DefaultTopN)) }},
		{CategorySummaryFile, func(p string) error { return writeCategorySummary(p, analyze.CategorySummary(reviews)) }},
		{SentimentCountsFile, func(p string) error { return writeLabelCounts(p, analyze.LabelCounts(reviews)) }},
	}

	var paths []string
	for _, w := range writes {
		path := filepath.Join(dir, w.name)
		if err := w.fn(path); err != nil {
			return nil, fmt.Errorf("writing %s: %w", w.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeReviewTable(path string, reviews []database.Review) error {
	return writeCSV(path, reviewHeader, func(w *csv.Writer) error {
		for _, r := range reviews {
			if !r.Scored() {
				continue
			}
			if err := w.Write(reviewRow(r)); err != nil {
				return err
			}
		}
		return nil
	})
}

func reviewRow(r database.Review) []string {
	row := []string{
		r.ProductName,
		deref(r.Category),
		deref(r.Username),
		"",
		"",
		r.Text,
		formatScore(*r.SentimentScore),
		deref(r.SentimentLabel),
		deref(r.MismatchFlag),
	}
	if r.Rating != nil {
		row[3] = strconv.Itoa(*r.Rating)
	}
	if r.ReviewDate != nil {
		row[4] = r.ReviewDate.Format("2006-01-02")
	}
	return row
}

func writeCategorySummary(path string, summary []analyze.CategoryScore) error {
	return writeCSV(path, []string{"categories", "avg_sentiment"}, func(w *csv.Writer) error {
		for _, c := range summary {
			if err := w.Write([]string{c.Category, formatScore(c.AvgSentiment)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLabelCounts(path string, counts []analyze.LabelCount) error {
	return writeCSV(path, []string{"sentiment_label", "count"}, func(w *csv.Writer) error {
		for _, c := range counts {
			if err := w.Write([]string{c.Label, strconv.Itoa(c.Count)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSV writes a header row followed by body rows, flushing once.
func writeCSV(path string, header []string, body func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	err = w.Write(header)
	if err == nil {
		err = body(w)
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
