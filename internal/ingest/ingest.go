// Package ingest loads the raw product review snapshot into Review records.
//
// The loader is fault tolerant at two levels. File-level: a missing or
// unreadable file yields a typed empty Result rather than an error, so
// callers can tell "ran with zero data" from "crashed" and report the reason.
// Row-level: a row with no review text is dropped; a row with a non-numeric
// rating or unparseable date keeps the row and nils only the bad field, so
// it is excluded from exactly the aggregates that need that field.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"golang.org/x/text/encoding/charmap"

	"github.com/reviewlens/reviewlens/internal/database"
)

// Status says how the load attempt went at the file level.
type Status int

const (
	// StatusLoaded means the file was read; Reviews may still be empty.
	StatusLoaded Status = iota
	// StatusFileMissing means the input file does not exist.
	StatusFileMissing
	// StatusUnreadable means the file exists but could not be parsed at all.
	StatusUnreadable
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFileMissing:
		return "file missing"
	case StatusUnreadable:
		return "unreadable"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result holds the outcome of a load.
type Result struct {
	Status  Status
	Reason  string // human-readable detail for non-Loaded statuses
	Reviews []database.Review

	RowsRead         int // data rows seen, excluding the header
	SkippedNoText    int // rows dropped for missing review text
	MalformedRows    int // rows dropped because the CSV reader could not parse them
	MalformedRatings int // rows kept with rating set to nil
	MalformedDates   int // rows kept with date set to nil
}

// Column header aliases, matched case-insensitively. The canonical names are
// the ones the raw snapshot ships with.
var columnAliases = map[string]string{
	"name":             "product",
	"product":          "product",
	"product_name":     "product",
	"categories":       "category",
	"category":         "category",
	"reviews.text":     "text",
	"text":             "text",
	"reviews.rating":   "rating",
	"rating":           "rating",
	"reviews.date":     "date",
	"date":             "date",
	"reviews.username": "username",
	"username":         "username",
}

// Load reads the raw reviews CSV at path. It never returns an error for a
// missing or malformed file; the Result's Status carries that outcome.
func Load(path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Result{Status: StatusFileMissing, Reason: fmt.Sprintf("file not found: %s", path)}
		}
		return &Result{Status: StatusUnreadable, Reason: err.Error()}
	}

	text, err := decode(data)
	if err != nil {
		return &Result{Status: StatusUnreadable, Reason: err.Error()}
	}

	return parse(text)
}

// decode interprets raw bytes as UTF-8, falling back to Latin-1 when the
// content is not valid UTF-8.
func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding latin-1: %w", err)
	}
	return string(decoded), nil
}

// parse reads header + data rows from decoded CSV content.
func parse(content string) *Result {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return &Result{Status: StatusUnreadable, Reason: fmt.Sprintf("reading header: %v", err)}
	}

	cols := mapColumns(header)
	if _, ok := cols["text"]; !ok {
		return &Result{Status: StatusUnreadable, Reason: "no review text column in header"}
	}

	result := &Result{Status: StatusLoaded}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A single unparseable row does not poison the file.
			result.RowsRead++
			result.MalformedRows++
			continue
		}
		result.RowsRead++

		text := strings.TrimSpace(field(record, cols, "text"))
		if text == "" {
			result.SkippedNoText++
			continue
		}

		r := database.Review{
			ProductName: strings.TrimSpace(field(record, cols, "product")),
			Text:        text,
		}
		if c := strings.TrimSpace(field(record, cols, "category")); c != "" {
			r.Category = &c
		}
		if u := strings.TrimSpace(field(record, cols, "username")); u != "" {
			r.Username = &u
		}

		if raw := strings.TrimSpace(field(record, cols, "rating")); raw != "" {
			if rating, ok := parseRating(raw); ok {
				r.Rating = &rating
			} else {
				result.MalformedRatings++
			}
		}

		if raw := strings.TrimSpace(field(record, cols, "date")); raw != "" {
			if t, err := dateparse.ParseAny(raw); err == nil {
				r.ReviewDate = &t
			} else {
				result.MalformedDates++
			}
		}

		result.Reviews = append(result.Reviews, r)
	}

	return result
}

// mapColumns maps canonical column names to their index in the header.
// The first matching alias wins.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, exists := cols[canonical]; !exists {
			cols[canonical] = i
		}
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseRating accepts integer ratings and float strings like "5.0" that round
// cleanly to an integer.
func parseRating(raw string) (int, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
