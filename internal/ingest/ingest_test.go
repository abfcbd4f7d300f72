package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = `name,categories,reviews.text,reviews.rating,reviews.date,reviews.username
Echo Dot,Electronics,Great little speaker,5,2017-01-15,alice
Fire Tablet,"Tablets,Electronics",Screen cracked fast,1,2017-02-03,bob
Kindle,E-Readers,,4,2017-03-10,carol
Echo Dot,Electronics,Decent sound,not-a-number,2017-04-01,dave
Fire TV,Electronics,Works fine,4,someday,erin
`

func TestLoadSample(t *testing.T) {
	result := Load(writeCSV(t, sampleCSV))

	if result.Status != StatusLoaded {
		t.Fatalf("status = %v, want loaded", result.Status)
	}
	if result.RowsRead != 5 {
		t.Errorf("RowsRead = %d, want 5", result.RowsRead)
	}
	if result.SkippedNoText != 1 {
		t.Errorf("SkippedNoText = %d, want 1", result.SkippedNoText)
	}
	if len(result.Reviews) != 4 {
		t.Fatalf("got %d reviews, want 4", len(result.Reviews))
	}

	first := result.Reviews[0]
	if first.ProductName != "Echo Dot" {
		t.Errorf("product = %q", first.ProductName)
	}
	if first.Category == nil || *first.Category != "Electronics" {
		t.Errorf("category = %v", first.Category)
	}
	if first.Username == nil || *first.Username != "alice" {
		t.Errorf("username = %v", first.Username)
	}
	if first.Rating == nil || *first.Rating != 5 {
		t.Errorf("rating = %v", first.Rating)
	}
	if first.ReviewDate == nil || first.ReviewDate.Format("2006-01-02") != "2017-01-15" {
		t.Errorf("date = %v", first.ReviewDate)
	}
}

func TestLoadMalformedFieldsKeepRow(t *testing.T) {
	result := Load(writeCSV(t, sampleCSV))

	if result.MalformedRatings != 1 {
		t.Errorf("MalformedRatings = %d, want 1", result.MalformedRatings)
	}
	if result.MalformedDates != 1 {
		t.Errorf("MalformedDates = %d, want 1", result.MalformedDates)
	}

	// Row with the bad rating survived with rating nil and date intact.
	badRating := result.Reviews[2]
	if badRating.Rating != nil {
		t.Errorf("expected nil rating, got %v", *badRating.Rating)
	}
	if badRating.ReviewDate == nil {
		t.Error("expected date kept on bad-rating row")
	}

	// Row with the bad date survived with date nil and rating intact.
	badDate := result.Reviews[3]
	if badDate.ReviewDate != nil {
		t.Errorf("expected nil date, got %v", *badDate.ReviewDate)
	}
	if badDate.Rating == nil || *badDate.Rating != 4 {
		t.Errorf("expected rating 4 kept, got %v", badDate.Rating)
	}
}

func TestLoadMalformedRowCountedSeparately(t *testing.T) {
	// The second data row has a bare quote the CSV reader rejects.
	content := "name,reviews.text,reviews.rating\n" +
		"Echo Dot,Solid speaker,5\n" +
		"Fire Tablet,has a \"bare quote,1\n" +
		"Kindle,Reads well,4\n"
	result := Load(writeCSV(t, content))

	if result.Status != StatusLoaded {
		t.Fatalf("status = %v, want loaded", result.Status)
	}
	if result.MalformedRows != 1 {
		t.Errorf("MalformedRows = %d, want 1", result.MalformedRows)
	}
	if result.SkippedNoText != 0 {
		t.Errorf("SkippedNoText = %d, want 0; unparseable rows have their own counter", result.SkippedNoText)
	}
	if result.RowsRead != 3 {
		t.Errorf("RowsRead = %d, want 3", result.RowsRead)
	}
	if len(result.Reviews) != 2 {
		t.Errorf("got %d reviews, want 2", len(result.Reviews))
	}
}

func TestLoadMissingFile(t *testing.T) {
	result := Load(filepath.Join(t.TempDir(), "nope.csv"))

	if result.Status != StatusFileMissing {
		t.Errorf("status = %v, want file missing", result.Status)
	}
	if result.Reason == "" {
		t.Error("expected a reason for the missing file")
	}
	if len(result.Reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(result.Reviews))
	}
}

func TestLoadNoTextColumn(t *testing.T) {
	result := Load(writeCSV(t, "name,rating\nEcho,5\n"))

	if result.Status != StatusUnreadable {
		t.Errorf("status = %v, want unreadable", result.Status)
	}
}

func TestLoadLatin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as standalone UTF-8.
	content := []byte("name,reviews.text\nCaf\xe9 Maker,Tr\xe9s bien\n")
	path := filepath.Join(t.TempDir(), "latin1.csv")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	result := Load(path)
	if result.Status != StatusLoaded {
		t.Fatalf("status = %v, want loaded", result.Status)
	}
	if len(result.Reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(result.Reviews))
	}
	if result.Reviews[0].ProductName != "Café Maker" {
		t.Errorf("product = %q, want Café Maker", result.Reviews[0].ProductName)
	}
	if result.Reviews[0].Text != "Trés bien" {
		t.Errorf("text = %q", result.Reviews[0].Text)
	}
}

func TestHeaderAliases(t *testing.T) {
	csvContent := "Product_Name,Category,Text,Rating,Date,Username\nWidget,Gadgets,Solid,4,2020-05-01,zoe\n"
	result := Load(writeCSV(t, csvContent))

	if result.Status != StatusLoaded {
		t.Fatalf("status = %v, want loaded", result.Status)
	}
	if len(result.Reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(result.Reviews))
	}
	r := result.Reviews[0]
	if r.ProductName != "Widget" || r.Category == nil || *r.Category != "Gadgets" {
		t.Errorf("aliased columns not mapped: %+v", r)
	}
	if r.Rating == nil || *r.Rating != 4 {
		t.Errorf("rating = %v, want 4", r.Rating)
	}
}

func TestParseRating(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{"1", 1, true},
		{"4.0", 4, true},
		{"3.5", 0, false},
		{"five", 0, false},
		{"NaN", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseRating(tc.raw)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("parseRating(%q) = %d, %v; want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStatusString(t *testing.T) {
	if StatusLoaded.String() != "loaded" {
		t.Errorf("got %q", StatusLoaded.String())
	}
	if StatusFileMissing.String() != "file missing" {
		t.Errorf("got %q", StatusFileMissing.String())
	}
}
