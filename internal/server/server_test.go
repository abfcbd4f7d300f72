package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/database"
)

func testServer(t *testing.T) (*Server, *database.DB) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Output.DataDir = filepath.Join(dir, "data")

	db, err := database.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := New(db, cfg)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	return s, db
}

func seedScored(t *testing.T, db *database.DB) {
	t.Helper()
	score1, score2 := 0.8, -0.5
	label1, label2 := "Positive", "Negative"
	cat := "Electronics"
	rating1, rating2 := 5, 5
	flag := "Positive Rating, Negative Text"

	reviews := []database.Review{
		{ProductName: "Echo Dot", Category: &cat, Rating: &rating1, Text: "Great speaker"},
		{ProductName: "Fire Stick", Category: &cat, Rating: &rating2, Text: "Awful remote"},
	}
	if _, err := db.InsertReviews(reviews); err != nil {
		t.Fatal(err)
	}
	stored, err := db.GetAllReviews()
	if err != nil {
		t.Fatal(err)
	}
	stored[0].SentimentScore = &score1
	stored[0].SentimentLabel = &label1
	stored[1].SentimentScore = &score2
	stored[1].SentimentLabel = &label2
	stored[1].MismatchFlag = &flag
	if err := db.UpdateScores(stored); err != nil {
		t.Fatal(err)
	}
}

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	return rec.Code, string(body)
}

func TestIndexPage(t *testing.T) {
	s, db := testServer(t)
	seedScored(t, db)

	code, body := get(t, s, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "Positive") || !strings.Contains(body, "Negative") {
		t.Error("index missing label counts")
	}
	if !strings.Contains(body, "Electronics") {
		t.Error("index missing category summary")
	}
}

func TestIndexEmptyStore(t *testing.T) {
	s, _ := testServer(t)

	code, _ := get(t, s, "/")
	if code != http.StatusOK {
		t.Errorf("empty store must still render, got %d", code)
	}
}

func TestIndexUnknownPath(t *testing.T) {
	s, _ := testServer(t)

	code, _ := get(t, s, "/nope")
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestReportPage(t *testing.T) {
	s, db := testServer(t)
	seedScored(t, db)

	code, body := get(t, s, "/report")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	// The markdown report renders as HTML headings.
	if !strings.Contains(body, "Sentiment Distribution") {
		t.Error("report page missing rendered report")
	}
}

func TestProductsDrilldown(t *testing.T) {
	s, db := testServer(t)
	seedScored(t, db)

	code, body := get(t, s, "/products?name="+url.QueryEscape("Echo Dot"))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "Echo Dot") {
		t.Error("drill-down missing selected product")
	}
	if !strings.Contains(body, "Great speaker") {
		t.Error("drill-down missing top review text")
	}
	// Rating-by-sentiment breakdown for the selected product.
	if !strings.Contains(body, "Rating by Sentiment") {
		t.Error("drill-down missing rating-by-sentiment table")
	}
	if !strings.Contains(body, "5.00") {
		t.Error("drill-down missing average rating for the Positive label")
	}
}

func TestProductsFilterListsAllProducts(t *testing.T) {
	s, db := testServer(t)
	seedScored(t, db)

	code, body := get(t, s, "/products")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, name := range []string{"Echo Dot", "Fire Stick"} {
		if !strings.Contains(body, `<option value="`+name+`"`) {
			t.Errorf("filter missing product option %q", name)
		}
	}
}

func TestMismatchesPage(t *testing.T) {
	s, db := testServer(t)
	seedScored(t, db)

	code, body := get(t, s, "/mismatches")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "Fire Stick") {
		t.Error("mismatches page missing flagged review")
	}
	if strings.Contains(body, "Echo Dot") {
		t.Error("unflagged review must not appear")
	}
}

func TestPredictWithoutModel(t *testing.T) {
	s, _ := testServer(t)

	code, body := get(t, s, "/predict")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "No trained model found") {
		t.Error("predict page missing no-model message")
	}
}

func TestStaticAssets(t *testing.T) {
	s, _ := testServer(t)

	code, body := get(t, s, "/static/style.css")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body == "" {
		t.Error("empty stylesheet")
	}
}
