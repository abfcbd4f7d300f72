package report

import (
	"strings"
	"testing"
	"time"

	"github.com/reviewlens/reviewlens/internal/database"
	"github.com/reviewlens/reviewlens/internal/train"
)

func scored(product, category, text string, rating int, score float64, label string) database.Review {
	r := database.Review{ProductName: product, Text: text}
	if category != "" {
		r.Category = &category
	}
	r.Rating = &rating
	r.SentimentScore = &score
	r.SentimentLabel = &label
	return r
}

func sampleReviews() []database.Review {
	date := time.Date(2017, 3, 5, 0, 0, 0, 0, time.UTC)
	flagged := scored("Fire Tablet", "Tablets", "Awful screen, rated before it broke", 5, -0.5, "Negative")
	flag := "Positive Rating, Negative Text"
	flagged.MismatchFlag = &flag
	user := "bob"
	flagged.Username = &user

	best := scored("Echo Dot", "Electronics", "Absolutely great speaker", 5, 0.9, "Positive")
	best.ReviewDate = &date

	return []database.Review{
		best,
		flagged,
		scored("Kindle", "E-Readers", "It exists", 3, 0.0, "Neutral"),
	}
}

func TestComposeSections(t *testing.T) {
	out := Compose(sampleReviews(), nil)

	sections := []string{
		"# Product Review Sentiment Analysis Report",
		"## 1. Sentiment Distribution",
		"## 2. Most Problematic Category",
		"## 3. Product Popularity",
		"## 4. Rating vs. Sentiment Mismatch",
		"## 5. Highlight Reviews",
		"## 6. Monthly Sentiment Trend",
		"## 7. Final Insights",
	}
	for _, s := range sections {
		if !strings.Contains(out, s) {
			t.Errorf("missing section %q", s)
		}
	}
}

func TestComposeContent(t *testing.T) {
	out := Compose(sampleReviews(), nil)

	if !strings.Contains(out, "- Positive: 1 reviews") {
		t.Error("distribution missing Positive count")
	}
	if !strings.Contains(out, "- Category: Tablets") {
		t.Error("worst category should be Tablets")
	}
	if !strings.Contains(out, "- Most Loved: Echo Dot") {
		t.Error("most loved product missing")
	}
	if !strings.Contains(out, "- Most Criticized: Fire Tablet") {
		t.Error("most criticized product missing")
	}
	if !strings.Contains(out, "1 review(s) where the rating and the text disagree") {
		t.Error("mismatch section missing example")
	}
	if !strings.Contains(out, "- Username: bob") {
		t.Error("mismatch example missing username")
	}
	if !strings.Contains(out, "- 2017-03: avg sentiment 0.90 (1 reviews)") {
		t.Error("monthly trend missing dated review")
	}
	if strings.Contains(out, "Classifier held-out accuracy") {
		t.Error("accuracy line must be absent without an evaluation")
	}
}

func TestComposeWithEvaluation(t *testing.T) {
	eval := &train.Evaluation{Accuracy: 0.875, TrainSize: 8, TestSize: 2}
	out := Compose(sampleReviews(), eval)

	if !strings.Contains(out, "- Classifier held-out accuracy: 0.88 (train 8 / test 2)") {
		t.Error("accuracy line missing or misformatted")
	}
}

func TestComposeEmpty(t *testing.T) {
	out := Compose(nil, nil)

	wording := []string{
		"No scored reviews available.",
		"No category data available.",
		"No product data available.",
		"No mismatches found.",
		"No labeled reviews available.",
		"No dated reviews available.",
		"No data to summarize.",
	}
	for _, w := range wording {
		if !strings.Contains(out, w) {
			t.Errorf("missing empty-state wording %q", w)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcde..." {
		t.Errorf("got %q", got)
	}
	// Never cut through a multi-byte rune.
	if got := truncate("ééééé", 3); got != "é..." {
		t.Errorf("got %q", got)
	}
}
