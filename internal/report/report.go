// Package report composes the human-readable analysis report from the
// scored review set. The report is markdown so it renders both as plain text
// (project_report.txt) and as HTML in the dashboard.
package report

import (
	"fmt"
	"strings"

	"github.com/reviewlens/reviewlens/internal/analyze"
	"github.com/reviewlens/reviewlens/internal/database"
	"github.com/reviewlens/reviewlens/internal/train"
)

// snippetLen caps quoted review text in the report.
const snippetLen = 200

// Compose builds the full report. eval may be nil when no model was trained
// this run. Aggregates with no data report that explicitly instead of
// showing zeros.
func Compose(reviews []database.Review, eval *train.Evaluation) string {
	var b strings.Builder

	b.WriteString("# Product Review Sentiment Analysis Report\n\n")

	writeDistribution(&b, analyze.LabelCounts(reviews))
	writeProblemCategory(&b, analyze.CategorySummary(reviews))
	writeProducts(&b, analyze.ProductSummary(reviews))
	writeMismatch(&b, analyze.Mismatches(reviews))
	writeHighlights(&b, reviews)
	writeTrend(&b, analyze.MonthlyTrend(reviews))
	writeInsights(&b, analyze.OverallAverages(reviews), eval)

	return b.String()
}

func writeDistribution(b *strings.Builder, counts []analyze.LabelCount) {
	b.WriteString("## 1. Sentiment Distribution\n\n")
	if len(counts) == 0 {
		b.WriteString("No scored reviews available.\n\n")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(b, "- %s: %d reviews\n", c.Label, c.Count)
	}
	b.WriteString("\n")
}

func writeProblemCategory(b *strings.Builder, summary []analyze.CategoryScore) {
	b.WriteString("## 2. Most Problematic Category\n\n")
	if len(summary) == 0 {
		b.WriteString("No category data available.\n\n")
		return
	}
	worst := summary[len(summary)-1]
	name := worst.Category
	if name == "" {
		name = "(uncategorized)"
	}
	fmt.Fprintf(b, "- Category: %s\n", name)
	fmt.Fprintf(b, "- Avg Sentiment Score: %.2f\n\n", worst.AvgSentiment)
}

func writeProducts(b *strings.Builder, products []analyze.ProductScore) {
	b.WriteString("## 3. Product Popularity\n\n")
	if len(products) == 0 {
		b.WriteString("No product data available.\n\n")
		return
	}
	if loved := analyze.MostLoved(products); loved != nil {
		fmt.Fprintf(b, "- Most Loved: %s (%.2f)\n", loved.Product, loved.AvgSentiment)
	}
	if criticized := analyze.MostCriticized(products); criticized != nil {
		fmt.Fprintf(b, "- Most Criticized: %s (%.2f)\n", criticized.Product, criticized.AvgSentiment)
	}
	b.WriteString("\n")
}

func writeMismatch(b *strings.Builder, mismatches []database.Review) {
	b.WriteString("## 4. Rating vs. Sentiment Mismatch\n\n")
	if len(mismatches) == 0 {
		b.WriteString("No mismatches found.\n\n")
		return
	}
	fmt.Fprintf(b, "%d review(s) where the rating and the text disagree. Example:\n\n", len(mismatches))
	r := mismatches[0]
	if r.Username != nil {
		fmt.Fprintf(b, "- Username: %s\n", *r.Username)
	}
	if r.Rating != nil {
		fmt.Fprintf(b, "- Rating: %d\n", *r.Rating)
	}
	fmt.Fprintf(b, "- Sentiment: %.2f\n", *r.SentimentScore)
	fmt.Fprintf(b, "- Review: %s\n\n", truncate(r.Text, 150))
}

func writeHighlights(b *strings.Builder, reviews []database.Review) {
	b.WriteString("## 5. Highlight Reviews\n\n")

	topPos := analyze.TopPositive(reviews, 1)
	topNeg := analyze.TopNegative(reviews, 1)
	if len(topPos) == 0 && len(topNeg) == 0 {
		b.WriteString("No labeled reviews available.\n\n")
		return
	}

	if len(topPos) > 0 {
		writeHighlight(b, "Top Positive", topPos[0])
	}
	if len(topNeg) > 0 {
		writeHighlight(b, "Top Negative", topNeg[0])
	}
}

func writeHighlight(b *strings.Builder, title string, r database.Review) {
	fmt.Fprintf(b, "**%s**\n\n", title)
	if r.Rating != nil {
		fmt.Fprintf(b, "- Rating: %d | Sentiment: %.2f\n", *r.Rating, *r.SentimentScore)
	} else {
		fmt.Fprintf(b, "- Sentiment: %.2f\n", *r.SentimentScore)
	}
	fmt.Fprintf(b, "- %s\n\n", truncate(r.Text, snippetLen))
}

func writeTrend(b *strings.Builder, trend []analyze.MonthScore) {
	b.WriteString("## 6. Monthly Sentiment Trend\n\n")
	if len(trend) == 0 {
		b.WriteString("No dated reviews available.\n\n")
		return
	}
	for _, m := range trend {
		fmt.Fprintf(b, "- %s: avg sentiment %.2f (%d reviews)\n", m.Month, m.AvgSentiment, m.Count)
	}
	b.WriteString("\n")
}

func writeInsights(b *strings.Builder, overall *analyze.Overall, eval *train.Evaluation) {
	b.WriteString("## 7. Final Insights\n\n")
	if overall == nil {
		b.WriteString("No data to summarize.\n")
		return
	}
	fmt.Fprintf(b, "- Overall Avg Sentiment Score: %.2f\n", overall.AvgSentiment)
	if overall.Rated > 0 {
		fmt.Fprintf(b, "- Overall Avg Rating: %.2f\n", overall.AvgRating)
	}
	fmt.Fprintf(b, "- Reviews analyzed: %d\n", overall.Reviews)
	if eval != nil {
		fmt.Fprintf(b, "- Classifier held-out accuracy: %.2f (train %d / test %d)\n",
			eval.Accuracy, eval.TrainSize, eval.TestSize)
	}
}

// truncate shortens s to at most n bytes on a rune boundary, adding an
// ellipsis when cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
