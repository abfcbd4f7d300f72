// Package analyze derives aggregate signals from the scored review set.
//
// Every function here is a pure, stateless function over an immutable slice
// of reviews: nothing is mutated, nothing is cached between calls, and each
// aggregate can be computed (and tested) in isolation. Rows that have not
// been scored yet are ignored; rows missing a field are excluded only from
// the aggregates that need that field.
//
// Empty or entirely ineligible input yields a nil result, which callers must
// treat as "no data" rather than a zero-valued real result.
package analyze

import (
	"sort"

	"github.com/reviewlens/reviewlens/internal/database"
	"github.com/reviewlens/reviewlens/internal/sentiment"
)

// Mismatch flag values. A flag is set when the numeric rating and the text
// polarity point in opposite directions.
const (
	MismatchPositiveRating = "Positive Rating, Negative Text"
	MismatchNegativeRating = "Negative Rating, Positive Text"
)

// Rating bands for mismatch detection. A rating of 3 falls in neither band
// and never produces a mismatch.
const (
	highRatingMin = 4
	lowRatingMax  = 2
)

// MismatchFlag returns the mismatch flag for a rating/score pair, or "" when
// there is no mismatch or no rating.
//
// The two directions are deliberately asymmetric: a high rating is flagged
// against any strictly negative score, while a low rating is flagged only
// against a confidently positive one (above the Positive label threshold).
// A score of exactly 0 with a high rating is NOT a mismatch.
func MismatchFlag(rating *int, score float64) string {
	if rating == nil {
		return ""
	}
	switch {
	case *rating >= highRatingMin && score < 0:
		return MismatchPositiveRating
	case *rating <= lowRatingMax && score > sentiment.PositiveThreshold:
		return MismatchNegativeRating
	}
	return ""
}

// Mismatches returns the subset of scored reviews whose mismatch flag is set,
// in input order.
func Mismatches(reviews []database.Review) []database.Review {
	var out []database.Review
	for _, r := range reviews {
		if r.Scored() && r.MismatchFlag != nil && *r.MismatchFlag != "" {
			out = append(out, r)
		}
	}
	return out
}

// DefaultTopN is the size of the extremal review slices.
const DefaultTopN = 3

// TopPositive returns up to n Positive-labeled reviews sorted by score
// descending. Ties keep input order. Fewer qualifying reviews yield a
// shorter slice, never padding.
func TopPositive(reviews []database.Review, n int) []database.Review {
	return topByScore(reviews, n, sentiment.Positive, func(a, b float64) bool { return a > b })
}

// TopNegative returns up to n Negative-labeled reviews sorted by score
// ascending (most negative first). Ties keep input order.
func TopNegative(reviews []database.Review, n int) []database.Review {
	return topByScore(reviews, n, sentiment.Negative, func(a, b float64) bool { return a < b })
}

func topByScore(reviews []database.Review, n int, label sentiment.Label, before func(a, b float64) bool) []database.Review {
	if n <= 0 {
		n = DefaultTopN
	}

	var candidates []database.Review
	for _, r := range reviews {
		if r.Scored() && *r.SentimentLabel == string(label) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return before(*candidates[i].SentimentScore, *candidates[j].SentimentScore)
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// CategoryScore is the mean sentiment for one category.
type CategoryScore struct {
	Category     string
	AvgSentiment float64
	Count        int
}

// CategorySummary returns the mean sentiment score per category, sorted by
// mean descending. Reviews without a category form their own "" group.
// Returns nil when no scored reviews exist.
func CategorySummary(reviews []database.Review) []CategoryScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reviews {
		if !r.Scored() {
			continue
		}
		cat := ""
		if r.Category != nil {
			cat = *r.Category
		}
		sums[cat] += *r.SentimentScore
		counts[cat]++
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]CategoryScore, 0, len(counts))
	for cat, count := range counts {
		out = append(out, CategoryScore{
			Category:     cat,
			AvgSentiment: sums[cat] / float64(count),
			Count:        count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgSentiment != out[j].AvgSentiment {
			return out[i].AvgSentiment > out[j].AvgSentiment
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// LabelCount is the review count for one sentiment label.
type LabelCount struct {
	Label string
	Count int
}

// LabelCounts returns per-label review counts, sorted by count descending.
// Labels absent from the data are omitted, not zero-filled. The counts sum
// to the number of scored reviews.
func LabelCounts(reviews []database.Review) []LabelCount {
	counts := make(map[string]int)
	for _, r := range reviews {
		if r.Scored() {
			counts[*r.SentimentLabel]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MonthScore is the mean sentiment for one calendar month.
type MonthScore struct {
	Month        string // YYYY-MM
	AvgSentiment float64
	Count        int
}

// MonthlyTrend returns the mean sentiment per calendar month, sorted
// chronologically ascending. Reviews without a resolvable date are excluded
// from this aggregate only. Returns nil when no dated scored reviews exist.
func MonthlyTrend(reviews []database.Review) []MonthScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reviews {
		if !r.Scored() || r.ReviewDate == nil {
			continue
		}
		month := r.ReviewDate.Format("2006-01")
		sums[month] += *r.SentimentScore
		counts[month]++
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]MonthScore, 0, len(counts))
	for month, count := range counts {
		out = append(out, MonthScore{
			Month:        month,
			AvgSentiment: sums[month] / float64(count),
			Count:        count,
		})
	}
	// YYYY-MM sorts chronologically as text.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
