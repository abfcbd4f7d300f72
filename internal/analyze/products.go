package analyze

import (
	"sort"

	"github.com/reviewlens/reviewlens/internal/database"
)

// ProductScore summarizes one product's reviews.
type ProductScore struct {
	Product      string
	AvgSentiment float64
	Count        int // scored reviews
	AvgRating    float64
	RatingCount  int // scored reviews that also carry a rating
}

// ProductSummary returns per-product mean sentiment (and mean rating where
// ratings exist), sorted by mean sentiment descending. Returns nil when no
// scored reviews exist.
func ProductSummary(reviews []database.Review) []ProductScore {
	type acc struct {
		sentSum   float64
		count     int
		rateSum   int
		rateCount int
	}
	byProduct := make(map[string]*acc)
	for _, r := range reviews {
		if !r.Scored() {
			continue
		}
		a := byProduct[r.ProductName]
		if a == nil {
			a = &acc{}
			byProduct[r.ProductName] = a
		}
		a.sentSum += *r.SentimentScore
		a.count++
		if r.Rating != nil {
			a.rateSum += *r.Rating
			a.rateCount++
		}
	}
	if len(byProduct) == 0 {
		return nil
	}

	out := make([]ProductScore, 0, len(byProduct))
	for name, a := range byProduct {
		p := ProductScore{
			Product:      name,
			AvgSentiment: a.sentSum / float64(a.count),
			Count:        a.count,
			RatingCount:  a.rateCount,
		}
		if a.rateCount > 0 {
			p.AvgRating = float64(a.rateSum) / float64(a.rateCount)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgSentiment != out[j].AvgSentiment {
			return out[i].AvgSentiment > out[j].AvgSentiment
		}
		return out[i].Product < out[j].Product
	})
	return out
}

// MostLoved returns the product with the highest mean sentiment, or nil.
func MostLoved(products []ProductScore) *ProductScore {
	if len(products) == 0 {
		return nil
	}
	p := products[0]
	return &p
}

// MostCriticized returns the product with the lowest mean sentiment, or nil.
func MostCriticized(products []ProductScore) *ProductScore {
	if len(products) == 0 {
		return nil
	}
	p := products[len(products)-1]
	return &p
}

// RatingByLabel is the mean rating of reviews carrying one sentiment label.
type RatingByLabel struct {
	Label     string
	AvgRating float64
	Count     int
}

// RatingBySentiment returns the mean rating grouped by sentiment label,
// sorted by label name. Unrated reviews are excluded. Returns nil when no
// rated scored reviews exist.
func RatingBySentiment(reviews []database.Review) []RatingByLabel {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range reviews {
		if !r.Scored() || r.Rating == nil {
			continue
		}
		sums[*r.SentimentLabel] += *r.Rating
		counts[*r.SentimentLabel]++
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]RatingByLabel, 0, len(counts))
	for label, count := range counts {
		out = append(out, RatingByLabel{
			Label:     label,
			AvgRating: float64(sums[label]) / float64(count),
			Count:     count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Overall holds dataset-wide averages.
type Overall struct {
	AvgSentiment float64
	AvgRating    float64
	Reviews      int // scored reviews
	Rated        int // scored reviews with a rating
}

// OverallAverages returns dataset-wide mean sentiment and rating, or nil
// when no scored reviews exist.
func OverallAverages(reviews []database.Review) *Overall {
	var o Overall
	var sentSum float64
	var rateSum int
	for _, r := range reviews {
		if !r.Scored() {
			continue
		}
		sentSum += *r.SentimentScore
		o.Reviews++
		if r.Rating != nil {
			rateSum += *r.Rating
			o.Rated++
		}
	}
	if o.Reviews == 0 {
		return nil
	}
	o.AvgSentiment = sentSum / float64(o.Reviews)
	if o.Rated > 0 {
		o.AvgRating = float64(rateSum) / float64(o.Rated)
	}
	return &o
}
