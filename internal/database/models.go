package database

import "time"

// Review represents one product review record.
//
// Rating and ReviewDate are nullable: a row with an unparseable rating or
// date is kept and only excluded from the aggregates that need the missing
// field. SentimentScore, SentimentLabel, and MismatchFlag stay nil until the
// scoring stage has run.
type Review struct {
	ID             int64
	ProductName    string
	Category       *string
	Username       *string
	Rating         *int
	ReviewDate     *time.Time
	Text           string
	SentimentScore *float64
	SentimentLabel *string
	MismatchFlag   *string
	IngestedAt     *string
}

// Scored reports whether the review has been through the scoring stage.
func (r *Review) Scored() bool {
	return r.SentimentScore != nil && r.SentimentLabel != nil
}

// RunReport holds metadata about a completed pipeline run.
type RunReport struct {
	ID            int64
	GeneratedAt   *string
	TotalReviews  int
	ScoredReviews int
	Mismatches    int
	ModelAccuracy *float64
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalReviews  int
	ScoredReviews int
	Mismatches    int
	Products      int
	Categories    int
	RunReports    int
}
