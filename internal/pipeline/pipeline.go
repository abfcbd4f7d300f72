// Package pipeline orchestrates the batch review-analytics run:
// ingest -> score -> derive/export -> train -> report.
//
// The Pipeline value is the session object for one process: it holds the
// config and database handles, is constructed once at startup, and is passed
// to every stage. Stages share no other state.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/reviewlens/reviewlens/internal/analyze"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/database"
	"github.com/reviewlens/reviewlens/internal/export"
	"github.com/reviewlens/reviewlens/internal/ingest"
	"github.com/reviewlens/reviewlens/internal/report"
	"github.com/reviewlens/reviewlens/internal/sentiment"
	"github.com/reviewlens/reviewlens/internal/train"
)

// ReportFile is the name of the composed text report in the data directory.
const ReportFile = "project_report.txt"

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Pipeline orchestrates the 5-step analytics pipeline.
type Pipeline struct {
	cfg *config.Config
	db  *database.DB

	// eval carries the training diagnostics from step 4 into the report.
	eval *train.Evaluation
}

// New creates a new pipeline.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	return &Pipeline{cfg: cfg, db: db}
}

// Run executes the full 5-step pipeline. A missing input file degrades to an
// empty run; a training failure is reported on its step without aborting the
// report.
func (p *Pipeline) Run() *Result {
	r := &Result{}

	steps := []func() StepResult{
		p.runIngest,
		p.runScore,
		p.runDerive,
		p.runTrain,
		p.runReport,
	}
	for _, step := range steps {
		r.Steps = append(r.Steps, step())
	}
	return r
}

// DryRun shows what would be done without executing.
func (p *Pipeline) DryRun() *Result {
	r := &Result{}

	loadStatus := "would load"
	if _, err := os.Stat(p.cfg.Input.ReviewsCSV); err != nil {
		loadStatus = "input missing, would run empty"
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Ingest",
		Summary: fmt.Sprintf("[dry-run] %s: %s", loadStatus, p.cfg.Input.ReviewsCSV),
	})

	all, _ := p.db.GetAllReviews()
	scored, _ := p.db.GetScoredReviews()
	r.Steps = append(r.Steps, StepResult{
		Name:    "Score",
		Summary: fmt.Sprintf("[dry-run] %d reviews in store, %d already scored", len(all), len(scored)),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Derive",
		Summary: fmt.Sprintf("[dry-run] would export 6 CSV tables to %s", p.cfg.GetDataDir()),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Train",
		Summary: fmt.Sprintf("[dry-run] would train on %d scored reviews", len(scored)),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Report",
		Summary: fmt.Sprintf("[dry-run] would write %s", filepath.Join(p.cfg.GetDataDir(), ReportFile)),
	})
	return r
}

func (p *Pipeline) runIngest() StepResult {
	log.Println("Step 1/5: Ingesting raw reviews...")

	result := ingest.Load(p.cfg.Input.ReviewsCSV)
	switch result.Status {
	case ingest.StatusFileMissing, ingest.StatusUnreadable:
		// Degrade to an empty run; downstream stages report "no data".
		log.Printf("input %s: %s", result.Status, result.Reason)
		return StepResult{
			Name:    "Ingest",
			Summary: fmt.Sprintf("No data ingested (%s)", result.Reason),
		}
	}

	if err := p.db.ClearReviews(); err != nil {
		return StepResult{Name: "Ingest", Err: fmt.Errorf("clearing previous run: %w", err)}
	}
	inserted, err := p.db.InsertReviews(result.Reviews)
	if err != nil {
		return StepResult{Name: "Ingest", Err: err}
	}

	return StepResult{
		Name: "Ingest",
		Summary: fmt.Sprintf("Ingested %d of %d rows (%d without text, %d unparseable, %d bad ratings, %d bad dates)",
			inserted, result.RowsRead, result.SkippedNoText, result.MalformedRows,
			result.MalformedRatings, result.MalformedDates),
	}
}

func (p *Pipeline) runScore() StepResult {
	log.Println("Step 2/5: Scoring sentiment...")

	reviews, err := p.db.GetAllReviews()
	if err != nil {
		return StepResult{Name: "Score", Err: err}
	}
	if len(reviews) == 0 {
		return StepResult{Name: "Score", Summary: "No reviews to score"}
	}

	for i := range reviews {
		res := sentiment.Analyze(reviews[i].Text)
		score := res.Score
		label := string(res.Label)
		reviews[i].SentimentScore = &score
		reviews[i].SentimentLabel = &label
		if flag := analyze.MismatchFlag(reviews[i].Rating, score); flag != "" {
			f := flag
			reviews[i].MismatchFlag = &f
		}
	}

	if err := p.db.UpdateScores(reviews); err != nil {
		return StepResult{Name: "Score", Err: err}
	}
	return StepResult{
		Name:    "Score",
		Summary: fmt.Sprintf("Scored %d reviews", len(reviews)),
	}
}

func (p *Pipeline) runDerive() StepResult {
	log.Println("Step 3/5: Deriving aggregates and exporting CSV tables...")

	reviews, err := p.db.GetScoredReviews()
	if err != nil {
		return StepResult{Name: "Derive", Err: err}
	}

	paths, err := export.WriteAll(p.cfg.GetDataDir(), reviews)
	if err != nil {
		return StepResult{Name: "Derive", Err: err}
	}

	return StepResult{
		Name: "Derive",
		Summary: fmt.Sprintf("Wrote %d tables (%d mismatches flagged)",
			len(paths), len(analyze.Mismatches(reviews))),
	}
}

func (p *Pipeline) runTrain() StepResult {
	log.Println("Step 4/5: Training classifier...")

	reviews, err := p.db.GetScoredReviews()
	if err != nil {
		return StepResult{Name: "Train", Err: err}
	}

	artifacts, eval, err := train.Train(reviews)
	if err != nil {
		if errors.Is(err, train.ErrInsufficientData) {
			return StepResult{Name: "Train", Err: fmt.Errorf("cannot train: %w", err)}
		}
		return StepResult{Name: "Train", Err: err}
	}

	if err := artifacts.Save(p.cfg.GetModelDir()); err != nil {
		return StepResult{Name: "Train", Err: err}
	}
	p.eval = eval

	logEvaluation(eval)
	return StepResult{
		Name: "Train",
		Summary: fmt.Sprintf("Trained on %d reviews, held-out accuracy %.2f (%d features)",
			eval.TrainSize, eval.Accuracy, artifacts.Vectorizer.Size()),
	}
}

func (p *Pipeline) runReport() StepResult {
	log.Println("Step 5/5: Composing report...")

	reviews, err := p.db.GetScoredReviews()
	if err != nil {
		return StepResult{Name: "Report", Err: err}
	}

	content := report.Compose(reviews, p.eval)
	path := filepath.Join(p.cfg.GetDataDir(), ReportFile)
	if err := os.MkdirAll(p.cfg.GetDataDir(), 0o755); err != nil {
		return StepResult{Name: "Report", Err: err}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return StepResult{Name: "Report", Err: err}
	}

	var accuracy *float64
	if p.eval != nil {
		accuracy = &p.eval.Accuracy
	}
	mismatches := len(analyze.Mismatches(reviews))
	all, err := p.db.GetAllReviews()
	if err != nil {
		return StepResult{Name: "Report", Err: err}
	}
	if err := p.db.InsertRunReport(len(all), len(reviews), mismatches, accuracy); err != nil {
		return StepResult{Name: "Report", Err: err}
	}

	return StepResult{
		Name:    "Report",
		Summary: fmt.Sprintf("Report written to %s", path),
	}
}

// logEvaluation surfaces the per-class diagnostics. They are logged, not
// persisted as a downstream artifact.
func logEvaluation(eval *train.Evaluation) {
	log.Printf("evaluation: accuracy=%.4f train=%d test=%d", eval.Accuracy, eval.TrainSize, eval.TestSize)
	for _, c := range eval.Classes {
		log.Printf("  %-8s precision=%.2f recall=%.2f f1=%.2f support=%d",
			c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
}
