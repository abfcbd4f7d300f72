// Package server serves the read-only analytics dashboard over the finished
// pipeline artifacts. It never writes to the store; a run must complete
// before there is anything to show, and every page renders an explanatory
// empty state until then.
package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/reviewlens/reviewlens/internal/analyze"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/database"
	"github.com/reviewlens/reviewlens/internal/report"
	"github.com/reviewlens/reviewlens/internal/train"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for the analytics dashboard.
type Server struct {
	db    *database.DB
	cfg   *config.Config
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB, cfg *config.Config) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"score": func(v any) string {
			switch f := v.(type) {
			case float64:
				return fmt.Sprintf("%.2f", f)
			case *float64:
				if f == nil {
					return ""
				}
				return fmt.Sprintf("%.2f", *f)
			}
			return ""
		},
		"rating": func(p *int) string {
			if p == nil {
				return ""
			}
			return strconv.Itoa(*p)
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "report.html", "products.html", "mismatches.html", "predict.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, cfg: cfg, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/report", s.handleReport)
	s.mux.HandleFunc("/products", s.handleProducts)
	s.mux.HandleFunc("/mismatches", s.handleMismatches)
	s.mux.HandleFunc("/predict", s.handlePredict)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	reviews, err := s.db.GetScoredReviews()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	stats, _ := s.db.GetStats()
	lastRun, _ := s.db.GetLatestRunReport()

	s.render(w, "index.html", map[string]any{
		"Stats":      stats,
		"LastRun":    lastRun,
		"Counts":     analyze.LabelCounts(reviews),
		"Categories": analyze.CategorySummary(reviews),
		"Trend":      analyze.MonthlyTrend(reviews),
		"Overall":    analyze.OverallAverages(reviews),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.db.GetScoredReviews()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "report.html", map[string]any{
		"Report":  report.Compose(reviews, nil),
		"HasData": len(reviews) > 0,
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.db.GetScoredReviews()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	names, err := s.db.GetProductNames()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Products": analyze.ProductSummary(reviews),
		"Names":    names,
		"Selected": "",
	}

	// Product drill-down, the dashboard analogue of the GUI product filter.
	if name := r.URL.Query().Get("name"); name != "" {
		selected, err := s.db.GetReviewsForProduct(name)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		data["Selected"] = name
		data["SelectedOverall"] = analyze.OverallAverages(selected)
		data["SelectedCounts"] = analyze.LabelCounts(selected)
		data["SelectedRatings"] = analyze.RatingBySentiment(selected)
		data["SelectedTop"] = analyze.TopPositive(selected, 1)
		data["SelectedBottom"] = analyze.TopNegative(selected, 1)
	}

	s.render(w, "products.html", data)
}

func (s *Server) handleMismatches(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.db.GetScoredReviews()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "mismatches.html", map[string]any{
		"Mismatches": analyze.Mismatches(reviews),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}

	artifacts, err := train.LoadArtifacts(s.cfg.GetModelDir())
	if err != nil {
		if errors.Is(err, train.ErrVocabularyMismatch) {
			data["Error"] = "Stored classifier and vectorizer do not belong together. Re-run training."
		} else {
			data["Error"] = "No trained model found. Run the pipeline first."
		}
		s.render(w, "predict.html", data)
		return
	}

	if r.Method == http.MethodPost {
		text := strings.TrimSpace(r.FormValue("text"))
		if text != "" {
			labels := artifacts.Predict([]string{text})
			data["Text"] = text
			data["Prediction"] = labels[0]
		}
	}

	s.render(w, "predict.html", data)
}

func (s *Server) render(w http.ResponseWriter, page string, data map[string]any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("rendering %s: %v", page, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

// Serve starts the dashboard on the given port and blocks.
func Serve(db *database.DB, cfg *config.Config, port int) error {
	s, err := New(db, cfg)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, s.Handler())
}
