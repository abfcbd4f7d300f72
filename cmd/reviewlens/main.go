package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/database"
	"github.com/reviewlens/reviewlens/internal/ingest"
	"github.com/reviewlens/reviewlens/internal/pipeline"
	"github.com/reviewlens/reviewlens/internal/report"
	"github.com/reviewlens/reviewlens/internal/server"
	"github.com/reviewlens/reviewlens/internal/train"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "reviewlens",
	Short:   "Offline product review sentiment analytics",
	Long:    "Reviewlens ingests a raw product review snapshot, scores sentiment, derives aggregate signals, trains a text classifier, and composes reports.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("reviewlens", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/reviewlens/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your raw reviews CSV.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Reviews:")
		fmt.Printf("  Total ingested: %d\n", stats.TotalReviews)
		fmt.Printf("  Scored: %d\n", stats.ScoredReviews)
		fmt.Printf("  Mismatches flagged: %d\n", stats.Mismatches)
		fmt.Println("\nCatalog:")
		fmt.Printf("  Products: %d\n", stats.Products)
		fmt.Printf("  Categories: %d\n", stats.Categories)
		fmt.Println("\nRuns:")
		fmt.Printf("  Completed: %d\n", stats.RunReports)

		if last, _ := db.GetLatestRunReport(); last != nil {
			fmt.Printf("  Last run: %s", deref(last.GeneratedAt))
			if last.ModelAccuracy != nil {
				fmt.Printf(" (model accuracy %.2f)", *last.ModelAccuracy)
			}
			fmt.Println()
		}

		if _, err := train.LoadArtifacts(cfg.GetModelDir()); err == nil {
			fmt.Printf("\nModel: trained pair present in %s\n", cfg.GetModelDir())
		} else {
			fmt.Println("\nModel: not trained yet")
		}
		return nil
	},
}

// --- ingest command ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the raw reviews CSV into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		result := ingest.Load(cfg.Input.ReviewsCSV)
		if result.Status != ingest.StatusLoaded {
			fmt.Printf("No data ingested: %s\n", result.Reason)
			return nil
		}

		if err := db.ClearReviews(); err != nil {
			return fmt.Errorf("clearing previous reviews: %w", err)
		}
		inserted, err := db.InsertReviews(result.Reviews)
		if err != nil {
			return err
		}

		fmt.Println("Ingest complete:")
		fmt.Printf("  Rows read: %d\n", result.RowsRead)
		fmt.Printf("  Reviews stored: %d\n", inserted)
		fmt.Printf("  Dropped (no text): %d\n", result.SkippedNoText)
		fmt.Printf("  Dropped (unparseable): %d\n", result.MalformedRows)
		fmt.Printf("  Kept with bad rating: %d\n", result.MalformedRatings)
		fmt.Printf("  Kept with bad date: %d\n", result.MalformedDates)
		return nil
	},
}

// --- run command ---

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest -> score -> derive -> train -> report",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun()
		} else {
			result = pipe.Run()
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if !dryRun {
			fmt.Println("\nPipeline complete! Run 'reviewlens serve' to view the dashboard.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
}

// --- train command ---

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier on the scored review set",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		reviews, err := db.GetScoredReviews()
		if err != nil {
			return err
		}

		artifacts, eval, err := train.Train(reviews)
		if err != nil {
			return fmt.Errorf("training: %w", err)
		}
		if err := artifacts.Save(cfg.GetModelDir()); err != nil {
			return err
		}

		fmt.Printf("Trained on %d reviews (%d held out).\n", eval.TrainSize, eval.TestSize)
		fmt.Printf("Accuracy: %.4f\n\n", eval.Accuracy)
		fmt.Printf("%-10s %9s %7s %5s %8s\n", "class", "precision", "recall", "f1", "support")
		for _, c := range eval.Classes {
			fmt.Printf("%-10s %9.2f %7.2f %5.2f %8d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
		}
		fmt.Printf("\nArtifacts saved to %s\n", cfg.GetModelDir())
		return nil
	},
}

// --- predict command ---

var predictCmd = &cobra.Command{
	Use:   "predict [text]...",
	Short: "Classify review text with the trained model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifacts, err := train.LoadArtifacts(cfg.GetModelDir())
		if err != nil {
			return fmt.Errorf("loading model: %w", err)
		}

		labels := artifacts.Predict(args)
		for i, label := range labels {
			fmt.Printf("%s\t%s\n", label, args[i])
		}
		return nil
	},
}

// --- report command ---

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compose the analysis report from the scored review set",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		reviews, err := db.GetScoredReviews()
		if err != nil {
			return err
		}

		content := report.Compose(reviews, nil)
		path := filepath.Join(cfg.GetDataDir(), pipeline.ReportFile)
		if err := os.MkdirAll(cfg.GetDataDir(), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		fmt.Printf("Report written to %s\n", path)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, cfg, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (defaults to config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "reviewlens.db")
	return database.Open(dbPath)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
