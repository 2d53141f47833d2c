package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"job-aggregator/config"
	"job-aggregator/services"
	"job-aggregator/storage"
)

var (
	runSearch  searchFlags
	runDaysOld int
	runMaxJobs int
	runOutDir  string
	runArchive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search every category, filter by salary and export the results",
	Long: `Reads the saved search, applies any flag overrides, saves the result back
to the store and runs the search. Postings are written to
results_YYYY-MM-DD.xlsx in the output directory.`,
	RunE: runPipeline,
}

func init() {
	runSearch.register(runCmd)
	runCmd.Flags().IntVar(&runDaysOld, "days-old", 7, "Only postings newer than this many days (1-90)")
	runCmd.Flags().IntVar(&runMaxJobs, "max-jobs", 30, "Maximum postings overall, split evenly across categories (1-50)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "", "Output directory (defaults to OUTPUT_DIR)")
	runCmd.Flags().BoolVar(&runArchive, "archive", false, "Archive the results to SQL (also ARCHIVE_RESULTS)")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := newLogger(cfg)
	logger.Info("=== Job Aggregator starting ===")
	logger.Info("Source: %s | store: %s | pacing: %s %v", cfg.Source, cfg.Store, cfg.PaceMode, cfg.PaceDelay)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	search, err := readSearch(ctx, store, logger)
	if err != nil {
		return err
	}
	runSearch.apply(cmd, &search)
	search = search.Normalized()

	opts := config.RunOptions{DaysOld: runDaysOld, MaxJobs: runMaxJobs}
	if err := search.Validate(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// The search is saved before scraping; a failed save is reported at the end.
	storeErr := store.Write(ctx, search)
	if storeErr != nil {
		logger.Error("Saving the search failed: %v", storeErr)
	}

	source, err := newSource(cfg, logger)
	if err != nil {
		return err
	}
	pacer, err := newPacer(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("\n  %d searches, estimated time %s\n\n", search.TotalFetchJobs(), services.EstimateDuration(search))

	fetcher := services.NewBatchFetcher(source, pacer, cfg.CountryHint, logger)
	pipeline := services.NewPipeline(fetcher, services.NewLogProgressSink(logger), logger)
	if cfg.RawCSVDir != "" {
		raw, err := storage.NewCSVWriter(cfg.RawCSVDir, time.Now())
		if err != nil {
			return err
		}
		pipeline.WithRawWriter(raw)
	}

	res, err := pipeline.Run(ctx, search, opts)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(os.Stdout, insightSvc.Generate(res))

	outDir := runOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	path, err := storage.WriteFile(storage.NewExcelExporter(), res.Table, outDir, storage.ResultsFileName(res.FinishedAt))
	if err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	logger.Info("Results written to %s", path)

	if runArchive || cfg.ArchiveResults {
		archive, closeArchive, err := openArchive(ctx, cfg, store, logger)
		if err != nil {
			logger.Error("Opening the archive failed: %v", err)
		} else {
			if err := archive.Archive(ctx, res.RunID, res.Table); err != nil {
				logger.Error("Archiving run %s failed: %v", res.RunID, err)
			}
			_ = closeArchive()
		}
	}

	if storeErr != nil {
		return fmt.Errorf("search was not saved: %w", storeErr)
	}
	return nil
}
