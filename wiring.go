package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"job-aggregator/config"
	"job-aggregator/scraper"
	"job-aggregator/scraper/indeed"
	"job-aggregator/scraper/jobspy"
	"job-aggregator/storage"
	"job-aggregator/utils"
)

func newLogger(cfg *config.Config) *utils.Logger {
	if verbose {
		return utils.NewLogger(utils.LevelDebug)
	}
	return utils.NewLogger(utils.ParseLevel(cfg.LogLevel))
}

func newSource(cfg *config.Config, logger *utils.Logger) (scraper.Source, error) {
	switch strings.ToLower(cfg.Source) {
	case "jobspy":
		key, err := config.LookupToken(cfg.JobSpyAPIKey, config.AccountJobSpyAPIKey)
		if err != nil {
			logger.Debug("[main] No JobSpy API key configured, calling without one")
		}
		return jobspy.New(jobspy.Config{
			BaseURL: cfg.JobSpyURL,
			APIKey:  key,
			Sites:   cfg.JobSpySites,
		}, logger), nil
	case "indeed":
		return indeed.New(indeed.Config{
			ChromeBin: cfg.ChromeBin,
			PageWait:  time.Duration(cfg.BrowserWaitMs) * time.Millisecond,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown JOB_SOURCE %q (want jobspy or indeed)", cfg.Source)
	}
}

func newPacer(cfg *config.Config) (utils.Pacer, error) {
	switch strings.ToLower(cfg.PaceMode) {
	case "fixed":
		return utils.NewFixedDelay(cfg.PaceDelay), nil
	case "rate":
		return utils.NewRateLimitPacer(cfg.PaceDelay, 1), nil
	default:
		return nil, fmt.Errorf("unknown PACE_MODE %q (want fixed or rate)", cfg.PaceMode)
	}
}

// openStore returns the configured search-document store and a function
// releasing it.
func openStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.ConfigStore, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Store) {
	case "github":
		token, err := config.LookupToken(cfg.GitHubToken, config.AccountGitHubToken)
		if err != nil {
			logger.Warn("[main] No GitHub token: the saved search can be read but not updated")
		}
		return storage.NewGitHubStore(storage.GitHubConfig{
			Owner:  cfg.GitHubOwner,
			Repo:   cfg.GitHubRepo,
			Path:   cfg.GitHubPath,
			Branch: cfg.GitHubBranch,
			Token:  token,
			APIURL: cfg.GitHubAPIURL,
			RawURL: cfg.GitHubRawURL,
		}, logger), noop, nil
	case "postgres":
		retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
		s, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.StoreDocument, retry, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath, cfg.StoreDocument, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "file":
		return storage.NewFileStore(cfg.ConfigFile), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown CONFIG_STORE %q (want github, postgres, sqlite or file)", cfg.Store)
	}
}

// openArchive reuses a SQL config store for the archive and otherwise opens
// the local SQLite database.
func openArchive(ctx context.Context, cfg *config.Config, store storage.ConfigStore, logger *utils.Logger) (storage.Archiver, func() error, error) {
	if s, ok := store.(*storage.SQLStore); ok {
		return s, func() error { return nil }, nil
	}
	s, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath, cfg.StoreDocument, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// readSearch loads the saved search. A store that has never been written
// yields an empty search for the caller to fill in.
func readSearch(ctx context.Context, store storage.ConfigStore, logger *utils.Logger) (config.SearchConfig, error) {
	search, err := store.Read(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("[main] No saved search yet, starting from an empty one")
		return config.SearchConfig{}, nil
	}
	if err != nil {
		return config.SearchConfig{}, fmt.Errorf("read saved search: %w", err)
	}
	return search, nil
}

// searchFlags overlays comma separated command-line lists on a saved search.
type searchFlags struct {
	locations  string
	finance    string
	bais       string
	accounting string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.locations, "locations", "", "Comma separated locations (replaces the saved list)")
	cmd.Flags().StringVar(&f.finance, "finance", "", "Comma separated finance job titles")
	cmd.Flags().StringVar(&f.bais, "bais", "", "Comma separated BAIS job titles")
	cmd.Flags().StringVar(&f.accounting, "accounting", "", "Comma separated accounting job titles")
}

func (f *searchFlags) apply(cmd *cobra.Command, s *config.SearchConfig) {
	if cmd.Flags().Changed("locations") {
		s.Locations = config.ParseList(f.locations)
	}
	if cmd.Flags().Changed("finance") {
		s.FinanceJobs = config.ParseList(f.finance)
	}
	if cmd.Flags().Changed("bais") {
		s.BAISJobs = config.ParseList(f.bais)
	}
	if cmd.Flags().Changed("accounting") {
		s.AccountingJobs = config.ParseList(f.accounting)
	}
}
