package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"job-aggregator/config"
	"job-aggregator/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the saved search",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved search as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		cfg := config.Load()
		logger := newLogger(cfg)

		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		search, err := readSearch(ctx, store, logger)
		if err != nil {
			return err
		}
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(search)
	},
}

var setSearch searchFlags

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace lists of the saved search without running it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		cfg := config.Load()
		logger := newLogger(cfg)

		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		search, err := readSearch(ctx, store, logger)
		if err != nil {
			return err
		}
		setSearch.apply(cmd, &search)
		search = search.Normalized()
		if err := search.Validate(); err != nil {
			return err
		}
		if err := store.Write(ctx, search); err != nil {
			return fmt.Errorf("save search: %w", err)
		}
		logger.Info("Saved search: %d locations, %d fetch jobs per run", len(search.Locations), search.TotalFetchJobs())
		return nil
	},
}

var tokenValue string

var configTokenCmd = &cobra.Command{
	Use:       "token {github|jobspy}",
	Short:     "Store a credential in the OS keychain (empty --value deletes it)",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"github", "jobspy"},
	RunE: func(cmd *cobra.Command, args []string) error {
		account := config.AccountGitHubToken
		if args[0] == "jobspy" {
			account = config.AccountJobSpyAPIKey
		}
		if strings.TrimSpace(tokenValue) == "" {
			if err := config.DeleteToken(account); err != nil {
				return fmt.Errorf("delete %s: %w", account, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the keychain\n", account)
			return nil
		}
		if err := config.StoreToken(account, tokenValue); err != nil {
			return fmt.Errorf("store %s: %w", account, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in the keychain\n", account)
		return nil
	},
}

var estimateSearch searchFlags

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Show how many searches a run issues and how long it should take",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		cfg := config.Load()
		logger := newLogger(cfg)

		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		search, err := readSearch(ctx, store, logger)
		if err != nil {
			return err
		}
		estimateSearch.apply(cmd, &search)
		search = search.Normalized()

		fmt.Fprintf(cmd.OutOrStdout(), "Fetch jobs : %d\nEstimate   : %s\n",
			search.TotalFetchJobs(), services.EstimateDuration(search))
		return nil
	},
}

func init() {
	setSearch.register(configSetCmd)
	estimateSearch.register(estimateCmd)
	configTokenCmd.Flags().StringVar(&tokenValue, "value", "", "Credential value")

	configCmd.AddCommand(configShowCmd, configSetCmd, configTokenCmd)
	rootCmd.AddCommand(configCmd, estimateCmd)
}
