package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "job-aggregator",
	Short: "Aggregate salary-banded job postings across finance, BAIS and accounting searches",
	Long: `Searches job boards for every (term, location) pair of the saved search,
keeps postings paying between $50,000 and $80,000 a year and exports the
best of each category to an Excel workbook.

The saved search lives in the configured store (GitHub, PostgreSQL, SQLite
or a YAML file) and is updated on every run.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
