package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(runCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--output <path/to/restaurants.json>]",
	Short: "Crawls the directory, enriches every listing and writes the intermediate file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, release, err := newFetcher()
		if err != nil {
			return err
		}
		defer release()

		p, err := newPipeline(f)
		if err != nil {
			return err
		}
		return scrape(cmd.Context(), p)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load [--output <path/to/restaurants.json>] [--db <path/to/catalog.db>]",
	Short: "Loads the intermediate file into the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// loading never fetches, so any fetcher will do
		p, err := newPipeline(nil)
		if err != nil {
			return err
		}
		return load(cmd.Context(), p)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrapes and then loads, the full pipeline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, release, err := newFetcher()
		if err != nil {
			return err
		}
		defer release()

		p, err := newPipeline(f)
		if err != nil {
			return err
		}
		if err := scrape(cmd.Context(), p); err != nil {
			return err
		}
		return load(cmd.Context(), p)
	},
}
