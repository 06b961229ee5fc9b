package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:     "timeline",
	Aliases: []string{"ls"},
	Short:   "Show the date-grouped object listing",
	Long: `Show every object on the server, grouped by date bucket.

Dates print newest first; within each date the server orders objects
newest first.

Examples:
  clouddrop-cli timeline
  clouddrop-cli timeline --json`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func runTimeline(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	timeline, err := client.Timeline(context.Background())
	formatter := getFormatter()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	return formatter.FormatTimeline(os.Stdout, timeline)
}
