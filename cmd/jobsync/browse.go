package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/novaninjas/jobsync/internal/browse"
	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/store"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored jobs interactively (TUI)",
	Long:  "Shows the source picker TUI, then launches the split-pane job browser.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	counts, err := sqlStore.CountBySource(context.Background())
	if err != nil {
		return err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		fmt.Println("No jobs stored yet. Run `jobsync sync` first.")
		return nil
	}

	choices := []browse.SourceChoice{{Source: "", Label: "All sources", Count: total}}
	for _, src := range []string{model.SourceAdzuna, model.SourceJSearch, model.SourceUSAJobs, model.SourceRSS} {
		if counts[src] > 0 {
			choices = append(choices, browse.SourceChoice{Source: src, Label: src, Count: counts[src]})
		}
	}

	for {
		choice, err := browse.RunSourcePicker(choices)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}
		selected := choices[choice]

		jobs, err := browse.RunLoader(selected.Label, func(ctx context.Context) ([]model.Job, error) {
			return sqlStore.ListJobs(ctx, selected.Source, 0)
		})
		if err != nil {
			fmt.Printf("Error loading jobs: %v\n", err)
			continue
		}

		wantQuit, err := browse.RunBrowseTUI(jobs)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
