package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/novaninjas/jobsync/internal/config"
	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/store"
)

var (
	statusHeaderStyle = lipgloss.NewStyle().Bold(true)
	statusOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114")) // green
	statusFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	statusDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last sync outcome per source",
	Long:  "Reads the database and prints each source's last sync result and stored job counts.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	statuses, err := sqlStore.ListSyncStatus(ctx)
	if err != nil {
		return err
	}
	counts, err := sqlStore.CountBySource(ctx)
	if err != nil {
		return err
	}
	total, err := sqlStore.CountJobs(ctx)
	if err != nil {
		return err
	}

	byName := make(map[string]model.SyncStatus)
	for _, st := range statuses {
		byName[st.Source] = st
	}

	enabled := enabledSources(cfg)

	fmt.Println(statusHeaderStyle.Render(fmt.Sprintf("%-10s %-10s %-18s %10s %8s", "Source", "Status", "Last Sync", "Added", "Stored")))
	for _, src := range enabled {
		st, ok := byName[src]
		if !ok {
			st = model.SyncStatus{Source: src, Status: model.SyncNeverRun}
		}

		lastSync := "-"
		if !st.LastSync.IsZero() {
			lastSync = st.LastSync.Local().Format("2006-01-02 15:04")
		}

		var statusText string
		switch st.Status {
		case model.SyncSuccess:
			statusText = statusOKStyle.Render(fmt.Sprintf("%-10s", st.Status))
		case model.SyncFailed:
			statusText = statusFailStyle.Render(fmt.Sprintf("%-10s", st.Status))
		default:
			statusText = statusDimStyle.Render(fmt.Sprintf("%-10s", model.SyncNeverRun))
		}

		fmt.Printf("%-10s %s %-18s %10d %8d\n", src, statusText, lastSync, st.JobsAdded, counts[src])
		if st.Error != "" {
			fmt.Println(statusDimStyle.Render("           " + st.Error))
		}
	}

	fmt.Printf("\nTotal: %d jobs stored (retention %s)\n", total, formatRetention(cfg.Retention))
	return nil
}

func enabledSources(cfg *config.Config) []string {
	var sources []string
	if cfg.Adzuna.Enabled {
		sources = append(sources, model.SourceAdzuna)
	}
	if cfg.JSearch.Enabled {
		sources = append(sources, model.SourceJSearch)
	}
	if cfg.USAJobs.Enabled {
		sources = append(sources, model.SourceUSAJobs)
	}
	if cfg.RSS.Enabled {
		sources = append(sources, model.SourceRSS)
	}
	return sources
}

func formatRetention(d time.Duration) string {
	if d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	}
	return d.String()
}
