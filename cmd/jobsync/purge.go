package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/novaninjas/jobsync/internal/store"
)

var (
	purgeOlderThan time.Duration
	purgeAll       bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete stored jobs",
	Long:  "Deletes jobs older than the given age (default: the configured retention), or everything with --all.",
	RunE:  runPurge,
}

func init() {
	purgeCmd.Flags().DurationVar(&purgeOlderThan, "older-than", 0, "delete jobs ingested more than this long ago (default: configured retention)")
	purgeCmd.Flags().BoolVar(&purgeAll, "all", false, "delete every stored job")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
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

	if purgeAll {
		deleted, err := sqlStore.DeleteAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted all %d jobs.\n", deleted)
		return nil
	}

	age := purgeOlderThan
	if age <= 0 {
		age = cfg.Retention
	}
	deleted, err := sqlStore.DeleteOlderThan(ctx, time.Now().UTC().Add(-age))
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d jobs older than %s.\n", deleted, age)
	return nil
}
