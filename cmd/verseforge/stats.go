package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/verseforge/verseforge/internal/config"
	"github.com/verseforge/verseforge/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  `Display verse counts per collection and per religion.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	st, err := store.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer st.Close()

	// Ensure migrations are run
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	byCollection, err := st.CountByCollection(ctx)
	if err != nil {
		return fmt.Errorf("count by collection: %w", err)
	}

	byReligion, err := st.CountByReligion(ctx)
	if err != nil {
		return fmt.Errorf("count by religion: %w", err)
	}

	var total int64
	for _, row := range byCollection {
		total += row.Count
	}

	fmt.Println("=== VerseForge Statistics ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Println()
	fmt.Printf("Verses: %d\n", total)
	fmt.Println()

	if len(byCollection) > 0 {
		fmt.Println("By collection:")
		for _, row := range byCollection {
			fmt.Printf("  %s: %d\n", row.Name, row.Count)
		}
		fmt.Println()
	}

	if len(byReligion) > 0 {
		fmt.Println("By religion:")
		for _, row := range byReligion {
			fmt.Printf("  %s: %d\n", row.Name, row.Count)
		}
		fmt.Println()
	}

	return nil
}
