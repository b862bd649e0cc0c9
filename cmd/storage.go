package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/config"
	"github.com/Sanket-2736/newsreader/internal/kv"
	"github.com/Sanket-2736/newsreader/internal/logger"
	"github.com/Sanket-2736/newsreader/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the feed cache",
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// withStore loads config, opens the configured backend, and hands a
// ready store to fn.
func withStore(fn func(ctx context.Context, kvStore kv.Store, log *zap.Logger) error) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	kvStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	log := logger.New()
	defer log.Sync()
	return fn(ctx, kvStore, log)
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cached categories, article counts, and sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, kvStore kv.Store, log *zap.Logger) error {
			cache := store.NewNewsCache(kvStore, log)
			info, err := cache.Info(ctx)
			if err != nil {
				return fmt.Errorf("reading cache: %w", err)
			}

			if len(info.Categories) == 0 {
				fmt.Println("Cache is empty.")
				return nil
			}

			categories := make([]string, 0, len(info.Categories))
			for c := range info.Categories {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			for _, c := range categories {
				ci := info.Categories[c]
				fmt.Printf("%-15s %3d article(s)  %8s  fetched %s\n",
					c, ci.Count, formatBytes(ci.SizeBytes), ci.FetchedAt.Format("2006-01-02 15:04"))
			}
			fmt.Printf("\nTotal: %d categorie(s), %s\n", info.CategoryCount, formatBytes(info.TotalSizeBytes))
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached feeds",
	Long:  "Delete every cached feed. Saved articles and reading history are not touched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, kvStore kv.Store, log *zap.Logger) error {
			cache := store.NewNewsCache(kvStore, log)
			if err := cache.Clear(ctx); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Println("Cache cleared.")
			return nil
		})
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, kvStore kv.Store, log *zap.Logger) error {
			saved := store.NewSaved(kvStore, log)
			list, err := saved.List(ctx)
			if err != nil {
				return fmt.Errorf("reading saved articles: %w", err)
			}

			if len(list) == 0 {
				fmt.Println("No saved articles.")
				return nil
			}
			for _, sa := range list {
				fmt.Printf("%s  %s\n    %s\n", sa.SavedAt.Format("2006-01-02"), sa.Title, sa.URL)
			}
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently read articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, kvStore kv.Store, log *zap.Logger) error {
			history := store.NewHistory(kvStore, log)
			entries, err := history.List(ctx)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No reading history.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %s\n", e.ReadAt.Format("2006-01-02 15:04"), e.Title)
			}
			return nil
		})
	},
}

func formatBytes(b int) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
