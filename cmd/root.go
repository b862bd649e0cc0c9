package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sanket-2736/newsreader/internal/config"
	"github.com/Sanket-2736/newsreader/internal/kv"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagRefresh bool
)

var rootCmd = &cobra.Command{
	Use:   "newsreader",
	Short: "TUI news reader with offline cache",
	Long:  "newsreader browses top headlines by category in the terminal, caches feeds for offline reading, and keeps your saved articles and reading history locally.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "skip the cache on the first load")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(historyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsreader %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// openStore opens the key-value backend named in config. The returned
// closer is safe to call once.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		r, err := kv.OpenRedis(ctx, cfg.Storage.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return r, func() { r.Close() }, nil
	case config.BackendMemory:
		return kv.NewMemory(), func() {}, nil
	default:
		s, err := kv.OpenSQLite(config.StorePath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		return s, func() { s.Close() }, nil
	}
}
