package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/config"
	"github.com/Sanket-2736/newsreader/internal/kv"
	"github.com/Sanket-2736/newsreader/internal/loader"
	"github.com/Sanket-2736/newsreader/internal/logger"
	"github.com/Sanket-2736/newsreader/internal/news"
	"github.com/Sanket-2736/newsreader/internal/store"
	"github.com/Sanket-2736/newsreader/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Key() == "" {
		return fmt.Errorf("no API key configured: set NEWS_API_KEY or api_key in %s", config.DefaultConfigPath())
	}

	kvStore, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		if cfg.Storage.Backend == config.BackendRedis {
			return err
		}
		// Run without persistence rather than not at all.
		fmt.Fprintf(os.Stderr, "warning: %v; continuing without persistence\n", err)
		kvStore, closeStore = kv.NewMemory(), func() {}
	}
	defer closeStore()

	// The TUI owns the terminal, so logs go to a file.
	log := logger.NewFile(config.LogPath())
	defer log.Sync()

	cache := store.NewNewsCache(kvStore, log)
	saved := store.NewSaved(kvStore, log)
	history := store.NewHistory(kvStore, log)
	settings := store.NewSettingsStore(kvStore, log)

	// Stored settings override the config file.
	country := cfg.CountryOrDefault()
	if s := settings.Load(context.Background()); s.Country != "" {
		country = s.Country
	}

	client := news.NewClient(cfg.Key())
	ld := loader.New(client, cache, country, cfg.CacheTTLDuration(), log)

	if flagRefresh {
		// Drop cached feeds so the first load hits the network.
		if err := cache.Clear(context.Background()); err != nil {
			log.Warn("could not clear cache before start", zap.Error(err))
		}
	}

	return tui.Run(tui.Opts{
		Cfg:     cfg,
		Loader:  ld,
		Cache:   cache,
		Saved:   saved,
		History: history,
		Log:     log,
	})
}
