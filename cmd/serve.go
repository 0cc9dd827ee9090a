package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/karimzak/shopchat/internal/catalog"
	"github.com/karimzak/shopchat/internal/chat"
	"github.com/karimzak/shopchat/internal/config"
	"github.com/karimzak/shopchat/internal/db"
	"github.com/karimzak/shopchat/internal/kv"
	"github.com/karimzak/shopchat/internal/search"
	"github.com/karimzak/shopchat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shopchat HTTP and WebSocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// The durable store is optional: if SQLite cannot be opened the
		// engine keeps conversations in memory and serves an empty
		// catalog for this run instead of crashing.
		var store kv.Store
		var source catalog.Source
		database, err := db.Open(filepath.Join(cfg.DataDir, "shopchat.db"))
		if err != nil {
			log.Printf("serve: durable store unavailable, degrading to in-memory state: %v", err)
			store = kv.NewMemoryStore()
			source = catalog.StaticSource{}
		} else {
			defer database.Close()
			store = kv.NewSQLiteStore(database)

			catalogStore := catalog.NewStore(database)
			source = catalogStore
			if cfg.CatalogFile != "" {
				if _, err := catalog.ImportJSON(cmd.Context(), catalogStore, cfg.CatalogFile, nil); err != nil {
					log.Printf("serve: importing %s: %v", cfg.CatalogFile, err)
				}
			}
		}

		cache := catalog.NewCache(source)
		if err := cache.Refresh(cmd.Context()); err != nil {
			log.Printf("serve: initial catalog refresh: %v", err)
		}

		engine := chat.NewEngine(
			chat.NewSessionManager(store, cfg.Greeting),
			chat.NewResponder(search.NewEngine(cache), cache),
			cache,
			chat.TypingConfig{
				PerChar: time.Duration(cfg.Typing.PerCharMs) * time.Millisecond,
				Floor:   time.Duration(cfg.Typing.FloorMs) * time.Millisecond,
				Cap:     time.Duration(cfg.Typing.CapMs) * time.Millisecond,
			},
		)

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAll})
		chat.RegisterRoutes(srv.Router(), engine)
		catalog.RegisterRoutes(srv.Router(), cache)

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("serve: shutdown: %v", err)
			}
		}()

		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
