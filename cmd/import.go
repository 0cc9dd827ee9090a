package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karimzak/shopchat/internal/catalog"
	"github.com/karimzak/shopchat/internal/config"
	"github.com/karimzak/shopchat/internal/db"
	"github.com/karimzak/shopchat/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import <catalog.json>",
	Short: "Import a product catalog JSON file into the local database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "shopchat.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := catalog.NewStore(database)
		n, err := catalog.ImportJSON(cmd.Context(), store, args[0], progress.NewReporter())
		if err != nil {
			return fmt.Errorf("importing catalog: %w", err)
		}

		fmt.Printf("Imported %d products from %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
