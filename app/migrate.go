package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/apitemplate/apitemplate/internal/db"
	"github.com/apitemplate/apitemplate/internal/db/migrate"
	"github.com/apitemplate/apitemplate/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or update the database schema of all registered models",
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.Init(cfg.Log); err != nil {
			return err
		}

		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}

		defer func() {
			if err := db.Close(gdb); err != nil {
				log.Error().Err(err).Msg("failed to close database")
			}
		}()

		return migrate.Up(gdb)
	},
}
