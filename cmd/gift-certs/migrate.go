package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/joestump/gift-certs/internal/config"
	"github.com/joestump/gift-certs/internal/db"
	"github.com/joestump/gift-certs/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			log.Info().Str("driver", cfg.DB.Driver).Msg("migrations complete")
			return nil
		},
	}
}
