package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/joestump/gift-certs/internal/api"
	"github.com/joestump/gift-certs/internal/build"
	"github.com/joestump/gift-certs/internal/config"
	"github.com/joestump/gift-certs/internal/db"
	"github.com/joestump/gift-certs/internal/logging"
	"github.com/joestump/gift-certs/internal/service"
	"github.com/joestump/gift-certs/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
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

			sqlStore := store.New(database)
			validator := service.NewValidator()
			router := api.NewRouter(api.Deps{
				Certificates: service.NewCertificateService(sqlStore, validator, service.DefaultPipeline()),
				Tags:         service.NewTagService(sqlStore, validator),
				CORSOrigins:  cfg.HTTP.CORSOrigins,
				MaxPageSize:  cfg.List.MaxPageSize,
			})

			srv := &http.Server{
				Addr:         cfg.HTTP.Addr,
				Handler:      router,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", cfg.HTTP.Addr).
					Str("driver", cfg.DB.Driver).
					Str("version", build.Version).
					Str("commit", build.Commit).
					Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return nil
		},
	}
}
