package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/okian/devmatch/internal/adapters/repository"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("database_url is not set")

func newMigrateCmd() *cobra.Command {
	var (
		dsn  string
		down bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			if dsn == "" {
				dsn = cfg.DatabaseURL
			}
			if dsn == "" {
				return errNoDatabase
			}

			store, err := repository.OpenPostgres(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if down {
				if err := repository.MigrateDown(store.DB()); err != nil {
					return err
				}
				log.Info(cmd.Context(), "migrations rolled back")
				return nil
			}
			if err := repository.Migrate(store.DB()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info(cmd.Context(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "database-url", "", "Postgres DSN (overrides DEVMATCH_DATABASE_URL)")
	cmd.Flags().BoolVar(&down, "down", false, "Roll back every migration")
	return cmd
}
