package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/gift-catalog/migrations"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withProvider(v, func(ctx context.Context, p *goose.Provider, log *slog.Logger) error {
				results, err := p.Up(ctx)
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				for _, r := range results {
					log.Info("migration applied", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
				}
				if len(results) == 0 {
					log.Info("no pending migrations")
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withProvider(v, func(ctx context.Context, p *goose.Provider, log *slog.Logger) error {
				r, err := p.Down(ctx)
				if err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				log.Info("migration rolled back", "version", r.Source.Version, "file", r.Source.Path)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which migrations are applied",
			Args:  cobra.NoArgs,
			RunE: withProvider(v, func(ctx context.Context, p *goose.Provider, log *slog.Logger) error {
				statuses, err := p.Status(ctx)
				if err != nil {
					return fmt.Errorf("migrate status: %w", err)
				}
				for _, s := range statuses {
					log.Info("migration",
						"version", s.Source.Version,
						"file", s.Source.Path,
						"state", string(s.State),
						"applied_at", s.AppliedAt,
					)
				}
				return nil
			}),
		},
	)
	return cmd
}

type migrateFunc func(ctx context.Context, p *goose.Provider, log *slog.Logger) error

// withProvider loads config, opens DATABASE_URL through database/sql and
// hands a goose provider over the embedded migrations to fn.
func withProvider(v *viper.Viper, fn migrateFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(v)
		if err != nil {
			return err
		}

		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		p, err := migrations.NewProvider(db)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), p, logger)
	}
}
