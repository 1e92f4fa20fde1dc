package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/migrations"
)

func MustConnectPostgres(logger zerolog.Logger, cfg config.PostgresConfig) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pgPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pgPool.Ping(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	return pgPool
}

// MustMigratePostgres applies the schema when auto migration is enabled.
func MustMigratePostgres(logger zerolog.Logger, pgPool *pgxpool.Pool, cfg config.PostgresConfig) {
	if !cfg.AutoMigrate {
		logger.Info().Msg("postgres auto migration disabled")
		return
	}

	err := migrations.Migrate(context.Background(), pgPool)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to migrate postgres")
		panic(err)
	}
	logger.Info().Msg("migrated postgres")
}

func DisconnectPostgres(logger zerolog.Logger, pgPool *pgxpool.Pool) {
	pgPool.Close()
	logger.Info().Msg("disconnected from postgres")
}
