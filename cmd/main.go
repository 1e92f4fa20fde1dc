package main

import "github.com/adanyl0v/go-task-tracker/internal/app"

func main() {
	logger := app.InitDefaultLogger()
	cfg := app.MustReadEnv(logger)
	logger = app.MustInitApplicationLogger(logger, cfg.Env)

	pgPool := app.MustConnectPostgres(logger, cfg.Postgres)
	defer app.DisconnectPostgres(logger, pgPool)
	app.MustMigratePostgres(logger, pgPool, cfg.Postgres)

	app.MustListenAndServeHTTP(logger, cfg, pgPool)
}
