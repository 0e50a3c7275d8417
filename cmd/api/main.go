package main

import (
	"go.uber.org/zap"

	"daruyab/config"
	"daruyab/internal/database"
	"daruyab/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.NewLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb := config.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	r := setupRouter(cfg, db, rdb, logger)

	logger.Info("starting server", zap.String("addr", cfg.Server.Addr()))
	if err := r.Run(cfg.Server.Addr()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
