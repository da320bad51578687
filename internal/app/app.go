package app

import (
	"go-leaveform/internal/config"
	"go-leaveform/internal/leaveform"
	"go-leaveform/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every route. The returned
// func closes the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, 5)
	if err != nil {
		return nil, err
	}
	if err := gormDB.AutoMigrate(&leaveform.SubmissionLog{}); err != nil {
		return nil, err
	}
	logger.Info("database ready")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return nil, err
	}
	logger.Info("redis ready")

	// 2. Register Modules & Routes
	registerModules(router, cfg, gormDB, redisClient)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("close database failed", zap.Error(err))
			}
		}
	}
	return cleanup, nil
}
