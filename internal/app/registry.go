package app

import (
	"context"
	"net/http"
	"time"

	"go-leaveform/internal/config"
	"go-leaveform/internal/leaveform"
	"go-leaveform/internal/middleware"
	"go-leaveform/internal/shared/apperror"
	"go-leaveform/internal/shared/response"
	"go-leaveform/internal/submission"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const idempotencyTTL = 24 * time.Hour

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	router.Use(middleware.ContextLogger(zap.L()))
	if len(cfg.CORSOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSOrigins))
	}

	// --- Outbound ---
	submitter := submission.NewClient(submission.Config{
		Endpoint:     cfg.Submission.Endpoint,
		Timeout:      cfg.Submission.Timeout,
		StrictStatus: cfg.Submission.StrictStatus,
	})

	// --- Repositories & Stores ---
	submissionRepo := leaveform.NewRepository(gormDB)
	sessionStore := leaveform.NewRedisSessionStore(rdb, cfg.Session.TTL)

	// --- Services ---
	leaveFormService := leaveform.NewService(sessionStore, submissionRepo, submitter, rdb, leaveform.ServiceConfig{
		LockTTL:  cfg.Submission.Timeout + 15*time.Second,
		Location: cfg.Location,
	})

	// --- Handlers ---
	leaveFormHandler := leaveform.NewHandler(leaveFormService)

	// --- Routes Registration ---
	router.GET("/healthz", healthCheck(gormDB, rdb))
	router.NoRoute(func(c *gin.Context) {
		response.AbortWithError(c, apperror.ErrNotFound)
	})

	api := router.Group("/api/v1")
	{
		leaveform.RegisterRoutes(api, leaveFormHandler,
			middleware.RateLimitByIP(rate.Limit(cfg.Session.IPRatePerSec), cfg.Session.IPRateBurst),
			middleware.RateLimitBySession(rate.Limit(cfg.Session.RatePerSec), cfg.Session.RateBurst),
			middleware.Idempotency(rdb, idempotencyTTL),
		)
	}
}

// healthCheck reports 503 while Postgres or Redis is unreachable.
func healthCheck(gormDB *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := gormDB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			err = rdb.Ping(ctx).Err()
		}
		if err != nil {
			zap.L().Warn("health check failed", zap.Error(err))
			response.AbortWithError(c, apperror.ErrServiceUnavailable.WithCause(err))
			return
		}

		response.Success(c, http.StatusOK, gin.H{"status": "up"}, nil)
	}
}
