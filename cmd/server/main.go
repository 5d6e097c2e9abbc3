package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ayorahman/reimburse-bbm-api/internal/bootstrap"
	"github.com/ayorahman/reimburse-bbm-api/internal/config"
	"github.com/ayorahman/reimburse-bbm-api/internal/server"
	"github.com/ayorahman/reimburse-bbm-api/pkg/database"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
	"github.com/ayorahman/reimburse-bbm-api/pkg/logger"
	"github.com/ayorahman/reimburse-bbm-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}

	if err := server.Migrate(db); err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}

	if err := bootstrap.SeedRoles(db); err != nil {
		zap.L().Fatal("failed to seed roles", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("redis unavailable, token revocation disabled", zap.Error(err))
			rdb = nil
		}
	}

	if cfg.AppEnv == "development" {
		provider := identity.NewGormProvider(db, rdb, identity.Options{
			Secret:          cfg.JWTSecret,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
		})
		if err := bootstrap.SeedAdminUser(context.Background(), db, provider); err != nil {
			zap.L().Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	images, err := storage.NewCloudinaryStorage()
	if err != nil {
		zap.L().Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}

	router := server.NewRouter(cfg, db, rdb, images)

	zap.L().Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("server exited", zap.Error(err))
	}
}
