package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/config"
	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/middleware"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
	"github.com/ayorahman/reimburse-bbm-api/pkg/storage"

	authHttp "github.com/ayorahman/reimburse-bbm-api/internal/modules/auth/delivery/http"
	authService "github.com/ayorahman/reimburse-bbm-api/internal/modules/auth/service"

	roleHttp "github.com/ayorahman/reimburse-bbm-api/internal/modules/role/delivery/http"
	roleRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/role/repository"
	roleService "github.com/ayorahman/reimburse-bbm-api/internal/modules/role/service"

	userHttp "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/delivery/http"
	userRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	userService "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/service"

	reimburseHttp "github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/delivery/http"
	reimburseRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/repository"
	reimburseService "github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/service"
)

// Migrate creates the schema. The profile row shares its primary key
// with the identity account; on postgres a cascading FK keeps profiles
// from outliving their account.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&identity.Account{},
		&identity.RefreshToken{},
		&entity.Role{},
		&entity.Profile{},
		&entity.Reimbursement{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		const fk = "fk_user_profile_account"
		if !db.Migrator().HasConstraint(&entity.Profile{}, fk) {
			if err := db.Exec(
				`ALTER TABLE user_profile ADD CONSTRAINT fk_user_profile_account ` +
					`FOREIGN KEY (id) REFERENCES auth_accounts (id) ON DELETE CASCADE`,
			).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// NewRouter wires repositories, services and handlers onto a gin engine.
// rdb may be nil; only token revocation degrades without it.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, images storage.ImageStorage) *gin.Engine {
	provider := identity.NewGormProvider(db, rdb, identity.Options{
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})

	profileRepo := userRepo.NewProfileRepository(db)

	authSvc := authService.NewAuthService(provider, profileRepo)
	authHandler := authHttp.NewAuthHandler(authSvc)

	roleRepository := roleRepo.NewRoleRepository(db)
	roleSvc := roleService.NewRoleService(roleRepository)
	roleHandler := roleHttp.NewRoleHandler(roleSvc)

	userSvc := userService.NewUserService(profileRepo, provider)
	userHandler := userHttp.NewUserHandler(userSvc)

	reimburseRepository := reimburseRepo.NewReimburseRepository(db)
	reimburseSvc := reimburseService.NewReimburseService(reimburseRepository, profileRepo, images, cfg.StorageFolder)
	reimburseHandler := reimburseHttp.NewReimburseHandler(reimburseSvc)

	authMiddleware := middleware.NewAuthMiddleware(provider, profileRepo)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	setupCORS(router, cfg)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Reimburse BBM API is running!",
			"version":   "1.0.0",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
	}

	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
	{
		admin.GET("/role", roleHandler.List)
		admin.POST("/role", roleHandler.Create)
		admin.PUT("/role/:id", roleHandler.Update)
		admin.DELETE("/role/:id", roleHandler.Delete)

		admin.GET("/user", userHandler.List)
		admin.POST("/user", userHandler.Create)
		admin.PUT("/user/:id", userHandler.Update)
		admin.DELETE("/user/:id", userHandler.Delete)

		admin.GET("/reimburse", reimburseHandler.GetAll)
	}

	user := api.Group("/user")
	user.Use(authMiddleware.RequireAuth())
	{
		user.GET("/limit", reimburseHandler.GetLimit)
		user.POST("/reimburse", reimburseHandler.Create)
		user.GET("/reimburse/history", reimburseHandler.GetHistory)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("Route %s %s tidak ditemukan.", c.Request.Method, c.Request.URL.Path),
		})
	})

	return router
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	origins := cfg.Origins()
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}

	router.Use(cors.New(corsCfg))
}
