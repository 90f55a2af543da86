package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voxdrop/voxdrop/config"
	"github.com/voxdrop/voxdrop/controllers"
	"github.com/voxdrop/voxdrop/middleware"
	"github.com/voxdrop/voxdrop/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(ginzap.Ginzap(utils.Logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(utils.Logger, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	fileController := controllers.NewFileController(db)
	chatController := controllers.NewChatController()
	settingsController := controllers.NewSettingsController(db)

	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired(db))
	protected.GET("/me", authController.Me)
	protected.POST("/upload", fileController.Upload)
	protected.GET("/files", fileController.List)
	protected.DELETE("/files/:id", fileController.Delete)
	protected.POST("/chat", chatController.Chat)
	protected.GET("/notification-settings", settingsController.Get)
	protected.POST("/notification-settings", settingsController.Update)

	return r
}
