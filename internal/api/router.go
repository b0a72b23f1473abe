package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/poi-backend-go/internal/config"
	"github.com/jengzang/poi-backend-go/internal/handler"
	"github.com/jengzang/poi-backend-go/internal/middleware"
	"github.com/jengzang/poi-backend-go/internal/repository"
	"github.com/jengzang/poi-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	// 仓储层
	merchantRepo := repository.NewMerchantRepository(db)
	runRepo := repository.NewDetectionRunRepository(db)
	poiRepo := repository.NewPOIRepository(db)
	sweepRepo := repository.NewSweepRepository(db)

	// 服务层
	merchantService := service.NewMerchantService(merchantRepo)
	detectionService := service.NewDetectionService(runRepo, poiRepo, merchantRepo, db)
	sweepService := service.NewSweepService(sweepRepo, merchantRepo)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminUser, cfg.AdminPassword)

	// 处理器
	merchantHandler := handler.NewMerchantHandler(merchantService)
	detectionHandler := handler.NewDetectionHandler(detectionService)
	sweepHandler := handler.NewSweepHandler(sweepService)
	authHandler := handler.NewAuthHandler(authService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(300, time.Minute))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "POI Backend API is running",
		})
	})

	// 写接口需要登录
	auth := middleware.JWTAuth(authService.ValidateToken)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 登录接口
		api.POST("/auth/login", authHandler.Login)

		// 商户相关接口
		merchants := api.Group("/merchants")
		{
			merchants.GET("", merchantHandler.ListMerchants)
			merchants.GET("/count", merchantHandler.CountMerchants)
			merchants.POST("/import", auth, merchantHandler.ImportMerchants)
		}

		// POI 检测接口
		detection := api.Group("/detection")
		{
			detection.POST("/runs", auth, detectionHandler.CreateRun)
			detection.GET("/runs", detectionHandler.ListRuns)
			detection.GET("/runs/:id", detectionHandler.GetRun)
			detection.GET("/runs/:id/pois", detectionHandler.GetRunPOIs)
			detection.GET("/runs/:id/assignments", detectionHandler.GetRunAssignments)
			detection.GET("/runs/:id/statistics", detectionHandler.GetRunStatistics)
			detection.GET("/runs/:id/validate", detectionHandler.ValidateRun)
		}

		// 参数扫描接口
		sweeps := api.Group("/sweeps")
		{
			sweeps.POST("", auth, sweepHandler.CreateSweep)
			sweeps.GET("/:sweepId", sweepHandler.GetSweep)
		}
	}

	return r
}
