package main

import (
	"log"

	"github.com/jengzang/poi-backend-go/internal/api"
	"github.com/jengzang/poi-backend-go/internal/config"
	"github.com/jengzang/poi-backend-go/internal/database"

	// Import algorithm packages to register them
	_ "github.com/jengzang/poi-backend-go/internal/analysis/detection"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	// 执行数据库迁移
	migrations := database.NewMigrationManager(database.GetDB(), cfg.MigrationsPath)
	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 初始化路由
	router := api.SetupRouter(cfg, database.GetDB())

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
