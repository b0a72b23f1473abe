package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port           string
	DBPath         string
	MigrationsPath string
	JWTSecret      string
	TokenTTL       time.Duration
	AdminUser      string
	AdminPassword  string
}

// Load 加载配置
func Load() *Config {
	// 读取 .env（如果存在）
	if err := godotenv.Load(); err == nil {
		log.Println("[Config] Loaded .env file")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/poi/poi.db"
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("[Config] Invalid TOKEN_TTL %q, using %v", raw, tokenTTL)
		} else {
			tokenTTL = ttl
		}
	}

	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin"
	}

	return &Config{
		Port:           port,
		DBPath:         dbPath,
		MigrationsPath: migrationsPath,
		JWTSecret:      jwtSecret,
		TokenTTL:       tokenTTL,
		AdminUser:      adminUser,
		AdminPassword:  adminPassword,
	}
}
