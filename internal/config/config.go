package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pawfinder/backend/internal/models"
)

type Config struct {
	PORT            string
	DB_HOST         string
	DB_PORT         string
	DB_USER         string
	DB_PASSWORD     string
	DB_NAME         string
	ES_URL          string
	ES_USER         string
	ES_PASSWORD     string
	JWT_SECRET      string
	REFRESH_SECRET  string
	KAFKA_ADDRESS   string
	UPLOAD_DIR      string
	PUBLIC_BASE_URL string
	LOG_LEVEL       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	BcryptCost      int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:            getDefault("PORT", "8080"),
		DB_HOST:         os.Getenv("DB_HOST"),
		DB_PORT:         os.Getenv("DB_PORT"),
		DB_USER:         os.Getenv("DB_USER"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		ES_URL:          os.Getenv("ES_URL"),
		ES_USER:         os.Getenv("ES_USER"),
		ES_PASSWORD:     os.Getenv("ES_PASSWORD"),
		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:  os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:   os.Getenv("KAFKA_ADDRESS"),
		UPLOAD_DIR:      getDefault("UPLOAD_DIR", "public/uploads"),
		PUBLIC_BASE_URL: getDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		LOG_LEVEL:       getDefault("LOG_LEVEL", "info"),
		AccessTTL:       getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:      getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:      getInt("BCRYPT_COST", bcrypt.DefaultCost),
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Notice: cannot parse %s, using default %s", key, def)
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Notice: cannot parse %s, using default %d", key, def)
	}
	return def
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Post{}, &models.Comment{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
