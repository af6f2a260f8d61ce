package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Env       string
	DBType    string // sqlite or postgres
	DBDSN     string
	RedisAddr string
}

// LoadConfig reads the environment, merging in a .env file when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:       getenv("ENV", "dev"),
		DBType:    getenv("DB_TYPE", "sqlite"),
		DBDSN:     getenv("DB_DSN", ".fieldgraph/fieldgraph.db"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
	}
}

// GetDb opens the configured database.
func GetDb(cfg *Config) *gorm.DB {
	var db *gorm.DB
	var err error

	switch cfg.DBType {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	}
	if err != nil {
		logrus.Fatalf("opening %s database: %v", cfg.DBType, err)
	}

	return db
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
