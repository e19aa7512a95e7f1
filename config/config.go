package config

import (
	"fmt"
	"log"
	"os"

	"github.com/benedictaquino/fdc-benedictaquino/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config carries everything the job needs from the environment. Defaults
// match the local docker-compose setup so a bare invocation still works.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SourceFile string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment defaults")
	}

	return Config{
		DBHost:     getenv("DB_HOST", "0.0.0.0"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "docker"),
		DBName:     getenv("DB_NAME", "fdc"),
		SourceFile: getenv("SOURCE_FILE", "data/restaurant_data.xlsx"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DSN builds a connection string for the given database using the
// configured credentials.
func (c Config) DSN(dbname string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, dbname, c.DBPort)
}

// Connect makes sure the target database, schema and tables exist, then
// returns the connection the loader reuses for every statement. All three
// setup steps are idempotent.
func Connect(cfg Config) (*gorm.DB, error) {
	if err := ensureDatabase(cfg); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN(cfg.DBName)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database %s: %w", cfg.DBName, err)
	}

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + models.SchemaName).Error; err != nil {
		return nil, fmt.Errorf("create schema %s: %w", models.SchemaName, err)
	}

	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Ingredient{},
		&models.Allergen{},
		&models.Picture{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate tables: %w", err)
	}

	return db, nil
}

// ensureDatabase creates the target database if it does not exist yet,
// going through the maintenance database since Postgres cannot create a
// database from within a connection to it.
func ensureDatabase(cfg Config) error {
	admin, err := gorm.Open(postgres.Open(cfg.DSN("postgres")), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer func() {
		if sqlDB, err := admin.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var count int64
	err = admin.Raw("SELECT count(*) FROM pg_database WHERE datname = ?", cfg.DBName).Scan(&count).Error
	if err != nil {
		return fmt.Errorf("check database %s: %w", cfg.DBName, err)
	}
	if count == 0 {
		if err := admin.Exec(fmt.Sprintf("CREATE DATABASE %q", cfg.DBName)).Error; err != nil {
			return fmt.Errorf("create database %s: %w", cfg.DBName, err)
		}
	}
	return nil
}
