// Manual retention pass over the search query log.
//
// Scrubs the user linkage from every query older than the configured
// retention horizon. The scrub is one-way: run it from cron or by hand after
// large imports.
//
// Usage: go run scripts/anonymize_queries.go
package main

import (
	"americano_backend/internal/config"
	"americano_backend/internal/repository"
	"americano_backend/pkg/database"
	"americano_backend/pkg/logger"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// scriptConfig covers only the keys this script reads; the yaml tags match
// the config file's snake_case keys, which the application binds through
// viper instead.
type scriptConfig struct {
	Server struct {
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Retention struct {
		AnonymizeAfterDays int `yaml:"anonymize_after_days"`
	} `yaml:"retention"`
}

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var raw scriptConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}
	if raw.Retention.AnonymizeAfterDays <= 0 {
		raw.Retention.AnonymizeAfterDays = 90
	}

	cfg := config.Config{}
	cfg.Server.Mode = raw.Server.Mode
	cfg.Database = config.DatabaseConfig{
		Host:     raw.Database.Host,
		Port:     raw.Database.Port,
		User:     raw.Database.User,
		Password: raw.Database.Password,
		DBName:   raw.Database.DBName,
		SSLMode:  raw.Database.SSLMode,
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	searchRepo := repository.NewSearchRepository(db)

	now := time.Now()
	cutoff := now.AddDate(0, 0, -raw.Retention.AnonymizeAfterDays)

	log.Printf("Anonymizing search queries older than %s...", cutoff.Format("2006-01-02"))
	scrubbed, err := searchRepo.AnonymizeOlderThan(cutoff, now)
	if err != nil {
		log.Fatalf("Retention pass failed: %v", err)
	}
	log.Printf("Done, %d queries anonymized", scrubbed)
}
