// @title Americano Analytics API
// @version 1.0
// @description Analytics and streak aggregation store for the Americano medical education platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"americano_backend/internal/app"
	"americano_backend/internal/config"
	"americano_backend/pkg/configwatcher"
	"americano_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration complete, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if reloaded, ok := newCfg.(*config.Config); ok {
			application.ApplyConfig(reloaded)
		}
	})

	application.Run()
}
