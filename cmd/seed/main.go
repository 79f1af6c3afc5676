package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/bath-journal/config"
	"github.com/oksasatya/bath-journal/internal/container"
	pginfra "github.com/oksasatya/bath-journal/internal/infrastructure/postgres"
	"github.com/oksasatya/bath-journal/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if cfg.UseMemoryStore() {
		log.Fatal("STORAGE_DRIVER=memory; nothing to seed")
	}

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// events and cache follow the service config, so the indexer sees seeded rows
	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	n, err := c.Service.SeedIfEmpty(ctx)
	if err != nil {
		log.Fatalf("failed to seed baths: %v", err)
	}
	if n == 0 {
		fmt.Println("journal already has baths; nothing seeded")
		return
	}
	fmt.Printf("seeded %d baths\n", n)
}
