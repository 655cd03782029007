package main

import (
	"context"
	"log"

	"codelm-be/internal/bootstrap"
	"codelm-be/internal/config"
	"codelm-be/internal/server"
	"codelm-be/internal/tracer"
	"codelm-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: starting ingest consumer...")
		if err := container.IngestConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	// 5. Initialize and run the server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
