package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-imagestudio-be/internal/bootstrap"
	"ai-imagestudio-be/internal/config"
	"ai-imagestudio-be/internal/server"
	"ai-imagestudio-be/internal/tracer"
	"ai-imagestudio-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()

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
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Embedding Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	go func() {
		if err := srv.Run(); err != nil {
			log.Panicf("Server stopped: %v", err)
		}
	}()

	// 7. Block until SIGINT/SIGTERM, then drain in-flight requests before
	// the tracer flushes its last spans.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	shutdownTracer(context.Background())
}
