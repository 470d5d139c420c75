package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/YohanReddy/ai-chatbot/internal/bootstrap"
	"github.com/YohanReddy/ai-chatbot/internal/config"
	"github.com/YohanReddy/ai-chatbot/internal/server"
	"github.com/YohanReddy/ai-chatbot/internal/tracer"
	"github.com/YohanReddy/ai-chatbot/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container); the consumer is already running afterwards
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
	container.Shutdown()
}
