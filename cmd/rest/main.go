package main

import (
	"context"
	"log"

	"fintrust-support-be/internal/bootstrap"
	"fintrust-support-be/internal/config"
	"fintrust-support-be/internal/server"
	"fintrust-support-be/internal/tracer"
	"fintrust-support-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background workers
	if err := container.NotificationService.Start(); err != nil {
		log.Printf("Background: Notification worker failed to start: %v", err)
	}
	if err := container.TradeService.StartConsumer(context.Background()); err != nil {
		log.Printf("Background: Trade consumer failed to start: %v", err)
	}

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
