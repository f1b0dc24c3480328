// Command server is the entry point for the Pick My Pit API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pickmypit/internal/bootstrap"
	"pickmypit/internal/config"
	"pickmypit/internal/observability"
	"pickmypit/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		ApplySchema:     true,
		InstallTaxonomy: true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "pickmypit-api",
		Environment:  cfg.Env,
		Enabled:      cfg.OTLPEndpoint != "",
		Exporter:     "otlp",
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: 1.0,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := tracingShutdown(shutdownCtx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
