// Command migrate runs schema operations for the API database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"

	"pickmypit/internal/config"
	"pickmypit/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch flag.Arg(0) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		fmt.Println("migrations applied")
		return nil

	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status: %w", err)
		}
		fmt.Printf("mode: %s (env %s)\n", status.Mode, status.Environment)
		fmt.Printf("applied versions: %v\n", status.AppliedVersions)
		for _, m := range status.PendingMigrations {
			fmt.Printf("pending: %s\n", m.String())
		}
		return nil

	case "down":
		if flag.NArg() < 2 {
			return usage()
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q", flag.Arg(1))
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback migration %d: %w", version, err)
		}
		fmt.Printf("migration %d rolled back\n", version)
		return nil

	default:
		return usage()
	}
}
