package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mesikahq/clinic-desk/internal/app"
	"github.com/mesikahq/clinic-desk/internal/config"
	"github.com/mesikahq/clinic-desk/internal/database"
	"github.com/mesikahq/clinic-desk/internal/db/migrate"
	"github.com/mesikahq/clinic-desk/internal/store/mongostore"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so the deferred disconnect always
// happens: 2 for bad arguments, 1 for runtime failures.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	flags.SetOutput(stderr)
	command := flags.String("command", "up", "Migration command (up/down/status)")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	switch *command {
	case "up", "down", "status":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", *command)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if cfg.Store.Driver != config.StoreMongo {
		fmt.Fprintf(stderr, "Migrations only apply to the mongo store, configured driver is %q\n", cfg.Store.Driver)
		return 1
	}

	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.NewMongoClient(ctx, cfg.MongoConfig())
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer database.Disconnect(context.Background(), client)

	manager := migrate.NewManager(client.Database(cfg.Mongo.Database), mongostore.Migrations(), logger)

	switch *command {
	case "up":
		if err := manager.Up(ctx); err != nil {
			logger.Error("Failed to apply migrations", zap.Error(err))
			return 1
		}
		fmt.Fprintln(stdout, "Successfully applied all pending migrations")

	case "down":
		if err := manager.Down(ctx); err != nil {
			if errors.Is(err, migrate.ErrNothingToRollBack) {
				fmt.Fprintln(stdout, "No migrations to roll back")
				return 0
			}
			logger.Error("Failed to roll back migration", zap.Error(err))
			return 1
		}
		fmt.Fprintln(stdout, "Successfully rolled back last migration")

	case "status":
		applied, err := manager.Applied(ctx)
		if err != nil {
			logger.Error("Failed to read migration status", zap.Error(err))
			return 1
		}
		for _, m := range mongostore.Migrations() {
			state := "pending"
			if at, ok := applied[m.Version]; ok {
				state = "applied " + at.Format(time.RFC3339)
			}
			fmt.Fprintf(stdout, "%3d  %-24s %s\n", m.Version, m.Name, state)
		}
	}
	return 0
}
