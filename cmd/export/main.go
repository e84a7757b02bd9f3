package main

import (
	"context"
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
	"github.com/mesikahq/clinic-desk/internal/export"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code so deferred cleanup always happens:
// 2 for bad arguments, 1 for runtime failures.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.SetOutput(stderr)
	collectionFlag := flags.String("collection", "patients", "Collection to export (patients/appointments)")
	formatFlag := flags.String("format", "csv", "Output format (csv/json/yaml)")
	out := flags.String("out", "", "Output file path (defaults to <collection>.<format>)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	collection, err := export.ParseCollection(*collectionFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	path := *out
	if path == "" {
		path = fmt.Sprintf("%s.%s", collection, format)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	clinic, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize services", zap.Error(err))
		return 1
	}
	defer clinic.Close(context.Background())

	if err := clinic.Exporter.ExportToFile(ctx, collection, format, path); err != nil {
		logger.Error("Export failed", zap.String("collection", string(collection)), zap.Error(err))
		return 1
	}

	logger.Info("Export complete", zap.String("collection", string(collection)), zap.String("path", path))
	return 0
}
