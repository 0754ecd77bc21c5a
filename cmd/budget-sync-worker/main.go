package main

import (
	"os"

	"budget/internal/amqp"
	"budget/internal/cli"
	applog "budget/internal/log"
	gsheet "budget/internal/sheets/google"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting budget-sync-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	// The worker only reads the ledger; the server stays its only writer.
	st, err := cli.OpenStorage(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open storage", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	sheetsClient, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewSyncWorker(st.Adapter, sheetsClient, logger)
	if err := w.Run(ctx, amqpClient, cfg.SyncInterval); err != nil {
		logger.Error("Sync worker stopped", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Sync worker stopped gracefully")
}
