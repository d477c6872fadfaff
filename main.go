package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/XmataN16/csv-median-calculator/config"
	"github.com/XmataN16/csv-median-calculator/logger"
	"github.com/XmataN16/csv-median-calculator/pipeline"
)

// Exit codes reported to the calling shell. Configuration problems,
// unreadable or malformed input and output failures each get their own
// code so batch schedulers can tell them apart.
const (
	exitConfig = 2
	exitInput  = 3
	exitOutput = 4
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(config.ResolveConfigPath(*configPath))
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(exitConfig)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(exitConfig)
	}

	log.WithFields(logger.Fields{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	}).Info("starting median calculation run")

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to build pipeline")
		os.Exit(exitCode(err))
	}

	summary, err := p.Run(ctx)
	if err != nil {
		log.WithError(err).Error("median calculation run failed")
		os.Exit(exitCode(err))
	}

	log.WithFields(logger.Fields{
		"run_id":        summary.RunID,
		"files":         summary.Files,
		"records":       summary.Records,
		"change_events": summary.ChangeEvents,
		"output_path":   summary.OutputPath,
		"duration_ms":   summary.Duration.Milliseconds(),
	}).Info("median calculation run completed")
}

// exitCode maps a pipeline failure onto the documented exit codes.
func exitCode(err error) int {
	var inputErr *pipeline.InputError
	if errors.As(err, &inputErr) {
		return exitInput
	}
	var outputErr *pipeline.OutputError
	if errors.As(err, &outputErr) {
		return exitOutput
	}
	return exitConfig
}
