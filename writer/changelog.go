package writer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	appconfig "github.com/XmataN16/csv-median-calculator/config"
	"github.com/XmataN16/csv-median-calculator/logger"
	"github.com/XmataN16/csv-median-calculator/models"
)

// changeLogHeader is the first line of every change log file.
const changeLogHeader = "receive_ts;price_median"

// ChangeLogWriter persists median change points as a semicolon separated CSV
// file in the configured output directory.
type ChangeLogWriter struct {
	config *appconfig.Config
	log    *logger.Log
}

func NewChangeLogWriter(cfg *appconfig.Config) *ChangeLogWriter {
	log := logger.GetLogger()

	log.WithComponent("changelog_writer").WithFields(logger.Fields{
		"dir":  cfg.Output.Dir,
		"file": cfg.Output.FileName,
	}).Info("change log writer initialized")

	return &ChangeLogWriter{
		config: cfg,
		log:    log,
	}
}

// Write stores the change points and returns the path of the written file.
// With no points nothing is written and the returned path is empty.
func (w *ChangeLogWriter) Write(points []models.MedianPoint) (string, error) {
	log := w.log.WithComponent("changelog_writer").WithFields(logger.Fields{"operation": "write"})

	if len(points) == 0 {
		log.Warn("no change points to write, skipping output file")
		return "", nil
	}

	if err := os.MkdirAll(w.config.Output.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.config.Output.Dir, err)
	}

	path := filepath.Join(w.config.Output.Dir, w.config.Output.FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(bw, changeLogHeader); err != nil {
		return "", fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%d;%s\n", p.ReceiveTS, models.FormatMedian(p.Median)); err != nil {
			return "", fmt.Errorf("failed to write output file %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush output file %s: %w", path, err)
	}

	log.WithFields(logger.Fields{
		"path": path,
		"rows": len(points),
	}).Info("change log written")

	return path, nil
}
