package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	appconfig "github.com/XmataN16/csv-median-calculator/config"
	"github.com/XmataN16/csv-median-calculator/logger"
	"github.com/XmataN16/csv-median-calculator/models"
	"github.com/XmataN16/csv-median-calculator/processor"
	"github.com/XmataN16/csv-median-calculator/reader"
	"github.com/XmataN16/csv-median-calculator/writer"
)

// InputError marks failures while discovering or parsing input files.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// OutputError marks failures while producing output artifacts.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string { return e.Err.Error() }
func (e *OutputError) Unwrap() error { return e.Err }

// Summary reports what a batch run did.
type Summary struct {
	RunID        string
	Files        int
	Records      int
	ChangeEvents int
	OutputPath   string
	Duration     time.Duration
}

// Pipeline executes one sequential batch pass: read the input files, sort
// the records, replay them through the median tracker and write the change
// log. Replay order is part of the output contract, so the data path stays
// single threaded.
type Pipeline struct {
	config    *appconfig.Config
	reader    *reader.CSVReader
	changeLog *writer.ChangeLogWriter
	manifests *writer.ManifestWriter
	uploader  *writer.S3Uploader
	log       *logger.Log
}

// New wires the pipeline components. When S3 is enabled a broken AWS setup
// surfaces here instead of after the whole input has been processed.
func New(cfg *appconfig.Config) (*Pipeline, error) {
	p := &Pipeline{
		config:    cfg,
		reader:    reader.NewCSVReader(cfg),
		changeLog: writer.NewChangeLogWriter(cfg),
		manifests: writer.NewManifestWriter(cfg.Output.Dir),
		log:       logger.GetLogger(),
	}

	if cfg.Storage.S3.Enabled {
		uploader, err := writer.NewS3Uploader(cfg)
		if err != nil {
			return nil, &OutputError{Err: err}
		}
		p.uploader = uploader
	}

	p.log.WithComponent("pipeline").Info("pipeline initialized")
	return p, nil
}

// Run performs the batch pass and returns its summary. Reader failures are
// classified as input errors, writer and uploader failures as output errors.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	runID := uuid.NewString()

	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{
		"operation": "run",
		"run_id":    runID,
	})
	log.Info("starting batch run")

	records, ingests, err := p.reader.Read(ctx)
	if err != nil {
		return Summary{}, &InputError{Err: err}
	}
	logger.LogDataFlowEntry(log, "input_files", "sorter", len(records), "price_records")

	sortStart := time.Now()
	processor.SortRecords(records)
	logger.LogPerformanceEntry(log, "pipeline", "sort_records", time.Since(sortStart), logger.Fields{
		"records": len(records),
	})

	tracker := processor.NewChangeTracker()
	var points []models.MedianPoint
	for _, rec := range records {
		if point, changed := tracker.Observe(rec); changed {
			points = append(points, point)
		}
	}
	logger.LogDataFlowEntry(log, "sorter", "change_log", len(points), "median_changes")

	outputPath, err := p.changeLog.Write(points)
	if err != nil {
		return Summary{}, &OutputError{Err: err}
	}

	summary := Summary{
		RunID:        runID,
		Files:        len(ingests),
		Records:      len(records),
		ChangeEvents: len(points),
		OutputPath:   outputPath,
	}

	if outputPath == "" {
		log.Warn("no records ingested, skipping output artifacts")
	} else {
		p.writeManifest(runID, started, ingests, summary)

		if p.uploader != nil {
			key, err := p.uploader.Upload(ctx, outputPath)
			if err != nil {
				return Summary{}, &OutputError{Err: err}
			}
			log.WithFields(logger.Fields{"s3_key": key}).Info("change log uploaded")
		}
	}

	summary.Duration = time.Since(started)

	log.WithFields(logger.Fields{
		"files":         summary.Files,
		"records":       summary.Records,
		"change_events": summary.ChangeEvents,
		"output_path":   summary.OutputPath,
		"duration_ms":   summary.Duration.Milliseconds(),
	}).Info("batch run finished")

	log.LogMetric("pipeline", "records_processed", summary.Records, "counter", logger.Fields{"run_id": runID})
	log.LogMetric("pipeline", "median_changes", summary.ChangeEvents, "counter", logger.Fields{"run_id": runID})

	return summary, nil
}

// writeManifest stores the run manifest. Manifest problems are logged but
// never fail the run.
func (p *Pipeline) writeManifest(runID string, started time.Time, ingests []reader.FileIngest, summary Summary) {
	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{"run_id": runID})

	var outputSize int64
	if info, err := os.Stat(summary.OutputPath); err == nil {
		outputSize = info.Size()
	}

	manifest := writer.RunManifest{
		RunID:       runID,
		App:         p.config.App.Name,
		Version:     p.config.App.Version,
		StartedAt:   started.UTC(),
		FinishedAt:  time.Now().UTC(),
		InputDir:    p.config.Input.Dir,
		Files:       ingests,
		RecordCount: summary.Records,
		ChangeCount: summary.ChangeEvents,
		OutputPath:  summary.OutputPath,
		OutputSize:  outputSize,
	}
	if _, err := p.manifests.Write(manifest); err != nil {
		log.WithError(err).Warn("failed to write run manifest")
	}
}
