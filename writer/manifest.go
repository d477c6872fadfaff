package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/XmataN16/csv-median-calculator/logger"
	"github.com/XmataN16/csv-median-calculator/reader"
)

// RunManifest summarises a completed batch run.
type RunManifest struct {
	RunID       string              `json:"run_id"`
	App         string              `json:"app"`
	Version     string              `json:"version"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
	InputDir    string              `json:"input_dir"`
	Files       []reader.FileIngest `json:"files"`
	RecordCount int                 `json:"record_count"`
	ChangeCount int                 `json:"change_count"`
	OutputPath  string              `json:"output_path,omitempty"`
	OutputSize  int64               `json:"output_size_in_bytes,omitempty"`
}

// ManifestWriter stores one JSON manifest per run under the output
// directory's metadata folder.
type ManifestWriter struct {
	basePath string
	log      *logger.Log
}

func NewManifestWriter(basePath string) *ManifestWriter {
	return &ManifestWriter{
		basePath: basePath,
		log:      logger.GetLogger(),
	}
}

// Write persists the manifest as metadata/run-<run id>.json and returns the
// written path.
func (m *ManifestWriter) Write(manifest RunManifest) (string, error) {
	dir := filepath.Join(m.basePath, "metadata")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", manifest.RunID))
	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("failed to write run manifest %s: %w", path, err)
	}

	m.log.WithComponent("manifest_writer").WithFields(logger.Fields{
		"path":    path,
		"files":   len(manifest.Files),
		"records": manifest.RecordCount,
	}).Info("run manifest written")

	return path, nil
}
