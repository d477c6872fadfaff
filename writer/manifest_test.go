package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/XmataN16/csv-median-calculator/reader"
)

func TestManifestWriterRoundTrip(t *testing.T) {
	base := t.TempDir()
	m := NewManifestWriter(base)

	manifest := RunManifest{
		RunID:       "test-run",
		App:         "csv-median-calculator",
		Version:     "1.0.0",
		StartedAt:   time.Now().UTC().Add(-time.Second),
		FinishedAt:  time.Now().UTC(),
		InputDir:    "./data",
		Files:       []reader.FileIngest{{Path: "data/a.csv", Records: 3}},
		RecordCount: 3,
		ChangeCount: 2,
		OutputPath:  "output/price_median.csv",
		OutputSize:  64,
	}

	path, err := m.Write(manifest)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "run-test-run.json" {
		t.Fatalf("unexpected manifest name: %s", path)
	}
	if filepath.Dir(path) != filepath.Join(base, "metadata") {
		t.Fatalf("unexpected manifest location: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got RunManifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if got.RunID != manifest.RunID || got.RecordCount != 3 || got.ChangeCount != 2 {
		t.Fatalf("unexpected manifest: %+v", got)
	}
	if len(got.Files) != 1 || got.Files[0].Records != 3 {
		t.Fatalf("unexpected files: %+v", got.Files)
	}
	if got.OutputPath != manifest.OutputPath || got.OutputSize != manifest.OutputSize {
		t.Fatalf("unexpected output fields: %+v", got)
	}
}
