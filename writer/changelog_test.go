package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	appconfig "github.com/XmataN16/csv-median-calculator/config"
	"github.com/XmataN16/csv-median-calculator/models"
)

func outputConfig(dir string) *appconfig.Config {
	return &appconfig.Config{
		Output: appconfig.OutputConfig{
			Dir:      dir,
			FileName: "price_median.csv",
		},
	}
}

func TestChangeLogWriterWritesRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewChangeLogWriter(outputConfig(dir))

	points := []models.MedianPoint{
		{ReceiveTS: 1, Median: decimal.RequireFromString("10")},
		{ReceiveTS: 2, Median: decimal.RequireFromString("15")},
		{ReceiveTS: 4, Median: decimal.RequireFromString("12.5")},
	}

	path, err := w.Write(points)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != filepath.Join(dir, "price_median.csv") {
		t.Fatalf("unexpected path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "receive_ts;price_median\n1;10.00000000\n2;15.00000000\n4;12.50000000\n"
	if string(data) != want {
		t.Fatalf("unexpected output:\n%s", data)
	}
}

func TestChangeLogWriterOverwritesPreviousRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewChangeLogWriter(outputConfig(dir))

	first := []models.MedianPoint{
		{ReceiveTS: 1, Median: decimal.RequireFromString("10")},
		{ReceiveTS: 2, Median: decimal.RequireFromString("20")},
	}
	if _, err := w.Write(first); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}

	second := []models.MedianPoint{
		{ReceiveTS: 9, Median: decimal.RequireFromString("1")},
	}
	path, err := w.Write(second)
	if err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "receive_ts;price_median\n9;1.00000000\n"
	if string(data) != want {
		t.Fatalf("expected second run to replace the file, got:\n%s", data)
	}
}

func TestChangeLogWriterEmptyInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewChangeLogWriter(outputConfig(dir))

	path, err := w.Write(nil)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty path, got %s", path)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("expected no output directory to be created")
	}
}
