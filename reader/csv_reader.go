package reader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/XmataN16/csv-median-calculator/config"
	"github.com/XmataN16/csv-median-calculator/logger"
	"github.com/XmataN16/csv-median-calculator/models"
)

const (
	fieldSeparator  = ";"
	columnReceiveTS = "receive_ts"
	columnPrice     = "price"

	// maxLineBytes bounds a single CSV line; price rows are tiny but a
	// corrupt file must not kill the scanner.
	maxLineBytes = 1024 * 1024
)

// FormatError reports a malformed row in an input file. The line number
// counts from 1 at the header row.
type FormatError struct {
	File   string
	Line   uint64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s in file %s at line %d", e.Reason, e.File, e.Line)
}

// FileIngest records how many rows a single input file contributed.
type FileIngest struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
}

// CSVReader scans the input directory for price CSV files and parses them
// into records.
type CSVReader struct {
	config *config.Config
	log    *logger.Log
}

// NewCSVReader creates a reader for the configured input directory.
func NewCSVReader(cfg *config.Config) *CSVReader {
	log := logger.GetLogger()

	log.WithComponent("csv_reader").WithFields(logger.Fields{
		"dir":   cfg.Input.Dir,
		"masks": cfg.Input.FilenameMasks,
	}).Info("csv reader initialized")

	return &CSVReader{
		config: cfg,
		log:    log,
	}
}

// Read parses every matching CSV file in the input directory and returns the
// records in discovery order together with per-file ingest counts. Any
// malformed row aborts the whole read.
func (r *CSVReader) Read(ctx context.Context) ([]models.PriceRecord, []FileIngest, error) {
	log := r.log.WithComponent("csv_reader").WithFields(logger.Fields{"operation": "read"})

	dir := r.config.Input.Dir
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("input directory does not exist: %s", dir)
		}
		return nil, nil, fmt.Errorf("failed to stat input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("input path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var records []models.PriceRecord
	var ingests []FileIngest

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if !r.matchesMask(name) {
			log.WithFields(logger.Fields{"file": name}).Debug("file does not match any filename mask")
			continue
		}

		path := filepath.Join(dir, name)
		start := time.Now()
		fileRecords, ok, err := r.readFile(path)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		logger.LogPerformanceEntry(log, "csv_reader", "read_file", time.Since(start), logger.Fields{
			"file": name,
		})

		records = append(records, fileRecords...)
		ingests = append(ingests, FileIngest{Path: path, Records: len(fileRecords)})
	}

	log.WithFields(logger.Fields{
		"files":   len(ingests),
		"records": len(records),
	}).Info("finished reading input directory")

	return records, ingests, nil
}

// matchesMask reports whether the file name contains at least one configured
// mask substring. An empty mask list accepts every file.
func (r *CSVReader) matchesMask(name string) bool {
	masks := r.config.Input.FilenameMasks
	if len(masks) == 0 {
		return true
	}
	for _, mask := range masks {
		if strings.Contains(name, mask) {
			return true
		}
	}
	return false
}

// readFile parses a single CSV file. The second return value is false when
// the file was skipped because it has no header row.
func (r *CSVReader) readFile(path string) ([]models.PriceRecord, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, false, fmt.Errorf("failed to read CSV file %s: %w", path, err)
		}
		r.log.WithComponent("csv_reader").WithFields(logger.Fields{
			"file": path,
		}).Warn("skipping file without a header row")
		return nil, false, nil
	}

	idxReceive, idxPrice := parseHeader(scanner.Text())
	if idxReceive < 0 || idxPrice < 0 {
		return nil, false, fmt.Errorf("CSV missing required columns (%s, %s) in file: %s",
			columnReceiveTS, columnPrice, path)
	}

	need := idxReceive
	if idxPrice > need {
		need = idxPrice
	}

	var records []models.PriceRecord
	lineNo := uint64(1)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, fieldSeparator)
		if len(fields) <= need {
			return nil, false, &FormatError{File: path, Line: lineNo, Reason: "malformed CSV (not enough columns)"}
		}

		receiveTS, err := strconv.ParseUint(fields[idxReceive], 10, 64)
		if err != nil {
			return nil, false, &FormatError{File: path, Line: lineNo, Reason: "invalid receive_ts"}
		}

		price, err := decimal.NewFromString(fields[idxPrice])
		if err != nil {
			return nil, false, &FormatError{File: path, Line: lineNo, Reason: "invalid price"}
		}

		records = append(records, models.PriceRecord{
			ReceiveTS:  receiveTS,
			Price:      price,
			SourceFile: path,
			LineNo:     lineNo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}

	return records, true, nil
}

// parseHeader locates the required columns in a header line. Column names are
// trimmed of surrounding whitespace; the last occurrence wins when a name
// repeats. Extra columns are ignored.
func parseHeader(line string) (idxReceive, idxPrice int) {
	idxReceive, idxPrice = -1, -1
	for i, col := range strings.Split(line, fieldSeparator) {
		switch strings.TrimSpace(col) {
		case columnReceiveTS:
			idxReceive = i
		case columnPrice:
			idxPrice = i
		}
	}
	return idxReceive, idxPrice
}
