package processor

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/XmataN16/csv-median-calculator/models"
)

func rec(ts uint64, price, file string, line uint64) models.PriceRecord {
	return models.PriceRecord{
		ReceiveTS:  ts,
		Price:      decimal.RequireFromString(price),
		SourceFile: file,
		LineNo:     line,
	}
}

func TestSortRecordsByTimestamp(t *testing.T) {
	records := []models.PriceRecord{
		rec(3, "30", "a.csv", 2),
		rec(1, "10", "a.csv", 3),
		rec(2, "20", "a.csv", 4),
	}

	SortRecords(records)

	for i, want := range []uint64{1, 2, 3} {
		if records[i].ReceiveTS != want {
			t.Fatalf("position %d: expected ts %d, got %d", i, want, records[i].ReceiveTS)
		}
	}
}

func TestSortRecordsTieBreak(t *testing.T) {
	// All records share a timestamp; file and line decide the order.
	records := []models.PriceRecord{
		rec(5, "1", "b.csv", 2),
		rec(5, "2", "a.csv", 4),
		rec(5, "3", "a.csv", 2),
		rec(5, "4", "b.csv", 1),
	}

	SortRecords(records)

	want := []struct {
		file string
		line uint64
	}{
		{"a.csv", 2},
		{"a.csv", 4},
		{"b.csv", 1},
		{"b.csv", 2},
	}
	for i, w := range want {
		if records[i].SourceFile != w.file || records[i].LineNo != w.line {
			t.Fatalf("position %d: expected %s:%d, got %s:%d",
				i, w.file, w.line, records[i].SourceFile, records[i].LineNo)
		}
	}
}
