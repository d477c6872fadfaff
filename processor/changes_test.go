package processor

import (
	"testing"

	"github.com/XmataN16/csv-median-calculator/models"
)

func TestChangeTrackerEmitsFirstRecord(t *testing.T) {
	tr := NewChangeTracker()
	point, changed := tr.Observe(rec(1, "10", "a.csv", 2))
	if !changed {
		t.Fatal("expected the first record to emit a change")
	}
	if point.ReceiveTS != 1 || models.FormatMedian(point.Median) != "10.00000000" {
		t.Fatalf("unexpected first point: %+v", point)
	}
}

func TestChangeTrackerReplay(t *testing.T) {
	records := []models.PriceRecord{
		rec(1, "10", "a.csv", 2),
		rec(2, "20", "a.csv", 3),
		rec(4, "12.5", "b.csv", 2),
	}

	tr := NewChangeTracker()
	var points []models.MedianPoint
	for _, r := range records {
		if p, changed := tr.Observe(r); changed {
			points = append(points, p)
		}
	}

	want := []struct {
		ts     uint64
		median string
	}{
		{1, "10.00000000"},
		{2, "15.00000000"},
		{4, "12.50000000"},
	}
	if len(points) != len(want) {
		t.Fatalf("expected %d change points, got %d", len(want), len(points))
	}
	for i, w := range want {
		if points[i].ReceiveTS != w.ts || models.FormatMedian(points[i].Median) != w.median {
			t.Fatalf("point %d: expected %d %s, got %d %s",
				i, w.ts, w.median, points[i].ReceiveTS, models.FormatMedian(points[i].Median))
		}
	}
	if tr.Count() != 3 {
		t.Fatalf("expected 3 observed records, got %d", tr.Count())
	}
}

func TestChangeTrackerSuppressesRepeats(t *testing.T) {
	records := []models.PriceRecord{
		rec(1, "7", "a.csv", 2),
		rec(2, "7", "a.csv", 3),
		rec(3, "7", "a.csv", 4),
	}

	tr := NewChangeTracker()
	emitted := 0
	for _, r := range records {
		if _, changed := tr.Observe(r); changed {
			emitted++
		}
	}
	if emitted != 1 {
		t.Fatalf("expected a single change point, got %d", emitted)
	}
}

func TestChangeTrackerPrecisionBoundary(t *testing.T) {
	tr := NewChangeTracker()

	if _, changed := tr.Observe(rec(1, "1", "a.csv", 2)); !changed {
		t.Fatal("expected initial change")
	}
	// Median moves to 1.0000000005, which still renders as 1.00000000.
	if _, changed := tr.Observe(rec(2, "1.000000001", "a.csv", 3)); changed {
		t.Fatal("expected sub-precision change to be suppressed")
	}
	// Median moves to 1.000000001, still the same formatted value.
	if _, changed := tr.Observe(rec(3, "5", "a.csv", 4)); changed {
		t.Fatal("expected formatted median to be unchanged")
	}
	// Median jumps to 3.0000000005 and the formatted value finally moves.
	if p, changed := tr.Observe(rec(4, "100", "a.csv", 5)); !changed {
		t.Fatal("expected change once the formatted median moves")
	} else if models.FormatMedian(p.Median) != "3.00000000" {
		t.Fatalf("unexpected median: %s", models.FormatMedian(p.Median))
	}
}

func TestChangeTrackerDuplicateTimestamps(t *testing.T) {
	// Two records share a timestamp and both move the median.
	records := []models.PriceRecord{
		rec(1, "10", "a.csv", 2),
		rec(5, "20", "a.csv", 3),
		rec(5, "30", "b.csv", 2),
	}

	tr := NewChangeTracker()
	var points []models.MedianPoint
	for _, r := range records {
		if p, changed := tr.Observe(r); changed {
			points = append(points, p)
		}
	}

	if len(points) != 3 {
		t.Fatalf("expected 3 change points, got %d", len(points))
	}
	if points[1].ReceiveTS != 5 || points[2].ReceiveTS != 5 {
		t.Fatalf("expected both later points at ts 5, got %+v", points[1:])
	}
	if models.FormatMedian(points[1].Median) != "15.00000000" {
		t.Fatalf("unexpected second median: %s", models.FormatMedian(points[1].Median))
	}
	if models.FormatMedian(points[2].Median) != "20.00000000" {
		t.Fatalf("unexpected third median: %s", models.FormatMedian(points[2].Median))
	}
}
