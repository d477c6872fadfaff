package processor

import (
	"github.com/XmataN16/csv-median-calculator/models"
)

// ChangeTracker replays records through a median calculator and reports the
// points at which the formatted median changes. Two medians are considered
// equal when they render to the same fixed-precision string, so changes
// smaller than the output precision are suppressed.
type ChangeTracker struct {
	calc *MedianCalculator
	last string
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{calc: NewMedianCalculator()}
}

// Observe feeds one record into the calculator. It returns a change point
// carrying the record's timestamp when the median moved, which is always the
// case for the first record.
func (t *ChangeTracker) Observe(rec models.PriceRecord) (models.MedianPoint, bool) {
	t.calc.Add(rec.Price)

	median, ok := t.calc.Median()
	if !ok {
		return models.MedianPoint{}, false
	}

	formatted := models.FormatMedian(median)
	if formatted == t.last {
		return models.MedianPoint{}, false
	}

	t.last = formatted
	return models.MedianPoint{ReceiveTS: rec.ReceiveTS, Median: median}, true
}

// Count returns how many records have been observed.
func (t *ChangeTracker) Count() int {
	return t.calc.Count()
}
