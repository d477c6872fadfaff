package models

import "github.com/shopspring/decimal"

// MedianPrecision is the number of fractional digits medians are formatted
// and compared at. Two medians that agree at this precision are the same
// value as far as the change log is concerned.
const MedianPrecision = 8

// PriceRecord is a single parsed input row. SourceFile and LineNo identify
// where the row came from; they break ties between equal timestamps and
// appear in error messages, nothing else.
type PriceRecord struct {
	ReceiveTS  uint64
	Price      decimal.Decimal
	SourceFile string
	LineNo     uint64
}

// MedianPoint is one change-log row: the running median after the record at
// ReceiveTS was replayed, kept only when it differs from the previous row.
type MedianPoint struct {
	ReceiveTS uint64
	Median    decimal.Decimal
}

// FormatMedian renders a median at the fixed output precision.
func FormatMedian(d decimal.Decimal) string {
	return d.StringFixed(MedianPrecision)
}
