package processor

import (
	"sort"

	"github.com/XmataN16/csv-median-calculator/models"
)

// SortRecords orders records for replay. The sort is stable, so records that
// compare equal on every key keep their discovery order.
func SortRecords(records []models.PriceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]

		// Primary sort: timestamp
		if a.ReceiveTS != b.ReceiveTS {
			return a.ReceiveTS < b.ReceiveTS
		}

		// Secondary sort: source file
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}

		// Final sort: line number
		return a.LineNo < b.LineNo
	})
}
