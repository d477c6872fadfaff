package processor

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

var decimalTwo = decimal.NewFromInt(2)

// maxHeap keeps its largest value at the root.
type maxHeap []decimal.Decimal

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].GreaterThan(h[j]) }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(decimal.Decimal)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// minHeap keeps its smallest value at the root.
type minHeap []decimal.Decimal

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].LessThan(h[j]) }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(decimal.Decimal)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// MedianCalculator maintains a running median over a stream of prices using
// two heaps. The lower half lives in a max-heap and the upper half in a
// min-heap; their sizes never differ by more than one.
type MedianCalculator struct {
	lower maxHeap
	upper minHeap
}

func NewMedianCalculator() *MedianCalculator {
	return &MedianCalculator{}
}

// Add inserts a price. Amortised O(log n).
func (m *MedianCalculator) Add(v decimal.Decimal) {
	if m.lower.Len() == 0 || v.LessThanOrEqual(m.lower[0]) {
		heap.Push(&m.lower, v)
	} else {
		heap.Push(&m.upper, v)
	}
	m.rebalance()
}

func (m *MedianCalculator) rebalance() {
	switch {
	case m.lower.Len() > m.upper.Len()+1:
		heap.Push(&m.upper, heap.Pop(&m.lower))
	case m.upper.Len() > m.lower.Len()+1:
		heap.Push(&m.lower, heap.Pop(&m.upper))
	}
}

// Median returns the current median. The second return value is false only
// when no prices have been added. With an even count the median is the exact
// mean of the two middle values. Calling Median does not change state.
func (m *MedianCalculator) Median() (decimal.Decimal, bool) {
	switch {
	case m.lower.Len() == 0 && m.upper.Len() == 0:
		return decimal.Decimal{}, false
	case m.lower.Len() > m.upper.Len():
		return m.lower[0], true
	case m.upper.Len() > m.lower.Len():
		return m.upper[0], true
	default:
		return m.lower[0].Add(m.upper[0]).Div(decimalTwo), true
	}
}

// Count returns how many prices have been added.
func (m *MedianCalculator) Count() int {
	return m.lower.Len() + m.upper.Len()
}
