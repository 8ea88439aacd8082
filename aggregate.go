package sqrtdec

import "fmt"

// SumAggregate maintains the running sum of the active window over
// the values it was built with.
type SumAggregate struct {
	values []float64
	sum    float64
}

// NewSumAggregate keeps a reference to values, not a copy; mutating
// them mid-batch is the caller's problem.
func NewSumAggregate(values []float64) *SumAggregate {
	return &SumAggregate{values: values}
}

func (a *SumAggregate) Extend(i int) {
	a.sum += a.values[i]
}

func (a *SumAggregate) Shrink(i int) {
	a.sum -= a.values[i]
}

func (a *SumAggregate) Value() float64 {
	return a.sum
}

// DistinctAggregate tracks how many distinct values the active window
// holds. A frequency table keeps removals exact: a value stops
// counting only when its last occurrence leaves the window.
type DistinctAggregate struct {
	values   []float64
	freq     map[float64]int
	distinct int
}

func NewDistinctAggregate(values []float64) *DistinctAggregate {
	return &DistinctAggregate{
		values: values,
		freq:   make(map[float64]int),
	}
}

func (a *DistinctAggregate) Extend(i int) {
	v := a.values[i]
	a.freq[v]++
	if a.freq[v] == 1 {
		a.distinct++
	}
}

func (a *DistinctAggregate) Shrink(i int) {
	v := a.values[i]
	a.freq[v]--
	if a.freq[v] < 0 {
		panic(fmt.Errorf("%w: shrink without a matching extend at index %d", ErrInvariant, i))
	}
	if a.freq[v] == 0 {
		a.distinct--
		delete(a.freq, v)
	}
}

func (a *DistinctAggregate) Value() float64 {
	return float64(a.distinct)
}
