package sqrtdec

import "sort"

// Static is the capability a level structure must provide to take
// part in the binary-counter merge scheme: levels are built once,
// merged pairwise, and queried, never updated in place.
type Static[S any] interface {
	Merge(other S) S
	Query(x float64) float64
}

type level[S Static[S]] struct {
	size int
	data S
}

// Incremental dynamizes an insert-only stream over any Static
// structure. It keeps O(log n) levels with strictly distinct
// power-of-two sizes; inserting a value builds a size-1 level and
// merges equal-sized levels exactly like a binary increment with
// carry, so each element takes part in O(log n) rebuilds total.
//
// Queries are dispatched to every live level and the results summed,
// which requires the query result to be additive across disjoint
// element sets (counts and sums are, minima are too if combined
// differently - this engine assumes addition).
type Incremental[S Static[S]] struct {
	build  func(values []float64) S
	levels []level[S] // sorted by size ascending
	count  int
}

// NewIncremental creates an empty Incremental; build constructs a
// level from raw values and is only ever called with a single value.
func NewIncremental[S Static[S]](build func(values []float64) S) *Incremental[S] {
	return &Incremental[S]{build: build}
}

// Insert adds one value to the stream.
func (inc *Incremental[S]) Insert(v float64) {
	carry := level[S]{size: 1, data: inc.build([]float64{v})}
	i := 0
	for i < len(inc.levels) && inc.levels[i].size == carry.size {
		carry = level[S]{size: carry.size * 2, data: carry.data.Merge(inc.levels[i].data)}
		i++
	}
	inc.levels = append([]level[S]{carry}, inc.levels[i:]...)
	inc.count++
}

// Query evaluates x against every live level and sums the results.
func (inc *Incremental[S]) Query(x float64) float64 {
	var total float64
	for _, lv := range inc.levels {
		total += lv.data.Query(x)
	}
	return total
}

// Len returns how many values have been inserted.
func (inc *Incremental[S]) Len() int {
	return inc.count
}

// SortedLevel is a Static over a sorted value slice whose Query
// reports how many stored values are <= x.
type SortedLevel struct {
	keys []float64
}

// BuildSortedLevel sorts a copy of values into a level.
func BuildSortedLevel(values []float64) SortedLevel {
	keys := append([]float64{}, values...)
	sort.Float64s(keys)
	return SortedLevel{keys: keys}
}

func (s SortedLevel) Merge(other SortedLevel) SortedLevel {
	merged := make([]float64, 0, len(s.keys)+len(other.keys))
	i, j := 0, 0
	for i < len(s.keys) && j < len(other.keys) {
		if s.keys[i] <= other.keys[j] {
			merged = append(merged, s.keys[i])
			i++
		} else {
			merged = append(merged, other.keys[j])
			j++
		}
	}
	merged = append(merged, s.keys[i:]...)
	merged = append(merged, other.keys[j:]...)
	return SortedLevel{keys: merged}
}

func (s SortedLevel) Query(x float64) float64 {
	// linear scan beats binsearch on tiny levels
	if len(s.keys) < 30 {
		var count int
		for _, k := range s.keys {
			if k > x {
				break
			}
			count++
		}
		return float64(count)
	}

	return float64(sort.Search(len(s.keys), func(i int) bool {
		return s.keys[i] > x
	}))
}
