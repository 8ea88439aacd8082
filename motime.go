package sqrtdec

import (
	"fmt"
	"math"
	"sort"
)

// TimedQuery is a range request with a timeline coordinate: T is the
// number of assignments applied before the query is evaluated.
type TimedQuery struct {
	L, R int
	T    int
	ID   int
}

// Assignment is one point write in the update timeline: once applied,
// position Pos holds Value until a later assignment overwrites it.
type Assignment struct {
	Pos   int
	Value float64
}

// RunTimedBatch answers range queries interleaved with point
// assignments, all known up front. Queries are sorted by left block,
// right block, and timeline coordinate with blocks of size near
// n^(2/3), then replayed by sliding the window and applying or
// un-applying assignments as the timeline coordinate moves, for
// O(n^(5/3)) total work.
//
// The engine owns a mutable copy of the sequence and hands it to
// factory; the aggregate must read element values through that slice
// so applied assignments are visible to it. Ties within identical
// sort keys break by query id.
func RunTimedBatch(values []float64, factory func(live []float64) WindowAggregate, updates []Assignment, queries []TimedQuery) ([]float64, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil aggregate factory", ErrInvalidInput)
	}
	if len(queries) == 0 {
		return []float64{}, nil
	}
	n := len(values)

	for _, u := range updates {
		if u.Pos < 0 || u.Pos >= n {
			return nil, fmt.Errorf("%w: assignment position %d outside [0, %d)", ErrOutOfBounds, u.Pos, n)
		}
	}
	seen := make([]bool, len(queries))
	for _, q := range queries {
		if err := checkRange(q.L, q.R, n); err != nil {
			return nil, err
		}
		if q.T < 0 || q.T > len(updates) {
			return nil, fmt.Errorf("%w: timeline coordinate %d outside [0, %d]", ErrOutOfBounds, q.T, len(updates))
		}
		if q.ID < 0 || q.ID >= len(queries) || seen[q.ID] {
			return nil, fmt.Errorf("%w: query ids must be distinct and dense in [0, %d)", ErrInvalidInput, len(queries))
		}
		seen[q.ID] = true
	}

	b := int(math.Round(math.Cbrt(float64(n) * float64(n))))
	if b < 1 {
		b = 1
	}
	ordered := append([]TimedQuery{}, queries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		li, lj := ordered[i].L/b, ordered[j].L/b
		if li != lj {
			return li < lj
		}
		ri, rj := ordered[i].R/b, ordered[j].R/b
		if ri != rj {
			return ri < rj
		}
		if ordered[i].T != ordered[j].T {
			return ordered[i].T < ordered[j].T
		}
		return ordered[i].ID < ordered[j].ID
	})

	live := append([]float64{}, values...)
	agg := factory(live)
	if agg == nil {
		return nil, fmt.Errorf("%w: aggregate factory returned nil", ErrInvalidInput)
	}

	// swapping live[pos] with the stored assignment value makes apply
	// and un-apply the same operation
	vals := make([]float64, len(updates))
	for i, u := range updates {
		vals[i] = u.Value
	}

	answers := make([]float64, len(queries))
	l, r := 0, -1
	toggleUpdate := func(k int) {
		pos := updates[k].Pos
		inside := l <= pos && pos <= r
		if inside {
			agg.Shrink(pos)
		}
		live[pos], vals[k] = vals[k], live[pos]
		if inside {
			agg.Extend(pos)
		}
	}

	applied := 0
	for _, q := range ordered {
		for applied < q.T {
			toggleUpdate(applied)
			applied++
		}
		for applied > q.T {
			applied--
			toggleUpdate(applied)
		}
		for r < q.R {
			r++
			agg.Extend(r)
		}
		for l > q.L {
			l--
			agg.Extend(l)
		}
		for r > q.R {
			agg.Shrink(r)
			r--
		}
		for l < q.L {
			agg.Shrink(l)
			l++
		}
		answers[q.ID] = agg.Value()
	}
	return answers, nil
}
