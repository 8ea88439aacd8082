package sqrtdec

import (
	"fmt"
	"sort"
)

// Query is one offline range request with inclusive bounds. ID is the
// answer slot; a batch must use distinct ids covering 0..len-1 so the
// result slice can be indexed directly.
type Query struct {
	L, R int
	ID   int
}

// WindowAggregate is the caller-maintained running computation over
// the active window. Extend and Shrink receive an element index, must
// be exact inverses of each other, and must cost O(1) amortized; the
// engine guarantees they stay balanced per element.
type WindowAggregate interface {
	Extend(i int)
	Shrink(i int)
	Value() float64
}

// RunBatch answers a fixed batch of range queries over the sequence
// by reordering them to bound total window movement, then sliding a
// single window through them while mutating the aggregate produced by
// factory. Answers land at the slot named by each query's ID, so the
// result is independent of input order.
//
// Queries are bucketed by left bound over blocks of near-square-root
// size and sorted by right bound within a bucket, ties broken by id
// for reproducibility. The right bound then moves monotonically
// inside each bucket and the left bound by at most one block per
// query, for O((n+q)*sqrt(n)) extend/shrink calls overall.
func RunBatch(values []float64, factory func() WindowAggregate, queries []Query) ([]float64, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil aggregate factory", ErrInvalidInput)
	}
	if len(queries) == 0 {
		return []float64{}, nil
	}
	n := len(values)

	seen := make([]bool, len(queries))
	for _, q := range queries {
		if err := checkRange(q.L, q.R, n); err != nil {
			return nil, err
		}
		if q.ID < 0 || q.ID >= len(queries) || seen[q.ID] {
			return nil, fmt.Errorf("%w: query ids must be distinct and dense in [0, %d)", ErrInvalidInput, len(queries))
		}
		seen[q.ID] = true
	}

	c := defaultBlockSize(n)
	ordered := append([]Query{}, queries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		bi, bj := ordered[i].L/c, ordered[j].L/c
		if bi != bj {
			return bi < bj
		}
		if ordered[i].R != ordered[j].R {
			return ordered[i].R < ordered[j].R
		}
		return ordered[i].ID < ordered[j].ID
	})

	agg := factory()
	if agg == nil {
		return nil, fmt.Errorf("%w: aggregate factory returned nil", ErrInvalidInput)
	}

	answers := make([]float64, len(queries))
	l, r := 0, -1 // empty window
	for _, q := range ordered {
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
