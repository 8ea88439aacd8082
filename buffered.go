package sqrtdec

import (
	"fmt"
	"math"

	"github.com/ibeletskiy/algorithmica/internal/prefix"
)

// Update is one buffered range addition, inclusive bounds, not yet
// folded into the wrapped structure.
type Update struct {
	L, R int
	X    float64
}

// Rebuildable is the contract Buffered dynamizes: a structure that is
// cheap to read statically and cheap to rebuild in bulk, but has no
// incremental update path of its own.
type Rebuildable interface {
	// Rebuild folds the pending updates into the structure. It is
	// called with the full buffer at flush time.
	Rebuild(pending []Update)

	// StaticSum answers a range sum over the structure as of the last
	// rebuild, ignoring anything still buffered.
	StaticSum(l, r int) float64
}

// Buffered makes a rebuild-only structure tolerate interleaved
// updates. Updates accumulate in a bounded buffer whose effect on a
// query is replayed analytically by range-overlap arithmetic; when
// the buffer reaches capacity the whole batch is flushed into one
// rebuild.
//
// With capacity near the square root of the update count, q updates
// and q queries over a length-n sequence cost O(n*sqrt(q) + q*sqrt(q))
// total.
type Buffered struct {
	n        int
	target   Rebuildable
	buffer   []Update
	capacity int
}

// NewBuffered builds a Buffered over a prefix-sum snapshot of the
// initial values, giving O(1) static reads between flushes.
func NewBuffered(values []float64, options ...Option) (*Buffered, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrInvalidInput)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value %v at index %d", ErrInvalidInput, v, i)
		}
	}
	return newBuffered(len(values), &prefixTarget{snap: prefix.Build(values)}, options)
}

// NewBufferedWith wraps a caller-supplied structure of length n. The
// caller keeps ownership of the target but must not touch it while
// the Buffered is live.
func NewBufferedWith(n int, target Rebuildable, options ...Option) (*Buffered, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sequence length must be >= 1, got %d", ErrInvalidInput, n)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: nil rebuild target", ErrInvalidInput)
	}
	return newBuffered(n, target, options)
}

func newBuffered(n int, target Rebuildable, options []Option) (*Buffered, error) {
	cfg, err := applyOptions(options)
	if err != nil {
		return nil, err
	}
	capacity := cfg.capacity
	if capacity == 0 {
		capacity = defaultBlockSize(n)
	}
	return &Buffered{
		n:        n,
		target:   target,
		buffer:   make([]Update, 0, capacity),
		capacity: capacity,
	}, nil
}

// Update records a range addition of x over the inclusive range
// [l, r], flushing the buffer into a rebuild once it reaches
// capacity.
func (b *Buffered) Update(l, r int, x float64) error {
	if err := checkRange(l, r, b.n); err != nil {
		return err
	}
	b.buffer = append(b.buffer, Update{L: l, R: r, X: x})
	if len(b.buffer) >= b.capacity {
		b.Flush()
	}
	return nil
}

// Query returns the sum over the inclusive range [l, r], combining
// the static read with the overlap contribution of every buffered
// update.
func (b *Buffered) Query(l, r int) (float64, error) {
	if err := checkRange(l, r, b.n); err != nil {
		return 0, err
	}
	sum := b.target.StaticSum(l, r)
	for _, u := range b.buffer {
		lo, hi := max(l, u.L), min(r, u.R)
		if lo <= hi {
			sum += float64(hi-lo+1) * u.X
		}
	}
	return sum, nil
}

// Flush folds every buffered update into the wrapped structure. After
// it returns the buffer is empty and static reads alone are exact.
// Callers only need it for deterministic rebuild points; Update
// triggers it on its own at capacity.
func (b *Buffered) Flush() {
	if len(b.buffer) == 0 {
		return
	}
	b.target.Rebuild(b.buffer)
	b.buffer = b.buffer[:0]
}

// Pending returns how many updates are buffered and not yet flushed.
func (b *Buffered) Pending() int {
	return len(b.buffer)
}

// prefixTarget adapts the internal prefix snapshot to Rebuildable,
// swapping in the replacement snapshot on each rebuild.
type prefixTarget struct {
	snap *prefix.Snapshot
}

func (p *prefixTarget) Rebuild(pending []Update) {
	deltas := make([]prefix.Delta, len(pending))
	for i, u := range pending {
		deltas[i] = prefix.Delta{L: u.L, R: u.R, X: u.X}
	}
	p.snap = p.snap.Rebuild(deltas)
}

func (p *prefixTarget) StaticSum(l, r int) float64 {
	return p.snap.Sum(l, r)
}
