// Package sqrtdec implements square-root decomposition engines for
// range aggregate queries over numeric sequences: a block-decomposed
// array with lazy range updates (BlockDec), a buffering wrapper that
// dynamizes rebuild-only structures (Buffered, Incremental), and an
// offline batch engine that reorders range queries to bound total
// window movement (RunBatch and its tree-path and timeline variants).
//
// All structures are single-threaded: interleaving updates and
// queries across goroutines requires external locking.
package sqrtdec

import (
	"fmt"
	"math"
)

// BlockDec is a sequence of floats partitioned into contiguous blocks
// of near-square-root size, answering range sums and applying uniform
// range additions in O(sqrt n).
//
// Each block caches the sum of its logical contents and a pending
// uniform delta not yet folded into per-element storage; the logical
// value of element i is always raw[i] plus the pending delta of the
// block holding i.
type BlockDec struct {
	raw       []float64
	blockSum  []float64
	pending   []float64
	blockSize int
}

// New builds a BlockDec from initial values in one linear pass. The
// sequence must be non-empty and every value finite.
func New(values []float64, options ...Option) (*BlockDec, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrInvalidInput)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value %v at index %d", ErrInvalidInput, v, i)
		}
	}

	cfg, err := applyOptions(options)
	if err != nil {
		return nil, err
	}
	c := cfg.blockSize
	if c == 0 {
		c = defaultBlockSize(len(values))
	}

	numBlocks := (len(values) + c - 1) / c
	b := &BlockDec{
		raw:       append([]float64{}, values...),
		blockSum:  make([]float64, numBlocks),
		pending:   make([]float64, numBlocks),
		blockSize: c,
	}
	for i, v := range values {
		b.blockSum[i/c] += v
	}
	return b, nil
}

// Len returns the sequence length.
func (b *BlockDec) Len() int {
	return len(b.raw)
}

func (b *BlockDec) String() string {
	return fmt.Sprintf("BlockDec<n=%d, c=%d, blocks=%d>", len(b.raw), b.blockSize, len(b.blockSum))
}

// blockLen accounts for the shorter last block.
func (b *BlockDec) blockLen(blk int) int {
	end := (blk + 1) * b.blockSize
	if end > len(b.raw) {
		end = len(b.raw)
	}
	return end - blk*b.blockSize
}

// RangeSum returns the sum of logical values over the inclusive range
// [l, r]. Blocks fully inside the range contribute their cached sum;
// the at most two partial boundary blocks are walked element by
// element.
func (b *BlockDec) RangeSum(l, r int) (float64, error) {
	if err := checkRange(l, r, len(b.raw)); err != nil {
		return 0, err
	}

	c := b.blockSize
	lb, rb := l/c, r/c

	if lb == rb {
		var sum float64
		for i := l; i <= r; i++ {
			sum += b.raw[i]
		}
		return sum + float64(r-l+1)*b.pending[lb], nil
	}

	var sum float64
	for i := l; i < (lb+1)*c; i++ {
		sum += b.raw[i]
	}
	sum += float64((lb+1)*c-l) * b.pending[lb]

	for blk := lb + 1; blk < rb; blk++ {
		sum += b.blockSum[blk]
	}

	for i := rb * c; i <= r; i++ {
		sum += b.raw[i]
	}
	sum += float64(r-rb*c+1) * b.pending[rb]

	return sum, nil
}

// RangeAdd adds x to every logical element in the inclusive range
// [l, r]. Fully covered blocks only bump their pending delta and
// cached sum; boundary elements are updated in place.
func (b *BlockDec) RangeAdd(l, r int, x float64) error {
	if err := checkRange(l, r, len(b.raw)); err != nil {
		return err
	}

	c := b.blockSize
	lb, rb := l/c, r/c

	if lb == rb {
		for i := l; i <= r; i++ {
			b.raw[i] += x
		}
		b.blockSum[lb] += float64(r-l+1) * x
		return nil
	}

	for i := l; i < (lb+1)*c; i++ {
		b.raw[i] += x
	}
	b.blockSum[lb] += float64((lb+1)*c-l) * x

	for blk := lb + 1; blk < rb; blk++ {
		b.pending[blk] += x
		b.blockSum[blk] += float64(b.blockLen(blk)) * x
	}

	for i := rb * c; i <= r; i++ {
		b.raw[i] += x
	}
	b.blockSum[rb] += float64(r-rb*c+1) * x

	return nil
}

// Get returns the logical value at index i.
func (b *BlockDec) Get(i int) (float64, error) {
	if err := checkRange(i, i, len(b.raw)); err != nil {
		return 0, err
	}
	return b.raw[i] + b.pending[i/b.blockSize], nil
}

// Values returns a copy of the logical sequence with all pending
// deltas folded in.
func (b *BlockDec) Values() []float64 {
	values := make([]float64, len(b.raw))
	for i, v := range b.raw {
		values[i] = v + b.pending[i/b.blockSize]
	}
	return values
}
