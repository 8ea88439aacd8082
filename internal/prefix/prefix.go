// Package prefix provides an immutable prefix-sum snapshot over a
// numeric sequence.
//
// A Snapshot answers any range sum in constant time but cannot be
// updated in place; instead, pending range additions are folded in
// all at once by Rebuild, which accumulates them into a difference
// array and produces a replacement snapshot in one linear pass. This
// makes it the natural rebuild target for structures that batch
// updates and flush them on a schedule.
package prefix

// Delta is one pending uniform range addition with inclusive bounds.
type Delta struct {
	L, R int
	X    float64
}

// Snapshot holds cumulative sums; sums[i] covers the first i values.
// The zero value is unusable, always construct through Build.
type Snapshot struct {
	sums []float64
}

// Build creates a snapshot of the given values.
func Build(values []float64) *Snapshot {
	s := &Snapshot{sums: make([]float64, len(values)+1)}
	for i, v := range values {
		s.sums[i+1] = s.sums[i] + v
	}
	return s
}

// Len returns the number of values the snapshot covers.
func (s *Snapshot) Len() int {
	return len(s.sums) - 1
}

// Sum returns the sum over the inclusive range [l, r]. Bounds must be
// valid; callers check at the structure boundary.
func (s *Snapshot) Sum(l, r int) float64 {
	return s.sums[r+1] - s.sums[l]
}

// Rebuild returns a new snapshot with every delta folded into the
// receiver's values. The receiver is left untouched so callers can
// swap snapshots wholesale.
func (s *Snapshot) Rebuild(deltas []Delta) *Snapshot {
	n := s.Len()
	diff := make([]float64, n+1)
	for _, d := range deltas {
		diff[d.L] += d.X
		diff[d.R+1] -= d.X
	}

	next := &Snapshot{sums: make([]float64, n+1)}
	var carry float64
	for i := 0; i < n; i++ {
		carry += diff[i]
		next.sums[i+1] = next.sums[i] + (s.sums[i+1] - s.sums[i]) + carry
	}
	return next
}
