package prefix

import (
	"math/rand"
	"testing"
)

func TestBuildAndSum(t *testing.T) {
	s := Build([]float64{3, 1, 4, 1, 5})

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	if got := s.Sum(0, 4); got != 14 {
		t.Errorf("Sum(0,4) should be 14, got %v", got)
	}
	if got := s.Sum(2, 2); got != 4 {
		t.Errorf("Sum(2,2) should be 4, got %v", got)
	}
	if got := s.Sum(1, 3); got != 6 {
		t.Errorf("Sum(1,3) should be 6, got %v", got)
	}
}

func TestRebuild(t *testing.T) {
	base := Build([]float64{0, 0, 0, 0})
	next := base.Rebuild([]Delta{
		{L: 0, R: 1, X: 5},
		{L: 2, R: 3, X: 7},
		{L: 1, R: 2, X: 1},
	})

	if got := next.Sum(0, 3); got != 26 {
		t.Errorf("Sum(0,3) after rebuild should be 26, got %v", got)
	}

	// the base snapshot is untouched
	if got := base.Sum(0, 3); got != 0 {
		t.Errorf("Rebuild mutated its receiver: Sum(0,3) = %v", got)
	}
}

func TestRebuildAgainstReference(t *testing.T) {
	const n = 200
	r := rand.New(rand.NewSource(17))

	ref := make([]float64, n)
	for i := range ref {
		ref[i] = float64(r.Intn(100))
	}
	s := Build(ref)

	for round := 0; round < 20; round++ {
		deltas := make([]Delta, 1+r.Intn(10))
		for i := range deltas {
			l := r.Intn(n)
			deltas[i] = Delta{L: l, R: l + r.Intn(n-l), X: float64(r.Intn(20) - 10)}
		}
		s = s.Rebuild(deltas)
		for _, d := range deltas {
			for i := d.L; i <= d.R; i++ {
				ref[i] += d.X
			}
		}

		l := r.Intn(n)
		hi := l + r.Intn(n-l)
		var want float64
		for i := l; i <= hi; i++ {
			want += ref[i]
		}
		if got := s.Sum(l, hi); got != want {
			t.Fatalf("Round %d: Sum(%d,%d) = %v, reference says %v", round, l, hi, got, want)
		}
	}
}
