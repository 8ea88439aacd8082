package sqrtdec

import (
	"errors"
	"math/rand"
	"testing"

	rng "github.com/leesper/go_rng"
)

func TestBufferedBasics(t *testing.T) {
	t.Parallel()

	b, err := NewBuffered([]float64{0, 0, 0, 0}, Capacity(2))
	if err != nil {
		t.Fatalf("Failed to build: %v", err)
	}

	if err := b.Update(0, 1, 5); err != nil {
		t.Fatalf("First update failed: %v", err)
	}
	if b.Pending() != 1 {
		t.Errorf("One update should be pending, got %d", b.Pending())
	}

	// second update reaches capacity and triggers a flush
	if err := b.Update(2, 3, 7); err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	if b.Pending() != 0 {
		t.Errorf("Buffer should be empty after the flush, got %d pending", b.Pending())
	}

	got, err := b.Query(0, 3)
	if err != nil || got != 24 {
		t.Errorf("Query(0,3) should be 24. Got %v (err=%v)", got, err)
	}
}

func TestBufferedValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewBuffered(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Empty sequence should be invalid input. Got: %v", err)
	}
	if _, err := NewBuffered([]float64{1}, Capacity(0)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Capacity(0) should be invalid input. Got: %v", err)
	}
	if _, err := NewBufferedWith(0, &countingTarget{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Zero length should be invalid input. Got: %v", err)
	}
	if _, err := NewBufferedWith(4, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Nil target should be invalid input. Got: %v", err)
	}

	b, _ := NewBuffered([]float64{1, 2, 3})
	if err := b.Update(2, 1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Update with l > r should be out of bounds. Got: %v", err)
	}
	if _, err := b.Query(0, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Query past the end should be out of bounds. Got: %v", err)
	}
	if b.Pending() != 0 {
		t.Errorf("Rejected update should not be buffered, got %d pending", b.Pending())
	}
}

// capacity only affects performance, never answers
func TestCapacityDoesNotChangeAnswers(t *testing.T) {
	t.Parallel()

	const n = 200
	const ops = 1500

	values := make([]float64, n)
	gen := rng.NewUniformGenerator(1)
	for i := range values {
		values[i] = float64(gen.Int32n(1000))
	}

	type op struct {
		l, r  int
		x     float64
		write bool
	}
	r := rand.New(rand.NewSource(7))
	script := make([]op, ops)
	for i := range script {
		l := r.Intn(n)
		script[i] = op{
			l:     l,
			r:     l + r.Intn(n-l),
			x:     float64(r.Intn(50) - 25),
			write: r.Intn(2) == 0,
		}
	}

	run := func(capacity int) []float64 {
		b, err := NewBuffered(values, Capacity(capacity))
		if err != nil {
			t.Fatalf("Capacity(%d) failed to build: %v", capacity, err)
		}
		var answers []float64
		for _, o := range script {
			if o.write {
				if err := b.Update(o.l, o.r, o.x); err != nil {
					t.Fatalf("Update failed: %v", err)
				}
			} else {
				got, err := b.Query(o.l, o.r)
				if err != nil {
					t.Fatalf("Query failed: %v", err)
				}
				answers = append(answers, got)
			}
		}
		return answers
	}

	// integer-valued updates keep every capacity exactly comparable
	baseline := run(1)
	for _, capacity := range []int{2, 14, 38, ops + 1} {
		answers := run(capacity)
		if len(answers) != len(baseline) {
			t.Fatalf("Capacity(%d) answered %d queries, baseline answered %d", capacity, len(answers), len(baseline))
		}
		for i := range answers {
			if answers[i] != baseline[i] {
				t.Fatalf("Capacity(%d) answer %d = %v, flush-every-update says %v", capacity, i, answers[i], baseline[i])
			}
		}
	}
}

func TestBufferedAgainstBlockDec(t *testing.T) {
	t.Parallel()

	const n = 128
	values := make([]float64, n)
	gen := rng.NewUniformGenerator(99)
	for i := range values {
		values[i] = float64(gen.Int32n(100))
	}

	buffered, err := NewBuffered(values)
	if err != nil {
		t.Fatalf("Failed to build Buffered: %v", err)
	}
	direct, err := New(values)
	if err != nil {
		t.Fatalf("Failed to build BlockDec: %v", err)
	}

	r := rand.New(rand.NewSource(3))
	for op := 0; op < 1000; op++ {
		l := r.Intn(n)
		hi := l + r.Intn(n-l)
		if r.Intn(3) == 0 {
			x := float64(r.Intn(20) - 10)
			_ = buffered.Update(l, hi, x)
			_ = direct.RangeAdd(l, hi, x)
		} else {
			got, _ := buffered.Query(l, hi)
			want, _ := direct.RangeSum(l, hi)
			if got != want {
				t.Fatalf("Buffered.Query(%d,%d) = %v, BlockDec says %v", l, hi, got, want)
			}
		}
	}
}

func TestExplicitFlush(t *testing.T) {
	t.Parallel()

	b, _ := NewBuffered([]float64{1, 1, 1, 1}, Capacity(10))
	_ = b.Update(0, 3, 2)
	_ = b.Update(1, 2, 3)

	before, _ := b.Query(0, 3)
	b.Flush()
	if b.Pending() != 0 {
		t.Errorf("Flush left %d pending updates", b.Pending())
	}
	after, _ := b.Query(0, 3)
	if before != after {
		t.Errorf("Flush changed the answer: %v -> %v", before, after)
	}

	// flushing an empty buffer is a no-op
	b.Flush()
	again, _ := b.Query(0, 3)
	if again != after {
		t.Errorf("Empty flush changed the answer: %v -> %v", after, again)
	}
}

// countingTarget is a deliberately naive Rebuildable that records how
// often it gets rebuilt.
type countingTarget struct {
	values   []float64
	rebuilds int
}

func (c *countingTarget) Rebuild(pending []Update) {
	c.rebuilds++
	for _, u := range pending {
		for i := u.L; i <= u.R; i++ {
			c.values[i] += u.X
		}
	}
}

func (c *countingTarget) StaticSum(l, r int) float64 {
	var sum float64
	for i := l; i <= r; i++ {
		sum += c.values[i]
	}
	return sum
}

func TestWrappingACustomTarget(t *testing.T) {
	t.Parallel()

	target := &countingTarget{values: make([]float64, 10)}
	b, err := NewBufferedWith(10, target, Capacity(3))
	if err != nil {
		t.Fatalf("Failed to wrap custom target: %v", err)
	}

	for i := 0; i < 7; i++ {
		if err := b.Update(0, 9, 1); err != nil {
			t.Fatalf("Update %d failed: %v", i, err)
		}
	}

	// 7 updates at capacity 3 means two flushes with one left pending
	if target.rebuilds != 2 {
		t.Errorf("Expected 2 rebuilds, got %d", target.rebuilds)
	}
	if b.Pending() != 1 {
		t.Errorf("Expected 1 pending update, got %d", b.Pending())
	}

	got, _ := b.Query(2, 4)
	if got != 21 {
		t.Errorf("Query(2,4) after seven +1 updates should be 21, got %v", got)
	}
}
