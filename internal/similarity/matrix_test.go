package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"cinematch/internal/vectorize"
)

func TestComputeIdenticalTagSetsScoreOne(t *testing.T) {
	fm := vectorize.FitTransform([]string{"funny|dark|witty", "witty|funny|dark", "slow"}, vectorize.Options{})
	m, err := Compute(context.Background(), fm.Rows, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := m.At(0, 1); got != 1.0 {
		t.Fatalf("sim(0,1) = %v, want 1", got)
	}
	if got := m.At(0, 2); got != 0 {
		t.Fatalf("sim(0,2) = %v, want 0", got)
	}
}

func TestComputeSymmetricWithUnitDiagonal(t *testing.T) {
	docs := []string{"a|b|c", "b|c|d", "a|a|e", "", "c|e", "f"}
	fm := vectorize.FitTransform(docs, vectorize.Options{})
	for _, workers := range []int{0, 1, 3} {
		m, err := Compute(context.Background(), fm.Rows, Options{Workers: workers})
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if m.Size() != len(docs) {
			t.Fatalf("size = %d", m.Size())
		}
		for i := 0; i < m.Size(); i++ {
			for j := 0; j < m.Size(); j++ {
				if m.At(i, j) != m.At(j, i) {
					t.Fatalf("workers=%d: sim(%d,%d)=%v != sim(%d,%d)=%v", workers, i, j, m.At(i, j), j, i, m.At(j, i))
				}
				if v := m.At(i, j); v < 0 || v > 1 {
					t.Fatalf("sim(%d,%d) = %v out of range", i, j, v)
				}
			}
			want := 1.0
			if fm.Rows[i].IsZero() {
				want = 0
			}
			if m.At(i, i) != want {
				t.Fatalf("diagonal %d = %v, want %v", i, m.At(i, i), want)
			}
		}
	}
}

func TestComputeZeroRowScoresZero(t *testing.T) {
	rows := []vectorize.Vector{{}, {Indices: []int{0}, Counts: []float64{2}}}
	m, err := Compute(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for j := 0; j < 2; j++ {
		if m.At(0, j) != 0 {
			t.Fatalf("zero row scored %v against %d", m.At(0, j), j)
		}
	}
}

func TestCosineKnownValue(t *testing.T) {
	a := vectorize.Vector{Indices: []int{0, 1}, Counts: []float64{1, 1}}
	b := vectorize.Vector{Indices: []int{1, 2}, Counts: []float64{1, 1}}
	if got := Cosine(a, b); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("Cosine = %v, want 0.5", got)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	m, err := Compute(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if m.Size() != 0 {
		t.Fatalf("size = %d", m.Size())
	}
}

func TestComputeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rows := []vectorize.Vector{{Indices: []int{0}, Counts: []float64{1}}, {Indices: []int{0}, Counts: []float64{1}}}
	if _, err := Compute(ctx, rows, Options{Workers: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
