package similarity

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cinematch/internal/vectorize"
)

// Matrix is a square, symmetric, row-major similarity matrix.
type Matrix struct {
	n    int
	data []float64
}

// Size returns the number of rows.
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At returns sim(i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns a read-only view of row i.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}

// Options tunes the computation.
type Options struct {
	// Workers bounds concurrent row computations. Zero means GOMAXPROCS.
	Workers int
}

// Cosine returns dot(a,b)/(|a||b|), or 0 when either vector has zero norm.
func Cosine(a, b vectorize.Vector) float64 {
	na, nb := sumSquares(a), sumSquares(b)
	return cosine(a, b, na, nb)
}

func cosine(a, b vectorize.Vector, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	dot := a.Dot(b)
	if dot == 0 {
		return 0
	}
	return math.Min(dot/math.Sqrt(na*nb), 1)
}

func sumSquares(v vectorize.Vector) float64 {
	var sum float64
	for _, c := range v.Counts {
		sum += c * c
	}
	return sum
}

// Compute builds the pairwise cosine similarity matrix for rows. The diagonal
// is 1 for every nonzero row and 0 for zero rows.
func Compute(ctx context.Context, rows []vectorize.Vector, opts Options) (*Matrix, error) {
	n := len(rows)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return m, nil
	}

	norms := make([]float64, n)
	for i, row := range rows {
		norms[i] = sumSquares(row)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if norms[i] > 0 {
				m.data[i*n+i] = 1
			}
			for j := i + 1; j < n; j++ {
				s := cosine(rows[i], rows[j], norms[i], norms[j])
				m.data[i*n+j] = s
				m.data[j*n+i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	return m, nil
}
