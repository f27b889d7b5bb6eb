// Package similarity computes the dense pairwise cosine similarity matrix
// over sparse count vectors.
//
// The matrix is symmetric and built once. Rows are split across a bounded
// errgroup; each worker fills the upper triangle of its rows and mirrors them,
// so no two goroutines write the same cell.
package similarity
