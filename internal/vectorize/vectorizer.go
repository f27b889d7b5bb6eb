package vectorize

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Delimiter separates tokens inside a tag bag.
const Delimiter = "|"

// Vector is a sparse count vector. Indices are ascending and unique.
type Vector struct {
	Indices []int
	Counts  []float64
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, c := range v.Counts {
		sum += c * c
	}
	return math.Sqrt(sum)
}

// IsZero reports whether v has no nonzero entries.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Dot returns the inner product of v and w.
func (v Vector) Dot(w Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(w.Indices) {
		switch {
		case v.Indices[i] == w.Indices[j]:
			sum += v.Counts[i] * w.Counts[j]
			i++
			j++
		case v.Indices[i] < w.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Matrix holds one vector per input document over Vocabulary.
type Matrix struct {
	Vocabulary []string
	Rows       []Vector
}

// Options tunes tokenization.
type Options struct {
	// Lowercase folds tokens to lower case before counting.
	Lowercase bool
}

// Tokenize splits a bag on Delimiter and drops empty tokens.
func Tokenize(bag string) []string {
	if bag == "" {
		return nil
	}
	parts := strings.Split(bag, Delimiter)
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FitTransform learns the vocabulary of docs and returns their count vectors
// in input order. Empty documents produce zero vectors.
func FitTransform(docs []string, opts Options) Matrix {
	lower := cases.Lower(language.Und)
	tokenized := make([][]string, len(docs))
	seen := make(map[string]struct{})
	for i, doc := range docs {
		tokens := Tokenize(doc)
		if opts.Lowercase {
			for j, tok := range tokens {
				tokens[j] = lower.String(tok)
			}
		}
		tokenized[i] = tokens
		for _, tok := range tokens {
			seen[tok] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(seen))
	for tok := range seen {
		vocab = append(vocab, tok)
	}
	slices.Sort(vocab)
	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}

	rows := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		rows[i] = countVector(tokens, index)
	}
	return Matrix{Vocabulary: vocab, Rows: rows}
}

func countVector(tokens []string, index map[string]int) Vector {
	if len(tokens) == 0 {
		return Vector{}
	}
	counts := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		counts[index[tok]]++
	}
	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	slices.Sort(indices)
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = counts[idx]
	}
	return Vector{Indices: indices, Counts: values}
}
