package vectorize

import (
	"reflect"
	"testing"
)

func TestTokenizeSplitsOnPipeOnly(t *testing.T) {
	got := Tokenize("dark|funny funny|witty")
	want := []string{"dark", "funny funny", "witty"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %q, want %q", got, want)
	}
	if Tokenize("") != nil {
		t.Fatal("expected nil tokens for empty bag")
	}
	if got := Tokenize("a||b|"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("empty tokens not dropped: %q", got)
	}
}

func TestFitTransformBuildsSortedVocabulary(t *testing.T) {
	m := FitTransform([]string{"zombie|gore", "gore|Gore|action", ""}, Options{Lowercase: true})

	wantVocab := []string{"action", "gore", "zombie"}
	if !reflect.DeepEqual(m.Vocabulary, wantVocab) {
		t.Fatalf("vocabulary = %q, want %q", m.Vocabulary, wantVocab)
	}
	if len(m.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.Rows))
	}
	if !reflect.DeepEqual(m.Rows[0], Vector{Indices: []int{1, 2}, Counts: []float64{1, 1}}) {
		t.Fatalf("row 0 = %+v", m.Rows[0])
	}
	if !reflect.DeepEqual(m.Rows[1], Vector{Indices: []int{0, 1}, Counts: []float64{1, 2}}) {
		t.Fatalf("row 1 = %+v", m.Rows[1])
	}
	if !m.Rows[2].IsZero() || m.Rows[2].Norm() != 0 {
		t.Fatalf("expected zero vector for empty bag, got %+v", m.Rows[2])
	}
}

func TestFitTransformPreservesCaseWhenDisabled(t *testing.T) {
	m := FitTransform([]string{"Pixar|pixar"}, Options{})
	if !reflect.DeepEqual(m.Vocabulary, []string{"Pixar", "pixar"}) {
		t.Fatalf("vocabulary = %q", m.Vocabulary)
	}
}

func TestFitTransformIsDeterministic(t *testing.T) {
	docs := []string{"c|b|a", "b|d", "e|a|c d"}
	first := FitTransform(docs, Options{Lowercase: true})
	for i := 0; i < 5; i++ {
		again := FitTransform(docs, Options{Lowercase: true})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestVectorDotAndNorm(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Counts: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 3, 5}, Counts: []float64{4, 1, 1}}
	if got := a.Dot(b); got != 11 {
		t.Fatalf("Dot = %v, want 11", got)
	}
	if got := a.Dot(b); got != b.Dot(a) {
		t.Fatalf("Dot not symmetric")
	}
	if got := (Vector{Indices: []int{1}, Counts: []float64{3}}).Norm(); got != 3 {
		t.Fatalf("Norm = %v, want 3", got)
	}
}
