// Package recommend wires the feature builder, vectorizer, and similarity
// engine into an immutable Model and answers "more like this" queries
// against it.
//
// Build returns an owned Model; nothing is mutated after it is returned, so
// any number of goroutines may query it. Engine holds the current Model behind
// an atomic pointer and swaps in a freshly built one on LoadAndProcess, which
// fully replaces the previous build.
package recommend
