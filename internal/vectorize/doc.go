// Package vectorize converts pooled tag bags into sparse count vectors over a
// shared vocabulary.
//
// Bags are split on "|" only. The outer space join produced by the feature
// builder is not a token boundary, so "a|b c|d" yields the tokens "a", "b c",
// and "d". The vocabulary is sorted, which keeps column indices stable across
// runs on identical input.
package vectorize
