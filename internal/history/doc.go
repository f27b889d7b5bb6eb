// Package history persists a log of model builds and recommendation queries
// in SQLite.
//
// The store keeps one row per build (its run identifier, dataset paths, row
// counts, profile and vocabulary sizes, and duration) and one row per query
// answered against a build. Similarity matrices are never persisted; they are
// recomputed on every build.
package history
