// Package server owns a long-running cinematch instance: it enforces a
// single instance per state directory with a file lock, builds the model
// from the configured datasets, serves the HTTP API, and rebuilds on demand.
//
// The same Server type backs the one-shot CLI commands. They call Rebuild and
// Recommend directly without Start, so no lock or listener is involved.
package server
