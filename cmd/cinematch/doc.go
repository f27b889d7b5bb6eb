// Package main hosts the cinematch CLI entrypoint and command graph.
//
// The Cobra-based command tree loads the datasets, builds the recommendation
// model in-process, answers queries, serves the HTTP API, and inspects the
// build/query history. It centralizes configuration resolution and logger
// setup so subcommands can focus on output.
//
// Keep this package lean: new behavior belongs in the internal packages and is
// surfaced here through dedicated commands or flags.
package main
