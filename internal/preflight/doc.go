// Package preflight provides readiness checks for the dataset files and the
// state directory cinematch depends on.
//
// The CLI "cinematch check" command runs RunAll and renders the results; the
// server runs the same checks before its first build and refuses to start
// when any fail.
package preflight
