// Package logging assembles the slog loggers used by the build pipeline and
// the CLI.
//
// It owns the console and JSON handlers, level parsing and output routing,
// and context helpers that stamp every line with the build id and the phase
// (resolve, build, link, validate, emit) it came from. NewNop gives tests and
// wiring code a logger that cannot fail.
package logging
