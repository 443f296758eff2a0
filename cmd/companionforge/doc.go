// Package main hosts the companionforge CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, opens the read-only
// catalog and hands the manifest to the assembly pass. build writes the
// package and its fragment script source; validate and inspect stop before
// emission. catalog import seeds the SQLite catalog from a listing file.
//
// Errors surface through main, which prints one line and exits with the
// status faults.ExitCode picks.
package main
