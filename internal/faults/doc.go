// Package faults defines the error markers shared by every build phase.
//
// Each marker classifies a failure for the top-level boundary: a required
// catalog record was missing, the identifier namespace ran out, a builder
// rejected its input, a link pointed at an unregistered record, a guardrail
// check failed, or the package could not be written. Wrap attaches the phase
// and operation to the message while keeping the marker visible to errors.Is.
//
// Optional catalog misses are deliberately absent from this list: they are
// not errors and never reach the boundary.
package faults
