// Package guardrail runs the fixed, ordered structural checks a package must
// pass before it is emitted.
//
// Each Check is a pure predicate over a sealed package that passes or fails
// with one message naming the offending record. Evaluation stops at the
// first failure; later checks never run. Default lists the built-in checks
// in evaluation order: the six quest and greeting rules first, then the
// graph-wide consistency checks.
package guardrail
