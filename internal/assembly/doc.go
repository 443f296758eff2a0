// Package assembly runs the single build pass that turns a content manifest
// and an external catalog into a sealed, validated package.
//
// The pass resolves catalog records, allocates identifiers, builds and
// registers records in dependency order, links them, binds the scripts,
// seals the registry and runs the guardrail checks. Any failure aborts the
// pass; a partially built package is never returned.
package assembly
