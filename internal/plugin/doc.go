// Package plugin serializes a sealed package into a TES4-style binary
// content plugin.
//
// The file is a TES4 header record (version, record count, author and
// masters) followed by one top-level group per record type. Records carry a
// 24-byte header and a list of typed subrecords. Identifiers are written as
// 32-bit form ids whose high byte indexes the masters list; records owned by
// the package use the index one past the last master.
//
// Output is a pure function of the package and the masters policy, so two
// builds of the same inputs produce identical bytes.
package plugin
