// Package linker records cross-record relationships by identifier.
//
// Both ends of every relationship must already be registered: the linker
// never creates records and rejects forward references with
// faults.ErrDanglingReference. Once the registry is sealed every call fails
// with record.ErrSealed.
package linker
