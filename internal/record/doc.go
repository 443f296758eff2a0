// Package record holds the in-memory model of a content package: the record
// variants, the conditions and script bindings they carry, and the
// package-scoped registry that owns them.
//
// Records own their sub-structures (stages, aliases, phases, response groups)
// by value or pointer; every relationship that crosses records is stored as a
// formid.ID so the graph stays a DAG rooted at the registry. Records implement
// Refs so checks can walk every outgoing reference without knowing the
// variant.
//
// The registry is not synchronized. A build pass owns it exclusively, seals it
// once linking is done, and hands the sealed Package to validation and
// emission.
package record
