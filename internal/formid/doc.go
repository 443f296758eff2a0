// Package formid defines record identifiers and the allocator that issues them
// inside a package namespace.
//
// An ID pairs the plugin file that owns the record with a 24-bit local number.
// Identifiers from other plugins (the external catalog) use the same type, so
// references compare by value regardless of where the target lives.
package formid
