// Package catalog resolves pre-existing records from the read-only external
// content universe.
//
// A Catalog answers three questions: which definition of an editor id wins
// for a kind, which records of a kind exist (winning overrides, highest
// priority first), and what the load order is. Store answers them from a
// SQLite snapshot opened read-only; Memory answers them from a slice and backs
// the tests. Import seeds a Store from a TOML or YAML listing and is the only
// code path that writes to a catalog.
//
// Resolver sits on top and is what builds call. Each lookup returns a
// Resolution that is either found or not found; the call site decides whether
// absence is fatal (Required) or merely drops a feature (Optional, Match).
// Nothing is cached across builds, so a changed catalog is picked up by the
// next run.
package catalog
