// Package textutil provides text helpers shared by the catalog and the CLI:
// trigram fingerprints for fuzzy editor id suggestions, filename
// sanitizing, and display labels.
//
// Fingerprints are character trigram frequency vectors over the lowercased
// text, padded so that leading and trailing characters carry weight.
// Editor ids are single CamelCase words, so word tokenization would not
// compare them usefully.
package textutil
