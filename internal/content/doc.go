// Package content defines the manifest that drives a companion build: the
// catalog names to resolve, the quest stage table, the dialogue lines, the
// scene layout and the script property schemas.
//
// Manifests are TOML or YAML. Default returns the embedded companion used
// when no manifest is configured.
package content
