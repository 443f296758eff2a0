// Package config loads, normalizes, and validates companionforge settings.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COMPANIONFORGE_CATALOG. The Config type gathers where the external catalog
// lives, where packages are written, how the package is named and how its
// masters are ordered, which content manifest drives the build, and how logs
// are rendered.
package config
