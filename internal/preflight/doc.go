// Package preflight provides readiness checks for the filesystem paths and
// inputs a build depends on.
//
// These checks run in two contexts:
//   - The build command calls RunAll before assembling; any failure stops the
//     run before the catalog is read.
//   - The CLI "config validate" command renders every result as a status
//     table.
package preflight
