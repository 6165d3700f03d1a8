// Package preflight provides readiness checks for the Plex server, the
// configured libraries, notification endpoints and the local paths
// Plexorcist writes to.
//
// The CLI "plexorcist doctor" command runs RunAll and renders the results
// as a table. Individual checks are exported so callers can run just the
// ones they need. Checks never modify server state.
package preflight
