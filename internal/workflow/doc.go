// Package workflow runs one cleanup pass over the configured Plex libraries.
//
// The Runner holds a file lock for the duration of the pass so overlapping
// scheduled invocations fail fast, resolves library selectors, filters each
// library's leaves through the retention policy, hands eligible items to the
// cleanup engine, and publishes every library summary through the reporter
// and the run history. The retention policy is computed once per run and
// shared by every library.
package workflow
