// Package services defines shared utilities consumed by the cleanup workflow
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, library section IDs, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     fatal for the run (configuration, malformed data) or recoverable
//     (transport, missing resources).
//
// The HTTP adapter shared by the Plex and notification clients lives in the
// httpapi subpackage; the Plex API itself lives in plex.
package services
