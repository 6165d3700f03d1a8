// Package config loads, normalizes, and validates Plexorcist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLEX_TOKEN. The Config type centralizes every knob the cleanup run and CLI
// need: Plex server coordinates, library selectors, the retention window,
// whitelist entries, notification endpoints, localized messages, and the
// directories used for logs, reports, and run history.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors. The interactive updater in
// prompt.go writes the same TOML layout back to disk.
package config
