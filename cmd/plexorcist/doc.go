// Package main hosts the Plexorcist CLI entrypoint and command graph.
//
// Invoked without a subcommand, plexorcist performs one cleanup pass: it
// deletes watched items from the configured Plex libraries, writes the CSV
// report and run history, and sends notifications. Subcommands cover
// configuration scaffolding, library discovery, run history, preflight
// checks and notification testing.
//
// Keep this package lean: the heavy lifting lives in internal/workflow and
// the packages it composes; commands here only wire configuration, logging
// and clients together and render results.
package main
