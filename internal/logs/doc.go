// Package logs reads back the rotating Plexorcist log file.
//
// The CLI records the file offset before a run and, with --show-log, prints
// only the lines that run appended. LastLines serves the fallback when the
// offset is unknown.
package logs
