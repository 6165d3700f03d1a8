// Package cleanup deletes eligible library entries and accounts for the
// space reclaimed.
//
// Engine.Process walks the eligible entries of one library in order, skips
// whitelisted titles, issues one delete per remaining entry, and returns a
// Summary with per-item megabytes and a total in gigabytes, both rounded to
// two decimals. Delete failures never stop the loop. Whether an unconfirmed
// delete still counts toward the totals is controlled by strict accounting.
package cleanup
