// Package notifications pushes run results to the configured channels.
//
// Three channels are supported: an IFTTT webhook, an ntfy topic and
// Pushbullet. Each configured channel is validated and sent independently, so
// a broken endpoint never keeps the others from firing. Invalid addresses are
// reported with the localized configuration message instead of being called.
package notifications
