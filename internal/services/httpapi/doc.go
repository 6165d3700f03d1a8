// Package httpapi is the single HTTP adapter used for every outbound call.
//
// Requester applies a fixed deadline, attaches default and per-request
// headers, and folds transport failures and non-2xx statuses into a single
// "no result" outcome after logging them. Callers branch on the boolean and
// never see transport errors, which keeps network trouble recoverable.
package httpapi
