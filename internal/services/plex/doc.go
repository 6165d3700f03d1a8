// Package plex provides typed access to the Plex Media Server endpoints the
// cleanup job needs: library sections, all leaves of a section, item deletion,
// and the server identity used by readiness checks.
//
// All calls go through httpapi.Requester, so transport trouble surfaces as a
// false "ok" value rather than an error. XML payloads are decoded here and the
// single-versus-list shape of the server's response is normalized to slices
// before anything leaves the package.
package plex
