// Package server exposes project lists over HTTP.
//
// # Routes
//
//	GET /healthz                           liveness and build version
//	GET /v1/users/{user}/projects          projects as JSON (?refresh=1 bypasses the cache)
//	GET /v1/users/{user}/projects.{ext}    projects rendered as json, yaml, md or html
//	GET /v1/users/{user}/snapshot          the latest stored snapshot
//
// Every freshly built list (a cache miss) is saved as a snapshot, so the
// snapshot route keeps answering while GitHub is rate limited.
//
// Errors are JSON objects {"code", "message", "requestId"} where code is one
// of the codes from the errors package: INVALID_* map to 400, NOT_FOUND to
// 404, RATE_LIMITED to 429 (with Retry-After), upstream failures to 502 and
// everything else to 500.
//
// Each request carries an ID, taken from X-Request-ID or generated, which
// is echoed back and attached to its log lines.
package server
