// Package integrations provides the shared HTTP client used by upstream API
// clients.
//
// # Overview
//
// Each upstream has its own subpackage built on [Client]:
//
//   - [github]: GitHub REST API (repositories, languages, READMEs)
//
// # Client Pattern
//
// Upstream clients embed [Client] and wrap each endpoint in [Client.Cached]:
//
//	gh := github.NewClient(token, httputil.NewCache(backend, time.Hour))
//	repos, err := gh.ListRepos(ctx, "octocat", false)  // false = use cache
//
// [Client] handles:
//   - default headers and per-request header overrides
//   - retries of transient failures via [httputil.RetryWithBackoff]
//   - response caching through [httputil.Cache]
//   - HTTP events reported to [observability.HTTP]
//
// # Errors
//
// Status codes map to errors as follows:
//
//   - 404: [ErrNotFound]
//   - 401: an [errors.Error] with code UNAUTHORIZED
//   - 429, or 403 with an exhausted quota: [errors.RateLimitedError]
//   - 5xx and transport failures: [ErrNetwork] wrapped in a
//     [httputil.RetryableError]
//
// [github]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/integrations/github
// [errors.Error]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/errors#Error
// [errors.RateLimitedError]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/errors#RateLimitedError
// [observability.HTTP]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/observability#HTTP
package integrations
