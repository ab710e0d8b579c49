// Package httputil provides HTTP utilities for the GitHub API client.
//
//   - [Cache]: JSON response caching on top of a [cache.Cache] backend
//   - [Retry]: automatic retry with exponential backoff
//
// # Caching
//
// Usage:
//
//	c := httputil.NewCache(backend, 24*time.Hour)
//	var repos []github.Repo
//	if ok, _ := c.Get(ctx, "repos:octocat", &repos); !ok {
//	    repos = fetchFromAPI()
//	    c.Set(ctx, "repos:octocat", repos)
//	}
//
// Cache hits, misses and writes are reported through the observability
// cache hooks with key type "http".
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError]:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Non-retryable errors (404, decode failures) are returned immediately.
// Cancelling ctx stops the wait between attempts.
package httputil
