// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// This package fetches the data a portfolio is built from
// (https://api.github.com):
//
//   - [Client.ListRepos]: a user's public repositories
//   - [Client.Languages]: bytes of code per language for one repository
//   - [Client.Readme]: the decoded README of one repository
//   - [Client.Repo]: a single repository
//
// # Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"), httputil.NewCache(backend, time.Hour))
//
//	repos, err := client.ListRepos(ctx, "octocat", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour. An exhausted quota is
// reported as an [errors.RateLimitedError].
//
// # Caching
//
// Responses are cached under the "github:" namespace of the given
// [httputil.Cache]. Pass refresh=true to bypass the cache.
//
// [errors.RateLimitedError]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/errors#RateLimitedError
package github
