package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/folio/pkg/httputil"
	"github.com/matzehuels/folio/pkg/integrations"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	perPage  = 100
	maxPages = 10
)

// Client provides access to the GitHub REST API for portfolio data.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
// A nil cache disables response caching.
func NewClient(token string, cache *httputil.Cache) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	if cache != nil {
		cache = cache.Namespace("github:")
	}
	return &Client{
		Client:  integrations.NewClient(cache, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise instance.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// ListRepos returns the public repositories of user, most recently updated
// first. Pages are followed until a short page, up to 1000 repositories.
func (c *Client) ListRepos(ctx context.Context, user string, refresh bool) ([]Repo, error) {
	key := "repos:" + strings.ToLower(user)

	var repos []Repo
	err := c.Cached(ctx, key, refresh, &repos, func() error {
		var err error
		repos, err = c.fetchRepos(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) fetchRepos(ctx context.Context, user string) ([]Repo, error) {
	var all []Repo
	for page := 1; page <= maxPages; page++ {
		u := fmt.Sprintf("%s/users/%s/repos?type=public&per_page=%d&sort=updated&page=%d",
			c.baseURL, url.PathEscape(user), perPage, page)

		var repos []Repo
		if err := c.Get(ctx, u, &repos); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return nil, fmt.Errorf("%w: github user %s", err, user)
			}
			return nil, err
		}
		all = append(all, repos...)
		if len(repos) < perPage {
			break
		}
	}
	return all, nil
}

// Repo returns a single repository.
func (c *Client) Repo(ctx context.Context, owner, name string, refresh bool) (*Repo, error) {
	key := "repo:" + strings.ToLower(owner+"/"+name)

	var repo Repo
	err := c.Cached(ctx, key, refresh, &repo, func() error {
		u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(name))
		if err := c.Get(ctx, u, &repo); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// Languages returns the number of bytes written in each language, fetched
// from a repository's languages_url. A non-OK response yields an empty map;
// transport failures and cancellation are returned as errors.
func (c *Client) Languages(ctx context.Context, languagesURL string, refresh bool) (map[string]int, error) {
	langs := map[string]int{}
	err := c.Cached(ctx, "languages:"+languagesURL, refresh, &langs, func() error {
		return c.Get(ctx, languagesURL, &langs)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("fetch languages: %w", err)
		}
		return map[string]int{}, nil
	}
	return langs, nil
}

// Readme returns the decoded README of a repository. It returns an error
// wrapping [integrations.ErrNotFound] when the repository has none.
func (c *Client) Readme(ctx context.Context, owner, name string, refresh bool) (string, error) {
	key := "readme:" + strings.ToLower(owner+"/"+name)

	var text string
	err := c.Cached(ctx, key, refresh, &text, func() error {
		u := fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, url.PathEscape(owner), url.PathEscape(name))
		var resp apiContentResponse
		if err := c.Get(ctx, u, &resp); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: readme of %s/%s", err, owner, name)
			}
			return err
		}
		decoded, err := decodeContent(resp)
		if err != nil {
			return fmt.Errorf("decode readme of %s/%s: %w", owner, name, err)
		}
		text = decoded
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func decodeContent(resp apiContentResponse) (string, error) {
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return resp.Content, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
