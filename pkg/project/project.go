package project

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

// Default option values.
const (
	DefaultLanguageThreshold = 0.10
	DefaultConcurrency       = 8
)

// DefaultExcludeKeywords mark repositories their owner does not want listed.
var DefaultExcludeKeywords = []string{"UNLISTED", "EMPTY"}

// Project is one portfolio entry built from a GitHub repository.
type Project struct {
	ID          int64     `json:"id" yaml:"id" bson:"id"`
	Title       string    `json:"title" yaml:"title" bson:"title"`
	Description string    `json:"description" yaml:"description" bson:"description"`
	RepoURL     string    `json:"repoUrl" yaml:"repoUrl" bson:"repo_url"`
	LiveURL     *string   `json:"liveUrl" yaml:"liveUrl" bson:"live_url"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt" bson:"updated_at"`
	Topics      []string  `json:"topics" yaml:"topics" bson:"topics"`
	Languages   []string  `json:"languages" yaml:"languages" bson:"languages"`
	ImageURL    *string   `json:"imageUrl" yaml:"imageUrl" bson:"image_url"`
	Archived    bool      `json:"archived" yaml:"archived" bson:"archived"`
	Stars       int       `json:"stars" yaml:"stars" bson:"stars"`
}

// Source is the upstream a portfolio is built from. *github.Client
// implements it.
type Source interface {
	ListRepos(ctx context.Context, user string, refresh bool) ([]github.Repo, error)
	Languages(ctx context.Context, languagesURL string, refresh bool) (map[string]int, error)
	Readme(ctx context.Context, owner, repo string, refresh bool) (string, error)
}

var _ Source = (*github.Client)(nil)

// Options controls which repositories are listed and how projects are built.
type Options struct {
	// ExcludeKeywords drops repositories whose description contains any of
	// these substrings (case-sensitive). Nil means DefaultExcludeKeywords;
	// an empty non-nil slice excludes nothing.
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`

	// LanguageThreshold is the minimum share of a repository's bytes a
	// language needs to be listed. Zero means DefaultLanguageThreshold.
	LanguageThreshold float64 `json:"language_threshold"`

	IncludeForks    bool `json:"include_forks"`
	ExcludeArchived bool `json:"exclude_archived"`

	// SkipImages builds projects without fetching READMEs.
	SkipImages bool `json:"skip_images"`

	// Concurrency bounds the number of projects built at once.
	// Zero means DefaultConcurrency.
	Concurrency int `json:"concurrency"`

	// Refresh bypasses cached upstream responses.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero-valued options with their defaults.
func (o *Options) SetDefaults() {
	if o.ExcludeKeywords == nil {
		o.ExcludeKeywords = DefaultExcludeKeywords
	}
	if o.LanguageThreshold <= 0 {
		o.LanguageThreshold = DefaultLanguageThreshold
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// KeyOpts returns the options that change the resulting project list, for
// use in cache keys.
func (o Options) KeyOpts() cache.ProjectsKeyOpts {
	return cache.ProjectsKeyOpts{
		ExcludeKeywords:   o.ExcludeKeywords,
		LanguageThreshold: o.LanguageThreshold,
		IncludeForks:      o.IncludeForks,
		ExcludeArchived:   o.ExcludeArchived,
		SkipImages:        o.SkipImages,
	}
}
