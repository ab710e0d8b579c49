package cache

import "strings"

// Keyer builds cache keys for every kind of cached value.
type Keyer interface {
	// HTTPKey returns the key for a cached API response.
	HTTPKey(namespace, key string) string
	// ProjectsKey returns the key for a user's rendered project list.
	ProjectsKey(user string, opts ProjectsKeyOpts) string
}

// ProjectsKeyOpts holds the pipeline options that change the project list.
type ProjectsKeyOpts struct {
	ExcludeKeywords   []string `json:"exclude_keywords,omitempty"`
	LanguageThreshold float64  `json:"language_threshold"`
	IncludeForks      bool     `json:"include_forks"`
	ExcludeArchived   bool     `json:"exclude_archived"`
	SkipImages        bool     `json:"skip_images"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ProjectsKey returns "projects:<hash>" over the lower-cased user and opts.
// GitHub logins are case-insensitive.
func (DefaultKeyer) ProjectsKey(user string, opts ProjectsKeyOpts) string {
	return hashKey("projects", strings.ToLower(user), opts)
}

// ScopedKeyer wraps a Keyer with a prefix, e.g. to separate authenticated
// results (which may include more data) from anonymous ones.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ProjectsKey generates a prefixed key for project list caching.
func (k *ScopedKeyer) ProjectsKey(user string, opts ProjectsKeyOpts) string {
	return k.prefix + k.inner.ProjectsKey(user, opts)
}
