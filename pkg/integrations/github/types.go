package github

import (
	"strings"
	"time"
)

// Repo is a public repository as listed by the GitHub API.
type Repo struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Description   *string    `json:"description"`
	HTMLURL       string     `json:"html_url"`
	Homepage      *string    `json:"homepage"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PushedAt      *time.Time `json:"pushed_at"`
	Topics        []string   `json:"topics"`
	LanguagesURL  string     `json:"languages_url"`
	DefaultBranch string     `json:"default_branch"`
	Fork          bool       `json:"fork"`
	Archived      bool       `json:"archived"`
	Stars         int        `json:"stargazers_count"`
}

// Owner returns the login part of FullName, or "" if FullName is unset.
func (r Repo) Owner() string {
	owner, _, ok := strings.Cut(r.FullName, "/")
	if !ok {
		return ""
	}
	return owner
}

// apiContentResponse is the GitHub API response for file content.
type apiContentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}
