package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// usernameRegex matches GitHub logins: alphanumerics and single hyphens,
// not starting or ending with a hyphen.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)

// ValidateUsername validates a GitHub username before it is placed in an
// API URL. Logins are at most 39 characters.
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}
	if len(name) > 39 {
		return New(ErrCodeInvalidUsername, "username too long (max 39 characters)")
	}
	if !usernameRegex.MatchString(name) {
		return New(ErrCodeInvalidUsername, "invalid GitHub username: %q", name)
	}
	return nil
}

// ValidateRepoName validates a repository name for safety.
// GitHub allows alphanumerics, '-', '_' and '.', but not "." or "..".
func ValidateRepoName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "repository name cannot be empty")
	}
	if len(name) > 100 {
		return New(ErrCodeInvalidInput, "repository name too long (max 100 characters)")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "invalid repository name: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) || !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.", r)) {
			return New(ErrCodeInvalidInput, "repository name contains invalid characters: %q", name)
		}
	}
	return nil
}

// ParseRepoPath splits "owner/repo" and validates both halves.
func ParseRepoPath(path string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(path, "/")
	if !ok {
		return "", "", New(ErrCodeInvalidInput, "expected owner/repo, got %q", path)
	}
	if err := ValidateUsername(owner); err != nil {
		return "", "", err
	}
	if err := ValidateRepoName(repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

// ValidateFormat checks that format is one of the supported values.
func ValidateFormat(format string, supported []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(supported, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", format, strings.Join(supported, ", "))
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
