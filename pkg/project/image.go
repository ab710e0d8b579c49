package project

import (
	"regexp"
	"strings"
)

var (
	markdownImage = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)
	htmlImage     = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
)

const rawContentURL = "https://raw.githubusercontent.com/"

// ExtractImage returns the URL of the first image in a README, whether
// written as markdown or as an HTML img tag. Relative URLs are resolved
// against the raw content of branch in the repository at repoURL. It
// returns nil when the README has no image.
func ExtractImage(readme, repoURL, branch string) *string {
	md := markdownImage.FindStringSubmatchIndex(readme)
	html := htmlImage.FindStringSubmatchIndex(readme)

	var loc []int
	switch {
	case md != nil && (html == nil || md[0] < html[0]):
		loc = md
	case html != nil:
		loc = html
	default:
		return nil
	}

	u := strings.TrimSpace(readme[loc[2]:loc[3]])
	if u == "" {
		return nil
	}
	if strings.HasPrefix(u, "./") || strings.HasPrefix(u, "../") || !strings.Contains(u, "://") {
		u = strings.TrimPrefix(u, "./")
		repoPath := strings.Replace(repoURL, "https://github.com/", "", 1)
		u = rawContentURL + repoPath + "/" + branch + "/" + u
	}
	return &u
}
