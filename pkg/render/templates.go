package render

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/matzehuels/folio/pkg/errors"
)

// link returns the URL behind u if it is an http(s) URL, else "".
func link(u *string) string {
	if u == nil || errors.ValidateURL(*u) != nil {
		return ""
	}
	return *u
}

var funcs = map[string]any{
	"link": link,
	"join": strings.Join,
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
}

var markdownTemplate = texttemplate.Must(texttemplate.New("markdown").Funcs(funcs).Parse(`# {{.Site.Title}}
{{- with .Site.Description}}

{{.}}
{{- end}}
{{range $p := .Projects}}
## {{$p.Title}}{{if $p.Archived}} (archived){{end}}
{{- with $p.Description}}

{{.}}
{{- end}}
{{- with link $p.ImageURL}}

![{{$p.Title}}]({{.}})
{{- end}}

- Repository: {{$p.RepoURL}}
{{- with link $p.LiveURL}}
- Live: {{.}}
{{- end}}
{{- with $p.Languages}}
- Languages: {{join . ", "}}
{{- end}}
{{- with $p.Topics}}
- Topics: {{join . ", "}}
{{- end}}
- Updated: {{date $p.UpdatedAt}}
{{end}}`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="folio">
<title>{{.Site.Title}}</title>
{{- with .Site.Description}}
<meta name="description" content="{{.}}">
{{- end}}
<style>
body { font-family: system-ui, sans-serif; max-width: 64rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
.projects { display: grid; grid-template-columns: repeat(auto-fill, minmax(18rem, 1fr)); gap: 1rem; }
.project { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; }
.project.archived { opacity: 0.6; }
.project img { max-width: 100%; border-radius: 4px; }
.tags span { display: inline-block; font-size: 0.8rem; background: #eef; border-radius: 4px; padding: 0 0.4rem; margin: 0 0.2rem 0.2rem 0; }
footer { margin-top: 2rem; font-size: 0.8rem; color: #777; }
</style>
</head>
<body>
<h1>{{.Site.Title}}</h1>
{{- with .Site.Description}}
<p>{{.}}</p>
{{- end}}
<main class="projects">
{{- range .Projects}}
<article class="project{{if .Archived}} archived{{end}}">
{{- with link .ImageURL}}
<img src="{{.}}" alt="" loading="lazy">
{{- end}}
<h2><a href="{{.RepoURL}}">{{.Title}}</a></h2>
{{- with .Description}}
<p>{{.}}</p>
{{- end}}
{{- with link .LiveURL}}
<p><a href="{{.}}">Live site</a></p>
{{- end}}
{{- with .Languages}}
<div class="tags languages">{{range .}}<span>{{.}}</span>{{end}}</div>
{{- end}}
{{- with .Topics}}
<div class="tags topics">{{range .}}<span>{{.}}</span>{{end}}</div>
{{- end}}
</article>
{{- end}}
</main>
<footer>Generated for {{.Site.User}} on {{date .Site.GeneratedAt}}.</footer>
</body>
</html>
`))
