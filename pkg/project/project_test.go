package project

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/folio/pkg/cache"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/indirect"
	"github.com/matzehuels/folio/pkg/integrations"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

type fakeSource struct {
	mu        sync.Mutex
	repos     []github.Repo
	listErr   error
	languages map[string]map[string]int
	langErr   map[string]error
	readmes   map[string]string
	readmeErr error

	listCalls   int
	langCalls   map[string]int
	readmeCalls map[string]int
}

func newFakeSource(repos ...github.Repo) *fakeSource {
	return &fakeSource{
		repos:       repos,
		languages:   map[string]map[string]int{},
		langErr:     map[string]error{},
		readmes:     map[string]string{},
		langCalls:   map[string]int{},
		readmeCalls: map[string]int{},
	}
}

func (f *fakeSource) ListRepos(_ context.Context, _ string, _ bool) ([]github.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.repos, f.listErr
}

func (f *fakeSource) Languages(_ context.Context, u string, _ bool) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.langCalls[u]++
	if err := f.langErr[u]; err != nil {
		return nil, err
	}
	if l, ok := f.languages[u]; ok {
		return l, nil
	}
	return map[string]int{}, nil
}

func (f *fakeSource) Readme(_ context.Context, owner, repo string, _ bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := owner + "/" + repo
	f.readmeCalls[key]++
	if f.readmeErr != nil {
		return "", f.readmeErr
	}
	text, ok := f.readmes[key]
	if !ok {
		return "", fmt.Errorf("%w: readme of %s", integrations.ErrNotFound, key)
	}
	return text, nil
}

func ptr[T any](v T) *T { return &v }

func testRepo(name string) github.Repo {
	return github.Repo{
		ID:            int64(len(name)),
		Name:          name,
		FullName:      "octocat/" + name,
		Description:   ptr("about " + name),
		HTMLURL:       "https://github.com/octocat/" + name,
		CreatedAt:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		LanguagesURL:  "https://api.github.com/repos/octocat/" + name + "/languages",
		DefaultBranch: "main",
	}
}

func TestFilter(t *testing.T) {
	fork := testRepo("fork")
	fork.Fork = true
	unlisted := testRepo("unlisted")
	unlisted.Description = ptr("wip, UNLISTED for now")
	lower := testRepo("lower")
	lower.Description = ptr("unlisted in lower case")
	noDesc := testRepo("nodesc")
	noDesc.Description = nil
	archived := testRepo("archived")
	archived.Archived = true
	plain := testRepo("plain")

	repos := []github.Repo{fork, unlisted, lower, noDesc, archived, plain}

	names := func(rs []github.Repo) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"defaults", Options{}, []string{"lower", "nodesc", "archived", "plain"}},
		{"include forks", Options{IncludeForks: true}, []string{"fork", "lower", "nodesc", "archived", "plain"}},
		{"exclude archived", Options{ExcludeArchived: true}, []string{"lower", "nodesc", "plain"}},
		{"no keywords", Options{ExcludeKeywords: []string{}}, []string{"unlisted", "lower", "nodesc", "archived", "plain"}},
		{"custom keyword", Options{ExcludeKeywords: []string{"plain"}}, []string{"unlisted", "lower", "nodesc", "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(repos, tt.opts)))
		})
	}
}

func TestSignificantLanguages(t *testing.T) {
	tests := []struct {
		name  string
		bytes map[string]int
		want  []string
	}{
		{"empty", map[string]int{}, []string{}},
		{"nil", nil, []string{}},
		{"zero total", map[string]int{"Go": 0}, []string{}},
		{"sorted", map[string]int{"TypeScript": 500, "CSS": 300, "Go": 200}, []string{"CSS", "Go", "TypeScript"}},
		{"exact threshold kept", map[string]int{"Go": 900, "Shell": 100}, []string{"Go", "Shell"}},
		{"below threshold dropped", map[string]int{"Go": 910, "Shell": 90}, []string{"Go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignificantLanguages(tt.bytes, DefaultLanguageThreshold))
		})
	}
}

func TestExtractImage(t *testing.T) {
	const repoURL = "https://github.com/octocat/hello"

	tests := []struct {
		name   string
		readme string
		want   *string
	}{
		{"none", "# Hello\nno pictures here", nil},
		{"absolute markdown", "![shot]( https://example.com/a.png )", ptr("https://example.com/a.png")},
		{"relative dot slash", "![shot](./docs/a.png)", ptr("https://raw.githubusercontent.com/octocat/hello/main/docs/a.png")},
		{"relative bare", "![shot](docs/a.png)", ptr("https://raw.githubusercontent.com/octocat/hello/main/docs/a.png")},
		{"parent kept", "![shot](../a.png)", ptr("https://raw.githubusercontent.com/octocat/hello/main/../a.png")},
		{"html double quotes", `<p><img width="80" src="https://example.com/b.png"></p>`, ptr("https://example.com/b.png")},
		{"html single quotes", `<img src='logo.svg'/>`, ptr("https://raw.githubusercontent.com/octocat/hello/main/logo.svg")},
		{"markdown first", "![a](https://x/a.png)\n<img src=\"https://x/b.png\">", ptr("https://x/a.png")},
		{"html first", "<img src=\"https://x/b.png\">\n![a](https://x/a.png)", ptr("https://x/b.png")},
		{"empty target", "![a]()", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractImage(tt.readme, repoURL, "main"))
		})
	}
}

func TestBuild(t *testing.T) {
	repo := testRepo("hello")
	repo.Homepage = ptr("https://hello.example.com")
	pushed := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.PushedAt = &pushed
	repo.Stars = 42

	src := newFakeSource(repo)
	src.languages[repo.LanguagesURL] = map[string]int{"Go": 950, "Makefile": 50}
	src.readmes["octocat/hello"] = "# Hello\n![logo](./logo.png)"

	p, err := Build(context.Background(), src, repo, Options{})
	require.NoError(t, err)

	assert.Equal(t, repo.ID, p.ID)
	assert.Equal(t, "hello", p.Title)
	assert.Equal(t, "about hello", p.Description)
	assert.Equal(t, "https://github.com/octocat/hello", p.RepoURL)
	assert.Equal(t, ptr("https://hello.example.com"), p.LiveURL)
	assert.Equal(t, repo.CreatedAt, p.CreatedAt)
	assert.Equal(t, pushed, p.UpdatedAt)
	assert.Equal(t, []string{}, p.Topics)
	assert.Equal(t, []string{"Go"}, p.Languages)
	assert.Equal(t, ptr("https://raw.githubusercontent.com/octocat/hello/main/logo.png"), p.ImageURL)
	assert.Equal(t, 42, p.Stars)

	assert.Equal(t, 1, src.langCalls[repo.LanguagesURL])
	assert.Equal(t, 1, src.readmeCalls["octocat/hello"])
}

func TestBuild_NullableFields(t *testing.T) {
	repo := testRepo("bare")
	repo.Description = nil
	repo.Homepage = ptr("")
	repo.PushedAt = nil

	p, err := Build(context.Background(), newFakeSource(repo), repo, Options{})
	require.NoError(t, err)

	assert.Empty(t, p.Description)
	assert.Nil(t, p.LiveURL)
	assert.Equal(t, repo.UpdatedAt, p.UpdatedAt)
	assert.Nil(t, p.ImageURL, "missing README yields no image")
	assert.Equal(t, []string{}, p.Languages)
}

func TestBuild_SkipImagesFetchesNoReadme(t *testing.T) {
	repo := testRepo("hello")
	src := newFakeSource(repo)
	src.readmes["octocat/hello"] = "![logo](./logo.png)"

	p, err := Build(context.Background(), src, repo, Options{SkipImages: true})
	require.NoError(t, err)
	assert.Nil(t, p.ImageURL)
	assert.Zero(t, src.readmeCalls["octocat/hello"])
}

func TestBuild_ReadmeFailureIsNotFatal(t *testing.T) {
	repo := testRepo("hello")
	src := newFakeSource(repo)
	src.readmeErr = errors.New("connection reset")

	p, err := Build(context.Background(), src, repo, Options{})
	require.NoError(t, err)
	assert.Nil(t, p.ImageURL)
}

func TestBuild_LanguageFailureIsFatal(t *testing.T) {
	repo := testRepo("hello")
	src := newFakeSource(repo)
	boom := errors.New("boom")
	src.langErr[repo.LanguagesURL] = boom

	_, err := Build(context.Background(), src, repo, Options{})
	require.ErrorIs(t, err, boom)

	var fe *indirect.FieldError[string]
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldLanguageBytes, fe.Key)
}

func TestBuild_OwnerFromURL(t *testing.T) {
	repo := testRepo("hello")
	repo.FullName = ""
	src := newFakeSource(repo)
	src.readmes["octocat/hello"] = "![x](https://x/y.png)"

	p, err := Build(context.Background(), src, repo, Options{})
	require.NoError(t, err)
	assert.Equal(t, ptr("https://x/y.png"), p.ImageURL)
}

func TestBuildObserved(t *testing.T) {
	repo := testRepo("hello")
	tr := indirect.NewTrace[string]()

	_, err := BuildObserved(context.Background(), newFakeSource(repo), repo, Options{}, tr)
	require.NoError(t, err)

	assert.Equal(t, []string{FieldReadme, FieldRepoURL, FieldBranch}, tr.Dependencies(FieldImageURL))
	assert.Equal(t, []string{FieldOwner}, tr.Dependencies(FieldReadme))
	assert.Equal(t, []string{FieldLanguageBytes}, tr.Dependencies(FieldLanguages))
	assert.Len(t, tr.Order, Definitions(context.Background(), nil, repo, Options{}).Len())
}

func TestPipeline_Run(t *testing.T) {
	fork := testRepo("fork")
	fork.Fork = true
	repos := []github.Repo{testRepo("one"), fork, testRepo("two"), testRepo("three")}
	src := newFakeSource(repos...)

	projects, err := NewPipeline(src, Options{Concurrency: 2}).Run(context.Background(), "octocat")
	require.NoError(t, err)

	var titles []string
	for _, p := range projects {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"one", "two", "three"}, titles, "listing order is preserved")
	assert.Equal(t, 1, src.listCalls)
}

func TestPipeline_RunAllOrNothing(t *testing.T) {
	bad := testRepo("bad")
	src := newFakeSource(testRepo("good"), bad)
	src.langErr[bad.LanguagesURL] = errors.New("boom")

	projects, err := NewPipeline(src, Options{}).Run(context.Background(), "octocat")
	require.Error(t, err)
	assert.Nil(t, projects)
	assert.Contains(t, err.Error(), "build bad")
}

func TestPipeline_RunInvalidUser(t *testing.T) {
	src := newFakeSource()
	_, err := NewPipeline(src, Options{}).Run(context.Background(), "-nope-")
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidUsername))
	assert.Zero(t, src.listCalls)
}

func TestPipeline_RunListError(t *testing.T) {
	src := newFakeSource()
	src.listErr = integrations.ErrNotFound

	_, err := NewPipeline(src, Options{}).Run(context.Background(), "ghost")
	assert.ErrorIs(t, err, integrations.ErrNotFound)
}

func TestRunner_CachesProjectLists(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer fc.Close()

	src := newFakeSource(testRepo("one"))
	r := NewRunner(src, fc, nil, nil)

	first, err := r.Execute(context.Background(), "octocat", Options{})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Execute(context.Background(), "OctoCat", Options{})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Projects[0].Title, second.Projects[0].Title)
	assert.Equal(t, 1, src.listCalls)

	// Different options use a different key.
	_, err = r.Execute(context.Background(), "octocat", Options{SkipImages: true})
	require.NoError(t, err)
	assert.Equal(t, 2, src.listCalls)

	// Refresh bypasses the cache.
	third, err := r.Execute(context.Background(), "octocat", Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.Equal(t, 3, src.listCalls)
}
