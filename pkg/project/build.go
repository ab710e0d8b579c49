package project

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/folio/pkg/indirect"
	"github.com/matzehuels/folio/pkg/integrations"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

// Field keys of a project definition set.
const (
	FieldID            = "id"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldOwner         = "owner"
	FieldRepoURL       = "repoURL"
	FieldLiveURL       = "liveURL"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
	FieldTopics        = "topics"
	FieldLanguageBytes = "languageBytes"
	FieldLanguages     = "languages"
	FieldReadme        = "readme"
	FieldBranch        = "branch"
	FieldImageURL      = "imageURL"
	FieldArchived      = "archived"
	FieldStars         = "stars"
)

type view = indirect.View[string, any]

// Definitions returns the field definitions that turn repo into a Project.
// Upstream requests happen inside definitions, so each is made at most once
// per resolution. With opts.SkipImages the readme field is left out and no
// README is requested.
func Definitions(ctx context.Context, src Source, repo github.Repo, opts Options) *indirect.Resolver[string, any] {
	opts.SetDefaults()

	r := indirect.New[string, any]().
		Define(FieldID, indirect.Const[string, any](repo.ID)).
		Define(FieldTitle, indirect.Const[string, any](repo.Name)).
		Define(FieldDescription, func(*view) (any, error) {
			if repo.Description == nil {
				return "", nil
			}
			return *repo.Description, nil
		}).
		Define(FieldRepoURL, func(*view) (any, error) {
			return integrations.NormalizeRepoURL(repo.HTMLURL), nil
		}).
		Define(FieldOwner, func(v *view) (any, error) {
			if owner := repo.Owner(); owner != "" {
				return owner, nil
			}
			repoURL, err := indirect.Get[string](v, FieldRepoURL)
			if err != nil {
				return nil, err
			}
			return ownerFromURL(repoURL), nil
		}).
		Define(FieldLiveURL, func(*view) (any, error) {
			if repo.Homepage == nil || *repo.Homepage == "" {
				return (*string)(nil), nil
			}
			u := *repo.Homepage
			return &u, nil
		}).
		Define(FieldCreatedAt, indirect.Const[string, any](repo.CreatedAt)).
		Define(FieldUpdatedAt, func(*view) (any, error) {
			if repo.PushedAt != nil && !repo.PushedAt.IsZero() {
				return *repo.PushedAt, nil
			}
			return repo.UpdatedAt, nil
		}).
		Define(FieldTopics, func(*view) (any, error) {
			if repo.Topics == nil {
				return []string{}, nil
			}
			return repo.Topics, nil
		}).
		Define(FieldLanguageBytes, func(*view) (any, error) {
			return src.Languages(ctx, repo.LanguagesURL, opts.Refresh)
		}).
		Define(FieldLanguages, func(v *view) (any, error) {
			bytes, err := indirect.Get[map[string]int](v, FieldLanguageBytes)
			if err != nil {
				return nil, err
			}
			return SignificantLanguages(bytes, opts.LanguageThreshold), nil
		}).
		Define(FieldBranch, indirect.Const[string, any](repo.DefaultBranch)).
		Define(FieldImageURL, func(v *view) (any, error) {
			if opts.SkipImages {
				return (*string)(nil), nil
			}
			readme, err := indirect.Get[string](v, FieldReadme)
			if err != nil {
				return nil, err
			}
			repoURL, err := indirect.Get[string](v, FieldRepoURL)
			if err != nil {
				return nil, err
			}
			branch, err := indirect.Get[string](v, FieldBranch)
			if err != nil {
				return nil, err
			}
			return ExtractImage(readme, repoURL, branch), nil
		}).
		Define(FieldArchived, indirect.Const[string, any](repo.Archived)).
		Define(FieldStars, indirect.Const[string, any](repo.Stars))

	if !opts.SkipImages {
		r.Define(FieldReadme, func(v *view) (any, error) {
			owner, err := indirect.Get[string](v, FieldOwner)
			if err != nil {
				return nil, err
			}
			text, err := src.Readme(ctx, owner, repo.Name, opts.Refresh)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				if !errors.Is(err, integrations.ErrNotFound) {
					opts.Logger.Warn("failed to fetch README", "repo", repo.Name, "error", err)
				}
				return "", nil
			}
			return text, nil
		})
	}
	return r
}

// Build resolves the definitions of repo into a Project.
func Build(ctx context.Context, src Source, repo github.Repo, opts Options) (*Project, error) {
	return BuildObserved(ctx, src, repo, opts, nil)
}

// BuildObserved is like Build and reports field evaluation to o, which may
// be nil.
func BuildObserved(ctx context.Context, src Source, repo github.Repo, opts Options, o indirect.Observer[string]) (*Project, error) {
	p, _, err := build(ctx, src, repo, opts, o)
	return p, err
}

// build returns the project and the number of fields resolved for it.
func build(ctx context.Context, src Source, repo github.Repo, opts Options, o indirect.Observer[string]) (*Project, int, error) {
	r := Definitions(ctx, src, repo, opts)
	if o != nil {
		r.WithObserver(o)
	}
	rec, err := r.Resolve()
	if err != nil {
		return nil, 0, err
	}
	p, err := FromRecord(rec)
	return p, len(rec), err
}

// FromRecord converts a resolved field set into a Project.
func FromRecord(rec map[string]any) (*Project, error) {
	rd := indirect.NewReader(rec)
	p := &Project{
		ID:          indirect.Read[int64](rd, FieldID),
		Title:       indirect.Read[string](rd, FieldTitle),
		Description: indirect.Read[string](rd, FieldDescription),
		RepoURL:     indirect.Read[string](rd, FieldRepoURL),
		LiveURL:     indirect.Read[*string](rd, FieldLiveURL),
		CreatedAt:   indirect.Read[time.Time](rd, FieldCreatedAt),
		UpdatedAt:   indirect.Read[time.Time](rd, FieldUpdatedAt),
		Topics:      indirect.Read[[]string](rd, FieldTopics),
		Languages:   indirect.Read[[]string](rd, FieldLanguages),
		ImageURL:    indirect.Read[*string](rd, FieldImageURL),
		Archived:    indirect.Read[bool](rd, FieldArchived),
		Stars:       indirect.Read[int](rd, FieldStars),
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func ownerFromURL(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil {
		return ""
	}
	owner, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	return owner
}
