// Package project turns a GitHub user's public repositories into portfolio
// projects.
//
// # Pipeline
//
// [Pipeline.Run] lists repositories through a [Source], drops forks and
// repositories marked with an exclude keyword ([Filter]), then builds one
// [Project] per repository concurrently. [Runner] wraps the pipeline with a
// [cache.Cache] so repeated requests for the same user and options are
// served without touching the API.
//
// # Field definitions
//
// Each project is assembled by an [indirect.Resolver] over string keys
// ([Definitions]). Fields read each other by name, in any declaration order,
// and every upstream request lives inside one field so it is made at most
// once per project: the languages of a repository are fetched by
// "languageBytes", the README only by "readme", which in turn is only read
// by "imageURL".
//
//	rec, err := project.Definitions(ctx, src, repo, opts).Resolve()
//	p, err := project.FromRecord(rec)
//
// [BuildObserved] attaches an [indirect.Observer] such as an
// [indirect.Trace] to see the evaluation order.
//
// [cache.Cache]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/cache#Cache
// [indirect.Resolver]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/indirect#Resolver
// [indirect.Observer]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/indirect#Observer
// [indirect.Trace]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/indirect#Trace
package project
