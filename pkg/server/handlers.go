package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/folio/pkg/buildinfo"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/project"
	"github.com/matzehuels/folio/pkg/render"
	"github.com/matzehuels/folio/pkg/store"
)

type healthBody struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(r.Context(), chi.URLParam(r, "user"), wantRefresh(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, res.CacheHit)
	writeJSON(w, http.StatusOK, res.Projects)
}

func (s *Server) handleRenderedProjects(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	ext := chi.URLParam(r, "format")
	format := render.FormatFromExt(ext)
	if format == "" {
		writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported format %q", ext))
		return
	}

	res, err := s.execute(r.Context(), user, wantRefresh(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	site := render.SiteFor(user)
	site.GeneratedAt = time.Now().UTC()
	var buf bytes.Buffer
	if err := render.Render(r.Context(), &buf, site, res.Projects, format); err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, res.CacheHit)
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	if err := ferrors.ValidateUsername(user); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := s.store.Latest(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// execute runs the project pipeline for user and snapshots fresh results.
func (s *Server) execute(ctx context.Context, user string, refresh bool) (*project.Result, error) {
	if err := ferrors.ValidateUsername(user); err != nil {
		return nil, err
	}
	opts := s.opts
	opts.Refresh = refresh
	opts.Logger = s.logger

	res, err := s.runner.Execute(ctx, user, opts)
	if err != nil {
		return nil, err
	}
	if !res.CacheHit {
		if err := s.store.Save(ctx, store.NewSnapshot(user, res.Projects)); err != nil {
			s.logger.Warn("failed to save snapshot", "user", user, "error", err)
		}
	}
	return res, nil
}

func wantRefresh(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return err == nil && v
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}
