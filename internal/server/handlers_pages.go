package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/rendercache"
	"github.com/jonathan/landing-site/internal/site"
)

// handlePage serves landing pages and dynamic pages.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	path := paths.Normalize(r.URL.Path)
	s.servePage(w, r, path, func(ctx context.Context) (*site.Page, error) {
		return s.pages.Resolve(ctx, path)
	})
}

// handleBlogIndex serves /blog and /blog?page=N. Only the first page is cached, since
// revalidation targets /blog.
func (s *Server) handleBlogIndex(w http.ResponseWriter, r *http.Request) {
	pageNumber := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.pageError(w, r, &site.NotFoundError{Path: paths.Blog, Reason: "invalid page number"})
			return
		}
		pageNumber = n
	}

	key := paths.Blog
	if pageNumber > 1 {
		key = ""
	}
	s.servePage(w, r, key, func(ctx context.Context) (*site.Page, error) {
		return s.pages.BlogIndex(ctx, pageNumber)
	})
}

// handleBlogPost serves /blog/{slug}.
func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s.servePage(w, r, paths.BlogPath(slug), func(ctx context.Context) (*site.Page, error) {
		return s.pages.BlogPost(ctx, slug)
	})
}

// servePage reads through the render cache. An empty key bypasses the cache. Only
// successful renderings are stored.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, key string, resolve func(context.Context) (*site.Page, error)) {
	ctx := r.Context()

	if key != "" {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("[cache] read of %s failed: %v", key, err)
		} else if cached != nil {
			s.htmlResponse(w, cached.Status, cached.HTML, "HIT")
			return
		}
	}

	page, err := resolve(ctx)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	html, err := s.renderer.Page(page)
	if err != nil {
		log.Printf("[render] failed to render %s: %v", page.Path, err)
		s.pageError(w, r, err)
		return
	}

	cacheState := ""
	if key != "" {
		cacheState = "MISS"
		if err := s.cache.Put(ctx, &rendercache.Page{Path: key, HTML: html, Status: http.StatusOK}); err != nil {
			log.Printf("[cache] write of %s failed: %v", key, err)
		}
	}
	s.htmlResponse(w, http.StatusOK, html, cacheState)
}

// pageError renders the page a visitor sees for err: not found, maintenance while the CMS
// is unreachable, or a generic error page with a retry link.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		html   string
		rerr   error
	)
	switch {
	case errors.Is(err, site.ErrNotFound):
		status = http.StatusNotFound
		root, _ := s.pages.Bootstrap(r.Context())
		html, rerr = s.renderer.NotFound(root)
	case site.IsUnavailable(err):
		log.Printf("[site] content unavailable for %s: %v", r.URL.Path, err)
		status = http.StatusServiceUnavailable
		html, rerr = s.renderer.Maintenance()
	case errors.Is(err, site.ErrRootMissing):
		log.Printf("[site] root landing page is missing")
		status = http.StatusInternalServerError
		html, rerr = s.renderer.Error(status, "This site has not been set up yet.")
	default:
		log.Printf("[site] failed to serve %s: %v", r.URL.Path, err)
		status = http.StatusInternalServerError
		html, rerr = s.renderer.Error(status, "We could not load this page.")
	}

	if rerr != nil {
		log.Printf("[render] failed to render error page: %v", rerr)
		http.Error(w, http.StatusText(status), status)
		return
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	s.htmlResponse(w, status, html, "")
}

// htmlResponse writes an HTML document.
func (s *Server) htmlResponse(w http.ResponseWriter, status int, html, cacheState string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if cacheState != "" {
		w.Header().Set("X-Cache", cacheState)
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}
