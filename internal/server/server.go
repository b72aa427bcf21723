// Package server serves the site pages, its generated artifacts and the revalidation
// and payment APIs.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/db"
	"github.com/jonathan/landing-site/internal/payment"
	"github.com/jonathan/landing-site/internal/rendercache"
	"github.com/jonathan/landing-site/internal/rendering"
	"github.com/jonathan/landing-site/internal/revalidate"
	"github.com/jonathan/landing-site/internal/seo"
	"github.com/jonathan/landing-site/internal/server/middleware"
	"github.com/jonathan/landing-site/internal/server/ratelimit"
	"github.com/jonathan/landing-site/internal/site"
)

// RunLister lists recent revalidation runs for the admin API.
type RunLister interface {
	ListRevalidationRuns(ctx context.Context, limit int) ([]db.RevalidationRun, error)
}

// Deps are the collaborators of the server. JWT, Runs and DB are optional: without JWT
// the admin API is not mounted, without Runs the run history is not served.
type Deps struct {
	Site       *config.SiteConfig
	Webhook    *config.WebhookConfig
	Pages      *site.Resolver
	Renderer   *rendering.Renderer
	Cache      rendercache.Store
	Revalidate *revalidate.Orchestrator
	SEO        *seo.Service
	Checkout   *payment.Checkout
	JWT        *JWTService
	Runs       RunLister
	Background *bg.Tracked
	RateLimit  *ratelimit.Config
	DB         *db.DB
	// OnShutdown runs once, first in Close, before pending work is awaited and the DB closed.
	OnShutdown func()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	site        *config.SiteConfig
	webhook     *config.WebhookConfig
	pages       *site.Resolver
	renderer    *rendering.Renderer
	cache       rendercache.Store
	revalidate  *revalidate.Orchestrator
	seo         *seo.Service
	checkout    *payment.Checkout
	jwtService  *JWTService
	runs        RunLister
	background  *bg.Tracked
	rateLimiter *ratelimit.Limiter
	db          *db.DB
	onShutdown  func()
	shutdown    sync.Once
}

// Config holds server configuration
type Config struct {
	Port int
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	switch {
	case deps.Site == nil:
		return nil, fmt.Errorf("site config is required")
	case deps.Pages == nil || deps.Renderer == nil:
		return nil, fmt.Errorf("page resolver and renderer are required")
	case deps.Revalidate == nil:
		return nil, fmt.Errorf("revalidation orchestrator is required")
	case deps.SEO == nil || deps.Checkout == nil:
		return nil, fmt.Errorf("seo and checkout services are required")
	}

	s := &Server{
		site:       deps.Site,
		webhook:    deps.Webhook,
		pages:      deps.Pages,
		renderer:   deps.Renderer,
		cache:      deps.Cache,
		revalidate: deps.Revalidate,
		seo:        deps.SEO,
		checkout:   deps.Checkout,
		jwtService: deps.JWT,
		runs:       deps.Runs,
		background: deps.Background,
		db:         deps.DB,
		onShutdown: deps.OnShutdown,
	}

	if s.cache == nil {
		store, err := rendercache.NewLRUStore(deps.Site.CacheSize, deps.Site.PageTTL)
		if err != nil {
			return nil, err
		}
		s.cache = store
	}

	rlConfig := deps.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	s.router = s.routes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.withRateLimit, s.withLogging)

	r.Get("/health", s.handleHealth)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/site.webmanifest", s.handleManifest)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withCORS)
		r.Post("/revalidate", s.handleRevalidate)
		r.Post("/process-payment", s.handleProcessPayment)
		r.Get("/coupon", s.handleCoupon)

		if s.jwtService != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(s.jwtService.AsTokenValidator()))
				r.Post("/revalidate", s.handleAdminRevalidate)
				r.Get("/runs", s.handleListRuns)
			})
		}
	})

	r.Get("/", s.handlePage)
	r.Get("/blog", s.handleBlogIndex)
	r.Get("/blog/{slug}", s.handleBlogPost)
	r.Get("/*", s.handlePage)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close(ctx)
	log.Println("Server stopped")
	return nil
}

// Close runs the shutdown hook, waits for scheduled background work until ctx expires,
// then releases the rate limiter and the database.
func (s *Server) Close(ctx context.Context) {
	if s.onShutdown != nil {
		s.shutdown.Do(s.onShutdown)
	}
	if s.background != nil {
		done := make(chan struct{})
		go func() {
			s.background.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			log.Printf("[server] background work still pending at shutdown")
		}
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID returns the client IP from RemoteAddr. X-Forwarded-For is ignored
// because the server does not know which proxies to trust.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
