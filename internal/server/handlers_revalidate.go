package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/revalidate"
	"github.com/jonathan/landing-site/internal/server/middleware"
	"github.com/jonathan/landing-site/internal/types"
)

// maxWebhookBody bounds the size of a change notification.
const maxWebhookBody = 1 << 20

// handleRevalidate handles CMS change notifications. The secret is checked before the
// body is parsed, so an unauthenticated request never reaches path resolution.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	if !s.webhook.Configured() {
		log.Printf("[revalidate] %v", &ErrMisconfigured{Setting: "REVALIDATE_SECRET"})
		s.errorResponse(w, http.StatusInternalServerError, "Server misconfigured")
		return
	}

	header := config.DefaultSecretHeader
	if s.webhook.SecretHeader != "" {
		header = s.webhook.SecretHeader
	}
	if err := revalidate.Authenticate(r.Header.Get(header), s.webhook.Secret); err != nil {
		uerr := &ErrUnauthorized{Reason: err.Error()}
		log.Printf("[revalidate] rejected request from %s: %v", s.extractClientID(r), uerr)
		s.errorResponse(w, HTTPStatus(uerr), "Invalid secret")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	req, err := revalidate.ParseRequest(body, s.site.Locale)
	if err != nil {
		if errors.Is(err, revalidate.ErrInvalidPayload) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[revalidate] failed to parse payload: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Error revalidating")
		return
	}

	// The run outlives a client that hangs up: a half-applied invalidation is worse
	// than a slow response.
	report := s.revalidate.Revalidate(context.WithoutCancel(r.Context()), req, "webhook")
	s.jsonResponse(w, http.StatusOK, revalidateResponse(report))
}

// handleAdminRevalidate triggers a manual revalidation of explicit paths, one landing's
// subtree or, for an empty body, the full site.
func (s *Server) handleAdminRevalidate(w http.ResponseWriter, r *http.Request) {
	subject, err := middleware.GetSubject(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.AdminRevalidateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBody)).Decode(&req); err != nil && err != io.EOF {
			s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}
	if err := req.Validate(); err != nil {
		verr := &ErrValidation{Field: "paths", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	scope := revalidate.ScopeForAdmin(req)
	log.Printf("[revalidate] manual run by %s for %s", subject, scope)
	report := s.revalidate.Run(context.WithoutCancel(r.Context()), scope, "admin:"+subject)
	s.jsonResponse(w, http.StatusOK, revalidateResponse(report))
}

// handleListRuns returns the most recent revalidation runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorResponse(w, http.StatusNotFound, "Run history requires a database")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}
	runs, err := s.runs.ListRevalidationRuns(r.Context(), limit)
	if err != nil {
		log.Printf("[revalidate] failed to list runs: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func revalidateResponse(report *revalidate.Report) types.RevalidateResponse {
	msg := "Revalidation successful"
	if n := len(report.Failed); n > 0 {
		msg = fmt.Sprintf("Revalidation completed with %d failed paths", n)
	}
	return types.RevalidateResponse{
		Message:     msg,
		RunID:       report.RunID.String(),
		Revalidated: report.Paths,
		Failed:      report.Failed,
	}
}
