package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// handleRobots serves robots.txt.
func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(s.seo.Robots(r.Context()).String())); err != nil {
		log.Printf("Error writing robots.txt: %v", err)
	}
}

// handleSitemap serves sitemap.xml.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := s.seo.Sitemap(r.Context()).Marshal()
	if err != nil {
		log.Printf("[seo] failed to encode sitemap: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(body); err != nil {
		log.Printf("Error writing sitemap.xml: %v", err)
	}
}

// handleManifest serves site.webmanifest.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s.seo.Manifest(r.Context())); err != nil {
		log.Printf("Error encoding manifest: %v", err)
	}
}
