// Package server wires the HTTP transport: routing, auth and rate-limit
// middleware, and the JSON envelope every API response uses.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solara/internal/config"
	"solara/internal/domain"
	"solara/internal/services"
	"solara/pkg/errors"
)

// vaultPath is the legacy dashboard data path. The obscure name predates
// authentication and is kept for the deployed admin page; the route itself
// now requires an admin token.
const vaultPath = "/api/v1/vault/secure-data-7721"

type contextKey string

const userContextKey contextKey = "user"

// Server holds the HTTP handler dependencies.
type Server struct {
	cfg     *config.Config
	leadSvc *services.LeadService
	authSvc *services.AuthService
	health  *services.HealthService
}

// New creates a server with its dependencies injected.
func New(cfg *config.Config, leadSvc *services.LeadService, authSvc *services.AuthService, health *services.HealthService) *Server {
	return &Server{
		cfg:     cfg,
		leadSvc: leadSvc,
		authSvc: authSvc,
		health:  health,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	apiLimiter := newIPLimiter("api", 15*time.Minute, s.cfg.RateLimit.APIPerWindow)
	submitLimiter := newIPLimiter("submit", time.Hour, s.cfg.RateLimit.SubmitPerWindow)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter.Middleware)

		r.With(submitLimiter.Middleware).Post("/leads", s.handleSubmitLead)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get(strings.TrimPrefix(vaultPath, "/api/v1"), s.handleVault)
			r.Post("/auth/logout", s.handleLogout)
		})
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/", s.servePage("index.html"))
	r.Get("/admin-panel", s.servePage("admin.html"))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "Method not allowed"})
	})

	return r
}

// handleSubmitLead accepts a lead form submission.
func (s *Server) handleSubmitLead(w http.ResponseWriter, r *http.Request) {
	var in services.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid request body"})
		return
	}

	result, err := s.leadSvc.Submit(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, result.Message, map[string]interface{}{
		"id": result.ID,
	})
}

// handleVault returns every captured lead plus the dashboard stats.
func (s *Server) handleVault(w http.ResponseWriter, r *http.Request) {
	result, err := s.leadSvc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"leads": result.Leads,
		"stats": result.Stats,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid request body"})
		return
	}

	result, err := s.authSvc.Login(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "", result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, errors.New(errors.ErrCodeUnauthorized, "authorization required"))
		return
	}

	result := s.authSvc.Logout(r.Context(), user)
	respondSuccess(w, http.StatusOK, result.Message, nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, _ := s.health.Check(r.Context())
	respondJSON(w, http.StatusOK, result)
}

// requireAdmin guards the dashboard read path with a bearer token check.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(w, errors.New(errors.ErrCodeUnauthorized, "authorization required"))
			return
		}

		user, err := s.authSvc.Authenticate(r.Context(), parts[1])
		if err != nil {
			respondError(w, err)
			return
		}
		if !user.IsAdmin {
			respondError(w, errors.New(errors.ErrCodeForbidden, "admin access required"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user set by requireAdmin.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// recoverer turns panics into the generic server-error page.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[HTTP] Panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("<h1>خطأ في الخادم</h1>"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// servePage serves a named page from the static directory. Presentation
// assets are deployed alongside the binary, not compiled into it.
func (s *Server) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.cfg.App.StaticDir, name)
		if _, err := os.Stat(path); err != nil {
			s.handleNotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// handleNotFound serves static assets when they exist and the generic
// not-found page otherwise. API paths always get the JSON envelope.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Not found"})
		return
	}

	if r.Method == http.MethodGet {
		path := filepath.Join(s.cfg.App.StaticDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("<h1>404 - الصفحة غير موجودة</h1>"))
}
