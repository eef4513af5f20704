package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type server struct {
	engine *goSession.Engine
	log    zerolog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// routerConfig holds the HTTP surface options that do not belong to the engine.
type routerConfig struct {
	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	CORSOrigins []string

	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	// Off by default: those headers are client controlled and the login
	// limiter counts failures per RemoteAddr.
	TrustProxyHeaders bool
}

func newRouter(engine *goSession.Engine, log zerolog.Logger, rc routerConfig) chi.Router {
	s := &server{engine: engine, log: log}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if rc.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(s.accessLog)

	if len(rc.CORSOrigins) > 0 {
		// Credentials are required for the session cookie to cross origins.
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rc.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
			AllowCredentials: true,
			MaxAge:           60 * 15,
		}))
	}

	r.Route("/auth", func(rr chi.Router) {
		rr.Post("/register", s.register)
		rr.Post("/login", s.login)
		rr.Post("/logout", s.logout)
		rr.With(middleware.RequireUser(engine)).Get("/me", s.me)
	})

	r.With(middleware.RequireAdmin(engine)).Get("/admin/ping", s.adminPing)

	if rc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", rc.Metrics)
	}
	return r
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	var req goSession.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.engine.Register(goSession.RequestContext(r), cookie.RequestJar(w, r), req)
	switch {
	case errors.Is(err, goSession.ErrInvalidRegistration):
		writeError(w, http.StatusBadRequest, "invalid registration")
	case errors.Is(err, goSession.ErrEmailExists):
		writeError(w, http.StatusConflict, "email already registered")
	case err != nil:
		s.log.Error().Err(err).Msg("register failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.engine.Login(goSession.RequestContext(r), cookie.RequestJar(w, r), req.Email, req.Password)
	switch {
	case errors.Is(err, goSession.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, goSession.ErrLoginRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
	case err != nil:
		s.log.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	s.engine.Logout(goSession.RequestContext(r), cookie.RequestJar(w, r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.SessionUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

func (s *server) adminPing(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.SessionUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "user_id": user.ID})
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
