// internal/httpserver/server.go
//
// HTTP server wiring for the Blackwood Manor mystery.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Bearer-authenticated endpoints: /validate, /game/*, /cases and the MCP endpoint /mcp.
//
// Notes:
//   - CORS allows a single configured origin.
//   - The MCP handler is built by the caller and mounted behind the same auth.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/blackwood-mystery/internal/config"
	"github.com/robalobadob/blackwood-mystery/internal/game"
	"github.com/robalobadob/blackwood-mystery/internal/store"
)

// Options are the dependencies of a Server.
type Options struct {
	Config  config.Config
	Session *game.Session
	Store   store.Store
	Auth    *Authenticator
	MCP     http.Handler // optional; mounted at /mcp
	Logger  zerolog.Logger
}

// Server bundles router, session, case ledger and authenticator.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	session *game.Session
	store   store.Store
	auth    *Authenticator
	http    *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     o.Config,
		session: o.Session,
		store:   o.Store,
		auth:    o.Auth,
	}
	timeout := o.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(o.Logger))   // request-scoped logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(corsFor(o.Config.ClientOrigin))

	// --- diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Use(jsonContentType)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "blackwood-mystery",
				"endpoints": []string{
					"/health", "/validate", "POST /game/start", "POST /game/move", "POST /game/examine",
					"POST /game/collect", "POST /game/interrogate", "POST /game/accuse",
					"/game/state", "/cases", "/mcp",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
	})

	// --- authenticated ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(timeout))
			r.Use(jsonContentType)
			r.Get("/validate", s.handleValidate)
			s.mountGame(r)
		})
		// Streamable MCP sessions hold the connection open; no handler timeout.
		if o.MCP != nil {
			r.Handle("/mcp", o.MCP)
			r.Handle("/mcp/*", o.MCP)
		}
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start begins serving HTTP on addr. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// validateRes is returned by GET /validate.
type validateRes struct {
	Owner      string `json:"owner"`
	Configured bool   `json:"configured"`
	Subject    string `json:"subject"`
}

// handleValidate reports the owner identity of this server.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.cfg.OwnerReply()
	if !ok {
		hlog.FromRequest(r).Warn().Msg("OWNER_CONTACT is not configured")
	}
	p, _ := PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, validateRes{Owner: owner, Configured: ok, Subject: p.Subject})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("req_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("dur", dur).
		Msg("request")
})

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, status, map[string]string{"error": code})
}
