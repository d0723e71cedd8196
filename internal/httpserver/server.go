// internal/httpserver/server.go
//
// HTTP server wiring for the memory-pairs backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game lifecycle + flip endpoints (routes_game.go).
//   - Score submission + leaderboard endpoints (routes_scores.go).
//   - Image/word provider endpoints (routes_content.go).
//   - Optional player accounts: JWT + cookie handling (routes_auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so auth cookies work).
//   - Every game endpoint is anonymous; auth only decorates score submission
//     so results can be attached to an account.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matchpairs/go-server/internal/images"
	"github.com/matchpairs/go-server/internal/leaderboard"
	"github.com/matchpairs/go-server/internal/store"
	"github.com/matchpairs/go-server/internal/words"
)

// Config carries the tunable game parameters.
type Config struct {
	DefaultPairs int           // pair count for /create_default_game
	RevealWindow time.Duration // server-side mismatch lock duration; 0 disables
}

// Server bundles router, session repository, leaderboard, and collaborators.
type Server struct {
	r      *chi.Mux
	store  store.Store
	lb     *leaderboard.Store
	db     *sql.DB
	images images.Provider
	words  words.Provider
	cfg    Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, img images.Provider, wrd words.Provider, cfg Config) *Server {
	if cfg.DefaultPairs <= 0 {
		cfg.DefaultPairs = 10
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		lb:     leaderboard.NewStore(db),
		db:     db,
		images: img,
		words:  wrd,
		cfg:    cfg,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(15 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"matchpairs-go","endpoints":["/health","POST /create_default_game","POST /flip/{id}/{cardIndex}","GET /fetch_leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game lifecycle + flips
	s.r.Post("/create_default_game", s.handleCreateDefaultGame)
	s.r.Post("/create_game/{pairCount}", s.handleCreateGame)
	s.r.Post("/reset_game/{id}", s.handleResetGame)
	s.r.Delete("/delete_game/{id}", s.handleDeleteGame)
	s.r.Post("/flip/{id}/{cardIndex}", s.handleFlip)
	s.r.Get("/detect_game_finish/{id}", s.handleDetectFinish)
	s.r.Get("/get_time/{id}", s.handleGetTime)
	s.r.Get("/get_flip_count/{id}", s.handleGetFlipCount)

	// External content collaborators
	s.r.Get("/get_random_images", s.handleRandomImages)
	s.r.Get("/get_random_words", s.handleRandomWords)

	// Scores + leaderboard (submission attaches the account when logged in)
	s.r.Get("/check_player", s.handleCheckPlayer)
	s.r.With(s.withOptionalAuth()).Post("/submit_game/{id}/{playerName}", s.handleSubmitGame)
	s.r.With(s.withOptionalAuth()).Post("/submit_score", s.handleSubmitScore)
	s.r.Get("/fetch_leaderboard", s.handleFetchLeaderboard)

	// Player accounts (optional feature; all game endpoints stay anonymous)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits a {"error": kind} body with the given status code.
func writeError(w http.ResponseWriter, status int, kind string) {
	http.Error(w, `{"error":"`+kind+`"}`, status)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
