package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/generator"
	"github.com/qrgen/qrgen/store"
)

// HistoryReader is the read side of the history store.
type HistoryReader interface {
	GetGeneration(id string) (*store.Generation, error)
	ListGenerations(limit, offset int) ([]store.Generation, error)
	SearchGenerations(query string, limit int) ([]store.Generation, error)
}

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Service   *generator.Service
	History   HistoryReader // nil when history is disabled
	Defaults  encoder.Options
	Log       *slog.Logger
	Version   string
	StartTime time.Time
}

// NewRouter returns a fully configured chi router serving the form and its
// JSON endpoints.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))

	// Form UI
	r.Get("/", s.handleFormPage)

	// Actions
	r.Post("/generate", s.handleGenerate)
	r.Post("/save-as", s.handleSaveAs)
	r.Post("/open-folder", s.handleOpenFolder)

	// Read-only
	r.Get("/history", s.handleHistory)
	r.Get("/history/{id}", s.handleHistoryEntry)
	r.Get("/status", s.handleStatus)

	return r
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

// --- middleware --------------------------------------------------------------

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
