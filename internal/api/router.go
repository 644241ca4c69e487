package api

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trailscore/internal/service"
)

// NewRouter registers the score routes
func NewRouter(scores *service.ScoreService) *mux.Router {
	h := &handler{scores: scores, today: today}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scores", h.listScores).Methods(http.MethodGet)
	api.HandleFunc("/scores/{date}", h.getScore).Methods(http.MethodGet)
	api.HandleFunc("/scores/{date}", h.scoreDay).Methods(http.MethodPost)
	api.HandleFunc("/compute", h.compute).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// NewHandler wraps the router with access logging to logOut and CORS for the
// given origins
func NewHandler(scores *service.ScoreService, logOut io.Writer, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(handlers.LoggingHandler(logOut, NewRouter(scores)))
}
