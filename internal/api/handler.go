package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"trailscore/internal/scoring"
	"trailscore/internal/service"
	"trailscore/internal/store"
)

const (
	maxHistoryDays = 366
	maxBodyBytes   = 1 << 20
)

type handler struct {
	scores *service.ScoreService
	today  func() time.Time
}

func today() time.Time {
	return store.StartOfDay(time.Now())
}

// scoreResponse adds the sufficiency flag so clients can tell the sentinel apart
type scoreResponse struct {
	service.DayScore
	Sufficient bool `json:"sufficient"`
}

type listResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Scores []scoreResponse `json:"scores"`
}

type computeResponse struct {
	Result     scoring.Result `json:"result"`
	Sufficient bool           `json:"sufficient"`
}

func newScoreResponse(s service.DayScore) scoreResponse {
	return scoreResponse{DayScore: s, Sufficient: s.Result.Sufficient()}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listScores handles GET /api/scores?days=N&end=YYYY-MM-DD
func (h *handler) listScores(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultHistoryDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryDays {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", maxHistoryDays))
			return
		}
		days = n
	}

	end := h.today()
	if v := r.URL.Query().Get("end"); v != "" {
		d, err := h.parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		end = d
	}

	scores, err := h.scores.History(r.Context(), end, days)
	if err != nil {
		slog.Error("listing scores", "error", err)
		writeError(w, http.StatusInternalServerError, "listing scores failed")
		return
	}

	resp := listResponse{
		From:   end.AddDate(0, 0, -(days - 1)).Format(store.DateFormat),
		To:     end.Format(store.DateFormat),
		Scores: make([]scoreResponse, 0, len(scores)),
	}
	for _, s := range scores {
		resp.Scores = append(resp.Scores, newScoreResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// getScore handles GET /api/scores/{date}
func (h *handler) getScore(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.scores.Get(r.Context(), date)
	if errors.Is(err, store.ErrScoreNotFound) {
		writeError(w, http.StatusNotFound, "no score stored for "+date.Format(store.DateFormat))
		return
	}
	if err != nil {
		slog.Error("loading score", "date", date.Format(store.DateFormat), "error", err)
		writeError(w, http.StatusInternalServerError, "loading score failed")
		return
	}
	writeJSON(w, http.StatusOK, newScoreResponse(*score))
}

// scoreDay handles POST /api/scores/{date}: score from the store and persist.
// Missing sources are not an error; the sentinel comes back with sufficient=false.
func (h *handler) scoreDay(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.scores.ScoreDay(r.Context(), date)
	if err != nil && !errors.Is(err, service.ErrInsufficientData) {
		slog.Error("scoring day", "date", date.Format(store.DateFormat), "error", err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}
	writeJSON(w, http.StatusOK, newScoreResponse(*score))
}

// compute handles POST /api/compute with a JSON snapshot body. Nothing is stored.
func (h *handler) compute(w http.ResponseWriter, r *http.Request) {
	var snap service.Snapshot
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot: "+err.Error())
		return
	}

	result, err := h.scores.Compute(&snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, computeResponse{Result: result, Sufficient: result.Sufficient()})
}

// parseDate accepts YYYY-MM-DD or "today"
func (h *handler) parseDate(s string) (time.Time, error) {
	if strings.EqualFold(s, "today") {
		return h.today(), nil
	}
	d, err := store.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
