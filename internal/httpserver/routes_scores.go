// internal/httpserver/routes_scores.go
//
// Score submission and leaderboard endpoints.
//
// Two submission paths exist:
//   - POST /submit_game/{id}/{playerName}: the server computes moves and
//     completion time from the finished session; this is the authoritative
//     path and latches the session's one-submission guard.
//   - POST /submit_score: direct submission with a caller-supplied result
//     (legacy client contract); validated but not tied to a session.
//
// Both enforce leaderboard name uniqueness atomically in the store.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/matchpairs/go-server/internal/game"
	"github.com/matchpairs/go-server/internal/leaderboard"
)

// handleCheckPlayer reports whether a player name is already taken.
func (s *Server) handleCheckPlayer(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("player_name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_player_name")
		return
	}
	exists, err := s.lb.Exists(r.Context(), name)
	if err != nil {
		log.Error().Err(err).Msg("check player name")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, exists)
}

// handleSubmitGame records a finished session's result on the leaderboard.
func (s *Server) handleSubmitGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	name := strings.TrimSpace(chi.URLParam(r, "playerName"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_player_name")
		return
	}

	var userID string
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		userID = me.ID
	}

	var entry leaderboard.Entry
	err := sess.SubmitResult(func(moves int, seconds float64) error {
		stored, err := s.lb.Insert(r.Context(), leaderboard.Entry{
			PlayerName:     name,
			Moves:          moves,
			CompletionTime: seconds,
			UserID:         userID,
		})
		if err != nil {
			return err
		}
		entry = stored
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, game.ErrSessionNotFinished):
		writeError(w, http.StatusConflict, "session_not_finished")
		return
	case errors.Is(err, game.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "already_submitted")
		return
	case errors.Is(err, leaderboard.ErrDuplicateName):
		writeError(w, http.StatusConflict, "duplicate_player_name")
		return
	default:
		log.Error().Err(err).Str("gameId", sess.ID).Msg("submit game")
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	if userID != "" {
		if err := s.bumpStats(userID, entry.Moves, entry.CompletionTime); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("bump stats")
		}
	}
	log.Info().Str("gameId", sess.ID).Str("player", name).Int("moves", entry.Moves).Msg("score submitted")
	writeJSON(w, http.StatusCreated, entry)
}

// submitScoreReq is the payload for POST /submit_score.
type submitScoreReq struct {
	PlayerName     string  `json:"player_name"`
	CompletionTime float64 `json:"completion_time"`
	Moves          int     `json:"moves"`
}

// handleSubmitScore records a caller-supplied result.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" || req.CompletionTime <= 0 || req.Moves <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_score")
		return
	}

	var userID string
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		userID = me.ID
	}

	entry, err := s.lb.Insert(r.Context(), leaderboard.Entry{
		PlayerName:     req.PlayerName,
		Moves:          req.Moves,
		CompletionTime: req.CompletionTime,
		UserID:         userID,
	})
	if errors.Is(err, leaderboard.ErrDuplicateName) {
		writeError(w, http.StatusConflict, "duplicate_player_name")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("submit score")
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleFetchLeaderboard returns the ranked top entries.
func (s *Server) handleFetchLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(getQuery(r, "limit", "10"))
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit")
		return
	}
	entries, err := s.lb.Top(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("fetch leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
