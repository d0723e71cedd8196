// internal/httpserver/routes_game.go
//
// Game lifecycle and flip endpoints.
//
// Status code contract:
//   - Unknown session id            → 404.
//   - Malformed path parameters     → 400.
//   - Image provider failures       → 503 (retryable, nothing is stored).
//   - Flip-level rejections         → 200 with {"pairId":-1} so the client
//     keeps its single "invalid flip" path; the specific kind is logged.

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/matchpairs/go-server/internal/game"
	"github.com/matchpairs/go-server/internal/store"
)

// rejectedPairID is the sentinel returned for every flip-level rejection.
const rejectedPairID = -1

// createGameRes is returned by the create and reset endpoints.
type createGameRes struct {
	GameID string `json:"gameId"`
}

// session resolves the {id} path parameter to a live session, or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	return sess, true
}

// contentRefs obtains one opaque content ref per pair from the image provider.
func (s *Server) contentRefs(r *http.Request, pairCount int) ([]string, error) {
	imgs, err := s.images.Fetch(r.Context(), pairCount)
	if err != nil {
		return nil, err
	}
	refs := make([]string, len(imgs))
	for i, img := range imgs {
		refs[i] = img.URL
	}
	return refs, nil
}

// handleCreateDefaultGame creates a session with the configured pair count.
func (s *Server) handleCreateDefaultGame(w http.ResponseWriter, r *http.Request) {
	s.createGame(w, r, s.cfg.DefaultPairs)
}

// handleCreateGame creates a session with the requested pair count.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	pairCount, err := strconv.Atoi(chi.URLParam(r, "pairCount"))
	if err != nil || pairCount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_pair_count")
		return
	}
	s.createGame(w, r, pairCount)
}

// createGame fetches content refs, builds a session, and stores it.
// A provider failure aborts before anything is stored, so a retry starts clean.
func (s *Server) createGame(w http.ResponseWriter, r *http.Request, pairCount int) {
	refs, err := s.contentRefs(r, pairCount)
	if err != nil {
		log.Warn().Err(err).Int("pairCount", pairCount).Msg("fetch content refs")
		writeProviderError(w, err)
		return
	}

	sess, err := game.NewSession(pairCount, refs, s.cfg.RevealWindow)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pair_count")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("gameId", sess.ID).Int("pairCount", pairCount).Msg("game created")
	writeJSON(w, http.StatusCreated, createGameRes{GameID: sess.ID})
}

// handleResetGame regenerates the board for an existing session id.
func (s *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	refs, err := s.contentRefs(r, sess.PairCount())
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("fetch content refs for reset")
		writeProviderError(w, err)
		return
	}
	if err := sess.Reset(refs); err != nil {
		log.Error().Err(err).Str("gameId", sess.ID).Msg("reset session")
		writeError(w, http.StatusInternalServerError, "reset_failed")
		return
	}
	writeJSON(w, http.StatusOK, createGameRes{GameID: sess.ID})
}

// handleDeleteGame removes a session. Deleting an unknown id is a no-op.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Str("gameId", id).Msg("delete session")
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// flipRes is the response body for POST /flip/{id}/{cardIndex}.
// First reveal carries only PairID; a match adds Matched=true (and Finished
// when the board is complete); a mismatch adds Matched=false plus the pending
// card's pair id. Rejections collapse to PairID=-1.
type flipRes struct {
	PairID     int   `json:"pairId"`
	PrevPairID *int  `json:"prevPairId,omitempty"`
	Matched    *bool `json:"matched,omitempty"`
	Finished   bool  `json:"finished,omitempty"`
}

// handleFlip runs one flip through the session state machine.
func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	cardIndex, err := strconv.Atoi(chi.URLParam(r, "cardIndex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_card_index")
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	res, err := sess.Flip(cardIndex)
	if err != nil {
		// The client treats every rejection the same; keep the kind server-side.
		log.Debug().Err(err).Str("gameId", sess.ID).Int("cardIndex", cardIndex).Msg("flip rejected")
		writeJSON(w, http.StatusOK, flipRes{PairID: rejectedPairID})
		return
	}

	body := flipRes{PairID: res.PairID, Finished: res.Finished}
	switch res.Outcome {
	case game.OutcomeMatched:
		matched := true
		body.Matched = &matched
	case game.OutcomeMismatched:
		matched := false
		body.Matched = &matched
		prev := res.PrevPairID
		body.PrevPairID = &prev
	}
	writeJSON(w, http.StatusOK, body)
}

// handleDetectFinish reports whether every pair has been matched.
func (s *Server) handleDetectFinish(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Finished())
}

// handleGetTime reports elapsed play time in seconds.
func (s *Server) handleGetTime(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Elapsed().Seconds())
}

// handleGetFlipCount reports the accepted-flip count.
func (s *Server) handleGetFlipCount(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Moves())
}

