// internal/httpserver/routes_content.go
//
// Endpoints delegating to the external content collaborators. The clients
// use these to decorate boards; the game core itself only ever sees the
// returned URLs/words as opaque refs.

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/matchpairs/go-server/internal/images"
	"github.com/matchpairs/go-server/internal/words"
)

// handleRandomImages fetches N unique random image URLs.
func (s *Server) handleRandomImages(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(getQuery(r, "count", "8"))
	if err != nil || count <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_count")
		return
	}
	imgs, err := s.images.Fetch(r.Context(), count)
	if err != nil {
		log.Warn().Err(err).Int("count", count).Msg("fetch random images")
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, imgs)
}

// handleRandomWords fetches random words (number/length/lang query params).
func (s *Server) handleRandomWords(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(getQuery(r, "number", "1"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_number")
		return
	}
	q := words.Query{Number: number, Lang: r.URL.Query().Get("lang")}
	if raw := r.URL.Query().Get("length"); raw != "" {
		length, err := strconv.Atoi(raw)
		if err != nil || length <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_length")
			return
		}
		q.Length = length
	}

	out, err := s.words.Fetch(r.Context(), q)
	if err != nil {
		log.Warn().Err(err).Int("number", number).Msg("fetch random words")
		writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// writeProviderError maps collaborator failures to a retryable 503;
// anything else is an internal error.
func writeProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, images.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "image_provider_unavailable")
	case errors.Is(err, words.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "word_provider_unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "content_fetch_failed")
	}
}

// getQuery returns query parameter k or def if absent/empty.
func getQuery(r *http.Request, k, def string) string {
	if v := r.URL.Query().Get(k); v != "" {
		return v
	}
	return def
}
