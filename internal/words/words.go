// internal/words/words.go
//
// Random-words collaborator: fetches words from an external API for clients
// that want word-labelled cards instead of images. Same contract shape as
// the image provider: an interface, an HTTP-backed implementation, and a
// retryable ErrUnavailable for upstream failures.
//
// Environment:
//   WORD_API_URL — API base (default https://random-word-api.herokuapp.com);
//   the provider GETs <base>/word?number=&length=&lang= and expects a JSON
//   array of strings.

package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public random word API.
const DefaultBaseURL = "https://random-word-api.herokuapp.com"

// ErrUnavailable wraps every upstream failure; the caller should retry later.
var ErrUnavailable = errors.New("word provider unavailable")

// Query describes one fetch: how many words, and optional length/language.
type Query struct {
	Number int
	Length int    // 0 means any length
	Lang   string // empty means API default
}

// Provider supplies random words.
type Provider interface {
	Fetch(ctx context.Context, q Query) ([]string, error)
}

// RandomAPI is an HTTP-backed Provider.
type RandomAPI struct {
	base   string
	client *http.Client
}

// NewRandomAPI constructs a provider for the given API base URL.
// An empty base falls back to DefaultBaseURL.
func NewRandomAPI(base string) *RandomAPI {
	if base == "" {
		base = DefaultBaseURL
	}
	return &RandomAPI{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns q.Number random words.
func (p *RandomAPI) Fetch(ctx context.Context, q Query) ([]string, error) {
	if q.Number <= 0 {
		return nil, fmt.Errorf("%w: non-positive number", ErrUnavailable)
	}

	params := url.Values{}
	params.Set("number", strconv.Itoa(q.Number))
	if q.Length > 0 {
		params.Set("length", strconv.Itoa(q.Length))
	}
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/word?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnavailable, res.StatusCode)
	}

	var out []string
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return out, nil
}
