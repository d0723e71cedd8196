// internal/images/images.go
//
// Image-provider collaborator: fetches random image URLs from an external
// API to decorate card pairs. The game core only needs one opaque URL per
// pair; image content is never inspected.
//
// Behavior:
//   - Fetch(count) collects `count` unique URLs, retrying duplicates up to a
//     bounded number of requests.
//   - Requests for one batch run concurrently.
//   - Any upstream failure wraps ErrUnavailable so callers can surface a
//     retryable error instead of a broken board.
//
// Environment:
//   IMAGE_API_URL — API base (default https://random-d.uk/api); the provider
//   GETs <base>/random and expects {"url": "..."}.

package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultBaseURL is the public duck image API.
const DefaultBaseURL = "https://random-d.uk/api"

// ErrUnavailable wraps every upstream failure; the caller should retry later.
var ErrUnavailable = errors.New("image provider unavailable")

// Image is one fetched image reference.
type Image struct {
	URL string `json:"url"`
}

// Provider supplies unique random image URLs.
// Implementations may call an external API (RandomAPI) or serve fixtures in tests.
type Provider interface {
	Fetch(ctx context.Context, count int) ([]Image, error)
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

// Fetch returns count unique image URLs.
func (p *RandomAPI) Fetch(ctx context.Context, count int) ([]Image, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: non-positive count", ErrUnavailable)
	}

	seen := make(map[string]struct{}, count)
	images := make([]Image, 0, count)

	// The API may repeat URLs; keep requesting batches until we have enough
	// distinct ones or the attempt budget runs out.
	budget := count * 5
	for len(images) < count && budget > 0 {
		batch := count - len(images)
		budget -= batch

		urls, err := p.fetchBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			images = append(images, Image{URL: u})
		}
	}
	if len(images) < count {
		return nil, fmt.Errorf("%w: could not collect %d unique images", ErrUnavailable, count)
	}
	return images, nil
}

// fetchBatch issues n concurrent single-image requests.
func (p *RandomAPI) fetchBatch(ctx context.Context, n int) ([]string, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		urls     []string
		firstErr error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := p.fetchOne(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			urls = append(urls, u)
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return urls, nil
}

// fetchOne requests a single random image URL.
func (p *RandomAPI) fetchOne(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/random", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upstream status %d", ErrUnavailable, res.StatusCode)
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: empty url in response", ErrUnavailable)
	}
	return body.URL, nil
}
