package words

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchForwardsQuery(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/word", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("number"))
		assert.Equal(t, "6", r.URL.Query().Get("length"))
		assert.Equal(t, "de", r.URL.Query().Get("lang"))
		fmt.Fprint(w, `["eins","zwei","drei","vier"]`)
	}))
	defer upstream.Close()

	p := NewRandomAPI(upstream.URL)
	out, err := p.Fetch(context.Background(), Query{Number: 4, Length: 6, Lang: "de"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eins", "zwei", "drei", "vier"}, out)
}

func TestFetchOmitsEmptyParams(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("length"))
		assert.False(t, r.URL.Query().Has("lang"))
		fmt.Fprint(w, `["word"]`)
	}))
	defer upstream.Close()

	p := NewRandomAPI(upstream.URL)
	out, err := p.Fetch(context.Background(), Query{Number: 1})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestFetchUpstreamErrorIsUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer upstream.Close()

	p := NewRandomAPI(upstream.URL)
	_, err := p.Fetch(context.Background(), Query{Number: 2})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchRejectsNonPositiveNumber(t *testing.T) {
	p := NewRandomAPI("http://unused.test")
	_, err := p.Fetch(context.Background(), Query{Number: 0})
	assert.ErrorIs(t, err, ErrUnavailable)
}
