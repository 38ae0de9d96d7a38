package exposure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *Cache) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := NewCache(time.Hour)
	limiter := NewRateLimiter(100, time.Minute)
	client := NewClient(ClientConfig{
		Token:   "test-token",
		APIURL:  server.URL,
		Timeout: time.Second,
	}, cache, limiter, server.Client())

	return client, cache
}

func TestCheckEmailSuccess(t *testing.T) {
	var gotAuth, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 6}`))
	})

	result := client.CheckEmail(context.Background(), "user@example.com")

	require.Empty(t, result.Err)
	assert.True(t, result.Found)
	assert.Equal(t, 6, result.Count)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, `"user@example.com"`, gotQuery)
}

func TestCheckEmailCachesResult(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"total_count": 2}`))
	})

	first := client.CheckEmail(context.Background(), "user@example.com")
	second := client.CheckEmail(context.Background(), "user@example.com")

	assert.Equal(t, 1, calls, "second lookup must hit the cache")
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Count, second.Count)
}

func TestCheckEmailProviderRateLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	result := client.CheckEmail(context.Background(), "user@example.com")

	assert.Equal(t, "provider rate limit exceeded", result.Err)
	assert.Zero(t, result.Count)
}

func TestCheckEmailProviderErrorFailsOpen(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	result := client.CheckEmail(context.Background(), "user@example.com")

	assert.NotEmpty(t, result.Err)
	assert.False(t, result.Found)
	assert.Zero(t, result.Count)
}

func TestCheckEmailMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	result := client.CheckEmail(context.Background(), "user@example.com")

	assert.Equal(t, "malformed provider response", result.Err)
}

func TestCheckEmailTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"total_count": 1}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result := client.CheckEmail(ctx, "user@example.com")

	assert.Equal(t, "request timeout or network error", result.Err)
}

func TestCheckEmailWithoutToken(t *testing.T) {
	cache := NewCache(time.Hour)
	limiter := NewRateLimiter(100, time.Minute)
	client := NewClient(ClientConfig{APIURL: "https://api.github.com/search/code"}, cache, limiter, nil)

	result := client.CheckEmail(context.Background(), "user@example.com")

	assert.Equal(t, "exposure provider not configured", result.Err)
}

func TestCheckEmailEmptyIdentifier(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider must not be called for an empty identifier")
	})

	result := client.CheckEmail(context.Background(), "")

	assert.Equal(t, "invalid identifier", result.Err)
}

func TestCheckEmailInternalRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_count": 0}`))
	}))
	t.Cleanup(server.Close)

	// A fresh cache per call would mask the limiter, so lookups use distinct
	// identifiers while the limiter is keyed per identifier. Use limit 0 to
	// force rejection on the first uncached call.
	cache := NewCache(time.Hour)
	limiter := NewRateLimiter(0, time.Minute)
	client := NewClient(ClientConfig{Token: "t", APIURL: server.URL, Timeout: time.Second}, cache, limiter, server.Client())

	result := client.CheckEmail(context.Background(), "user@example.com")
	assert.Equal(t, "rate limited", result.Err)
}
