package exposure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"digivera_backend/internal/logger"
)

// Result is the outcome of an exposure lookup. Err being non-empty means the
// lookup degraded to "no data"; it is never a pipeline failure.
type Result struct {
	Found  bool   `json:"found"`
	Count  int    `json:"count"`
	Cached bool   `json:"-"`
	Err    string `json:"error,omitempty"`
}

// Checker is the lookup contract the scan pipeline depends on
type Checker interface {
	CheckEmail(ctx context.Context, email string) Result
}

// ClientConfig configures the GitHub code-search client
type ClientConfig struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

// Client queries the GitHub code-search API for public occurrences of an
// identifier. Every failure mode is absorbed into a zero-exposure Result:
// the scan pipeline must never be blocked by this secondary signal.
type Client struct {
	http    *http.Client
	token   string
	apiURL  string
	cache   *Cache
	limiter *RateLimiter
}

func NewClient(cfg ClientConfig, cache *Cache, limiter *RateLimiter, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		http:    httpClient,
		token:   cfg.Token,
		apiURL:  cfg.APIURL,
		cache:   cache,
		limiter: limiter,
	}
}

type searchResponse struct {
	TotalCount int `json:"total_count"`
}

// CheckEmail looks up public code exposure for the email. Cache-first, then
// the internal rate limit, then the provider with a bounded timeout.
func (c *Client) CheckEmail(ctx context.Context, email string) Result {
	if email == "" {
		return Result{Err: "invalid identifier"}
	}

	hash := HashIdentifier(email)
	log := logger.FromContext(ctx).With("identifier_hash", hash[:12])

	if cached, ok := c.cache.Get(hash); ok {
		log.Debug("exposure lookup served from cache", "count", cached.Count)
		return cached
	}

	if !c.limiter.Allow(hash) {
		log.Warn("exposure lookup rate limited")
		return Result{Err: "rate limited"}
	}

	if c.token == "" {
		log.Warn("exposure provider token not configured, skipping lookup")
		return Result{Err: "exposure provider not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return Result{Err: "exposure provider unavailable"}
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("%q", email))
	q.Set("per_page", "1") // only the total count matters
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "DIGIVERA")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and transport errors both land here; the raw error may
		// embed the request URL (and thus the identifier), so log a fixed
		// message only.
		log.Warn("exposure provider request failed")
		return Result{Err: "request timeout or network error"}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		log.Warn("exposure provider rate limit exceeded", "status", resp.StatusCode)
		return Result{Err: "provider rate limit exceeded"}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		log.Warn("exposure provider rejected search query")
		return Result{Err: "invalid search query"}
	case resp.StatusCode != http.StatusOK:
		log.Warn("exposure provider error", "status", resp.StatusCode)
		return Result{Err: "exposure provider unavailable"}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn("exposure provider returned malformed response")
		return Result{Err: "malformed provider response"}
	}

	result := Result{
		Found: body.TotalCount > 0,
		Count: body.TotalCount,
	}
	c.cache.Put(hash, result)

	log.Debug("exposure lookup complete", "found", result.Found, "count", result.Count)
	return result
}
