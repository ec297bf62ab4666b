// Package sdk is the OpenFlag client: it resolves feature flags against an
// origin service with a process-local TTL cache, optional background
// refresh, and default-value fallback when the origin is unreachable.
package sdk

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"openflag/pkg/logger"
)

const (
	defaultCacheTTL       = 30 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

// Config configures a Client. APIURL is the only required field.
type Config struct {
	// APIURL is the origin base address. A trailing slash is stripped.
	APIURL string

	// CacheTTL bounds staleness of cached flags. Default 30s.
	CacheTTL time.Duration

	// RefreshInterval enables background refresh of all flags when > 0.
	// Default 0 (disabled). Independent of CacheTTL.
	RefreshInterval time.Duration

	// RequestTimeout bounds each origin round trip. Default 10s.
	// Ignored when HTTPClient is set.
	RequestTimeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	// OnError observes every absorbed fetch failure. Default no-op.
	OnError func(error)

	// OnRefresh observes every successful refresh. Default no-op.
	OnRefresh func()

	// Logger receives client lifecycle and fetch-failure logs.
	Logger *logger.Logger
}

// Client resolves feature flags. Lookups consult the local cache first and
// fall back to the origin; any fetch failure is reported to OnError and
// answered with the caller-supplied default, so flag reads never fail
// except for invalid input.
//
// Concurrent misses on the same key each fetch independently; there is no
// single-flight de-duplication.
type Client struct {
	fetch     *fetcher
	cache     *flagCache
	onError   func(error)
	onRefresh func()
	interval  time.Duration
	log       *logger.Logger

	mu     sync.Mutex
	stop   chan struct{}
	closed bool
}

// New creates a Client and, when RefreshInterval > 0, starts its
// background refresh loop.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.APIURL, "/")
	if baseURL == "" {
		return nil, ErrMissingAPIURL
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpc = &http.Client{Timeout: timeout}
	}

	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}
	onRefresh := cfg.OnRefresh
	if onRefresh == nil {
		onRefresh = func() {}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{
		fetch:     &fetcher{baseURL: baseURL, httpc: httpc},
		cache:     newFlagCache(ttl),
		onError:   onError,
		onRefresh: onRefresh,
		interval:  cfg.RefreshInterval,
		log:       log.WithComponent("openflag-sdk"),
	}

	if c.interval > 0 {
		c.StartAutoRefresh()
	}

	return c, nil
}

// GetFlag returns the coerced value of key, or defaultValue when the flag
// is absent, disabled, or the origin cannot be reached. Fetch failures go
// to OnError, never to the caller; the only returned error is ErrEmptyKey.
func (c *Client) GetFlag(ctx context.Context, key string, defaultValue any) (any, error) {
	if key == "" {
		return defaultValue, ErrEmptyKey
	}
	if v, ok := c.resolve(ctx, key); ok {
		return v, nil
	}
	return defaultValue, nil
}

// IsEnabled reports whether key resolves to a truthy boolean, returning
// defaultValue when the flag is absent, disabled, or unreachable.
// Both a coerced true and a literal raw "true" count as enabled; callers
// that bypass typed coercion upstream still get the right answer.
func (c *Client) IsEnabled(ctx context.Context, key string, defaultValue bool) bool {
	if key == "" {
		return defaultValue
	}
	v, ok := c.resolve(ctx, key)
	if !ok {
		return defaultValue
	}
	return v == true || v == "true"
}

// GetAllFlags fetches every flag from the origin and stores each one in
// the cache. Unlike GetFlag it propagates failure after notifying OnError:
// an empty default would be indistinguishable from "zero flags exist".
// Records are returned in origin order, unfiltered.
func (c *Client) GetAllFlags(ctx context.Context) ([]FlagRecord, error) {
	records, err := c.fetch.fetchAll(ctx)
	if err != nil {
		c.log.Debugw("bulk flag fetch failed", "error", err)
		c.onError(err)
		return nil, err
	}
	for _, record := range records {
		c.cache.set(record.Key, record)
	}
	return records, nil
}

// Refresh re-populates the cache from the origin. Failures are swallowed
// (GetAllFlags has already notified OnError); success invokes OnRefresh.
func (c *Client) Refresh(ctx context.Context) {
	if _, err := c.GetAllFlags(ctx); err != nil {
		return
	}
	c.onRefresh()
}

// ClearCache drops every cached flag.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// StartAutoRefresh starts the recurring refresh loop. Calling it while a
// loop is already running, the interval is zero, or the client is closed
// is a no-op.
func (c *Client) StartAutoRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.stop != nil || c.interval <= 0 {
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	go c.refreshLoop(stop)
	c.log.Debugw("auto refresh started", "interval", c.interval)
}

// StopAutoRefresh cancels the refresh loop. Idempotent, and safe to call
// from within a refresh tick.
func (c *Client) StopAutoRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Close stops the refresh loop and clears the cache. Idempotent; the
// client remains usable for direct lookups, which now all miss the cache.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopLocked()
	c.mu.Unlock()

	c.cache.clear()
	return nil
}

// stopLocked releases the refresh loop handle. Caller holds c.mu.
func (c *Client) stopLocked() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.stop = nil
	c.log.Debugw("auto refresh stopped")
}

// refreshLoop ticks until stopped. Each tick refreshes in its own
// goroutine so a slow or failing refresh never delays the next tick.
func (c *Client) refreshLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			go c.Refresh(context.Background())
		}
	}
}

// resolve looks key up in the cache, falling back to a single origin fetch
// on miss or expiry. The second return value is false when the flag is
// absent, disabled, or the fetch failed.
func (c *Client) resolve(ctx context.Context, key string) (any, bool) {
	if record, ok := c.cache.get(key); ok {
		return coerceValue(&record)
	}

	record, err := c.fetch.fetchOne(ctx, key)
	if err != nil {
		c.log.Debugw("flag fetch failed", "key", key, "error", err)
		c.onError(err)
		return nil, false
	}
	c.cache.set(key, *record)
	return coerceValue(record)
}
