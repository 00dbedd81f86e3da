// Package extcal fetches busy blocks from the external calendar sync
// service, with a Redis read-through cache invalidated by sync events.
package extcal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	rdb     *redis.Client
	logger  *slog.Logger
	ttl     time.Duration
}

// NewClient builds a client for the sync service at baseURL. An empty
// baseURL means no external integration is connected: lookups then return
// empty results rather than errors. rdb may be nil to disable caching.
func NewClient(baseURL string, rdb *redis.Client, logger *slog.Logger, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Client{
		baseURL: baseURL,
		httpc: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		rdb:    rdb,
		logger: logger,
		ttl:    ttl,
	}
}

func (c *Client) Kind() model.BusySource {
	return model.SourceExternalEvent
}

type busyBlock struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// BusyIntervals returns the user's external busy blocks within [from, to).
// Cache misses fall through to the sync service; Redis trouble degrades to
// a direct fetch.
func (c *Client) BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	key := c.cacheKey(ctx, userID, from, to)
	if key != "" {
		if cached, ok := c.fromCache(ctx, key); ok {
			return cached, nil
		}
	}

	ranges, err := c.fetch(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	if key != "" {
		c.store(ctx, key, ranges)
	}
	return ranges, nil
}

// Invalidate drops every cached range for the user by bumping their cache
// generation. Called when a calendar sync completes.
func (c *Client) Invalidate(ctx context.Context, userID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, genKey(userID)).Err()
}

func (c *Client) fetch(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error) {
	u, err := url.Parse(c.baseURL + "/v1/busy")
	if err != nil {
		return nil, fmt.Errorf("extcal: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("user_id", userID)
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extcal: fetch failed: %w", err)
	}
	defer resp.Body.Close()

	// 404 means the user has no integration connected; that is an empty
	// contribution, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extcal: sync service returned %d", resp.StatusCode)
	}

	var blocks []busyBlock
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		return nil, fmt.Errorf("extcal: decoding busy blocks: %w", err)
	}

	ranges := make([]interval.Range, 0, len(blocks))
	for _, b := range blocks {
		if !b.End.After(b.Start) {
			continue
		}
		ranges = append(ranges, interval.Range{Start: b.Start, End: b.End})
	}
	return ranges, nil
}

func (c *Client) cacheKey(ctx context.Context, userID string, from, to time.Time) string {
	if c.rdb == nil {
		return ""
	}
	gen, err := c.rdb.Get(ctx, genKey(userID)).Result()
	if err != nil && err != redis.Nil {
		c.logger.Warn("extcal cache generation lookup failed", "err", err)
		return ""
	}
	if gen == "" {
		gen = "0"
	}
	return "extcal:busy:" + userID + ":" + gen + ":" +
		strconv.FormatInt(from.Unix(), 10) + ":" + strconv.FormatInt(to.Unix(), 10)
}

func (c *Client) fromCache(ctx context.Context, key string) ([]interval.Range, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("extcal cache read failed", "err", err)
		}
		return nil, false
	}
	var ranges []interval.Range
	if err := json.Unmarshal(raw, &ranges); err != nil {
		c.logger.Warn("extcal cache payload corrupt; refetching", "err", err)
		return nil, false
	}
	return ranges, true
}

func (c *Client) store(ctx context.Context, key string, ranges []interval.Range) {
	raw, err := json.Marshal(ranges)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("extcal cache write failed", "err", err)
	}
}

func genKey(userID string) string {
	return "extcal:gen:" + userID
}
