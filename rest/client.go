package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/PluralKit/PluralKit-sub000/discord"
)

// DefaultBaseURL is the Discord REST API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// ErrNotFound is returned when the API reports the member does not exist.
var ErrNotFound = errors.New("rest: not found")

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// Client performs authenticated Discord REST calls. Safe for concurrent
// use.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Client authenticating with the given bot token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(20), 5),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Member fetches a guild member. Implements cache.MemberSource.
func (c *Client) Member(ctx context.Context, guildID, userID discord.Snowflake) (*discord.Member, error) {
	var m discord.Member
	path := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	if err := c.get(ctx, path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rest: rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("rest: %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest: decode %s: %w", path, err)
	}
	return nil
}
