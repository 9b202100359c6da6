// Package api is the gateway to the recommendation backend. All
// operations take a context; cancelling it resolves the call with
// ErrCancelled, which callers must distinguish from real failures.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/cinelab/cine/internal/movie"
)

const defaultUserAgent = "cine/1.0 (github.com/cinelab/cine)"

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type moviesEnvelope struct {
	Movies []movie.Movie `json:"movies"`
}

type recommendationsEnvelope struct {
	Recommendations []movie.Movie `json:"recommendations"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type recommendRequest struct {
	MovieTitle         string `json:"movie_title"`
	NumRecommendations int    `json:"num_recommendations"`
	Offset             int    `json:"offset"`
}

// Initialize asks the backend to load its dataset and build its
// models. Safe to retry after failure.
func (c *Client) Initialize(ctx context.Context) error {
	_, err := c.do(ctx, "initialize", http.MethodPost, "/api/initialize", nil)
	return err
}

// Search returns title matches for query, most relevant first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]movie.Movie, error) {
	path := "/api/movies/search?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)
	body, err := c.do(ctx, "search", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var env moviesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("search: decoding response: %w", err)
	}
	return env.Movies, nil
}

// Popular returns the popularity-ranked listing.
func (c *Client) Popular(ctx context.Context, limit int) ([]movie.Movie, error) {
	path := "/api/movies/popular?limit=" + strconv.Itoa(limit)
	body, err := c.do(ctx, "popular", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var env moviesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("popular: decoding response: %w", err)
	}
	return env.Movies, nil
}

// Recommend returns one page of content-based recommendations for
// seedTitle. The returned page may be shorter than count when the
// ranking is exhausted.
func (c *Client) Recommend(ctx context.Context, seedTitle string, count, offset int) ([]movie.Movie, error) {
	payload, err := json.Marshal(recommendRequest{
		MovieTitle:         seedTitle,
		NumRecommendations: count,
		Offset:             offset,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend: encoding request: %w", err)
	}
	body, err := c.do(ctx, "recommend", http.MethodPost, "/api/recommendations", payload)
	if err != nil {
		return nil, err
	}
	var env recommendationsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("recommend: decoding response: %w", err)
	}
	return env.Recommendations, nil
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, "health", http.MethodGet, "/api/health", nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
			return nil, fmt.Errorf("%s: %w", op, ErrCancelled)
		}
		return nil, &ConnectivityError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%s: %w", op, ErrCancelled)
		}
		return nil, &ConnectivityError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{Op: op, Status: resp.StatusCode, Message: serverMessage(body)}
	}

	return body, nil
}

// serverMessage extracts the error text from a failure payload,
// checking the `error` field first and `message` as a fallback.
func serverMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}
