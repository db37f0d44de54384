// Package backend fetches product and review records from the upstream
// shop backend that owns the catalog.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

const (
	productsPath = "/api/products/with-stats"
	reviewsPath  = "/api/reviews"
)

// Client talks to the shop backend's REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a backend client.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchProducts returns the full catalog with aggregated rating stats.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, productsPath, &products); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

// FetchReviews returns all customer reviews. Reviews are optional for
// indexing: a failure here is logged and an empty slice returned, so a
// backend without a reviews endpoint still yields a product index.
func (c *Client) FetchReviews(ctx context.Context) []domain.Review {
	var reviews []domain.Review
	if err := c.getJSON(ctx, reviewsPath, &reviews); err != nil {
		c.logger.Warn("No reviews available from backend", zap.Error(err))
		return nil
	}
	return reviews
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
