package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Client is the HTTP record store client. It reads whole collections and
// submits partial updates, creates and deletes; it keeps no local state
// beyond the request in flight. Transient failures are retried a bounded
// number of times and then surfaced to the caller, who keeps its last good
// snapshot until the next cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a store client for the given base URL
func New(baseURL string, logger *zap.Logger) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 2
	retry.RetryWaitMin = 200 * time.Millisecond
	retry.RetryWaitMax = time.Second
	retry.Logger = nil

	return &Client{
		baseURL:    baseURL,
		httpClient: retry.StandardClient(),
		logger:     logger,
	}
}

// fetchCollection reads one collection as raw records. A payload that is
// not a well-formed id-to-record mapping fails with
// domain.ErrMalformedResponse.
func (c *Client) fetchCollection(ctx context.Context, name string) (map[string]json.RawMessage, error) {
	url := fmt.Sprintf("%s/api/data/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("store client: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store client: failed to fetch collection %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store client: unexpected status code %d for collection %q", resp.StatusCode, name)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("store client: collection %q: %w: %v", name, domain.ErrMalformedResponse, err)
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

// collectionOrEmpty fetches a collection, degrading a malformed payload to
// an empty collection for this cycle: logged, never propagated as a
// failure. Network and status errors still propagate.
func (c *Client) collectionOrEmpty(ctx context.Context, name string) (map[string]json.RawMessage, error) {
	raw, err := c.fetchCollection(ctx, name)
	if err == nil {
		return raw, nil
	}
	if errors.Is(err, domain.ErrMalformedResponse) {
		c.logger.Warn("treating malformed collection payload as empty",
			zap.String("collection", name),
			zap.Error(err),
		)
		return map[string]json.RawMessage{}, nil
	}
	return nil, err
}

// FetchOrders reads the orders collection. Individual records that fail to
// decode or validate are quarantined rather than propagated.
func (c *Client) FetchOrders(ctx context.Context) (map[string]domain.Order, error) {
	raw, err := c.collectionOrEmpty(ctx, "orders")
	if err != nil {
		return nil, err
	}

	orders := make(map[string]domain.Order, len(raw))
	for id, data := range raw {
		var order domain.Order
		if err := json.Unmarshal(data, &order); err != nil {
			c.quarantine("orders", id, err)
			continue
		}
		if err := order.Validate(); err != nil {
			c.quarantine("orders", id, err)
			continue
		}
		orders[id] = order
	}
	return orders, nil
}

// FetchCustomers reads the customers collection
func (c *Client) FetchCustomers(ctx context.Context) (map[string]domain.Customer, error) {
	raw, err := c.collectionOrEmpty(ctx, "customers")
	if err != nil {
		return nil, err
	}

	customers := make(map[string]domain.Customer, len(raw))
	for id, data := range raw {
		var customer domain.Customer
		if err := json.Unmarshal(data, &customer); err != nil {
			c.quarantine("customers", id, err)
			continue
		}
		if err := customer.Validate(); err != nil {
			c.quarantine("customers", id, err)
			continue
		}
		customers[id] = customer
	}
	return customers, nil
}

// FetchMenu reads the menu collection
func (c *Client) FetchMenu(ctx context.Context) (map[string]domain.MenuItem, error) {
	raw, err := c.collectionOrEmpty(ctx, "menu")
	if err != nil {
		return nil, err
	}

	items := make(map[string]domain.MenuItem, len(raw))
	for id, data := range raw {
		var item domain.MenuItem
		if err := json.Unmarshal(data, &item); err != nil {
			c.quarantine("menu", id, err)
			continue
		}
		items[id] = item
	}
	return items, nil
}

// FetchSiteSettings reads the site settings document
func (c *Client) FetchSiteSettings(ctx context.Context) (domain.SiteSettings, error) {
	url := fmt.Sprintf("%s/api/site/settings", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("store client: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store client: failed to fetch site settings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store client: unexpected status code %d for site settings", resp.StatusCode)
	}

	var settings domain.SiteSettings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		c.logger.Warn("treating malformed settings payload as empty", zap.Error(err))
		return domain.SiteSettings{}, nil
	}
	return settings, nil
}

// SubmitUpdate sends a partial update for one record
func (c *Client) SubmitUpdate(ctx context.Context, collection, itemID string, updates map[string]any) error {
	return c.post(ctx, "/api/data/update", map[string]any{
		"collection": collection,
		"item_id":    itemID,
		"updates":    updates,
	})
}

// SubmitCreate sends a new record
func (c *Client) SubmitCreate(ctx context.Context, collection string, item any) error {
	return c.post(ctx, "/api/data/add", map[string]any{
		"collection": collection,
		"item":       item,
	})
}

// SubmitDelete removes one record
func (c *Client) SubmitDelete(ctx context.Context, collection, itemID string) error {
	return c.post(ctx, "/api/data/delete", map[string]any{
		"collection": collection,
		"item_id":    itemID,
	})
}

// ack is the store's mutation response envelope
type ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("store client: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("store client: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store client: request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("store client: unexpected status code %d from %s", resp.StatusCode, path)
	}

	// Some store deployments answer 200 with an error envelope.
	var a ack
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&a); err == nil && a.Status == "error" {
		return fmt.Errorf("store client: store rejected mutation: %s", a.Message)
	}
	return nil
}

func (c *Client) quarantine(collection, id string, err error) {
	c.logger.Warn("quarantined malformed record",
		zap.String("collection", collection),
		zap.String("id", id),
		zap.Error(err),
	)
}
