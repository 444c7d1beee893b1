package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/utafrali/pricing-engine/pkg/httpclient"
)

// InventoryGateway answers stock questions and applies stock adjustments via
// the inventory service.
type InventoryGateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewInventoryGateway creates an inventory gateway.
func NewInventoryGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *InventoryGateway {
	return &InventoryGateway{client: client, baseURL: baseURL, logger: logger}
}

// CheckStock reports whether the requested quantity is available. It never
// errors: any failure, including absence of data, means "not in stock".
func (g *InventoryGateway) CheckStock(ctx context.Context, productID, region string, quantity int) bool {
	reqURL := fmt.Sprintf("%s/api/v1/stock/%s?region=%s&quantity=%d",
		g.baseURL, url.PathEscape(productID), url.QueryEscape(region), quantity)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return false
	}

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		g.logger.WarnContext(ctx, "stock check failed, treating as out of stock",
			slog.String("product_id", productID),
			slog.String("region", region),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var payload struct {
		Data struct {
			InStock bool `json:"in_stock"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false
	}

	return payload.Data.InStock
}

// DecrementInventory subtracts the purchased quantity from the region's
// stock. Callers treat failures as best-effort and only log them.
func (g *InventoryGateway) DecrementInventory(ctx context.Context, productID, region string, quantity int) error {
	body, err := json.Marshal(struct {
		Region string `json:"region"`
		Delta  int    `json:"delta"`
	}{Region: region, Delta: -quantity})
	if err != nil {
		return fmt.Errorf("marshal decrement request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v1/stock/%s/adjust", g.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create decrement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "inventory")
	}

	return nil
}
