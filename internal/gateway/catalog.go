package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/pricing-engine/internal/domain"
	"github.com/utafrali/pricing-engine/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CatalogGateway resolves products against the catalog service with a
// read-through Redis cache in front of the HTTP call.
type CatalogGateway struct {
	client   HTTPDoer
	cache    *redis.Client
	baseURL  string
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewCatalogGateway creates a catalog gateway. cache may be nil to disable
// caching.
func NewCatalogGateway(client HTTPDoer, cache *redis.Client, baseURL string, cacheTTL time.Duration, logger *slog.Logger) *CatalogGateway {
	return &CatalogGateway{
		client:   client,
		cache:    cache,
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func catalogCacheKey(productID, region string) string {
	return fmt.Sprintf("catalog:product:%s:%s", region, productID)
}

// ResolveProduct returns the catalog entry for a product in a region.
// Cache failures degrade to the HTTP lookup; a missing product maps to
// a NotFound error.
func (g *CatalogGateway) ResolveProduct(ctx context.Context, productID, region string) (*domain.Product, error) {
	if g.cache != nil {
		cached, err := g.cache.Get(ctx, catalogCacheKey(productID, region)).Bytes()
		if err == nil {
			var product domain.Product
			if err := json.Unmarshal(cached, &product); err == nil {
				return &product, nil
			}
		} else if err != redis.Nil {
			g.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	reqURL := fmt.Sprintf("%s/api/v1/products/%s?region=%s",
		g.baseURL, url.PathEscape(productID), url.QueryEscape(region))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var payload struct {
		Data domain.Product `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	product := payload.Data
	product.ID = productID

	if g.cache != nil {
		encoded, err := json.Marshal(product)
		if err == nil {
			if err := g.cache.Set(ctx, catalogCacheKey(productID, region), encoded, g.cacheTTL).Err(); err != nil {
				g.logger.WarnContext(ctx, "catalog cache write failed",
					slog.String("product_id", productID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return &product, nil
}
