package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/pricing-engine/internal/domain"
	apperrors "github.com/utafrali/pricing-engine/pkg/errors"
	"github.com/utafrali/pricing-engine/pkg/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func fastClient() *httpclient.Client {
	return httpclient.New(httpclient.Config{
		Timeout:         time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 10,
	})
}

func TestResolveProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/MELON", r.URL.Path)
		assert.Equal(t, "UK", r.URL.Query().Get("region"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"name":          "Melon",
				"unit_price":    50,
				"category_path": "food/fruit",
			},
		})
	}))
	defer srv.Close()

	g := NewCatalogGateway(fastClient(), nil, srv.URL, time.Minute, discardLogger())

	product, err := g.ResolveProduct(context.Background(), "MELON", "UK")
	require.NoError(t, err)
	assert.Equal(t, "MELON", product.ID)
	assert.Equal(t, "Melon", product.Name)
	assert.Equal(t, domain.Money(50), product.UnitPrice)
	assert.Equal(t, "food/fruit", product.CategoryPath)
}

func TestResolveProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"product not found"}}`))
	}))
	defer srv.Close()

	g := NewCatalogGateway(fastClient(), nil, srv.URL, time.Minute, discardLogger())

	_, err := g.ResolveProduct(context.Background(), "GHOST", "UK")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckStock(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "in stock",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"in_stock": true}})
			},
			want: true,
		},
		{
			name: "explicitly out of stock",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"in_stock": false}})
			},
			want: false,
		},
		{
			name: "missing data means not in stock",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: false,
		},
		{
			name: "malformed body means not in stock",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g := NewInventoryGateway(fastClient(), srv.URL, discardLogger())
			assert.Equal(t, tt.want, g.CheckStock(context.Background(), "MELON", "UK", 2))
		})
	}
}

func TestCheckStock_ServiceDown(t *testing.T) {
	g := NewInventoryGateway(fastClient(), "http://127.0.0.1:1", discardLogger())
	assert.False(t, g.CheckStock(context.Background(), "MELON", "UK", 1))
}

func TestDecrementInventory(t *testing.T) {
	var gotDelta atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stock/MELON/adjust", r.URL.Path)

		var body struct {
			Region string `json:"region"`
			Delta  int    `json:"delta"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "UK", body.Region)
		gotDelta.Store(int64(body.Delta))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewInventoryGateway(fastClient(), srv.URL, discardLogger())
	require.NoError(t, g.DecrementInventory(context.Background(), "MELON", "UK", 2))
	assert.Equal(t, int64(-2), gotDelta.Load())
}

func TestDecrementInventory_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"CONFLICT","message":"stock row locked"}}`))
	}))
	defer srv.Close()

	g := NewInventoryGateway(fastClient(), srv.URL, discardLogger())
	err := g.DecrementInventory(context.Background(), "MELON", "UK", 2)
	require.Error(t, err)
}
