package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/utafrali/pricing-engine/internal/domain"
	"github.com/utafrali/pricing-engine/pkg/database"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a completed checkout order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	linesJSON, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}
	discountsJSON, err := json.Marshal(order.AppliedDiscounts)
	if err != nil {
		return fmt.Errorf("marshal order discounts: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, region, payment_method, original_total, total_discount,
			final_total, lines, applied_discounts, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		order.ID,
		order.Region,
		order.PaymentMethod,
		order.OriginalTotal,
		order.TotalDiscount,
		order.FinalTotal,
		linesJSON,
		discountsJSON,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}
