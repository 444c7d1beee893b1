package repository

import (
	"context"

	"github.com/utafrali/pricing-engine/internal/domain"
)

// RuleRepository defines the interface for discount rule lookups.
type RuleRepository interface {
	// FetchCandidateRules returns the currently-active rules targeting the
	// given product or any of its category paths. Active-flag and time-window
	// filtering happen here, not in the engine.
	FetchCandidateRules(ctx context.Context, productID string, categoryPaths []string) ([]domain.DiscountRule, error)
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// Create inserts a completed checkout order into the store.
	Create(ctx context.Context, order *domain.Order) error
}
