package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/pricing-engine/internal/domain"
	"github.com/utafrali/pricing-engine/internal/engine"
	"github.com/utafrali/pricing-engine/internal/repository"
	apperrors "github.com/utafrali/pricing-engine/pkg/errors"
)

// CatalogGateway resolves products against the catalog service.
type CatalogGateway interface {
	ResolveProduct(ctx context.Context, productID, region string) (*domain.Product, error)
}

// InventoryGateway answers stock questions and applies stock adjustments.
type InventoryGateway interface {
	CheckStock(ctx context.Context, productID, region string, quantity int) bool
	DecrementInventory(ctx context.Context, productID, region string, quantity int) error
}

// EventPublisher publishes checkout domain events.
type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, order *domain.Order) error
}

// CheckoutService drives the end-to-end price calculation: price the cart,
// verify stock, fetch and filter rules, resolve conflicts, pick the better
// of the stackable and non-stackable outcomes, sanitize, and record the
// order.
type CheckoutService struct {
	rules     repository.RuleRepository
	orders    repository.OrderRepository
	catalog   CatalogGateway
	inventory InventoryGateway
	publisher EventPublisher
	evaluator *engine.ConditionEvaluator
	resolver  *engine.ConflictResolver
	applier   *engine.ActionApplier
	sanitizer *engine.PriceSanitizer
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// NewCheckoutService creates a checkout service. shippingCost is the flat
// amount credited by free-shipping actions.
func NewCheckoutService(
	rules repository.RuleRepository,
	orders repository.OrderRepository,
	catalog CatalogGateway,
	inventory InventoryGateway,
	publisher EventPublisher,
	shippingCost domain.Money,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		rules:     rules,
		orders:    orders,
		catalog:   catalog,
		inventory: inventory,
		publisher: publisher,
		evaluator: engine.NewConditionEvaluator(logger),
		resolver:  engine.NewConflictResolver(),
		applier:   engine.NewActionApplier(shippingCost, logger),
		sanitizer: engine.NewPriceSanitizer(logger),
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// CalculateFinalPrice prices the cart, applies the best discount combination,
// and persists the resulting order. Pricing-phase failures (unknown product,
// insufficient stock, empty cart) abort with a typed error before any rule
// work or side effects happen.
func (s *CheckoutService) CalculateFinalPrice(
	ctx context.Context,
	cart []domain.CartLine,
	userTags []string,
	paymentMethod, region string,
) (*domain.CheckoutResult, error) {
	if err := validateCart(cart); err != nil {
		return nil, err
	}

	lines, err := s.priceCart(ctx, cart, region)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if !s.inventory.CheckStock(ctx, line.ProductID, region, line.Quantity) {
			return nil, apperrors.OutOfStock(line.ProductID, region, line.Quantity)
		}
	}

	candidates, err := s.fetchCandidateRules(ctx, lines)
	if err != nil {
		return nil, err
	}

	evalCtx := engine.NewEvaluationContext(lines, userTags, paymentMethod)

	var stackable, nonStackable []domain.DiscountRule
	for _, rule := range candidates {
		if !s.evaluator.AreConditionsMet(rule, evalCtx) {
			continue
		}
		if rule.IsStackable {
			stackable = append(stackable, rule)
		} else {
			nonStackable = append(nonStackable, rule)
		}
	}

	winners := s.resolver.ResolveNonStackable(nonStackable)
	applied := s.selectBestOutcome(stackable, winners, evalCtx)

	result := s.sanitizer.Sanitize(domain.CheckoutResult{
		OriginalTotal:    evalCtx.CartSubtotal(),
		TotalDiscount:    engine.DiscountTotal(applied),
		AppliedDiscounts: applied,
		Lines:            lines,
	})

	if err := s.completeCheckout(ctx, &result, paymentMethod, region); err != nil {
		return nil, err
	}

	return &result, nil
}

// validateCart rejects empty carts, non-positive quantities, and duplicate
// product lines. Duplicate lines must be merged by the caller.
func validateCart(cart []domain.CartLine) error {
	if len(cart) == 0 {
		return apperrors.InvalidInput("cart is empty")
	}

	seen := make(map[string]struct{}, len(cart))
	for _, line := range cart {
		if line.ProductID == "" {
			return apperrors.InvalidInput("cart line is missing a product id")
		}
		if line.Quantity <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("quantity for product %s must be positive", line.ProductID))
		}
		if _, dup := seen[line.ProductID]; dup {
			return apperrors.InvalidInput(fmt.Sprintf("duplicate cart line for product %s", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}
	}

	return nil
}

// priceCart resolves every cart line against the catalog, preserving the
// request order of lines.
func (s *CheckoutService) priceCart(ctx context.Context, cart []domain.CartLine, region string) ([]domain.PricedLine, error) {
	lines := make([]domain.PricedLine, 0, len(cart))
	for _, item := range cart {
		product, err := s.catalog.ResolveProduct(ctx, item.ProductID, region)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("unknown product %s", item.ProductID))
			}
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}
		lines = append(lines, domain.PricedLine{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    product.UnitPrice,
			Name:         product.Name,
			CategoryPath: product.CategoryPath,
		})
	}
	return lines, nil
}

// fetchCandidateRules collects active rules for every line's product and
// category hierarchy, deduplicated by rule ID in encounter order.
func (s *CheckoutService) fetchCandidateRules(ctx context.Context, lines []domain.PricedLine) ([]domain.DiscountRule, error) {
	var candidates []domain.DiscountRule
	seen := make(map[string]struct{})

	for _, line := range lines {
		rules, err := s.rules.FetchCandidateRules(ctx, line.ProductID, categoryHierarchy(line.CategoryPath))
		if err != nil {
			return nil, fmt.Errorf("fetch rules for product %s: %w", line.ProductID, err)
		}
		for _, rule := range rules {
			if _, dup := seen[rule.RuleID]; dup {
				continue
			}
			seen[rule.RuleID] = struct{}{}
			candidates = append(candidates, rule)
		}
	}

	return candidates, nil
}

// selectBestOutcome applies both candidate combinations and keeps whichever
// yields the larger total discount. The stackable set and the non-stackable
// winners are alternative pricing strategies, not layers; ties go to the
// stackable set.
func (s *CheckoutService) selectBestOutcome(stackable, winners []domain.DiscountRule, evalCtx *engine.EvaluationContext) []domain.AppliedDiscount {
	stackableDiscounts := s.applier.Apply(stackable, evalCtx)
	winnerDiscounts := s.applier.Apply(winners, evalCtx)

	if engine.DiscountTotal(winnerDiscounts) > engine.DiscountTotal(stackableDiscounts) {
		return winnerDiscounts
	}
	return stackableDiscounts
}

// completeCheckout runs the post-pricing side effects. Inventory decrements
// are best-effort; a failed order insert surfaces to the caller because the
// transaction did not complete. The completion event is best-effort too.
func (s *CheckoutService) completeCheckout(ctx context.Context, result *domain.CheckoutResult, paymentMethod, region string) error {
	for _, line := range result.Lines {
		if err := s.inventory.DecrementInventory(ctx, line.ProductID, region, line.Quantity); err != nil {
			s.logger.WarnContext(ctx, "inventory decrement failed",
				slog.String("product_id", line.ProductID),
				slog.String("region", region),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()),
			)
		}
	}

	order := &domain.Order{
		ID:               s.newID(),
		Region:           region,
		PaymentMethod:    paymentMethod,
		OriginalTotal:    result.OriginalTotal,
		TotalDiscount:    result.TotalDiscount,
		FinalTotal:       result.FinalTotal,
		Lines:            result.Lines,
		AppliedDiscounts: result.AppliedDiscounts,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCheckoutCompleted(ctx, order); err != nil {
			s.logger.WarnContext(ctx, "failed to publish checkout.completed event",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("order_id", order.ID),
		slog.Int64("original_total", order.OriginalTotal),
		slog.Int64("total_discount", order.TotalDiscount),
		slog.Int64("final_total", order.FinalTotal),
	)

	return nil
}

// categoryHierarchy expands a category path into itself plus every ancestor
// prefix, most specific first: "food/fruit" -> ["food/fruit", "food"].
func categoryHierarchy(path string) []string {
	if path == "" {
		return nil
	}

	segments := strings.Split(path, "/")
	hierarchy := make([]string, 0, len(segments))
	for i := len(segments); i > 0; i-- {
		hierarchy = append(hierarchy, strings.Join(segments[:i], "/"))
	}
	return hierarchy
}
