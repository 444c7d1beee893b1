package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/utafrali/pricing-engine/internal/domain"
)

type actionFunc func(rule domain.DiscountRule, action domain.Action, ctx *EvaluationContext) (domain.Money, string)

// ActionApplier computes the monetary effect of rule actions against priced
// cart lines. Each action kind dispatches to a strategy via a closed lookup
// table; unknown kinds are skipped with a warning rather than failing the
// rule, since actions are independent of each other.
type ActionApplier struct {
	logger       *slog.Logger
	shippingCost domain.Money
	strategies   map[string]actionFunc
}

// NewActionApplier creates an ActionApplier. shippingCost is the flat amount
// credited by APPLY_FREE_SHIPPING actions.
func NewActionApplier(shippingCost domain.Money, logger *slog.Logger) *ActionApplier {
	a := &ActionApplier{logger: logger, shippingCost: shippingCost}
	a.strategies = map[string]actionFunc{
		domain.ActionPercentageOffProduct:  a.percentageOffProduct,
		domain.ActionPercentageOffCategory: a.percentageOffCategory,
		domain.ActionBuyXGetYFree:          a.buyXGetYFree,
		domain.ActionFixedAmountOffCart:    a.fixedAmountOffCart,
		domain.ActionApplyFreeShipping:     a.applyFreeShipping,
	}
	return a
}

// Apply flattens all actions across the given rules and computes one
// AppliedDiscount per recognized action.
func (a *ActionApplier) Apply(rules []domain.DiscountRule, ctx *EvaluationContext) []domain.AppliedDiscount {
	var applied []domain.AppliedDiscount
	for _, rule := range rules {
		for _, action := range rule.Actions {
			strategy, ok := a.strategies[action.Kind]
			if !ok {
				a.logger.Warn("unknown action kind, skipping action",
					slog.String("rule_id", rule.RuleID),
					slog.String("action_kind", action.Kind),
				)
				continue
			}
			amount, description := strategy(rule, action, ctx)
			applied = append(applied, domain.AppliedDiscount{
				RuleID:      rule.RuleID,
				RuleName:    rule.RuleName,
				Description: description,
				Amount:      amount,
			})
		}
	}
	return applied
}

// DiscountTotal sums the amounts of the given applied discounts.
func DiscountTotal(discounts []domain.AppliedDiscount) domain.Money {
	var total domain.Money
	for _, d := range discounts {
		total += d.Amount
	}
	return total
}

// roundHalfUp rounds a real-valued amount to the nearest integer unit,
// with halves rounding away from zero toward the next unit.
func roundHalfUp(v float64) domain.Money {
	return domain.Money(math.Floor(v + 0.5))
}

// percentageOffProduct discounts a percentage of the named product's catalog
// unit price, once per invocation regardless of quantity.
func (a *ActionApplier) percentageOffProduct(_ domain.DiscountRule, action domain.Action, ctx *EvaluationContext) (domain.Money, string) {
	line, ok := ctx.Line(action.ProductID)
	if !ok {
		return 0, fmt.Sprintf("%.0f%% off %s (not in cart)", action.Percent, action.ProductID)
	}
	amount := roundHalfUp(float64(line.UnitPrice) * action.Percent / 100)
	return amount, fmt.Sprintf("%.0f%% off %s", action.Percent, line.Name)
}

// percentageOffCategory discounts a percentage of the combined line totals of
// every line in the named category. Zero matching lines yields zero discount.
func (a *ActionApplier) percentageOffCategory(_ domain.DiscountRule, action domain.Action, ctx *EvaluationContext) (domain.Money, string) {
	var base domain.Money
	for _, line := range ctx.Lines() {
		if line.CategoryPath == action.CategoryPath {
			base += line.LineTotal()
		}
	}
	amount := roundHalfUp(float64(base) * action.Percent / 100)
	return amount, fmt.Sprintf("%.0f%% off %s", action.Percent, action.CategoryPath)
}

// buyXGetYFree credits the price of the free units. A bundle is
// buyQuantity+getQuantity units; the cart quantity determines how many full
// bundles apply. Quantities below one bundle earn nothing.
func (a *ActionApplier) buyXGetYFree(_ domain.DiscountRule, action domain.Action, ctx *EvaluationContext) (domain.Money, string) {
	product := action.ProductID

	if action.BuyQuantity <= 0 || action.GetQuantity <= 0 {
		return 0, bogoDescription(action, product)
	}

	line, ok := ctx.Line(action.ProductID)
	if !ok {
		return 0, bogoDescription(action, product)
	}

	bundleSize := action.BuyQuantity + action.GetQuantity
	offers := line.Quantity / bundleSize
	freeUnits := offers * action.GetQuantity

	return line.UnitPrice * domain.Money(freeUnits), bogoDescription(action, line.Name)
}

func bogoDescription(action domain.Action, product string) string {
	return fmt.Sprintf("Buy %d Get %d Free on %s", action.BuyQuantity, action.GetQuantity, product)
}

// fixedAmountOffCart discounts a flat amount once per invocation. Any
// overflow past the cart total is clamped later by the sanitizer.
func (a *ActionApplier) fixedAmountOffCart(_ domain.DiscountRule, action domain.Action, _ *EvaluationContext) (domain.Money, string) {
	return action.Amount, fmt.Sprintf("%d off your order", action.Amount)
}

// applyFreeShipping credits the configured flat shipping cost without
// inspecting cart contents.
func (a *ActionApplier) applyFreeShipping(_ domain.DiscountRule, _ domain.Action, _ *EvaluationContext) (domain.Money, string) {
	return a.shippingCost, "Free shipping"
}
