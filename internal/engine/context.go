package engine

import (
	"github.com/utafrali/pricing-engine/internal/domain"
)

// EvaluationContext is the immutable per-checkout view the condition and
// action strategies evaluate against. It is fully populated at construction
// and never mutated mid-pass.
type EvaluationContext struct {
	lines         []domain.PricedLine
	linesByID     map[string]domain.PricedLine
	userTags      map[string]struct{}
	paymentMethod string
	cartSubtotal  domain.Money
}

// NewEvaluationContext builds a context from priced lines and user attributes.
// The cart subtotal is computed once here.
func NewEvaluationContext(lines []domain.PricedLine, userTags []string, paymentMethod string) *EvaluationContext {
	owned := make([]domain.PricedLine, len(lines))
	copy(owned, lines)

	byID := make(map[string]domain.PricedLine, len(owned))
	var subtotal domain.Money
	for _, line := range owned {
		byID[line.ProductID] = line
		subtotal += line.LineTotal()
	}

	tags := make(map[string]struct{}, len(userTags))
	for _, t := range userTags {
		tags[t] = struct{}{}
	}

	return &EvaluationContext{
		lines:         owned,
		linesByID:     byID,
		userTags:      tags,
		paymentMethod: paymentMethod,
		cartSubtotal:  subtotal,
	}
}

// Lines returns the priced cart lines in request order.
// Callers must treat the returned slice as read-only.
func (c *EvaluationContext) Lines() []domain.PricedLine {
	return c.lines
}

// Line returns the priced line for the given product, if present.
func (c *EvaluationContext) Line(productID string) (domain.PricedLine, bool) {
	line, ok := c.linesByID[productID]
	return line, ok
}

// QuantityOf returns the total quantity of the given product in the cart.
func (c *EvaluationContext) QuantityOf(productID string) int {
	if line, ok := c.linesByID[productID]; ok {
		return line.Quantity
	}
	return 0
}

// HasTag reports whether the user carries the given tag.
func (c *EvaluationContext) HasTag(tag string) bool {
	_, ok := c.userTags[tag]
	return ok
}

// PaymentMethod returns the payment method for this checkout.
func (c *EvaluationContext) PaymentMethod() string {
	return c.paymentMethod
}

// CartSubtotal returns the undiscounted cart total.
func (c *EvaluationContext) CartSubtotal() domain.Money {
	return c.cartSubtotal
}
