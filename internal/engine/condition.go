package engine

import (
	"log/slog"
	"strings"

	"github.com/utafrali/pricing-engine/internal/domain"
)

type conditionFunc func(cond domain.Condition, ctx *EvaluationContext) bool

// ConditionEvaluator decides whether a rule's preconditions hold for the
// current checkout. Each condition kind dispatches to a strategy via a
// closed lookup table.
type ConditionEvaluator struct {
	logger     *slog.Logger
	strategies map[string]conditionFunc
}

// NewConditionEvaluator creates a ConditionEvaluator with all supported
// condition strategies registered.
func NewConditionEvaluator(logger *slog.Logger) *ConditionEvaluator {
	e := &ConditionEvaluator{logger: logger}
	e.strategies = map[string]conditionFunc{
		domain.ConditionUserHasTag:      e.userHasTag,
		domain.ConditionCartSubtotal:    e.cartSubtotal,
		domain.ConditionCartContains:    e.cartContains,
		domain.ConditionPaymentMethodIs: e.paymentMethodIs,
	}
	return e
}

// AreConditionsMet reports whether every condition on the rule holds.
// An empty condition list is always satisfied. An unrecognized condition
// kind rejects the whole rule: an unknown condition must never be silently
// treated as satisfied.
func (e *ConditionEvaluator) AreConditionsMet(rule domain.DiscountRule, ctx *EvaluationContext) bool {
	for _, cond := range rule.Conditions {
		strategy, ok := e.strategies[cond.Kind]
		if !ok {
			e.logger.Warn("unknown condition kind, rejecting rule",
				slog.String("rule_id", rule.RuleID),
				slog.String("condition_kind", cond.Kind),
			)
			return false
		}
		if !strategy(cond, ctx) {
			return false
		}
	}
	return true
}

func (e *ConditionEvaluator) userHasTag(cond domain.Condition, ctx *EvaluationContext) bool {
	return ctx.HasTag(cond.Tag)
}

func (e *ConditionEvaluator) cartSubtotal(cond domain.Condition, ctx *EvaluationContext) bool {
	switch cond.Operator {
	case domain.OperatorGreaterThanOrEqual:
		return ctx.CartSubtotal() >= cond.Amount
	default:
		e.logger.Warn("unsupported subtotal operator, rejecting rule",
			slog.String("operator", cond.Operator),
		)
		return false
	}
}

func (e *ConditionEvaluator) cartContains(cond domain.Condition, ctx *EvaluationContext) bool {
	return ctx.QuantityOf(cond.ProductID) >= cond.MinQuantity
}

func (e *ConditionEvaluator) paymentMethodIs(cond domain.Condition, ctx *EvaluationContext) bool {
	return strings.EqualFold(cond.Method, ctx.PaymentMethod())
}
