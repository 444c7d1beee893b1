package engine

import (
	"log/slog"
	"math"

	"github.com/utafrali/pricing-engine/internal/domain"
)

// PriceSanitizer guarantees a non-negative final total. When the combined
// discounts exceed the original total, each itemized discount is scaled down
// proportionally so the relative breakdown survives.
type PriceSanitizer struct {
	logger *slog.Logger
}

// NewPriceSanitizer creates a PriceSanitizer.
func NewPriceSanitizer(logger *slog.Logger) *PriceSanitizer {
	return &PriceSanitizer{logger: logger}
}

// Sanitize recomputes the result's totals and clamps them so that the final
// total is never negative. Sanitize is idempotent: a sanitized result passes
// through unchanged.
func (s *PriceSanitizer) Sanitize(result domain.CheckoutResult) domain.CheckoutResult {
	totalDiscount := result.TotalDiscount
	if len(result.AppliedDiscounts) > 0 {
		totalDiscount = DiscountTotal(result.AppliedDiscounts)
	}

	final := result.OriginalTotal - totalDiscount
	if final >= 0 {
		result.TotalDiscount = totalDiscount
		result.FinalTotal = final
		return result
	}

	s.logger.Warn("discount total exceeds original total, scaling down",
		slog.Int64("original_total", result.OriginalTotal),
		slog.Int64("total_discount", totalDiscount),
	)

	// No itemized breakdown to scale: clamp totals and clear the list.
	if len(result.AppliedDiscounts) == 0 {
		result.AppliedDiscounts = nil
		result.TotalDiscount = result.OriginalTotal
		result.FinalTotal = 0
		return result
	}

	scale := float64(result.OriginalTotal) / float64(totalDiscount)

	adjusted := make([]domain.AppliedDiscount, len(result.AppliedDiscounts))
	var adjustedTotal domain.Money
	for i, d := range result.AppliedDiscounts {
		d.Amount = domain.Money(math.Floor(float64(d.Amount)*scale + 0.5))
		adjusted[i] = d
		adjustedTotal += d.Amount
	}

	// Independent rounding can leave the sum a few units above the ceiling;
	// trim the excess from the tail entries so the totals reconcile exactly.
	excess := adjustedTotal - result.OriginalTotal
	for i := len(adjusted) - 1; i >= 0 && excess > 0; i-- {
		trim := excess
		if trim > adjusted[i].Amount {
			trim = adjusted[i].Amount
		}
		adjusted[i].Amount -= trim
		excess -= trim
	}

	result.AppliedDiscounts = adjusted
	result.TotalDiscount = DiscountTotal(adjusted)
	result.FinalTotal = result.OriginalTotal - result.TotalDiscount
	return result
}
