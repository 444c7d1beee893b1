package engine

import (
	"github.com/utafrali/pricing-engine/internal/domain"
)

// ConflictResolver picks the single winning rule per exclusivity group among
// non-stackable candidates.
type ConflictResolver struct{}

// NewConflictResolver creates a ConflictResolver.
func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{}
}

// ResolveNonStackable groups candidates by exclusivity group and selects the
// highest-priority rule in each group. Ties keep the first-encountered rule.
// A rule without a priority always loses to any rule with one. Winners are
// returned in group encounter order.
func (r *ConflictResolver) ResolveNonStackable(candidates []domain.DiscountRule) []domain.DiscountRule {
	winners := make(map[string]domain.DiscountRule)
	var groupOrder []string

	for _, rule := range candidates {
		group := rule.ExclusivityGroup
		current, seen := winners[group]
		if !seen {
			winners[group] = rule
			groupOrder = append(groupOrder, group)
			continue
		}
		if outranks(rule.Priority, current.Priority) {
			winners[group] = rule
		}
	}

	result := make([]domain.DiscountRule, 0, len(groupOrder))
	for _, group := range groupOrder {
		result = append(result, winners[group])
	}
	return result
}

// outranks reports whether priority a strictly beats priority b.
// Nil never outranks anything; any defined priority outranks nil.
func outranks(a, b *int) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a > *b
}
