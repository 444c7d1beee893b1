package domain

import "time"

// Condition kind constants.
const (
	ConditionUserHasTag      = "USER_HAS_TAG"
	ConditionCartSubtotal    = "CART_SUBTOTAL"
	ConditionCartContains    = "CART_CONTAINS"
	ConditionPaymentMethodIs = "PAYMENT_METHOD_IS"
)

// Action kind constants.
const (
	ActionPercentageOffProduct  = "PERCENTAGE_OFF_PRODUCT"
	ActionPercentageOffCategory = "PERCENTAGE_OFF_CATEGORY"
	ActionBuyXGetYFree          = "BUY_X_GET_Y_FREE"
	ActionFixedAmountOffCart    = "FIXED_AMOUNT_OFF_CART"
	ActionApplyFreeShipping     = "APPLY_FREE_SHIPPING"
)

// Comparison operator constants for CART_SUBTOTAL conditions.
const (
	OperatorGreaterThanOrEqual = "GREATER_THAN_OR_EQUAL"
)

// Condition is a tagged precondition variant. Kind selects which of the
// remaining fields are meaningful.
type Condition struct {
	Kind        string `json:"kind"`
	Tag         string `json:"tag,omitempty"`
	Operator    string `json:"operator,omitempty"`
	Amount      Money  `json:"amount,omitempty"`
	ProductID   string `json:"product_id,omitempty"`
	MinQuantity int    `json:"min_quantity,omitempty"`
	Method      string `json:"method,omitempty"`
}

// Action is a tagged discount effect variant. Kind selects which of the
// remaining fields are meaningful.
type Action struct {
	Kind         string  `json:"kind"`
	ProductID    string  `json:"product_id,omitempty"`
	CategoryPath string  `json:"category_path,omitempty"`
	Percent      float64 `json:"percent,omitempty"`
	BuyQuantity  int     `json:"buy_quantity,omitempty"`
	GetQuantity  int     `json:"get_quantity,omitempty"`
	Amount       Money   `json:"amount,omitempty"`
}

// DiscountRule is a promotional rule snapshot. The engine treats rules as
// read-only; ownership and mutation live with the administration surface.
//
// A non-stackable rule must carry a non-empty ExclusivityGroup; rules sharing
// a group are mutually exclusive and at most one fires per checkout. A nil
// Priority always loses to any defined priority within the same group.
type DiscountRule struct {
	RuleID           string      `json:"rule_id"`
	RuleName         string      `json:"rule_name"`
	Priority         *int        `json:"priority,omitempty"`
	IsStackable      bool        `json:"is_stackable"`
	ExclusivityGroup string      `json:"exclusivity_group,omitempty"`
	Conditions       []Condition `json:"conditions"`
	Actions          []Action    `json:"actions"`
	Active           bool        `json:"active"`
	StartDate        *time.Time  `json:"start_date,omitempty"`
	EndDate          *time.Time  `json:"end_date,omitempty"`
}

// IsActiveAt reports whether the rule is active at the given instant.
// An absent start or end date is unbounded on that side.
func (r DiscountRule) IsActiveAt(t time.Time) bool {
	if !r.Active {
		return false
	}
	if r.StartDate != nil && t.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && t.After(*r.EndDate) {
		return false
	}
	return true
}
