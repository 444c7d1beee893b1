package domain

import "time"

// Money is a monetary amount in the smallest currency unit (pence).
// All engine arithmetic is integer; no floating point touches stored amounts.
type Money = int64

// CartLine is a single requested cart entry. A cart is an ordered collection
// of CartLines, unique by product ID; duplicates are rejected at the boundary.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PricedLine is a CartLine resolved against the catalog.
type PricedLine struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	UnitPrice    Money  `json:"unit_price"`
	Name         string `json:"name"`
	CategoryPath string `json:"category_path"`
}

// LineTotal returns unit price times quantity for the line.
func (l PricedLine) LineTotal() Money {
	return l.UnitPrice * Money(l.Quantity)
}

// Product is a catalog entry resolved for a region.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UnitPrice    Money  `json:"unit_price"`
	CategoryPath string `json:"category_path"`
}

// AppliedDiscount records the monetary effect of one rule action.
// It is immutable once produced.
type AppliedDiscount struct {
	RuleID      string `json:"rule_id"`
	RuleName    string `json:"rule_name"`
	Description string `json:"description"`
	Amount      Money  `json:"amount"`
}

// CheckoutResult is the final outcome of a price calculation.
// After sanitization, FinalTotal == max(0, OriginalTotal-TotalDiscount) and
// TotalDiscount equals the sum of the applied discount amounts.
type CheckoutResult struct {
	OriginalTotal    Money             `json:"original_total"`
	TotalDiscount    Money             `json:"total_discount"`
	FinalTotal       Money             `json:"final_total"`
	AppliedDiscounts []AppliedDiscount `json:"applied_discounts"`
	Lines            []PricedLine      `json:"lines"`
}

// Order is the persisted record of a completed checkout.
type Order struct {
	ID               string            `json:"id"`
	Region           string            `json:"region"`
	PaymentMethod    string            `json:"payment_method"`
	OriginalTotal    Money             `json:"original_total"`
	TotalDiscount    Money             `json:"total_discount"`
	FinalTotal       Money             `json:"final_total"`
	Lines            []PricedLine      `json:"lines"`
	AppliedDiscounts []AppliedDiscount `json:"applied_discounts"`
	CreatedAt        time.Time         `json:"created_at"`
}
