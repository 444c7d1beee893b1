package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestDiscountRule_IsActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		rule DiscountRule
		want bool
	}{
		{
			name: "active with no window",
			rule: DiscountRule{Active: true},
			want: true,
		},
		{
			name: "inactive flag overrides window",
			rule: DiscountRule{Active: false, StartDate: timePtr(before), EndDate: timePtr(after)},
			want: false,
		},
		{
			name: "inside window",
			rule: DiscountRule{Active: true, StartDate: timePtr(before), EndDate: timePtr(after)},
			want: true,
		},
		{
			name: "before start",
			rule: DiscountRule{Active: true, StartDate: timePtr(after)},
			want: false,
		},
		{
			name: "after end",
			rule: DiscountRule{Active: true, EndDate: timePtr(before)},
			want: false,
		},
		{
			name: "open-ended start",
			rule: DiscountRule{Active: true, EndDate: timePtr(after)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.IsActiveAt(now))
		})
	}
}

func TestPricedLine_LineTotal(t *testing.T) {
	line := PricedLine{ProductID: "APPLE", Quantity: 3, UnitPrice: 35}
	assert.Equal(t, Money(105), line.LineTotal())
}
