package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/utafrali/pricing-engine/internal/domain"
	"github.com/utafrali/pricing-engine/pkg/database"
)

// RuleRepository implements repository.RuleRepository using PostgreSQL.
// Conditions and actions are stored as JSONB documents alongside the rule row.
type RuleRepository struct {
	pool database.DBTX
	now  func() time.Time
}

// NewRuleRepository creates a new PostgreSQL-backed rule repository.
func NewRuleRepository(pool database.DBTX) *RuleRepository {
	return &RuleRepository{pool: pool, now: time.Now}
}

// FetchCandidateRules returns active rules targeting the product directly or
// through any of its category paths. The time window and active flag are
// evaluated in SQL so callers only ever see live rules.
func (r *RuleRepository) FetchCandidateRules(ctx context.Context, productID string, categoryPaths []string) ([]domain.DiscountRule, error) {
	query := `
		SELECT rule_id, rule_name, priority, is_stackable, exclusivity_group,
			   conditions, actions, active, start_date, end_date
		FROM discount_rules
		WHERE active = TRUE
		  AND (start_date IS NULL OR start_date <= $3)
		  AND (end_date IS NULL OR end_date >= $3)
		  AND (product_id = $1 OR category_paths ?| $2)
		ORDER BY created_at`

	if categoryPaths == nil {
		categoryPaths = []string{}
	}

	rows, err := r.pool.Query(ctx, query, productID, categoryPaths, r.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("fetch candidate rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.DiscountRule
	for rows.Next() {
		var (
			rule           domain.DiscountRule
			conditionsJSON []byte
			actionsJSON    []byte
		)

		if err := rows.Scan(
			&rule.RuleID,
			&rule.RuleName,
			&rule.Priority,
			&rule.IsStackable,
			&rule.ExclusivityGroup,
			&conditionsJSON,
			&actionsJSON,
			&rule.Active,
			&rule.StartDate,
			&rule.EndDate,
		); err != nil {
			return nil, fmt.Errorf("scan rule row: %w", err)
		}

		if conditionsJSON != nil {
			if err := json.Unmarshal(conditionsJSON, &rule.Conditions); err != nil {
				return nil, fmt.Errorf("unmarshal rule conditions: %w", err)
			}
		}
		if actionsJSON != nil {
			if err := json.Unmarshal(actionsJSON, &rule.Actions); err != nil {
				return nil, fmt.Errorf("unmarshal rule actions: %w", err)
			}
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule rows: %w", err)
	}

	return rules, nil
}
