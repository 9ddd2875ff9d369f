package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// SetBudget вставляет или перезаписывает месячный лимит по категории.
func (s *Storage) SetBudget(ctx context.Context, budget models.BudgetLimit) error {
	const op = "storage.SetBudget"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO budgets (owner, category, monthly_limit)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (owner, category) DO UPDATE SET monthly_limit = EXCLUDED.monthly_limit`
	if _, err := s.DB.ExecContext(ctx, query, budget.Owner, string(budget.Category), budget.MonthlyLimit); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListBudgets возвращает лимиты владельца.
func (s *Storage) ListBudgets(ctx context.Context, owner string) ([]*models.BudgetLimit, error) {
	const op = "storage.ListBudgets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT owner, category, monthly_limit
			  FROM budgets
			  WHERE owner = $1
			  ORDER BY array_position(ARRAY['entertainment', 'productivity', 'health', 'food', 'other'], category)`
	rows, err := s.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.BudgetLimit, 0)
	for rows.Next() {
		var b models.BudgetLimit
		if err := rows.Scan(&b.Owner, &b.Category, &b.MonthlyLimit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
