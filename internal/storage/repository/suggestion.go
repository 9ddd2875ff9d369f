package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// CreateSuggestions сохраняет рекомендации, выдавая им подряд идущие ID общего счётчика.
//
// Счётчик хранится строкой в suggestion_id_sequence и сдвигается в той же транзакции,
// что и вставка, поэтому при откате ни один ID не расходуется.
func (s *Storage) CreateSuggestions(ctx context.Context, suggestions []*models.Suggestion) error {
	const op = "storage.CreateSuggestions"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if len(suggestions) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	var last int64
	err = tx.QueryRowContext(ctx, `UPDATE suggestion_id_sequence
			  SET last_value = last_value + $1
			  WHERE singleton
			  RETURNING last_value`, len(suggestions)).Scan(&last)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	next := last - int64(len(suggestions)) + 1
	for i, sg := range suggestions {
		id := next + int64(i)
		_, err := tx.ExecContext(ctx, `INSERT INTO suggestions
			      (id, owner, subscription_id, type, estimated_savings, reason, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, sg.Owner, sg.SubscriptionID, string(sg.Type), sg.EstimatedSavings, sg.Reason, sg.CreatedAt)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, sg := range suggestions {
		sg.ID = next + int64(i)
	}
	return nil
}

// ListSuggestions возвращает рекомендации владельца в порядке возрастания ID.
func (s *Storage) ListSuggestions(ctx context.Context, owner string) ([]*models.Suggestion, error) {
	const op = "storage.ListSuggestions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner, subscription_id, type, estimated_savings, reason, created_at
			  FROM suggestions
			  WHERE owner = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Suggestion, 0)
	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.Owner, &sg.SubscriptionID, &sg.Type,
			&sg.EstimatedSavings, &sg.Reason, &sg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
